package game

// Board geometry. The board is stored row-major as a flat array of cells,
// each holding one of the three marker bytes below.
const (
	BoardRows = 19
	BoardCols = 19
	BoardSize = BoardRows * BoardCols

	// CenterIndex is the cell seeded with the host marker at game start.
	CenterIndex = BoardSize / 2
)

// Cell markers as serialized on the wire.
const (
	Empty      = '-'
	HostMark   = 'x'
	JoinerMark = 'o'
)

// directions covers all 8 capture directions around a placed stone.
var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// axes are the four alignment axis pairs; the negative direction of each
// is scanned by negating the step.
var axes = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Board is a 19x19 Pente board.
type Board [BoardSize]byte

// NewBoard returns an all-empty board with the host marker pre-placed at
// the exact center. The seed counts as the host's first move, so the
// joiner moves next.
func NewBoard() Board {
	var b Board
	for i := range b {
		b[i] = Empty
	}
	b[CenterIndex] = HostMark
	return b
}

// InBounds reports whether (row, col) addresses a cell.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardRows && col >= 0 && col < BoardCols
}

// At returns the marker at (row, col). Caller must ensure bounds.
func (b *Board) At(row, col int) byte {
	return b[row*BoardCols+col]
}

func (b *Board) set(row, col int, mark byte) {
	b[row*BoardCols+col] = mark
}

// String serializes the board as a 361-character row-major string, the
// form carried in board and board_state response fields.
func (b *Board) String() string {
	return string(b[:])
}

// resolveCaptures inspects all 8 directions from the freshly placed stone
// at (row, col) and clears every flanked opponent pair
// (own-opp-opp-own along the direction). Returns the number of captures;
// a single move can capture in several directions at once. The scan runs
// once per move, captures never cascade.
func (b *Board) resolveCaptures(row, col int, own, opp byte) int {
	captured := 0
	for _, d := range directions {
		r1, c1 := row+d[0], col+d[1]
		r2, c2 := row+2*d[0], col+2*d[1]
		r3, c3 := row+3*d[0], col+3*d[1]
		if !InBounds(r3, c3) {
			continue
		}
		if b.At(r1, c1) == opp && b.At(r2, c2) == opp && b.At(r3, c3) == own {
			// The far own stone is the flanking clamp and stays put.
			b.set(r1, c1, Empty)
			b.set(r2, c2, Empty)
			captured++
		}
	}
	return captured
}

// alignedFive reports whether the stone at (row, col) completes a run of
// five or more own markers along any of the four axes. Each axis counts
// consecutive matches up to 4 steps in both directions plus the placed
// stone itself.
func (b *Board) alignedFive(row, col int, own byte) bool {
	for _, a := range axes {
		run := 1
		for step := 1; step <= 4; step++ {
			r, c := row+step*a[0], col+step*a[1]
			if !InBounds(r, c) || b.At(r, c) != own {
				break
			}
			run++
		}
		for step := 1; step <= 4; step++ {
			r, c := row-step*a[0], col-step*a[1]
			if !InBounds(r, c) || b.At(r, c) != own {
				break
			}
			run++
		}
		if run >= 5 {
			return true
		}
	}
	return false
}
