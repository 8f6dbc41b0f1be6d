package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreDelta(t *testing.T) {
	tests := []struct {
		name           string
		winner, loser  int
		want           int
	}{
		{"equal scores", 0, 0, 15},
		{"equal non-zero scores", 250, 250, 15},
		{"favorite wins", 400, 0, 3},
		{"underdog wins", 0, 400, 27},
		{"huge favorite wins", 2000, 0, 0},
		{"huge underdog wins", 0, 2000, 30},
		{"negative scores", -100, -100, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreDelta(tt.winner, tt.loser))
		})
	}
}

func TestScoreDelta_Symmetry(t *testing.T) {
	// The winner gains exactly what the loser drops; a rematch win by the
	// prior loser yields the mirrored delta.
	d1 := ScoreDelta(100, 300)
	d2 := ScoreDelta(300, 100)
	assert.Equal(t, 30, d1+d2)
}
