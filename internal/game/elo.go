package game

import "math"

// ScoreDelta computes the symmetric Elo-style adjustment applied when a
// match ends: round(30 / (1 + 10^((Sw - Sp)/400))) where Sw is the
// winner's score and Sp the loser's. The winner gains the delta and the
// loser drops by the same amount. Scores are signed and not floored.
func ScoreDelta(winnerScore, loserScore int) int {
	exp := float64(winnerScore-loserScore) / 400.0
	return int(math.Round(30.0 / (1.0 + math.Pow(10, exp))))
}
