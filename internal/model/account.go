package model

// PlayerStats holds the cumulative match statistics of an account.
// Field tags match the wire payload sent to clients.
type PlayerStats struct {
	Score       int `json:"score"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Forfeits    int `json:"forfeits"`
	GamesPlayed int `json:"games_played"`
}

// Account represents a player account stored in the database.
// Invariant: GamesPlayed = Wins + Losses (forfeits are counted inside losses).
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Stats        PlayerStats
}

// RecordWin applies a victory outcome: the score delta is added and the
// played-games counter advances with the win.
func (a *Account) RecordWin(delta int) {
	a.Stats.Score += delta
	a.Stats.Wins++
	a.Stats.GamesPlayed++
}

// RecordLoss applies a defeat outcome. When forfeited is set the loss also
// counts as a forfeit.
func (a *Account) RecordLoss(delta int, forfeited bool) {
	a.Stats.Score -= delta
	a.Stats.Losses++
	a.Stats.GamesPlayed++
	if forfeited {
		a.Stats.Forfeits++
	}
}
