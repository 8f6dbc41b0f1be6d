// Package protocol defines the JSON messages exchanged with clients and
// the newline-delimited framing that carries them.
package protocol

import "github.com/TerryHenrard/Pente-game/internal/model"

// Request verbs.
const (
	VerbAuth        = "auth"
	VerbNewAccount  = "new_account"
	VerbGetLobby    = "get_lobby"
	VerbDisconnect  = "disconnect"
	VerbCreateGame  = "create_game"
	VerbJoinGame    = "join_game"
	VerbReadyToPlay = "ready_to_play"
	VerbPlayMove    = "play_move"
	VerbQuitGame    = "quit_game"
)

// Response type tags.
const (
	TypeWelcome            = "welcome"
	TypeUnknownCommand     = "unknown_command"
	TypeAuthResponse       = "auth_response"
	TypeNewAccountResponse = "new_account_response"
	TypeDisconnectAck      = "disconnect_ack"
	TypeGetLobbyResponse   = "get_lobby_response"
	TypeCreateGameResponse = "create_game_response"
	TypeJoinGameResponse   = "join_game_response"
	TypeReadyToPlayResp    = "ready_to_play_response"
	TypeAlertStartGame     = "alert_start_game"
	TypeMoveResponse       = "move_response"
	TypeNewBoardState      = "new_board_state"
	TypeGameOver           = "game_over"
	TypeQuitGameResponse   = "quit_game_response"
)

// Status values carried in the numeric status field.
const (
	StatusFailure = 0
	StatusSuccess = 1
	StatusVictory = 2
	StatusDefeat  = 3
	StatusDraw    = 4 // reserved, never produced
)

// Envelope is the first-stage decode of any request: only the verb.
type Envelope struct {
	Type string `json:"type"`
}

// CredentialsRequest covers auth and new_account payloads.
type CredentialsRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	ConfPassword string `json:"conf_password,omitempty"`
}

// GameNameRequest covers create_game and join_game payloads.
type GameNameRequest struct {
	GameName string `json:"game_name"`
}

// MoveRequest carries 0-indexed board coordinates. Pointers distinguish
// missing fields from zero; non-integer values fail the decode.
type MoveRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// StatusResponse is the minimal type+status reply shape.
type StatusResponse struct {
	Type   string `json:"type"`
	Status int    `json:"status"`
}

// StatsResponse carries the caller's cumulative statistics.
type StatsResponse struct {
	Type        string             `json:"type"`
	Status      int                `json:"status"`
	PlayerStats *model.PlayerStats `json:"player_stats,omitempty"`
}

// Welcome is pushed to every admitted connection.
type Welcome struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// UnknownCommand answers malformed frames and unknown verbs.
type UnknownCommand struct {
	Type string `json:"type"`
}

// LobbyGame describes one live session in a lobby listing.
type LobbyGame struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Status  int      `json:"status"`
	Players []string `json:"players"`
}

// LobbyResponse answers get_lobby.
type LobbyResponse struct {
	Type               string      `json:"type"`
	Status             int         `json:"status"`
	TotalActivePlayers int         `json:"total_active_players"`
	Games              []LobbyGame `json:"games"`
}

// GameInfo describes a freshly created session.
type GameInfo struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Status  int      `json:"status"`
	Host    string   `json:"host"`
	Players []string `json:"players"`
}

// CreateGameResponse answers create_game.
type CreateGameResponse struct {
	Type   string    `json:"type"`
	Status int       `json:"status"`
	Game   *GameInfo `json:"game,omitempty"`
}

// OpponentInfo is the opponent's stats plus display name, embedded in
// alert_start_game.
type OpponentInfo struct {
	model.PlayerStats
	Name string `json:"name"`
}

// StartGameAlert is sent to both participants when a session goes ongoing.
type StartGameAlert struct {
	Type         string       `json:"type"`
	Status       int          `json:"status"`
	Board        string       `json:"board"`
	OpponentInfo OpponentInfo `json:"opponent_info"`
	GameName     string       `json:"game_name"`
}

// MoveResponse answers play_move.
type MoveResponse struct {
	Type       string `json:"type"`
	Status     int    `json:"status"`
	BoardState string `json:"board_state,omitempty"`
	Captures   int    `json:"captures"`
}

// BoardState is pushed to the opponent after each non-terminal move.
type BoardState struct {
	Type       string `json:"type"`
	Status     int    `json:"status"`
	BoardState string `json:"board_state"`
}
