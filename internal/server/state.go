package server

// ConnState represents the state machine for a client connection.
type ConnState int

const (
	StateConnected     ConnState = iota // TCP connected, welcome sent
	StateAuthenticated                  // credentials accepted
)

func (s ConnState) String() string {
	switch s {
	case StateConnected:
		return "CONNECTED"
	case StateAuthenticated:
		return "AUTHENTICATED"
	default:
		return "UNKNOWN"
	}
}
