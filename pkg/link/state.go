package link

// State is the state of a Session.
type State int

// Session states.
const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateExchanging
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateExchanging:
		return "exchanging"
	}
	return "unknown"
}

// LinkStatus is reported by CheckConnection.
type LinkStatus int

// Link status values.
const (
	StatusUnreachable LinkStatus = iota
	StatusConnected
)

// String implements fmt.Stringer.
func (s LinkStatus) String() string {
	if s == StatusConnected {
		return "connected"
	}
	return "unreachable"
}
