package user

// Gate defers the create call until the user confirms. The zero value is closed.
type Gate uint8

const (
	GateClosed Gate = iota
	GateOpen
)

// IsOpen reports whether the confirmation dialog is showing.
func (g Gate) IsOpen() bool { return g == GateOpen }

func (g Gate) String() string {
	if g == GateOpen {
		return "open"
	}
	return "closed"
}
