package layout

import "github.com/teranos/resultviz/errors"

// State is the lifecycle of a Simulation:
// Uninitialized -> Running -> Converged | Stopped.
type State int

const (
	Uninitialized State = iota
	Running
	Converged
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Stopped:
		return "stopped"
	default:
		return "uninitialized"
	}
}

// MarshalText renders the state by name in JSON frames.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "running":
		*s = Running
	case "converged":
		*s = Converged
	case "stopped":
		*s = Stopped
	case "uninitialized":
		*s = Uninitialized
	default:
		return errors.Newf("unknown layout state %q", text)
	}
	return nil
}
