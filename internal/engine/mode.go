package engine

// Mode represents the coarse operating state driven by accepted commands.
type Mode string

const (
	// ModeIdle is the initial mode. No command transitions back to it;
	// only a process restart does.
	ModeIdle Mode = "IDLE"
	// ModeRunning is entered when a START command is accepted.
	ModeRunning Mode = "RUNNING"
	// ModeStopped is entered when a STOP command is accepted.
	ModeStopped Mode = "STOPPED"
)

// Transition returns the mode that results from accepting the given
// command. It is total: any command other than START or STOP leaves
// the mode unchanged.
func (m Mode) Transition(command string) Mode {
	switch command {
	case "START":
		return ModeRunning
	case "STOP":
		return ModeStopped
	default:
		return m
	}
}
