package input

import "fmt"

// Phase is the lifecycle stage of a single touch contact. The numeric
// values are the wire contract with host platforms and never change.
type Phase uint8

const (
	PhaseStarted  Phase = 0
	PhaseMoved    Phase = 1
	PhaseEnded    Phase = 2
	PhaseCanceled Phase = 3
)

// PhaseFromByte maps a raw phase byte to a Phase. Unknown bytes return
// ok=false; callers drop the event instead of guessing.
func PhaseFromByte(b uint8) (Phase, bool) {
	if b > uint8(PhaseCanceled) {
		return 0, false
	}
	return Phase(b), true
}

func (p Phase) String() string {
	switch p {
	case PhaseStarted:
		return "started"
	case PhaseMoved:
		return "moved"
	case PhaseEnded:
		return "ended"
	case PhaseCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Touch is one touch event: a phase, a position in view-local pixels, and
// the stable identifier of the contact that produced it.
type Touch struct {
	Phase Phase
	X     float32
	Y     float32
	ID    uint64
}
