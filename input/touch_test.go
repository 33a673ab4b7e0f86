package input

import "testing"

func TestPhaseFromByte(t *testing.T) {
	for b, want := range map[uint8]Phase{
		0: PhaseStarted,
		1: PhaseMoved,
		2: PhaseEnded,
		3: PhaseCanceled,
	} {
		got, ok := PhaseFromByte(b)
		if !ok {
			t.Errorf("PhaseFromByte(%d) not ok", b)
		}
		if got != want {
			t.Errorf("PhaseFromByte(%d) = %v, want %v", b, got, want)
		}
	}

	for _, b := range []uint8{4, 5, 42, 255} {
		if _, ok := PhaseFromByte(b); ok {
			t.Errorf("PhaseFromByte(%d) ok, want dropped", b)
		}
	}
}

func TestPhase_String(t *testing.T) {
	if s := PhaseMoved.String(); s != "moved" {
		t.Errorf("PhaseMoved.String() = %q", s)
	}
	if s := Phase(9).String(); s != "phase(9)" {
		t.Errorf("Phase(9).String() = %q", s)
	}
}
