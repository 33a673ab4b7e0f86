package input

// Pointer is one active contact tracked by a Tracker.
type Pointer struct {
	ID uint64
	X  float32
	Y  float32
}

// Tracker converts raw host pointer callbacks into the Touch events to
// forward, implementing the multi-touch fan-out contract: a move fans out
// one event per currently active pointer in pointer-index (registration)
// order, while down/up/cancel produce events only for the contact whose
// state changed.
//
// A Tracker is confined to the host's input-delivery thread and is not
// internally synchronized.
type Tracker struct {
	active []Pointer
}

// NewTracker creates a tracker with no active pointers.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Down registers a new contact and returns the single Started event to
// forward. A duplicate down for a tracked id updates its position without
// re-registering.
func (t *Tracker) Down(id uint64, x, y float32) []Touch {
	if i := t.index(id); i >= 0 {
		t.active[i].X, t.active[i].Y = x, y
		return []Touch{{Phase: PhaseStarted, X: x, Y: y, ID: id}}
	}
	t.active = append(t.active, Pointer{ID: id, X: x, Y: y})
	return []Touch{{Phase: PhaseStarted, X: x, Y: y, ID: id}}
}

// Move updates the moved contact and fans out one Moved event per active
// pointer, each carrying that pointer's latest position, in pointer-index
// order. A move for an untracked id is dropped.
func (t *Tracker) Move(id uint64, x, y float32) []Touch {
	i := t.index(id)
	if i < 0 {
		return nil
	}
	t.active[i].X, t.active[i].Y = x, y

	out := make([]Touch, len(t.active))
	for j, p := range t.active {
		out[j] = Touch{Phase: PhaseMoved, X: p.X, Y: p.Y, ID: p.ID}
	}
	return out
}

// Up removes the contact and returns the single Ended event to forward.
// An up for an untracked id is dropped.
func (t *Tracker) Up(id uint64, x, y float32) []Touch {
	i := t.index(id)
	if i < 0 {
		return nil
	}
	t.remove(i)
	return []Touch{{Phase: PhaseEnded, X: x, Y: y, ID: id}}
}

// Cancel removes the contact and returns the single Canceled event to
// forward. A cancel for an untracked id is dropped.
func (t *Tracker) Cancel(id uint64, x, y float32) []Touch {
	i := t.index(id)
	if i < 0 {
		return nil
	}
	t.remove(i)
	return []Touch{{Phase: PhaseCanceled, X: x, Y: y, ID: id}}
}

// Reset cancels every active contact, returning one Canceled event per
// pointer in pointer-index order. Hosts call it when the view detaches.
func (t *Tracker) Reset() []Touch {
	if len(t.active) == 0 {
		return nil
	}
	out := make([]Touch, len(t.active))
	for j, p := range t.active {
		out[j] = Touch{Phase: PhaseCanceled, X: p.X, Y: p.Y, ID: p.ID}
	}
	t.active = nil
	return out
}

// Active returns a copy of the tracked pointers in pointer-index order.
func (t *Tracker) Active() []Pointer {
	out := make([]Pointer, len(t.active))
	copy(out, t.active)
	return out
}

func (t *Tracker) index(id uint64) int {
	for i, p := range t.active {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) remove(i int) {
	t.active = append(t.active[:i], t.active[i+1:]...)
}
