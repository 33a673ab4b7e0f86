package channel

import (
	"bytes"
	"sync"
	"testing"
)

func TestPair_FIFOOrdering(t *testing.T) {
	p := NewPair()
	host := p.Host()
	eng := p.Engine()

	host.Send([]byte("A"))
	host.Send([]byte("B"))

	first, ok := eng.Receive()
	if !ok || !bytes.Equal(first, []byte("A")) {
		t.Fatalf("first receive = %q ok=%v, want A", first, ok)
	}
	second, ok := eng.Receive()
	if !ok || !bytes.Equal(second, []byte("B")) {
		t.Fatalf("second receive = %q ok=%v, want B", second, ok)
	}
}

func TestPair_EmptyReceive(t *testing.T) {
	p := NewPair()

	if payload, ok := p.Host().Receive(); ok || payload != nil {
		t.Errorf("receive on empty channel = %q ok=%v", payload, ok)
	}
}

func TestPair_DirectionsIndependent(t *testing.T) {
	p := NewPair()
	host := p.Host()
	eng := p.Engine()

	host.Send([]byte("to-engine"))
	eng.Send([]byte("to-host"))

	// The host must not receive its own submission.
	got, ok := host.Receive()
	if !ok || !bytes.Equal(got, []byte("to-host")) {
		t.Errorf("host received %q, want to-host", got)
	}
	got, ok = eng.Receive()
	if !ok || !bytes.Equal(got, []byte("to-engine")) {
		t.Errorf("engine received %q, want to-engine", got)
	}
}

func TestPair_AtMostOnePerPoll(t *testing.T) {
	p := NewPair()
	eng := p.Engine()
	for i := 0; i < 3; i++ {
		eng.Send([]byte{byte(i)})
	}

	host := p.Host()
	if host.Pending() != 3 {
		t.Fatalf("pending = %d, want 3", host.Pending())
	}

	seen := 0
	for {
		payload, ok := host.Receive()
		if !ok {
			break
		}
		if payload[0] != byte(seen) {
			t.Errorf("poll %d returned %d", seen, payload[0])
		}
		seen++
	}
	if seen != 3 {
		t.Errorf("drained %d payloads, want 3", seen)
	}
}

func TestPair_ProducerFasterThanConsumer(t *testing.T) {
	p := NewPair()
	eng := p.Engine()

	// An unbounded queue loses nothing when the producer outruns the
	// consumer's once-per-frame polling.
	const n = 1000
	for i := 0; i < n; i++ {
		eng.Send([]byte{byte(i), byte(i >> 8)})
	}

	host := p.Host()
	for i := 0; i < n; i++ {
		payload, ok := host.Receive()
		if !ok {
			t.Fatalf("payload %d missing", i)
		}
		if payload[0] != byte(i) || payload[1] != byte(i>>8) {
			t.Fatalf("payload %d out of order: %v", i, payload)
		}
	}
	if _, ok := host.Receive(); ok {
		t.Error("extra payload after draining")
	}
}

func TestQueue_CrossThreadSends(t *testing.T) {
	p := NewPair()
	host := p.Host()

	var wg sync.WaitGroup
	const senders, per = 4, 50
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				host.Send([]byte{1})
			}
		}()
	}
	wg.Wait()

	eng := p.Engine()
	if eng.Pending() != senders*per {
		t.Errorf("pending = %d, want %d", eng.Pending(), senders*per)
	}
}
