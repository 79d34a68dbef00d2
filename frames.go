package electric

// FrameID identifies a pending frame request. Zero is never issued.
type FrameID uint64

// FrameSource is the host's per-frame scheduling primitive. RequestFrame
// arranges for fn to run once at the next frame; CancelFrame drops a pending
// request. Both are called from the frame goroutine only.
type FrameSource interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// ManualFrames is a FrameSource driven explicitly by Step. It backs headless
// runs and tests.
type ManualFrames struct {
	next      FrameID
	pending   []pendingFrame
	batch     []pendingFrame // requests of the Step in progress
	cancelled map[FrameID]struct{}
}

type pendingFrame struct {
	id FrameID
	fn func()
}

// NewManualFrames returns an empty ManualFrames.
func NewManualFrames() *ManualFrames {
	return &ManualFrames{}
}

// RequestFrame queues fn for the next Step.
func (m *ManualFrames) RequestFrame(fn func()) FrameID {
	m.next++
	m.pending = append(m.pending, pendingFrame{id: m.next, fn: fn})
	return m.next
}

// CancelFrame removes a queued request. A request belonging to the Step in
// progress is skipped if it has not run yet. Unknown ids are ignored.
func (m *ManualFrames) CancelFrame(id FrameID) {
	for i, p := range m.pending {
		if p.id == id {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
	for _, p := range m.batch {
		if p.id == id {
			if m.cancelled == nil {
				m.cancelled = make(map[FrameID]struct{})
			}
			m.cancelled[id] = struct{}{}
			return
		}
	}
}

// Pending returns the number of queued requests.
func (m *ManualFrames) Pending() int {
	return len(m.pending)
}

// Step runs every request queued before the call. Requests made while
// stepping wait for the next Step. It returns the number of callbacks run.
func (m *ManualFrames) Step() int {
	m.batch = m.pending
	m.pending = nil
	ran := 0
	for i, p := range m.batch {
		if _, ok := m.cancelled[p.id]; ok {
			continue
		}
		// Drop the entry so cancelling an already-run id is a no-op.
		m.batch[i].id = 0
		p.fn()
		ran++
	}
	m.batch = nil
	clear(m.cancelled)
	return ran
}

// StepN calls Step n times and returns the total number of callbacks run.
func (m *ManualFrames) StepN(n int) int {
	total := 0
	for range n {
		total += m.Step()
	}
	return total
}
