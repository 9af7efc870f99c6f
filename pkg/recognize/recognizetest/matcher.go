// Package recognizetest provides a scripted matcher for testing code built
// on package recognize. The matcher records every call it receives and
// delivers verdicts only when the test asks it to, so races between feeding,
// stopping, and verdict delivery can be exercised deterministically.
package recognizetest

import (
	"sync"

	"github.com/earshot-audio/earshot/pkg/audio/pcm"
	"github.com/earshot-audio/earshot/pkg/recognize"
)

// Matcher is a scripted stand-in for the external fingerprint engine.
// The zero value is ready to use.
type Matcher struct {
	// StartErr, if set, is returned by the next Start call.
	StartErr error

	// FeedErr, if set, is returned by every Feed call.
	FeedErr error

	mu      sync.Mutex
	deliver func(recognize.Verdict)
	started int
	stopped int
	closed  int
	fed     []*pcm.Buffer
}

// Func returns a MatcherFunc that hands out this matcher and captures the
// session's deliver function.
func (m *Matcher) Func() recognize.MatcherFunc {
	return func(deliver func(recognize.Verdict)) (recognize.Matcher, error) {
		m.mu.Lock()
		m.deliver = deliver
		m.mu.Unlock()
		return m, nil
	}
}

// Start records the call and returns StartErr, if set.
func (m *Matcher) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartErr != nil {
		err := m.StartErr
		m.StartErr = nil
		return err
	}
	m.started++
	return nil
}

// Feed records a copy of the buffer and returns FeedErr, if set.
func (m *Matcher) Feed(buf *pcm.Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FeedErr != nil {
		return m.FeedErr
	}
	m.fed = append(m.fed, buf.Clone())
	return nil
}

// Stop records the call.
func (m *Matcher) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
}

// Close records the call.
func (m *Matcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// DeliverMatch reports a match verdict to the session.
func (m *Matcher) DeliverMatch(track *recognize.Track) {
	m.deliverVerdict(recognize.MatchVerdict(track))
}

// DeliverNoMatch reports a no-match verdict to the session.
func (m *Matcher) DeliverNoMatch() {
	m.deliverVerdict(recognize.NoMatchVerdict())
}

// DeliverError reports an error verdict to the session.
func (m *Matcher) DeliverError(err error) {
	m.deliverVerdict(recognize.ErrorVerdict(err))
}

func (m *Matcher) deliverVerdict(v recognize.Verdict) {
	m.mu.Lock()
	deliver := m.deliver
	m.mu.Unlock()
	if deliver != nil {
		deliver(v)
	}
}

// Started returns how many attempts were started.
func (m *Matcher) Started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Stopped returns how many times Stop was called.
func (m *Matcher) Stopped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// Closed returns how many times Close was called.
func (m *Matcher) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Fed returns copies of every buffer the matcher accepted, in order.
func (m *Matcher) Fed() []*pcm.Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*pcm.Buffer, len(m.fed))
	copy(out, m.fed)
	return out
}
