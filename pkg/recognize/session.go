package recognize

import (
	"sync"
	"time"

	"github.com/earshot-audio/earshot/pkg/audio/pcm"
)

// State is the lifecycle state of a Session.
type State int

const (
	// StateCreated means the session exists but no attempt has started.
	StateCreated State = iota
	// StateListening means an attempt is in flight and Feed is accepted.
	StateListening
	// StateStopped means the last attempt finished or was cancelled.
	// A new attempt may be started.
	StateStopped
	// StateDestroyed is terminal. No operation is valid afterwards.
	StateDestroyed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	case StateDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// DefaultTimeout is how long an attempt may listen before it finishes as a
// no-match.
const DefaultTimeout = 14 * time.Second

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets the attempt timeout. An attempt that has not received a
// verdict within d finishes as a no-match. d <= 0 disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithStatusFunc registers an observer for status transitions.
func WithStatusFunc(f StatusFunc) Option {
	return func(s *Session) {
		s.onStatus = f
	}
}

// WithContext attaches an opaque caller value that is echoed back in every
// Event. The session never inspects it.
func WithContext(ctx any) Option {
	return func(s *Session) {
		s.callerCtx = ctx
	}
}

// Session owns one recognition lifecycle: a single Matcher instance, the
// attempt state machine, and the dispatch of events to the caller.
//
// Start, Feed, Stop, and Destroy may be called from any goroutine, but
// Destroy must not race Start or Feed, and Destroy is terminal. The zero
// value is not usable; use NewSession.
type Session struct {
	matcher   Matcher
	onEvent   EventFunc
	onStatus  StatusFunc
	callerCtx any
	timeout   time.Duration

	mu      sync.Mutex
	state   State
	attempt uint64 // id of the attempt in flight, 0 when none
	counter uint64 // attempt id generator
	timer   *time.Timer

	verdicts chan Verdict
	done     chan struct{}
	loopDone chan struct{}
}

// NewSession creates a session, constructing its matcher via newMatcher and
// registering onEvent as the verdict callback. The matcher is owned by the
// session until Destroy.
func NewSession(newMatcher MatcherFunc, onEvent EventFunc, opts ...Option) (*Session, error) {
	if newMatcher == nil {
		return nil, newError(CodeInitFailed, "matcher constructor must not be nil")
	}
	if onEvent == nil {
		return nil, newError(CodeInitFailed, "event callback must not be nil")
	}

	s := &Session{
		onEvent:  onEvent,
		timeout:  DefaultTimeout,
		state:    StateCreated,
		verdicts: make(chan Verdict, 1),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	matcher, err := newMatcher(s.deliver)
	if err != nil {
		return nil, wrapError(CodeInitFailed, err, "matcher construction failed")
	}
	s.matcher = matcher

	go s.dispatchLoop()
	return s, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins a new recognition attempt. Valid from Created or Stopped.
func (s *Session) Start() error {
	s.mu.Lock()
	switch s.state {
	case StateDestroyed:
		s.mu.Unlock()
		return newError(CodeInvalidState, "session is destroyed")
	case StateListening:
		s.mu.Unlock()
		return newError(CodeInvalidState, "recognition is already in progress")
	}
	prev := s.state
	s.counter++
	id := s.counter
	s.attempt = id
	s.state = StateListening
	s.mu.Unlock()

	if err := s.matcher.Start(); err != nil {
		s.mu.Lock()
		if s.state == StateListening && s.attempt == id {
			s.attempt = 0
			s.state = prev
		}
		s.mu.Unlock()
		return wrapError(CodeMatcher, err, "matcher rejected start")
	}

	s.armTimeout(id)
	s.notifyStatus(StatusListening)
	return nil
}

// Feed validates buf and forwards it to the matcher. Valid only while
// Listening. The buffer is borrowed for the duration of the call.
//
// The session lock is held across the handoff, so once Stop or a verdict has
// cancelled the attempt no buffer reaches the matcher.
func (s *Session) Feed(buf *pcm.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateListening {
		return newError(CodeInvalidState, "feed requires a listening session, state is %s", s.state)
	}

	if buf == nil {
		return newError(CodeMalformedInput, "buffer must not be nil")
	}
	if err := buf.Validate(); err != nil {
		return wrapError(CodeMalformedInput, err, "malformed audio buffer")
	}

	if err := s.matcher.Feed(buf); err != nil {
		return wrapError(CodeMatcher, err, "matcher rejected audio")
	}
	return nil
}

// Stop cancels the attempt in flight, if any, and transitions to Stopped.
// A verdict that arrives for the cancelled attempt is suppressed. Stop is
// idempotent, never fails, and does not wait for the remote side of the
// cancellation to finish.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateDestroyed || s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	wasListening := s.state == StateListening
	s.state = StateStopped
	s.attempt = 0
	s.stopTimerLocked()
	if wasListening {
		s.matcher.Stop()
	}
	s.mu.Unlock()

	if wasListening {
		s.notifyStatus(StatusIdle)
	}
}

// Destroy cancels any attempt in flight, waits for an in-flight callback to
// return, and releases the matcher. Destroy is terminal and idempotent.
// It must not be called from within the event callback.
func (s *Session) Destroy() {
	s.mu.Lock()
	if s.state == StateDestroyed {
		s.mu.Unlock()
		return
	}
	wasListening := s.state == StateListening
	s.state = StateDestroyed
	s.attempt = 0
	s.stopTimerLocked()
	if wasListening {
		s.matcher.Stop()
	}
	s.mu.Unlock()

	close(s.done)
	<-s.loopDone
	s.matcher.Close()
}

// deliver is handed to the matcher at construction. It claims the attempt in
// flight under the session lock, so a verdict racing Stop or Destroy is
// either suppressed or delivered, never both. The matcher is stopped inside
// the same critical section: a Start that follows the verdict cannot begin a
// new attempt until the finished one is torn down.
func (s *Session) deliver(v Verdict) {
	s.mu.Lock()
	if s.state != StateListening || s.attempt == 0 {
		// Attempt was stopped, destroyed, or already finished: suppress.
		s.mu.Unlock()
		return
	}
	s.attempt = 0
	s.state = StateStopped
	s.stopTimerLocked()
	s.matcher.Stop()
	s.mu.Unlock()

	select {
	case s.verdicts <- v:
	case <-s.done:
	}
}

// armTimeout schedules the no-match timeout for attempt id.
func (s *Session) armTimeout(id uint64) {
	if s.timeout <= 0 {
		return
	}
	s.mu.Lock()
	if s.state == StateListening && s.attempt == id {
		s.timer = time.AfterFunc(s.timeout, func() {
			s.finishTimeout(id)
		})
	}
	s.mu.Unlock()
}

// finishTimeout finishes attempt id as a no-match if it is still in flight.
func (s *Session) finishTimeout(id uint64) {
	s.mu.Lock()
	if s.state != StateListening || s.attempt != id {
		s.mu.Unlock()
		return
	}
	s.attempt = 0
	s.state = StateStopped
	s.timer = nil
	s.matcher.Stop()
	s.mu.Unlock()

	select {
	case s.verdicts <- NoMatchVerdict():
	case <-s.done:
	}
}

// stopTimerLocked cancels the attempt timeout. Caller must hold s.mu.
func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// dispatchLoop delivers events to the caller one at a time. It is the only
// goroutine that invokes the event callback. Matcher teardown happens where
// the attempt is claimed, not here: by the time an event is dequeued a new
// attempt may already be listening.
func (s *Session) dispatchLoop() {
	defer close(s.loopDone)
	for {
		select {
		case <-s.done:
			return
		case v := <-s.verdicts:
			select {
			case <-s.done:
				return
			default:
			}
			s.mu.Lock()
			idle := s.state != StateListening
			s.mu.Unlock()
			if idle {
				s.notifyStatus(StatusIdle)
			}
			s.onEvent(Event{
				Kind:    v.Kind,
				Track:   v.Track,
				Err:     v.Err,
				Context: s.callerCtx,
			})
		}
	}
}

func (s *Session) notifyStatus(status Status) {
	if s.onStatus != nil {
		s.onStatus(status)
	}
}
