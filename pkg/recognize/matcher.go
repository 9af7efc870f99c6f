package recognize

import (
	"github.com/earshot-audio/earshot/pkg/audio/pcm"
)

// Matcher is the external acoustic-fingerprint engine. Implementations accept
// PCM audio and eventually report one Verdict per started attempt through the
// deliver function supplied at construction.
//
// A Matcher runs its own workers: Feed only hands audio over and must not
// block on recognition. The deliver function may be called from any goroutine
// the matcher owns, but never synchronously from within Start or Feed; the
// session serializes delivery to the caller.
//
// Stop cancels the attempt in flight. It must be safe to call from any
// goroutine, including the one invoking deliver, and must be a no-op when no
// attempt is in flight. A verdict that is already on its way out when Stop is
// called may still be delivered; the session suppresses it.
type Matcher interface {
	// Start begins a recognition attempt. It fails if the matcher cannot
	// accept one, e.g. for quota or connectivity reasons.
	Start() error

	// Feed forwards one validated buffer of PCM audio to the engine.
	// The buffer is borrowed for the duration of the call; implementations
	// that retain audio must copy it.
	Feed(buf *pcm.Buffer) error

	// Stop cancels the attempt in flight, best effort.
	Stop()

	// Close releases all engine resources. No method may be called after
	// Close returns.
	Close() error
}

// MatcherFunc constructs the matcher for one session. The deliver function
// must be invoked exactly once per started attempt, with the attempt's
// verdict, unless the attempt is cancelled first.
type MatcherFunc func(deliver func(Verdict)) (Matcher, error)
