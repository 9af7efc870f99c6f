package recognize

// VerdictKind is the terminal outcome of one recognition attempt.
type VerdictKind int

const (
	// VerdictMatch means the matcher identified a track.
	VerdictMatch VerdictKind = iota + 1
	// VerdictNoMatch means the matcher finished without identifying a track.
	VerdictNoMatch
	// VerdictError means the matcher failed while processing the attempt.
	VerdictError
)

// String returns a human-readable name for the verdict kind.
func (k VerdictKind) String() string {
	switch k {
	case VerdictMatch:
		return "match"
	case VerdictNoMatch:
		return "no-match"
	case VerdictError:
		return "error"
	}
	return "unknown"
}

// Track describes an identified song.
type Track struct {
	// ID is the catalogue identifier of the track, if the matcher knows it.
	ID string

	// Title is the track title.
	Title string

	// Artist is the performing artist, if known.
	Artist string

	// ArtworkURL points at cover artwork, if known.
	ArtworkURL string

	// AppleMusicURL is a store link for the track, if known.
	AppleMusicURL string

	// WebURL is a shareable web link for the track, if known.
	WebURL string
}

// Verdict is the outcome a Matcher reports for one attempt. Exactly one of
// Track or Err is set, and only for the corresponding kind.
type Verdict struct {
	Kind  VerdictKind
	Track *Track // set only for VerdictMatch
	Err   error  // set only for VerdictError
}

// MatchVerdict returns a match verdict for the given track.
func MatchVerdict(track *Track) Verdict {
	return Verdict{Kind: VerdictMatch, Track: track}
}

// NoMatchVerdict returns a no-match verdict.
func NoMatchVerdict() Verdict {
	return Verdict{Kind: VerdictNoMatch}
}

// ErrorVerdict returns an error verdict for the given cause.
func ErrorVerdict(err error) Verdict {
	return Verdict{Kind: VerdictError, Err: err}
}

// Event is delivered to the session callback once per completed attempt.
// Fields that do not apply to Kind are left nil.
type Event struct {
	// Kind discriminates the payload. Callers must branch on it before
	// reading any other field.
	Kind VerdictKind

	// Track is set only for VerdictMatch.
	Track *Track

	// Err is set only for VerdictError.
	Err error

	// Context is the opaque value the caller supplied at session creation.
	// The session never inspects it.
	Context any
}

// EventFunc receives the outcome of a recognition attempt.
type EventFunc func(Event)

// Status describes what a session is currently doing.
type Status int

const (
	// StatusIdle means no attempt is in flight.
	StatusIdle Status = iota
	// StatusListening means an attempt is in flight and Feed calls are
	// accepted.
	StatusListening
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusListening:
		return "listening"
	}
	return "unknown"
}

// StatusFunc observes session status transitions. Notifications are advisory
// and may be delivered from either the caller's goroutine or the session's
// dispatch goroutine.
type StatusFunc func(Status)
