// Package recognize implements session-oriented song recognition on top of an
// opaque acoustic-fingerprint matcher.
//
// A Session owns exactly one Matcher for its whole lifetime and runs one
// recognition attempt at a time through the state machine
//
//	Created → Listening → Stopped → Listening → … → Destroyed
//
// The caller creates a session with a callback, starts an attempt, feeds
// variable-length PCM buffers while the session is listening, and eventually
// receives exactly one Event per completed attempt: a match, a no-match, or an
// error. Stopping or destroying the session before the matcher reports back
// suppresses the eventual verdict; no event fires for a cancelled attempt.
//
// # Callback contract
//
// The event callback runs on a dispatch goroutine owned by the session, never
// on the goroutine that called Feed. At most one invocation is in flight at a
// time. The callback must not call Destroy synchronously, and should not call
// Start, Feed, or Stop without accounting for the fact that it is not running
// on the caller's goroutine. Strings and tracks handed to the callback may be
// retained freely; they are ordinary Go values owned by the receiver.
//
// # Matchers
//
// The fingerprint engine itself is an external collaborator behind the
// Matcher interface. See package wsmatch for a matcher backed by a remote
// recognition service and package recognizetest for a scripted matcher used
// in tests.
package recognize
