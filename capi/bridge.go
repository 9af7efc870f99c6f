// Package main builds the earshot bridge as a C shared library.
//
// Build:
//
//	go build -buildmode=c-shared -o libearshot.so ./capi
//
// The exported surface is declared in earshot_bridge.h: a host application
// creates a bridge with a callback and an opaque user-data pointer, starts a
// recognition attempt, feeds interleaved float32 PCM, and receives exactly
// one callback per completed attempt. Handles are opaque integers; no Go
// pointer ever crosses the boundary.
//
// Ownership rules at the boundary:
//
//   - Error strings written to an error_out parameter are owned by the
//     caller and must be released exactly once via earshot_bridge_free_error.
//     On success error_out is left untouched.
//   - Strings passed to the callback are owned by the bridge and are only
//     valid for the duration of the invocation. Callers that need them
//     afterwards must copy them before returning.
//   - Audio buffers passed to earshot_bridge_feed are borrowed for the
//     duration of the call; the bridge copies what it needs.
//
// The recognition service is configured through the environment:
// EARSHOT_ENDPOINT (ws:// or wss:// URL, required) and EARSHOT_API_KEY
// (optional).
package main

/*
#include <stdlib.h>
#include "earshot_bridge.h"

// Go cannot call a C function pointer directly; route the invocation
// through this shim.
static void earshot_bridge_invoke(earshot_bridge_callback_t cb,
                                  int32_t event_type,
                                  const char *title,
                                  const char *artist,
                                  const char *artwork_url,
                                  const char *apple_music_url,
                                  const char *web_url,
                                  const char *error_message,
                                  void *user_data) {
  if (cb != NULL) {
    cb(event_type, title, artist, artwork_url, apple_music_url, web_url,
       error_message, user_data);
  }
}
*/
import "C"

import (
	"os"
	"runtime/cgo"
	"unsafe"

	"github.com/earshot-audio/earshot/pkg/audio/pcm"
	"github.com/earshot-audio/earshot/pkg/recognize"
	"github.com/earshot-audio/earshot/pkg/wsmatch"
)

const (
	envEndpoint = "EARSHOT_ENDPOINT"
	envAPIKey   = "EARSHOT_API_KEY"
)

// bridge ties one session to one foreign callback.
type bridge struct {
	session  *recognize.Session
	callback C.earshot_bridge_callback_t
	userData unsafe.Pointer
}

// onEvent runs on the session's dispatch goroutine. The C strings it builds
// live only until the callback returns.
func (b *bridge) onEvent(ev recognize.Event) {
	var eventType C.int32_t
	var title, artist, artwork, appleMusic, web, errMsg *C.char

	switch ev.Kind {
	case recognize.VerdictMatch:
		eventType = C.EARSHOT_BRIDGE_EVENT_MATCH
		if ev.Track != nil {
			title = cString(ev.Track.Title)
			artist = cString(ev.Track.Artist)
			artwork = cString(ev.Track.ArtworkURL)
			appleMusic = cString(ev.Track.AppleMusicURL)
			web = cString(ev.Track.WebURL)
		}
	case recognize.VerdictNoMatch:
		eventType = C.EARSHOT_BRIDGE_EVENT_NO_MATCH
	case recognize.VerdictError:
		eventType = C.EARSHOT_BRIDGE_EVENT_ERROR
		msg := "recognition failed"
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		errMsg = cString(msg)
	default:
		return
	}

	C.earshot_bridge_invoke(b.callback, eventType,
		title, artist, artwork, appleMusic, web, errMsg, b.userData)

	freeCString(title)
	freeCString(artist)
	freeCString(artwork)
	freeCString(appleMusic)
	freeCString(web)
	freeCString(errMsg)
}

//export earshot_bridge_create
func earshot_bridge_create(callback C.earshot_bridge_callback_t, userData unsafe.Pointer, errorOut **C.char) C.uintptr_t {
	if callback == nil {
		setError(errorOut, "callback must not be NULL")
		return 0
	}

	endpoint := os.Getenv(envEndpoint)
	if endpoint == "" {
		setError(errorOut, "recognition service is not configured: "+envEndpoint+" is not set")
		return 0
	}
	var opts []wsmatch.Option
	if key := os.Getenv(envAPIKey); key != "" {
		opts = append(opts, wsmatch.WithAPIKey(key))
	}
	client := wsmatch.NewClient(endpoint, opts...)

	b := &bridge{callback: callback, userData: userData}
	session, err := recognize.NewSession(client.Matcher(), b.onEvent)
	if err != nil {
		setError(errorOut, err.Error())
		return 0
	}
	b.session = session

	return C.uintptr_t(cgo.NewHandle(b))
}

//export earshot_bridge_start
func earshot_bridge_start(handle C.uintptr_t, errorOut **C.char) C.bool {
	b := lookup(handle)
	if b == nil {
		setError(errorOut, "bridge handle is invalid")
		return C.bool(false)
	}
	if err := b.session.Start(); err != nil {
		setError(errorOut, err.Error())
		return C.bool(false)
	}
	return C.bool(true)
}

//export earshot_bridge_feed
func earshot_bridge_feed(handle C.uintptr_t, samples *C.float, frameCount C.uint32_t, channels C.uint32_t, sampleRate C.double, errorOut **C.char) C.bool {
	b := lookup(handle)
	if b == nil {
		setError(errorOut, "bridge handle is invalid")
		return C.bool(false)
	}
	if samples == nil || frameCount == 0 {
		setError(errorOut, "audio buffer must not be empty")
		return C.bool(false)
	}
	if channels == 0 || channels > 2 {
		setError(errorOut, "channel count must be 1 or 2")
		return C.bool(false)
	}

	// Copy out of the borrowed C buffer before it can go away.
	n := int(frameCount) * int(channels)
	src := unsafe.Slice((*float32)(unsafe.Pointer(samples)), n)
	buf := &pcm.Buffer{
		Samples: append([]float32(nil), src...),
		Format: pcm.Format{
			SampleRate: int(sampleRate),
			Channels:   int(channels),
		},
	}

	if err := b.session.Feed(buf); err != nil {
		setError(errorOut, err.Error())
		return C.bool(false)
	}
	return C.bool(true)
}

//export earshot_bridge_stop
func earshot_bridge_stop(handle C.uintptr_t) {
	if b := lookup(handle); b != nil {
		b.session.Stop()
	}
}

//export earshot_bridge_destroy
func earshot_bridge_destroy(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	h := cgo.Handle(handle)
	if b, ok := h.Value().(*bridge); ok {
		b.session.Destroy()
	}
	h.Delete()
}

//export earshot_bridge_free_error
func earshot_bridge_free_error(errorMessage *C.char) {
	if errorMessage != nil {
		C.free(unsafe.Pointer(errorMessage))
	}
}

func lookup(handle C.uintptr_t) *bridge {
	if handle == 0 {
		return nil
	}
	b, _ := cgo.Handle(handle).Value().(*bridge)
	return b
}

// setError hands a caller-owned copy of msg across the boundary. Release is
// the caller's duty, exactly once, via earshot_bridge_free_error.
func setError(out **C.char, msg string) {
	if out == nil {
		return
	}
	*out = C.CString(msg)
}

func cString(s string) *C.char {
	if s == "" {
		return nil
	}
	return C.CString(s)
}

func freeCString(p *C.char) {
	if p != nil {
		C.free(unsafe.Pointer(p))
	}
}

func main() {}
