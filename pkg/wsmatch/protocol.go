package wsmatch

import "github.com/earshot-audio/earshot/pkg/recognize"

// Frame types exchanged with the recognition service. Every WebSocket
// message carries exactly one msgpack-encoded frame.
const (
	frameStart   = "start"
	frameAudio   = "audio"
	frameStop    = "stop"
	frameVerdict = "verdict"
)

// Results carried by a verdict frame.
const (
	resultMatch   = "match"
	resultNoMatch = "no_match"
	resultError   = "error"
)

// clientFrame is sent by the bridge to the service.
type clientFrame struct {
	Type      string `msgpack:"type"`
	AttemptID string `msgpack:"attempt_id"`

	// Audio payload, set only for frameAudio.
	SampleRate int       `msgpack:"sample_rate,omitempty"`
	Channels   int       `msgpack:"channels,omitempty"`
	Samples    []float32 `msgpack:"samples,omitempty"`
}

// serverFrame is sent by the service to the bridge.
type serverFrame struct {
	Type      string     `msgpack:"type"`
	AttemptID string     `msgpack:"attempt_id,omitempty"`
	Result    string     `msgpack:"result,omitempty"`
	Track     *wireTrack `msgpack:"track,omitempty"`
	Message   string     `msgpack:"message,omitempty"`
}

// wireTrack is the track payload of a match verdict.
type wireTrack struct {
	ID            string `msgpack:"id,omitempty"`
	Title         string `msgpack:"title"`
	Artist        string `msgpack:"artist,omitempty"`
	ArtworkURL    string `msgpack:"artwork_url,omitempty"`
	AppleMusicURL string `msgpack:"apple_music_url,omitempty"`
	WebURL        string `msgpack:"web_url,omitempty"`
}

func (t *wireTrack) track() *recognize.Track {
	return &recognize.Track{
		ID:            t.ID,
		Title:         t.Title,
		Artist:        t.Artist,
		ArtworkURL:    t.ArtworkURL,
		AppleMusicURL: t.AppleMusicURL,
		WebURL:        t.WebURL,
	}
}
