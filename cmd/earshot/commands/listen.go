package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/earshot-audio/earshot/pkg/audio/pcm"
	"github.com/earshot-audio/earshot/pkg/audio/wav"
	"github.com/earshot-audio/earshot/pkg/cli"
	"github.com/earshot-audio/earshot/pkg/recognize"
	"github.com/earshot-audio/earshot/pkg/wsmatch"
)

// chunkDuration is how much audio each Feed call carries.
const chunkDuration = 100 * time.Millisecond

var listenCmd = &cobra.Command{
	Use:   "listen <file.wav>",
	Short: "Recognize a song from a WAV recording",
	Long: `Recognize a song from a WAV recording.

The file must be 16-bit PCM WAV, mono or stereo. Audio is streamed to the
recognition service of the active context and the verdict is printed.

Example:
  earshot -c prod listen recording.wav
  earshot -c prod listen recording.wav --json | jq '.track.title'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := getContext()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read audio file: %w", err)
		}
		buf, err := wav.Decode(data)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", args[0], err)
		}

		client := wsmatch.NewClient(ctx.Endpoint, wsmatch.WithAPIKey(ctx.APIKey))

		var opts []recognize.Option
		if ctx.TimeoutSeconds > 0 {
			opts = append(opts, recognize.WithTimeout(time.Duration(ctx.TimeoutSeconds)*time.Second))
		}

		events := make(chan recognize.Event, 1)
		sess, err := recognize.NewSession(client.Matcher(), func(ev recognize.Event) {
			events <- ev
		}, opts...)
		if err != nil {
			return err
		}
		defer sess.Destroy()

		if err := sess.Start(); err != nil {
			return err
		}

		styles := cli.NewStyles(cli.DefaultTheme)
		if !outputJSON {
			fmt.Printf("%s %s (%s)\n",
				styles.Title.Render("Listening..."),
				args[0],
				styles.Dim.Render(buf.Duration().Round(time.Second).String()))
		}

		if err := feedChunks(sess, buf); err != nil {
			return err
		}

		// After the audio is sent the attempt ends with a verdict from the
		// service or a no-match on session timeout, whichever comes first.
		wait := recognize.DefaultTimeout
		if ctx.TimeoutSeconds > 0 {
			wait = time.Duration(ctx.TimeoutSeconds) * time.Second
		}
		select {
		case ev := <-events:
			return renderEvent(ev, styles)
		case <-time.After(wait + 2*time.Second):
			return fmt.Errorf("no verdict received")
		}
	},
}

// feedChunks streams the buffer in fixed-size slices. A verdict can arrive
// mid-stream, after which Feed reports an invalid state; that ends the stream
// without error.
func feedChunks(sess *recognize.Session, buf *pcm.Buffer) error {
	step := buf.Format.SamplesInDuration(chunkDuration)
	if step <= 0 {
		step = len(buf.Samples)
	}
	for off := 0; off < len(buf.Samples); off += step {
		end := min(off+step, len(buf.Samples))
		chunk := &pcm.Buffer{Samples: buf.Samples[off:end], Format: buf.Format}
		if err := sess.Feed(chunk); err != nil {
			if e, ok := recognize.AsError(err); ok && e.IsInvalidState() {
				return nil
			}
			return err
		}
	}
	return nil
}

func renderEvent(ev recognize.Event, styles cli.Styles) error {
	if outputJSON || outputFile != "" {
		result := map[string]any{"verdict": ev.Kind.String()}
		if ev.Track != nil {
			result["track"] = map[string]any{
				"id":              ev.Track.ID,
				"title":           ev.Track.Title,
				"artist":          ev.Track.Artist,
				"artwork_url":     ev.Track.ArtworkURL,
				"apple_music_url": ev.Track.AppleMusicURL,
				"web_url":         ev.Track.WebURL,
			}
		}
		if ev.Err != nil {
			result["error"] = ev.Err.Error()
		}
		return outputResult(result)
	}

	switch ev.Kind {
	case recognize.VerdictMatch:
		fmt.Printf("%s %s\n", styles.Label.Render("Title:"), styles.Value.Render(ev.Track.Title))
		if ev.Track.Artist != "" {
			fmt.Printf("%s %s\n", styles.Label.Render("Artist:"), styles.Value.Render(ev.Track.Artist))
		}
		if ev.Track.WebURL != "" {
			fmt.Printf("%s %s\n", styles.Label.Render("Link:"), styles.Dim.Render(ev.Track.WebURL))
		}
	case recognize.VerdictNoMatch:
		fmt.Println(styles.Dim.Render("No match."))
	case recognize.VerdictError:
		fmt.Printf("%s %v\n", styles.Error.Render("Recognition failed:"), ev.Err)
		return fmt.Errorf("recognition failed")
	}
	return nil
}
