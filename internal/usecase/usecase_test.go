package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tikcut/internal/domain/captions"
	"tikcut/internal/domain/trim"
	"tikcut/internal/types"
)

func testTranscript() types.Transcript {
	return types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 5, Text: "Hello there."},
		{Start: 5, End: 9, Text: "This is a test."},
		{Start: 9, End: 14, Text: "Goodbye now."},
	}}
}

func testInput(t *testing.T, burn bool) Input {
	t.Helper()
	tmp := t.TempDir()
	work := filepath.Join(tmp, "work")
	out := filepath.Join(tmp, "out")
	for _, d := range []string{work, out} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	return Input{
		InputPath:     filepath.Join(tmp, "in.mp4"),
		WorkDir:       work,
		OutputPath:    filepath.Join(out, "clip.mp4"),
		MinClip:       8 * time.Second,
		MaxClip:       10 * time.Second,
		CaptionLimits: captions.Limits{MaxLineChars: 42, MaxCueSeconds: 4 * time.Second},
		BurnCaptions:  burn,
		WriteSRT:      true,
	}
}

func TestRun_BurnCaptionsToggle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		burn bool
	}{
		{name: "disabled", burn: false},
		{name: "enabled", burn: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			video := &fakeVideoTool{}
			uc := New(Deps{Video: video, ASR: fakeASR{tr: testTranscript()}})

			in := testInput(t, tc.burn)
			res, err := uc.Run(context.Background(), in)
			if err != nil {
				t.Fatalf("run: %v", err)
			}

			if res.Window.Start != 0 || res.Window.End != 9*time.Second {
				t.Fatalf("unexpected window: %+v", res.Window)
			}
			if res.Cues == 0 {
				t.Fatal("expected cues")
			}
			if len(video.renderASS) != 1 {
				t.Fatalf("expected 1 render call, got %d", len(video.renderASS))
			}

			if tc.burn {
				if video.renderASS[0] == "" {
					t.Fatal("expected ASS path passed to renderer")
				}
				b, err := os.ReadFile(video.renderASS[0])
				if err != nil {
					t.Fatalf("read ass: %v", err)
				}
				if !strings.Contains(string(b), "Dialogue:") {
					t.Fatal("expected dialogue events in ASS file")
				}
			} else if video.renderASS[0] != "" {
				t.Fatalf("expected no ASS path, got %q", video.renderASS[0])
			}

			srt := strings.TrimSuffix(in.OutputPath, ".mp4") + ".srt"
			if res.SRTPath != srt {
				t.Fatalf("unexpected srt path: %q", res.SRTPath)
			}
			if _, err := os.Stat(srt); err != nil {
				t.Fatalf("expected srt sidecar: %v", err)
			}
		})
	}
}

func TestRun_WindowErrorSurfaces(t *testing.T) {
	t.Parallel()

	uc := New(Deps{
		Video: &fakeVideoTool{},
		ASR: fakeASR{tr: types.Transcript{Segments: []types.Segment{
			{Start: 0, End: 90, Text: "One very long sentence with no break."},
		}}},
	})

	_, err := uc.Run(context.Background(), testInput(t, false))
	if !errors.Is(err, trim.ErrNoWindow) {
		t.Fatalf("expected ErrNoWindow to surface, got %v", err)
	}
}

func TestRun_TranscribeErrorSurfaces(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("no audio track")
	uc := New(Deps{Video: &fakeVideoTool{}, ASR: fakeASR{err: wantErr}})

	_, err := uc.Run(context.Background(), testInput(t, false))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transcriber error to surface, got %v", err)
	}
}

func TestRun_RendersTrimmedWindow(t *testing.T) {
	t.Parallel()

	video := &fakeVideoTool{}
	uc := New(Deps{Video: video, ASR: fakeASR{tr: testTranscript()}})

	if _, err := uc.Run(context.Background(), testInput(t, false)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(video.renderWindows) != 1 {
		t.Fatalf("expected 1 render, got %d", len(video.renderWindows))
	}
	w := video.renderWindows[0]
	if w.Start != 0 || w.End != 9*time.Second {
		t.Fatalf("renderer got wrong window: %+v", w)
	}
}

type fakeVideoTool struct {
	renderASS     []string
	renderWindows []types.Window
}

func (f *fakeVideoTool) ExtractAudioMono16k(_ context.Context, _, _ string) error { return nil }

func (f *fakeVideoTool) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	return 0, nil
}

func (f *fakeVideoTool) RenderVertical(_ context.Context, _ string, w types.Window, assPath, outPath string) error {
	f.renderASS = append(f.renderASS, assPath)
	f.renderWindows = append(f.renderWindows, w)
	return os.WriteFile(outPath, []byte("clip"), 0o644)
}

type fakeASR struct {
	tr  types.Transcript
	err error
}

func (f fakeASR) Transcribe(_ context.Context, _, _ string) (types.Transcript, error) {
	return f.tr, f.err
}
