package ports

import (
	"context"
	"errors"
	"time"

	"tikcut/internal/types"
)

// Sentinel errors adapters wrap their failures with, so the orchestrator
// can classify a video's failure without knowing which tool produced it.
var (
	ErrDownload      = errors.New("download failed")
	ErrTranscription = errors.New("transcription failed")
	ErrRender        = errors.New("render failed")
)

// Downloader fetches remote videos. Probe must not download media.
type Downloader interface {
	Probe(ctx context.Context, url string) (types.VideoInfo, error)
	Fetch(ctx context.Context, url, destDir string) (string, error)
}

// Transcriber produces an ordered, non-overlapping segment sequence for a
// mono 16 kHz wav file.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, workDir string) (types.Transcript, error)
}

// VideoTool covers the ffmpeg-shaped operations the pipeline needs.
type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, inPath, outWav string) error
	ProbeDuration(ctx context.Context, inPath string) (time.Duration, error)
	// RenderVertical trims the source to the window, center-crops to the
	// configured vertical frame, optionally burns the ASS file in, and
	// writes outPath.
	RenderVertical(ctx context.Context, inPath string, w types.Window, assPath, outPath string) error
}
