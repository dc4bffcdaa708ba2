package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"tikcut/internal/ports"
	"tikcut/internal/types"
)

// Frame describes the output geometry and encode settings.
type Frame struct {
	Width  int
	Height int
	Preset string
	CRF    int
}

func DefaultFrame() Frame {
	return Frame{Width: 1080, Height: 1920, Preset: "veryfast", CRF: 21}
}

type Adapter struct {
	ffmpeg  string
	ffprobe string
	frame   Frame
}

func New(ffmpegPath, ffprobePath string, frame Frame) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	def := DefaultFrame()
	if frame.Width <= 0 || frame.Height <= 0 {
		frame.Width, frame.Height = def.Width, def.Height
	}
	if frame.Preset == "" {
		frame.Preset = def.Preset
	}
	if frame.CRF <= 0 {
		frame.CRF = def.CRF
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, frame: frame}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inPath, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg extract audio: %v\n%s", ports.ErrTranscription, err, string(b))
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, inPath string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return types.SecondsToDuration(sec), nil
}

func (a *Adapter) RenderVertical(ctx context.Context, inPath string, w types.Window, assPath, outPath string) error {
	args := []string{
		"-y",
		"-ss", fmtSeconds(w.Start),
		"-to", fmtSeconds(w.End),
		"-i", inPath,
		"-vf", a.verticalFilter(assPath),
		"-c:v", "libx264",
		"-preset", a.frame.Preset,
		"-crf", strconv.Itoa(a.frame.CRF),
		"-c:a", "aac",
		"-b:a", "192k",
		outPath,
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg render: %v\n%s", ports.ErrRender, err, string(b))
	}
	return nil
}

// verticalFilter center-crops the source to the target aspect ratio, scales
// to the output frame, and optionally burns subtitles in. Commas inside
// min() are escaped so the filter graph parser does not split on them.
func (a *Adapter) verticalFilter(assPath string) string {
	w, h := a.frame.Width, a.frame.Height
	filter := fmt.Sprintf("crop=w=min(iw\\,ih*%d/%d):h=min(ih\\,iw*%d/%d),scale=%d:%d", w, h, h, w, w, h)
	if assPath != "" {
		filter += ",subtitles=" + escapeFilterPath(assPath)
	}
	return filter
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
