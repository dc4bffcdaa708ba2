package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tikcut/internal/domain/captions"
	"tikcut/internal/domain/trim"
	"tikcut/internal/ports"
	"tikcut/internal/types"
)

type Deps struct {
	Video ports.VideoTool
	ASR   ports.Transcriber
	Log   *slog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return Usecase{d: d}
}

type Input struct {
	InputPath string
	// WorkDir holds per-video scratch artifacts (wav, transcript, subs).
	WorkDir string
	// OutputPath is the final rendered clip location.
	OutputPath string

	MinClip time.Duration
	MaxClip time.Duration

	CaptionLimits captions.Limits
	CaptionStyle  captions.Style
	BurnCaptions  bool
	WriteSRT      bool

	// OnRender, when set, fires right before the render step starts.
	OnRender func()
}

type Result struct {
	Window     types.Window
	Cues       int
	OutputPath string
	SRTPath    string
}

// Run turns one local video file into a captioned vertical clip: extract
// audio, transcribe, pick the window, repartition captions, render.
// A trim.ErrNoWindow surfaces unchanged; whether to skip the video is the
// caller's decision, and the clip is never approximated.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Log

	wav := filepath.Join(in.WorkDir, "audio.wav")
	if err := u.d.Video.ExtractAudioMono16k(ctx, in.InputPath, wav); err != nil {
		return Result{}, err
	}

	tr, err := u.d.ASR.Transcribe(ctx, wav, in.WorkDir)
	if err != nil {
		return Result{}, err
	}
	log.Info("transcribed", "segments", len(tr.Segments))

	window, err := trim.Select(tr.Segments, in.MinClip, in.MaxClip)
	if err != nil {
		return Result{}, err
	}
	log.Info("window selected",
		"start", window.Start.Round(10*time.Millisecond),
		"end", window.End.Round(10*time.Millisecond))

	cues := captions.Repartition(trim.Slice(tr.Segments, window), in.CaptionLimits)

	var assPath string
	if in.BurnCaptions && len(cues) > 0 {
		assPath = filepath.Join(in.WorkDir, "captions.ass")
		if err := writeFile(assPath, []byte(captions.RenderASS(cues, in.CaptionStyle))); err != nil {
			return Result{}, fmt.Errorf("write captions: %w", err)
		}
	}

	var srtPath string
	if in.WriteSRT && len(cues) > 0 {
		ext := filepath.Ext(in.OutputPath)
		srtPath = in.OutputPath[:len(in.OutputPath)-len(ext)] + ".srt"
		if err := writeFile(srtPath, []byte(captions.RenderSRT(cues))); err != nil {
			return Result{}, fmt.Errorf("write srt: %w", err)
		}
	}

	if in.OnRender != nil {
		in.OnRender()
	}
	if err := u.d.Video.RenderVertical(ctx, in.InputPath, window, assPath, in.OutputPath); err != nil {
		return Result{}, err
	}

	return Result{
		Window:     window,
		Cues:       len(cues),
		OutputPath: in.OutputPath,
		SRTPath:    srtPath,
	}, nil
}

func writeFile(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}
