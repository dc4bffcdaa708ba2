package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"tikcut/internal/config"
	"tikcut/internal/domain/captions"
	"tikcut/internal/fileutil"
	"tikcut/internal/ports"
	"tikcut/internal/ports/adapters/ffmpeg"
	"tikcut/internal/ports/adapters/whispercpp"
	"tikcut/internal/ports/adapters/ytdlp"
	"tikcut/internal/types"
	"tikcut/internal/usecase"
	"tikcut/internal/youtube"
)

// Stage names reported while a video moves through the pipeline.
const (
	StageDownloading  = "downloading"
	StageTranscribing = "transcribing"
	StageRendering    = "rendering"
)

// StageFunc receives stage transitions for progress reporting. May be nil.
type StageFunc func(stage string)

// Pipeline wires the adapters for one configuration and processes videos
// one at a time. It holds no per-video state, so a single Pipeline can be
// reused across a whole batch.
type Pipeline struct {
	cfg   *config.Config
	log   *slog.Logger
	dl    ports.Downloader
	asr   ports.Transcriber
	video ports.VideoTool

	// KeepArtifacts leaves the per-video workspace (source download, wav,
	// transcript, subtitle files) in place for debugging.
	KeepArtifacts bool
}

func New(cfg *config.Config, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg: cfg,
		log: log,
		dl:  ytdlp.New(cfg.Download.Binary, cfg.Download.Format, cfg.Download.CookiesFile),
		asr: whispercpp.New(cfg.Whisper.Binary, cfg.Whisper.Model, cfg.Whisper.Language, cfg.Whisper.Threads),
		video: ffmpeg.New(cfg.FFmpeg.Binary, cfg.FFmpeg.ProbeBinary, ffmpeg.Frame{
			Width:  cfg.Clip.Width,
			Height: cfg.Clip.Height,
			Preset: cfg.Clip.Preset,
			CRF:    cfg.Clip.CRF,
		}),
	}
}

// ProcessURL downloads one video and turns it into a vertical clip. The
// returned Outcome carries the error as well, so callers collecting batch
// results keep the context either way.
func (p *Pipeline) ProcessURL(ctx context.Context, url string, onStage StageFunc) (types.Outcome, error) {
	out := types.Outcome{URL: url, VideoID: youtube.ExtractVideoID(url)}

	info, err := p.dl.Probe(ctx, url)
	if err != nil {
		out.Err = err
		return out, err
	}
	out.VideoID = info.ID
	out.Title = info.Title

	if maxSrc := p.cfg.Download.MaxSourceSeconds; info.Duration > float64(maxSrc) {
		err := fmt.Errorf("%w: source is %s, longer than the %s limit",
			ports.ErrDownload,
			types.SecondsToDuration(info.Duration).Round(time.Second),
			time.Duration(maxSrc)*time.Second)
		out.Err = err
		return out, err
	}

	ws, cleanup, err := p.workspace(info.ID)
	if err != nil {
		out.Err = err
		return out, err
	}
	defer cleanup()

	report(onStage, StageDownloading)
	p.log.Info("downloading", "url", url, "title", info.Title)
	srcPath, err := p.dl.Fetch(ctx, url, ws)
	if err != nil {
		out.Err = err
		return out, err
	}
	p.log.Info("downloaded", "path", srcPath, "size", fileSize(srcPath))

	res, err := p.process(ctx, srcPath, info.Title, ws, onStage)
	if err != nil {
		out.Err = err
		return out, err
	}
	out.OutputPath = res.OutputPath
	out.ClipDur = res.Window.Dur()
	out.Cues = res.Cues
	return out, nil
}

// ProcessFile runs the same flow on an already-local video, as the watch
// command does for files dropped into the inbox.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, onStage StageFunc) (types.Outcome, error) {
	title := fileutil.DeriveTitle(path)
	out := types.Outcome{URL: path, Title: title}

	ws, cleanup, err := p.workspace(path)
	if err != nil {
		out.Err = err
		return out, err
	}
	defer cleanup()

	res, err := p.process(ctx, path, title, ws, onStage)
	if err != nil {
		out.Err = err
		return out, err
	}
	out.OutputPath = res.OutputPath
	out.ClipDur = res.Window.Dur()
	out.Cues = res.Cues
	return out, nil
}

func (p *Pipeline) process(ctx context.Context, srcPath, title, ws string, onStage StageFunc) (usecase.Result, error) {
	report(onStage, StageTranscribing)

	uc := usecase.New(usecase.Deps{Video: p.video, ASR: p.asr, Log: p.log})
	outputPath := p.outputPath(title)

	res, err := uc.Run(ctx, usecase.Input{
		InputPath:  srcPath,
		WorkDir:    ws,
		OutputPath: outputPath,
		MinClip:    time.Duration(p.cfg.Clip.MinSeconds) * time.Second,
		MaxClip:    time.Duration(p.cfg.Clip.MaxSeconds) * time.Second,
		CaptionLimits: captions.Limits{
			MaxLineChars:  p.cfg.Captions.MaxLineChars,
			MaxCueSeconds: types.SecondsToDuration(p.cfg.Captions.MaxCueSeconds),
		},
		CaptionStyle: captions.Style{
			Font:     p.cfg.Captions.Font,
			FontSize: p.cfg.Captions.FontSize,
			PlayResX: p.cfg.Clip.Width,
			PlayResY: p.cfg.Clip.Height,
		},
		BurnCaptions: p.cfg.Captions.Burn,
		WriteSRT:     p.cfg.Captions.WriteSRT,
		OnRender:     func() { report(onStage, StageRendering) },
	})
	if err != nil {
		return usecase.Result{}, err
	}
	p.log.Info("rendered",
		"output", res.OutputPath,
		"duration", res.Window.Dur().Round(100*time.Millisecond),
		"cues", res.Cues,
		"size", fileSize(res.OutputPath))
	return res, nil
}

// workspace creates the per-video scratch directory. The cleanup removes
// it unless KeepArtifacts is set.
func (p *Pipeline) workspace(seed string) (string, func(), error) {
	dir := filepath.Join(p.cfg.Paths.WorkDir, "runs", hash(seed))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create workspace: %w", err)
	}
	cleanup := func() {
		if p.KeepArtifacts {
			p.log.Debug("keeping workspace", "dir", dir)
			return
		}
		if err := os.RemoveAll(dir); err != nil {
			p.log.Warn("workspace cleanup failed", "dir", dir, "error", err)
		}
	}
	return dir, cleanup, nil
}

func (p *Pipeline) outputPath(title string) string {
	base := fileutil.CleanFilename(title, 100) + "_short"
	return fileutil.UniquePath(p.cfg.Paths.OutputDir, base, ".mp4")
}

func report(onStage StageFunc, stage string) {
	if onStage != nil {
		onStage(stage)
	}
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.Downloader = (*ytdlp.Adapter)(nil)
var _ ports.Transcriber = (*whispercpp.Adapter)(nil)
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
