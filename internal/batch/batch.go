package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"tikcut/internal/history"
	"tikcut/internal/pipeline"
	"tikcut/internal/types"
	"tikcut/internal/youtube"
)

// Processor handles one URL end to end. *pipeline.Pipeline satisfies it.
type Processor interface {
	ProcessURL(ctx context.Context, url string, onStage pipeline.StageFunc) (types.Outcome, error)
}

// Batch runs URLs strictly one after another. A failed video is recorded
// and skipped; the batch keeps going. There are no retries.
type Batch struct {
	store *history.Store
	proc  Processor
	log   *slog.Logger

	lockPath string
	lock     *flock.Flock

	// Force reprocesses videos the history already marks completed.
	Force bool
}

func New(store *history.Store, proc Processor, log *slog.Logger, lockDir string) *Batch {
	if log == nil {
		log = slog.Default()
	}
	lockPath := filepath.Join(lockDir, "tikcut.lock")
	return &Batch{
		store:    store,
		proc:     proc,
		log:      log,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
}

// Run processes the URLs in order and returns one Outcome per URL. The
// error return covers batch-level failures (bad URL list, lock held,
// store unavailable); per-video failures live in the outcomes.
func (b *Batch) Run(ctx context.Context, urls []string) ([]types.Outcome, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs to process")
	}
	if bad := invalidURLs(urls); len(bad) > 0 {
		return nil, fmt.Errorf("not YouTube URLs: %s", strings.Join(bad, ", "))
	}

	locked, err := b.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another tikcut run holds %s", b.lockPath)
	}
	defer func() { _ = b.lock.Unlock() }()

	sessionID := uuid.NewString()
	log := b.log.With("session", sessionID)
	log.Info("batch started", "videos", len(urls))

	outcomes := make([]types.Outcome, 0, len(urls))
	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		log.Info("processing", "video", fmt.Sprintf("%d/%d", i+1, len(urls)), "url", url)
		outcomes = append(outcomes, b.runOne(ctx, url, sessionID))
	}

	done := 0
	for _, o := range outcomes {
		if o.Err == nil && !o.Skipped {
			done++
		}
	}
	log.Info("batch finished", "processed", done, "total", len(urls))
	return outcomes, nil
}

func (b *Batch) runOne(ctx context.Context, url, sessionID string) types.Outcome {
	videoID := youtube.ExtractVideoID(url)

	if !b.Force {
		if prior, err := b.store.FindCompleted(ctx, videoID); err != nil {
			b.log.Warn("history lookup failed", "url", url, "error", err)
		} else if prior != nil {
			b.log.Info("already processed, skipping", "url", url, "output", prior.OutputPath)
			return types.Outcome{
				URL:        url,
				VideoID:    videoID,
				Title:      prior.Title,
				OutputPath: prior.OutputPath,
				Skipped:    true,
			}
		}
	}

	job, err := b.store.Add(ctx, videoID, url, sessionID)
	if err != nil {
		return types.Outcome{URL: url, VideoID: videoID, Err: fmt.Errorf("record job: %w", err)}
	}

	onStage := func(stage string) {
		if err := b.store.SetStatus(ctx, job.ID, stage); err != nil {
			b.log.Warn("status update failed", "job", job.ID, "stage", stage, "error", err)
		}
	}

	outcome, err := b.proc.ProcessURL(ctx, url, onStage)
	if outcome.Title != "" {
		if err := b.store.SetTitle(ctx, job.ID, outcome.Title); err != nil {
			b.log.Warn("title update failed", "job", job.ID, "error", err)
		}
	}
	if err != nil {
		b.log.Error("video failed", "url", url, "error", err)
		if merr := b.store.MarkFailed(ctx, job.ID, err.Error()); merr != nil {
			b.log.Warn("failure update failed", "job", job.ID, "error", merr)
		}
		return outcome
	}

	if err := b.store.MarkCompleted(ctx, job.ID, outcome.OutputPath); err != nil {
		b.log.Warn("completion update failed", "job", job.ID, "error", err)
	}
	return outcome
}

func invalidURLs(urls []string) []string {
	var bad []string
	for _, u := range urls {
		if !youtube.ValidateURL(u) {
			bad = append(bad, u)
		}
	}
	return bad
}
