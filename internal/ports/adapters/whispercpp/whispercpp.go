package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"tikcut/internal/ports"
	"tikcut/internal/types"
)

// minSegmentSeconds drops sub-perceptual fragments whisper sometimes emits
// around breaths and cut-off words.
const minSegmentSeconds = 0.1

type Adapter struct {
	bin      string
	model    string
	language string
	threads  int
}

func New(binPath, modelPath, language string, threads int) *Adapter {
	return &Adapter{bin: binPath, model: modelPath, language: language, threads: threads}
}

func (a *Adapter) Transcribe(ctx context.Context, wavPath, workDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(workDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}
	if a.language != "" {
		args = append(args, "-l", a.language)
	}
	if a.threads > 0 {
		args = append(args, "-t", strconv.Itoa(a.threads))
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("%w: whisper.cpp: %v\n%s", ports.ErrTranscription, err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, fmt.Errorf("%w: read whisper output: %v", ports.ErrTranscription, err)
	}

	var tr types.Transcript
	if err := json.Unmarshal(jb, &tr); err != nil {
		return types.Transcript{}, fmt.Errorf("%w: parse whisper output: %v", ports.ErrTranscription, err)
	}
	tr.Segments = normalize(tr.Segments)
	if len(tr.Segments) == 0 {
		return types.Transcript{}, fmt.Errorf("%w: no speech detected in %s", ports.ErrTranscription, wavPath)
	}
	return tr, nil
}

// normalize trims segment text and drops empty or sub-threshold segments
// so downstream selection only ever sees usable speech.
func normalize(segs []types.Segment) []types.Segment {
	out := segs[:0]
	for _, s := range segs {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" {
			continue
		}
		if s.End-s.Start <= minSegmentSeconds {
			continue
		}
		out = append(out, s)
	}
	return out
}
