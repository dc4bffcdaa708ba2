package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tikcut/internal/config"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(t.TempDir(), "work")
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "out")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	return New(&cfg, nil)
}

func TestOutputPath_CleansTitle(t *testing.T) {
	p := testPipeline(t)
	got := p.outputPath(`How to: win <big>?`)
	if filepath.Base(got) != "How_to_win_big_short.mp4" {
		t.Fatalf("unexpected output name: %s", got)
	}
	if filepath.Dir(got) != p.cfg.Paths.OutputDir {
		t.Fatalf("output outside output dir: %s", got)
	}
}

func TestOutputPath_AvoidsCollisions(t *testing.T) {
	p := testPipeline(t)
	first := p.outputPath("Same Title")
	if err := os.WriteFile(first, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	second := p.outputPath("Same Title")
	if first == second {
		t.Fatalf("expected distinct paths, both %s", first)
	}
	if !strings.HasSuffix(second, "Same_Title_short-2.mp4") {
		t.Fatalf("unexpected collision suffix: %s", second)
	}
}

func TestWorkspace_CleanupRespectsKeepArtifacts(t *testing.T) {
	p := testPipeline(t)

	dir, cleanup, err := p.workspace("video-a")
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "audio.wav"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	cleanup()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected workspace removed, stat err=%v", err)
	}

	p.KeepArtifacts = true
	dir, cleanup, err = p.workspace("video-b")
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	cleanup()
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected workspace kept: %v", err)
	}
}

func TestHash_StableAndShort(t *testing.T) {
	a := hash("https://youtu.be/dQw4w9WgXcQ")
	b := hash("https://youtu.be/dQw4w9WgXcQ")
	if a != b {
		t.Fatalf("hash not stable: %s vs %s", a, b)
	}
	if len(a) != 12 {
		t.Fatalf("unexpected hash length: %s", a)
	}
	if a == hash("other") {
		t.Fatal("distinct inputs must not collide trivially")
	}
}
