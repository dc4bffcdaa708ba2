package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"tikcut/internal/ports"
	"tikcut/internal/types"
)

// Adapter shells out to yt-dlp.
type Adapter struct {
	bin         string
	format      string
	cookiesFile string
}

func New(binPath, format, cookiesFile string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	if format == "" {
		format = "best[height<=1080][ext=mp4]/best[ext=mp4]/best"
	}
	return &Adapter{bin: binPath, format: format, cookiesFile: cookiesFile}
}

// Probe extracts video metadata without downloading media.
func (a *Adapter) Probe(ctx context.Context, url string) (types.VideoInfo, error) {
	args := []string{"--dump-json", "--no-playlist", "--no-warnings"}
	args = a.withCookies(args)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, a.bin, args...)
	out, err := cmd.Output()
	if err != nil {
		return types.VideoInfo{}, fmt.Errorf("%w: probe %s: %s", ports.ErrDownload, url, execDetail(err))
	}
	return parseInfo(out)
}

// Fetch downloads the video into destDir and returns the resolved file
// path as yt-dlp reports it after post-processing moves.
func (a *Adapter) Fetch(ctx context.Context, url, destDir string) (string, error) {
	args := []string{
		"-f", a.format,
		"--no-playlist",
		"--no-warnings",
		"--restrict-filenames",
		"-o", filepath.Join(destDir, "%(id)s.%(ext)s"),
		"--no-simulate",
		"--print", "after_move:filepath",
	}
	args = a.withCookies(args)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, a.bin, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %s", ports.ErrDownload, url, execDetail(err))
	}
	path := lastLine(string(out))
	if path == "" {
		return "", fmt.Errorf("%w: fetch %s: yt-dlp reported no output file", ports.ErrDownload, url)
	}
	return path, nil
}

func (a *Adapter) withCookies(args []string) []string {
	if a.cookiesFile != "" {
		return append(args, "--cookies", a.cookiesFile)
	}
	return args
}

func parseInfo(raw []byte) (types.VideoInfo, error) {
	var info types.VideoInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return types.VideoInfo{}, fmt.Errorf("%w: parse probe output: %v", ports.ErrDownload, err)
	}
	if info.ID == "" {
		return types.VideoInfo{}, fmt.Errorf("%w: probe output has no video id", ports.ErrDownload)
	}
	return info, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// execDetail surfaces yt-dlp's stderr, which carries the human-readable
// reason (geo block, private video, network) instead of just an exit code.
func execDetail(err error) string {
	if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
		return strings.TrimSpace(string(ee.Stderr))
	}
	return err.Error()
}
