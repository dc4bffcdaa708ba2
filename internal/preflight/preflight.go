package preflight

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"tikcut/internal/config"
)

// Result reports the outcome of a single environment check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// minFreeBytes is the disk space floor below which the work directory
// check fails; a single 1080p source plus render scratch fits well inside.
const minFreeBytes = 2 << 30

// RunAll executes every check the configuration calls for: the external
// binaries the adapters shell out to, the whisper model file, directory
// access, and free disk space.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckBinary("yt-dlp", cfg.Download.Binary, "downloads source videos"),
		CheckBinary("ffmpeg", cfg.FFmpeg.Binary, "extracts audio and renders clips"),
		CheckBinary("ffprobe", cfg.FFmpeg.ProbeBinary, "inspects media durations"),
		CheckBinary("whisper", cfg.Whisper.Binary, "transcribes speech"),
		CheckModelFile(cfg.Whisper.Model),
		CheckDirectoryAccess("work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("output directory", cfg.Paths.OutputDir),
		CheckDiskSpace(cfg.Paths.WorkDir),
	}
	if cfg.Download.CookiesFile != "" {
		results = append(results, CheckFileReadable("cookies file", cfg.Download.CookiesFile))
	}
	return results
}

// CheckBinary verifies command resolves on PATH (or as a direct path).
func CheckBinary(name, command, purpose string) Result {
	path, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%q not found (%s)", command, purpose)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckModelFile verifies the whisper model exists and is a regular file.
func CheckModelFile(path string) Result {
	const name = "whisper model"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s does not exist", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("stat %s: %v", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is a directory", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, humanize.Bytes(uint64(info.Size())))}
}

// CheckDirectoryAccess verifies the directory exists and is read/write.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s does not exist", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("stat %s: %v", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not a directory", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s: insufficient permissions: %v", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFileReadable verifies a plain file exists and is readable.
func CheckFileReadable(name, path string) Result {
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s: %v", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDiskSpace verifies the filesystem under path has working room.
func CheckDiskSpace(path string) Result {
	const name = "disk space"
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs %s: %v", path, err)}
	}
	free := uint64(st.Bavail) * uint64(st.Bsize)
	detail := fmt.Sprintf("%s free under %s", humanize.Bytes(free), path)
	if free < minFreeBytes {
		return Result{Name: name, Detail: detail + fmt.Sprintf(" (need at least %s)", humanize.Bytes(uint64(minFreeBytes)))}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}
