package youtube

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// The watch/embed/v/shorts and youtu.be URL forms, each capturing the
// 11-character video ID.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/watch\?(?:.*&)?v=([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/embed/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/v/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/shorts/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`^(?:https?://)?youtu\.be/([0-9A-Za-z_-]{11})`),
}

// ValidateURL reports whether url is a recognized YouTube video URL.
func ValidateURL(url string) bool {
	return ExtractVideoID(url) != ""
}

// ExtractVideoID returns the 11-character video ID, or "" when the URL is
// not a recognized YouTube form.
func ExtractVideoID(url string) string {
	url = strings.TrimSpace(url)
	for _, p := range urlPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// ReadURLList loads one URL per line from path. Blank lines and lines
// starting with # are skipped; invalid URLs fail the whole read so a batch
// never starts with a known-bad entry.
func ReadURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !ValidateURL(line) {
			return nil, fmt.Errorf("%s:%d: not a YouTube URL: %s", path, lineNum, line)
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
