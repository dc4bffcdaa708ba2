package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespace   = regexp.MustCompile(`\s+`)
	underscores  = regexp.MustCompile(`_+`)
)

// CleanFilename makes an arbitrary video title safe for the filesystem:
// forbidden characters and whitespace become underscores, runs collapse,
// and the result is length-capped and never empty.
func CleanFilename(name string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = 100
	}
	cleaned := invalidChars.ReplaceAllString(name, "_")
	cleaned = whitespace.ReplaceAllString(strings.TrimSpace(cleaned), "_")
	cleaned = underscores.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(cleaned, "_")

	if len(cleaned) > maxLength {
		cleaned = cleaned[:maxLength]
		if i := strings.LastIndexByte(cleaned, '_'); i > 0 {
			cleaned = cleaned[:i]
		}
	}
	if cleaned == "" {
		return "video"
	}
	return cleaned
}

// DeriveTitle turns a file name into a presentable title: separators become
// spaces, everything else non-alphanumeric is dropped, and words are
// title-cased.
func DeriveTitle(sourcePath string) string {
	if sourcePath == "" {
		return "Untitled"
	}
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var cleaned strings.Builder
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled"
	}
	return cases.Title(language.Und).String(title)
}

// UniquePath returns dir/base+ext, appending -2, -3, ... while the
// candidate already exists.
func UniquePath(dir, base, ext string) string {
	candidate := filepath.Join(dir, base+ext)
	for n := 2; ; n++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, n, ext))
	}
}
