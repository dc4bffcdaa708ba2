package ffmpeg

import (
	"strings"
	"testing"
	"time"
)

func TestVerticalFilter(t *testing.T) {
	a := New("", "", DefaultFrame())

	got := a.verticalFilter("")
	want := "crop=w=min(iw\\,ih*1080/1920):h=min(ih\\,iw*1920/1080),scale=1080:1920"
	if got != want {
		t.Fatalf("unexpected filter:\n got %s\nwant %s", got, want)
	}

	withSubs := a.verticalFilter("/tmp/clip.ass")
	if !strings.HasSuffix(withSubs, ",subtitles=/tmp/clip.ass") {
		t.Fatalf("expected subtitles filter appended, got %s", withSubs)
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := escapeFilterPath(`C:\work\clip.ass`)
	if got != `C\:\\work\\clip.ass` {
		t.Fatalf("unexpected escape: %s", got)
	}
}

func TestFmtSeconds(t *testing.T) {
	if got := fmtSeconds(2461 * time.Millisecond); got != "2.461" {
		t.Fatalf("unexpected seconds format: %s", got)
	}
}
