package types

import "time"

// Transcript matches the JSON shape whisper.cpp emits with -oj.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Dur converts the segment's length to a duration.
func (s Segment) Dur() time.Duration {
	return SecondsToDuration(s.End - s.Start)
}

// Window is the contiguous sub-range of the source timeline kept in the
// output. Both edges always coincide with segment boundaries.
type Window struct {
	Start time.Duration
	End   time.Duration
}

func (w Window) Dur() time.Duration { return w.End - w.Start }

// Cue is one on-screen caption line. Times are relative to the trimmed
// clip, so the first cue of a window starts at zero.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// VideoInfo is the subset of the yt-dlp probe output the pipeline needs.
type VideoInfo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Uploader string  `json:"uploader"`
	Ext      string  `json:"ext"`
}

// Outcome is the per-video record a batch run reports.
type Outcome struct {
	URL        string
	VideoID    string
	Title      string
	OutputPath string
	ClipDur    time.Duration
	Cues       int
	Skipped    bool
	Err        error
}

func SecondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
