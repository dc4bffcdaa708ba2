package captions

import (
	"strings"
	"time"

	"tikcut/internal/types"
)

// Limits bound the size of a single on-screen caption.
type Limits struct {
	// MaxLineChars is the character budget per caption line. A word's span
	// counts its text plus one following separator, and a line's total span
	// stays under the budget. A single word longer than the budget is kept
	// whole on its own line, never split.
	MaxLineChars int
	// MaxCueSeconds caps how long one caption stays on screen.
	MaxCueSeconds time.Duration
}

// Repartition regroups the selected segments' text into short caption cues
// sized for vertical video. Word timings are interpolated across each
// segment proportionally to character count, so cues tile every segment
// exactly: no overlap, no gap beyond silence already present between
// segments. Times are rebased so the first cue starts at zero.
func Repartition(segs []types.Segment, lim Limits) []types.Cue {
	if len(segs) == 0 {
		return nil
	}
	base := types.SecondsToDuration(segs[0].Start)

	var cues []types.Cue
	var line []string
	var lineStart time.Duration
	lineSpan := 0

	flush := func(end time.Duration) {
		if len(line) == 0 {
			return
		}
		cues = append(cues, types.Cue{
			Start: lineStart - base,
			End:   end - base,
			Text:  strings.Join(line, " "),
		})
		line = line[:0]
		lineSpan = 0
	}

	for i, seg := range segs {
		words := strings.Fields(seg.Text)
		if len(words) == 0 {
			continue
		}
		segStart := types.SecondsToDuration(seg.Start)
		segEnd := types.SecondsToDuration(seg.End)
		segDur := segEnd - segStart

		spans := wordSpans(words)
		total := 0
		for _, s := range spans {
			total += s
		}

		cum := 0
		for j, w := range words {
			wStart := segStart + segDur*time.Duration(cum)/time.Duration(total)
			cum += spans[j]
			wEnd := segStart + segDur*time.Duration(cum)/time.Duration(total)

			if len(line) > 0 {
				if lineSpan+spans[j] >= lim.MaxLineChars {
					flush(wStart)
				} else if lim.MaxCueSeconds > 0 && wEnd-lineStart > lim.MaxCueSeconds {
					flush(wStart)
				}
			}
			if len(line) == 0 {
				lineStart = wStart
			}
			line = append(line, w)
			lineSpan += spans[j]
		}

		switch {
		case endsSentence(seg.Text):
			flush(segEnd)
		case i+1 < len(segs) && types.SecondsToDuration(segs[i+1].Start) > segEnd:
			// Silence follows; a cue must not stretch across it.
			flush(segEnd)
		case i+1 == len(segs):
			flush(segEnd)
		}
	}
	return cues
}

// wordSpans returns each word's character span: the word itself plus the
// separator that follows it. The last word of a segment carries none.
func wordSpans(words []string) []int {
	spans := make([]int, len(words))
	for i, w := range words {
		spans[i] = len([]rune(w))
		if i < len(words)-1 {
			spans[i]++
		}
	}
	return spans
}

func endsSentence(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	switch t[len(t)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}
