package captions

import (
	"fmt"
	"strings"
	"time"

	"tikcut/internal/types"
)

// Style controls how burned-in captions look. Zero values fall back to
// DefaultStyle at render time.
type Style struct {
	Font     string
	FontSize int
	PlayResX int
	PlayResY int
}

// DefaultStyle is the vertical-video look: white text with a black
// outline, bottom-centered at roughly three quarters of the frame height.
func DefaultStyle() Style {
	return Style{Font: "Arial", FontSize: 64, PlayResX: 1080, PlayResY: 1920}
}

// RenderASS produces an ASS document for the cue sequence, one dialogue
// event per cue.
func RenderASS(cues []types.Cue, st Style) string {
	def := DefaultStyle()
	if st.Font == "" {
		st.Font = def.Font
	}
	if st.FontSize <= 0 {
		st.FontSize = def.FontSize
	}
	if st.PlayResX <= 0 || st.PlayResY <= 0 {
		st.PlayResX = def.PlayResX
		st.PlayResY = def.PlayResY
	}

	var b strings.Builder
	fmt.Fprintf(&b, `[Script Info]
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Caption, %s, %d, &H00FFFFFF, &H00FFFFFF, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,4,1,2, 90,90,%d,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`, st.PlayResX, st.PlayResY, st.Font, st.FontSize, st.PlayResY/4)

	for _, c := range cues {
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Caption,,0,0,0,,%s\n",
			assTime(c.Start), assTime(c.End), sanitizeASS(c.Text))
	}
	return b.String()
}

func assTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hs := int(d / time.Hour)
	d -= time.Duration(hs) * time.Hour
	ms := int(d / time.Minute)
	d -= time.Duration(ms) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	cs := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%d:%02d:%02d.%02d", hs, ms, s, cs)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return strings.TrimSpace(s)
}
