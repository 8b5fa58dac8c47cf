// Package textscore renders decoded payload bytes as displayable text
// and judges how much a byte sequence looks like natural text. The
// scoring is what lets a blind parameter scan rank thousands of
// garbage decodings below the one real message.
package textscore

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"pixelveil/pkg/bitstream"
)

// Mode selects how raw bytes are interpreted as text.
type Mode int

const (
	ModeUTF8 Mode = iota
	ModeASCII
)

func (m Mode) String() string {
	if m == ModeASCII {
		return "ascii"
	}
	return "utf8"
}

// ParseMode maps the CLI/config token onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "utf8", "utf-8":
		return ModeUTF8, nil
	case "ascii":
		return ModeASCII, nil
	}
	return 0, fmt.Errorf("unknown text encoding %q", s)
}

// Rendered is the displayable form of a payload plus the counters the
// heuristic scorer needs.
type Rendered struct {
	Text             string
	Replacements     int // invalid sequences that became '_'
	FirstReplacement int // rune index of the first one, -1 if none
	TrailingZeros    int // zero bytes at the end of the payload
	TotalBytes       int
}

// Render produces display text from a decoded payload. Zero bytes
// render as nothing at all: they are "no character", the natural
// result of capacity padding, not a NUL glyph. A nonzero tail appends
// a single '_' marker; an all-zero tail stays silent so harmless
// padding is not flagged as a decode anomaly.
func Render(p bitstream.Payload, mode Mode) Rendered {
	out := Rendered{FirstReplacement: -1, TotalBytes: len(p.Bytes)}

	for i := len(p.Bytes) - 1; i >= 0 && p.Bytes[i] == 0; i-- {
		out.TrailingZeros++
	}

	var b strings.Builder
	runeIndex := 0
	if mode == ModeASCII {
		for _, c := range p.Bytes {
			switch {
			case c == 0:
				// no character
			case c >= 0x20 && c <= 0x7e, c == '\t', c == '\n', c == '\r':
				b.WriteByte(c)
				runeIndex++
			default:
				b.WriteByte('.')
				runeIndex++
			}
		}
	} else {
		// Maximal runs between zero bytes, decoded permissively.
		start := -1
		flush := func(end int) {
			if start < 0 {
				return
			}
			for _, r := range string(p.Bytes[start:end]) {
				switch {
				case r == utf8.RuneError:
					b.WriteByte('_')
					out.Replacements++
					if out.FirstReplacement < 0 {
						out.FirstReplacement = runeIndex
					}
					runeIndex++
				case r == '\t' || r == '\n' || r == '\r':
					b.WriteRune(r)
					runeIndex++
				case unicode.IsControl(r):
					b.WriteByte('.')
					runeIndex++
				default:
					b.WriteRune(r)
					runeIndex++
				}
			}
			start = -1
		}
		for i, c := range p.Bytes {
			if c == 0 {
				flush(i)
			} else if start < 0 {
				start = i
			}
		}
		flush(len(p.Bytes))
	}

	if p.HasTail && p.TailBits != 0 {
		b.WriteByte('_')
	}
	out.Text = b.String()
	return out
}

// StripPadMarker removes the trailing tail marker, if present, for
// callers that want the clean message text.
func StripPadMarker(s string) string {
	return strings.TrimSuffix(s, "_")
}
