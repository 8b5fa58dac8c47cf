package textscore

import (
	"bytes"
	"math"
	"unicode"

	"github.com/klauspost/compress/flate"
)

// Tunable scoring constants. These were tuned empirically against
// decodings of real and garbage payloads; they are knobs, not laws.
const (
	// heuristic (0-100) floors
	replacementWindow    = 50   // a '_' inside this many leading chars sinks the score
	replacementRatioMax  = 0.05 // tolerated ratio of replacement chars
	printableRatioFloor  = 0.6  // below this the text is junk
	repetitionRatioLimit = 0.4  // top character dominating means repetition

	// probabilistic (0-1) feature weights
	weightControl    = 0.25
	weightEntropy    = 0.25
	weightCompress   = 0.20
	weightPairs      = 0.15
	weightWhitespace = 0.15

	// logistic squash around the empirical midpoint
	logisticSteepness = 8.0
	logisticMidpoint  = 0.55

	// minimum input for the compression feature to be meaningful;
	// below this the flate header noise dominates and the feature
	// stays neutral
	compressMinBytes = 64

	// classification and tie-break thresholds used by the ranking
	IsTextThreshold    = 0.5
	ProbabilityEpsilon = 0.05
	QualityEpsilon     = 5.0
)

// HeuristicScore is the fast, explainable 0-100 judgment of rendered
// text. Hard floors fire before any blending: replacement characters
// near the start, excessive replacement ratio or a low printable ratio
// all mean the parameters were wrong, no matter what the rest says.
func HeuristicScore(r Rendered) float64 {
	runes := []rune(r.Text)
	if len(runes) == 0 {
		return 0
	}

	if r.FirstReplacement >= 0 && r.FirstReplacement < replacementWindow {
		return 2
	}
	if float64(r.Replacements)/float64(len(runes)) > replacementRatioMax {
		return 5
	}

	printable := 0
	letters := 0
	punct := 0
	freq := map[rune]int{}
	for _, c := range runes {
		if c >= 0x20 && c != 0x7f || c == '\t' || c == '\n' || c == '\r' {
			printable++
		}
		switch {
		case isLetter(c):
			letters++
		case isPunct(c):
			punct++
		}
		freq[c]++
	}
	printableRatio := float64(printable) / float64(len(runes))
	if printableRatio < printableRatioFloor {
		return 5
	}

	top := 0
	for _, n := range freq {
		if n > top {
			top = n
		}
	}
	repetition := float64(top) / float64(len(runes))

	letterRatio := float64(letters) / float64(len(runes))
	punctRatio := float64(punct) / float64(len(runes))
	balance := 1.0
	if punctRatio > letterRatio {
		balance = 0.3
	}

	padRatio := 0.0
	if r.TotalBytes > 0 {
		padRatio = float64(r.TrailingZeros) / float64(r.TotalBytes)
	}

	entropy := runeEntropy(runes)
	entropyScore := ramp(entropy, 1.0, 3.0, 4.8, 6.5)

	score := 40*printableRatio + 20*letterRatio*balance + 25*entropyScore + 15*(1-padRatio*0.5)
	if repetition > repetitionRatioLimit && len(runes) >= 8 {
		score *= 0.3
	}
	return clamp(score, 0, 100)
}

// ProbabilisticScore is the normalized 0-1 classifier over raw bytes.
// Five statistical features are each mapped into [0,1], combined with
// fixed weights and squashed through a logistic curve.
func ProbabilisticScore(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	control := 0
	whitespace := 0
	for _, b := range data {
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			whitespace++
		case b < 0x20 || b == 0x7f:
			control++
		}
	}
	controlRatio := float64(control) / float64(len(data))
	wsRatio := float64(whitespace) / float64(len(data))

	fControl := clamp(1-4*controlRatio, 0, 1)
	fEntropy := ramp(byteEntropy(data), 1.5, 3.5, 5.0, 7.0)
	fCompress := compressFeature(data)
	fPairs := ramp(uniquePairRatio(data), 0.0, 0.15, 0.80, 1.02)
	fWhitespace := ramp(wsRatio, 0.0, 0.05, 0.30, 0.60)

	s := weightControl*fControl +
		weightEntropy*fEntropy +
		weightCompress*fCompress +
		weightPairs*fPairs +
		weightWhitespace*fWhitespace

	return 1 / (1 + math.Exp(-logisticSteepness*(s-logisticMidpoint)))
}

// QualityScore blends the probabilistic classification with direct
// text measurements into a bounded 0-100 value used for tie-breaking.
func QualityScore(data []byte, prob float64) float64 {
	if len(data) == 0 {
		return 0
	}
	letters := 0
	symbols := 0
	hasWhitespace := false
	for _, b := range data {
		switch {
		case b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z':
			letters++
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			hasWhitespace = true
		case b >= 0x21 && b <= 0x2f || b >= 0x3a && b <= 0x40 || b >= 0x5b && b <= 0x60 || b >= 0x7b && b <= 0x7e:
			symbols++
		}
	}
	letterRatio := float64(letters) / float64(len(data))
	symbolRatio := float64(symbols) / float64(len(data))

	score := 60*prob + 25*letterRatio
	if hasWhitespace {
		score += 10
	}
	if symbolRatio > 0.3 {
		score -= 20 * (symbolRatio - 0.3)
	}
	return clamp(score, 0, 100)
}

// TrimPadding drops trailing zero bytes from a scoring window. Zero
// bytes are capacity padding, not content — the renderer treats them
// as "no character" — so leaving them in would count them as control
// bytes and sink the statistics of an otherwise clean payload.
// Interior zeros are kept.
func TrimPadding(data []byte) []byte {
	end := len(data)
	for end > 0 && data[end-1] == 0 {
		end--
	}
	return data[:end]
}

// LeadingPrintableRun counts printable bytes from the start of the
// payload, the ranking's tie-break of last resort.
func LeadingPrintableRun(data []byte) int {
	n := 0
	for _, b := range data {
		if (b >= 0x20 && b <= 0x7e) || b == '\t' || b == '\n' || b == '\r' {
			n++
		} else {
			break
		}
	}
	return n
}

// compressFeature maps the flate compressed/uncompressed size ratio
// into [0,1]. Natural text lands around 0.4-0.8; random bytes do not
// compress and already-compressed or constant data collapses.
func compressFeature(data []byte) float64 {
	if len(data) < compressMinBytes {
		return 0.5
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return 0.5
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return 0.5
	}
	if err := w.Close(); err != nil {
		return 0.5
	}
	ratio := float64(buf.Len()) / float64(len(data))
	return ramp(ratio, 0.05, 0.35, 0.85, 1.10)
}

// byteEntropy is the Shannon entropy of the byte distribution,
// in bits per byte.
func byteEntropy(data []byte) float64 {
	var counts [256]int
	for _, b := range data {
		counts[b]++
	}
	total := float64(len(data))
	h := 0.0
	for _, n := range counts {
		if n == 0 {
			continue
		}
		p := float64(n) / total
		h -= p * math.Log2(p)
	}
	return h
}

func runeEntropy(runes []rune) float64 {
	freq := map[rune]int{}
	for _, r := range runes {
		freq[r]++
	}
	total := float64(len(runes))
	h := 0.0
	for _, n := range freq {
		p := float64(n) / total
		h -= p * math.Log2(p)
	}
	return h
}

// uniquePairRatio is the number of distinct adjacent byte pairs over
// the total number of pairs. Repetitive data sits near zero, random
// data near one, text in between.
func uniquePairRatio(data []byte) float64 {
	if len(data) < 2 {
		return 0
	}
	seen := map[[2]byte]struct{}{}
	for i := 0; i+1 < len(data); i++ {
		seen[[2]byte{data[i], data[i+1]}] = struct{}{}
	}
	return float64(len(seen)) / float64(len(data)-1)
}

// ramp maps v onto a trapezoid: 0 outside [lo, hi], 1 inside
// [peakLo, peakHi], linear on the shoulders.
func ramp(v, lo, peakLo, peakHi, hi float64) float64 {
	switch {
	case v <= lo || v >= hi:
		return 0
	case v >= peakLo && v <= peakHi:
		return 1
	case v < peakLo:
		return (v - lo) / (peakLo - lo)
	default:
		return (hi - v) / (hi - peakHi)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' ||
		(r > 0x7f && unicode.IsLetter(r))
}

func isPunct(r rune) bool {
	return r >= 0x21 && r <= 0x2f || r >= 0x3a && r <= 0x40 ||
		r >= 0x5b && r <= 0x60 || r >= 0x7b && r <= 0x7e
}
