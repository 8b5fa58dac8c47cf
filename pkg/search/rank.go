package search

import (
	"math"

	"pixelveil/pkg/textscore"
)

// Compare defines the total order over candidates. Keys are evaluated
// in sequence until one discriminates:
//
//  1. dictionary score, only when both candidates have one
//  2. is-text classification (probabilistic score over the threshold)
//  3. probabilistic score magnitude, beyond a small epsilon
//  4. quality score, beyond a small epsilon
//  5. leading printable run of the payload
//  6. enumeration index, which makes the order total
//
// Negative means a ranks before b.
func Compare(a, b *Candidate) int {
	if a.DictScore > 0 && b.DictScore > 0 && a.DictScore != b.DictScore {
		if a.DictScore > b.DictScore {
			return -1
		}
		return 1
	}

	aText := a.Probabilistic >= textscore.IsTextThreshold
	bText := b.Probabilistic >= textscore.IsTextThreshold
	if aText != bText {
		if aText {
			return -1
		}
		return 1
	}

	if math.Abs(a.Probabilistic-b.Probabilistic) > textscore.ProbabilityEpsilon {
		if a.Probabilistic > b.Probabilistic {
			return -1
		}
		return 1
	}

	if math.Abs(a.Quality-b.Quality) > textscore.QualityEpsilon {
		if a.Quality > b.Quality {
			return -1
		}
		return 1
	}

	if a.PrintableRun != b.PrintableRun {
		if a.PrintableRun > b.PrintableRun {
			return -1
		}
		return 1
	}

	return a.seq - b.seq
}
