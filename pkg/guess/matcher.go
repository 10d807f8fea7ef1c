package guess

import "github.com/hbollon/go-edlib"

// Confidence buckets a fuzzy match score.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // score < 0.70
	ConfidenceLow                      // score >= 0.70
	ConfidenceMedium                   // score >= 0.85
	ConfidenceHigh                     // score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Match is the outcome of matching a query against candidate titles.
type Match struct {
	Index      int     // index into the candidate slice, -1 for no match
	Title      string  // the winning candidate, verbatim
	Score      float64 // Jaro-Winkler similarity, 0.0-1.0
	Confidence Confidence
}

// BestMatch finds the candidate title closest to query. Jaro-Winkler
// favors shared prefixes, which suits series titles. Both sides are
// normalized before comparison, so case, accents, and punctuation do
// not affect the score.
func BestMatch(query string, candidates []string) Match {
	best := Match{Index: -1, Confidence: ConfidenceNone}
	if len(candidates) == 0 {
		return best
	}

	q := Normalize(query)
	for i, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(q, Normalize(candidate)))
		if score > best.Score {
			best.Index = i
			best.Title = candidate
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best.Confidence = ConfidenceNone
	}
	return best
}
