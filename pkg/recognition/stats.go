package recognition

import (
	"gonum.org/v1/gonum/stat"
)

// Tier buckets a confidence score for display and triage.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// TierFor classifies a 0-100 confidence score. Scores above 90 are high,
// scores below 70 are low, everything between is medium.
func TierFor(confidence float64) Tier {
	switch {
	case confidence > 90:
		return TierHigh
	case confidence < 70:
		return TierLow
	default:
		return TierMedium
	}
}

// Summary aggregates the confidence distribution of a recognition result.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	High   int     `json:"high"`
	Medium int     `json:"medium"`
	Low    int     `json:"low"`
}

// Summarize computes confidence statistics across every element of a result.
func Summarize(res *Result) Summary {
	var scores []float64
	if res != nil {
		for _, page := range res.Pages {
			for _, el := range page.Elements {
				scores = append(scores, el.Confidence)
			}
		}
	}
	return summarizeScores(scores)
}

// SummarizeElements computes confidence statistics for one element list.
func SummarizeElements(elements []Element) Summary {
	scores := make([]float64, 0, len(elements))
	for _, el := range elements {
		scores = append(scores, el.Confidence)
	}
	return summarizeScores(scores)
}

func summarizeScores(scores []float64) Summary {
	s := Summary{Count: len(scores)}
	if len(scores) == 0 {
		return s
	}
	s.Mean = stat.Mean(scores, nil)
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}
	s.Min = scores[0]
	s.Max = scores[0]
	for _, score := range scores {
		if score < s.Min {
			s.Min = score
		}
		if score > s.Max {
			s.Max = score
		}
		switch TierFor(score) {
		case TierHigh:
			s.High++
		case TierLow:
			s.Low++
		default:
			s.Medium++
		}
	}
	return s
}
