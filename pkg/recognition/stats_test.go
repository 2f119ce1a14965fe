package recognition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		confidence float64
		want       Tier
	}{
		{95, TierHigh},
		{90.5, TierHigh},
		{90, TierMedium},
		{70, TierMedium},
		{69.9, TierLow},
		{0, TierLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.confidence), "confidence %v", tt.confidence)
	}
}

func TestSummarize(t *testing.T) {
	res := &Result{
		Pages: []Page{
			{Number: 1, Elements: []Element{
				{Text: "Name", Confidence: 95},
				{Text: "DOB", Confidence: 80},
			}},
			{Number: 2, Elements: []Element{
				{Text: "Phone", Confidence: 60},
			}},
		},
	}

	s := Summarize(res)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 78.3333, s.Mean, 1e-3)
	assert.InDelta(t, 17.5594, s.StdDev, 1e-3)
	assert.Equal(t, 60.0, s.Min)
	assert.Equal(t, 95.0, s.Max)
	assert.Equal(t, 1, s.High)
	assert.Equal(t, 1, s.Medium)
	assert.Equal(t, 1, s.Low)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, Summary{}, Summarize(&Result{}))
}

func TestSummarizeSingleElement(t *testing.T) {
	s := SummarizeElements([]Element{{Confidence: 88}})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 88.0, s.Mean)
	assert.Equal(t, 0.0, s.StdDev, "one sample has no spread")
	assert.Equal(t, 88.0, s.Min)
	assert.Equal(t, 88.0, s.Max)
	assert.Equal(t, 1, s.Medium)
}
