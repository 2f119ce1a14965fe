package recognition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelayer/scanform/pkg/geometry"
)

func TestDecodeFlatResponse(t *testing.T) {
	data := []byte(`{
		"elements": [
			{"text": "Patient Name", "type": "label", "confidence": 95, "boundingBox": {"left": 100, "top": 50, "width": 120, "height": 20}},
			{"text": "", "type": "input", "confidence": 150, "boundingBox": {"left": 240, "top": 50, "width": 200, "height": 24}},
			{"text": "mystery", "type": "blob", "confidence": -5, "boundingBox": {"left": 0, "top": 0, "width": 10, "height": 10}}
		]
	}`)

	res, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 1, res.PageCount())

	elements := res.ElementsOn(0)
	require.Len(t, elements, 3)

	assert.Equal(t, "Patient Name", elements[0].Text)
	assert.Equal(t, KindLabel, elements[0].Kind)
	assert.Equal(t, 95.0, elements[0].Confidence)
	assert.Equal(t, geometry.Box{Left: 100, Top: 50, Width: 120, Height: 20}, elements[0].Box)

	assert.Equal(t, KindInput, elements[1].Kind)
	assert.Equal(t, 100.0, elements[1].Confidence, "confidence should clamp to 100")

	assert.Equal(t, KindText, elements[2].Kind, "unknown types should degrade to text")
	assert.Equal(t, 0.0, elements[2].Confidence, "confidence should clamp to 0")
}

func TestDecodePagedResponse(t *testing.T) {
	data := []byte(`{
		"pages": [
			{"rawText": "Page one text", "elements": [
				{"text": "DOB", "type": "label", "confidence": 88, "boundingBox": {"left": 10, "top": 10, "width": 40, "height": 12}}
			]},
			{"rawText": "Page two text", "elements": []}
		]
	}`)

	res, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 2, res.PageCount())

	assert.Equal(t, 1, res.Pages[0].Number)
	assert.Equal(t, 2, res.Pages[1].Number)
	assert.Equal(t, "Page one text", res.RawTextOn(0))
	assert.Equal(t, "Page two text", res.RawTextOn(1))
	assert.Len(t, res.ElementsOn(0), 1)
	assert.Empty(t, res.ElementsOn(1))
}

func TestDecodePrefersPagedShape(t *testing.T) {
	data := []byte(`{
		"elements": [{"text": "stray", "type": "label", "confidence": 50, "boundingBox": {"left": 1, "top": 1, "width": 1, "height": 1}}],
		"pages": [{"rawText": "real", "elements": []}]
	}`)

	res, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 1, res.PageCount())
	assert.Equal(t, "real", res.RawTextOn(0))
	assert.Empty(t, res.ElementsOn(0))
}

func TestDecodeEmptyFlatElements(t *testing.T) {
	res, err := Decode([]byte(`{"elements": []}`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.PageCount())
	assert.True(t, res.Empty())
}

func TestDecodeUnrecognizedShape(t *testing.T) {
	_, err := Decode([]byte(`{"status": "done"}`))
	require.ErrorIs(t, err, ErrUnrecognizedShape)
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"elements": [`))
	require.Error(t, err)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		raw  string
		want ElementKind
	}{
		{"label", KindLabel},
		{"input", KindInput},
		{"checkbox", KindCheckbox},
		{"radio", KindRadio},
		{"select", KindSelect},
		{"selection", KindSelect},
		{"text", KindText},
		{"paragraph", KindText},
		{"", KindText},
	}
	for _, tt := range tests {
		t.Run("kind_"+tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKind(tt.raw))
		})
	}
}

func TestElementIsNormalized(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		want bool
	}{
		{
			name: "explicit flag",
			el:   Element{Box: geometry.Box{Left: 0.5, Top: 0.5, Width: 0.2, Height: 0.1}, Normalized: true},
			want: true,
		},
		{
			name: "inferred from fractional values",
			el:   Element{Box: geometry.Box{Left: 0.1, Top: 0.2, Width: 0.3, Height: 0.1}},
			want: true,
		},
		{
			name: "pixel box",
			el:   Element{Box: geometry.Box{Left: 100, Top: 50, Width: 120, Height: 20}},
			want: false,
		},
		{
			name: "flag wins over pixel-looking values",
			el:   Element{Box: geometry.Box{Left: 0.9, Top: 0.9, Width: 1.5, Height: 0.2}, Normalized: true},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.el.IsNormalized())
		})
	}
}

func TestElementPixelBox(t *testing.T) {
	image := geometry.Size{Width: 1000, Height: 500}

	normalized := Element{Box: geometry.Box{Left: 0.1, Top: 0.2, Width: 0.3, Height: 0.1}}
	assert.Equal(t, geometry.Box{Left: 100, Top: 100, Width: 300, Height: 50}, normalized.PixelBox(image))

	pixel := Element{Box: geometry.Box{Left: 240, Top: 50, Width: 200, Height: 24}}
	assert.Equal(t, pixel.Box, pixel.PixelBox(image), "pixel boxes should pass through")
}

func TestResultAccessorsOutOfRange(t *testing.T) {
	res := FlatResult()
	assert.Nil(t, res.ElementsOn(-1))
	assert.Nil(t, res.ElementsOn(5))
	assert.Equal(t, "", res.RawTextOn(3))

	var nilResult *Result
	assert.Equal(t, 0, nilResult.PageCount())
	assert.True(t, nilResult.Empty())
}
