package vertex

import (
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelayer/scanform/pkg/recognition"
)

func TestDocumentPartsPrefersBytes(t *testing.T) {
	parts, err := documentParts(recognition.Document{
		Bytes: []byte("%PDF-1.7"),
		Ref:   "gs://bucket/scan.pdf",
		MIME:  "application/pdf",
	})
	require.NoError(t, err)
	require.Len(t, parts, 1)

	blob, ok := parts[0].(genai.Blob)
	require.True(t, ok, "inline bytes should become a blob part")
	assert.Equal(t, "application/pdf", blob.MIMEType)
	assert.Equal(t, []byte("%PDF-1.7"), blob.Data)
}

func TestDocumentPartsReference(t *testing.T) {
	parts, err := documentParts(recognition.Document{Ref: "gs://bucket/scan.png", MIME: "image/png"})
	require.NoError(t, err)
	require.Len(t, parts, 1)

	file, ok := parts[0].(genai.FileData)
	require.True(t, ok, "a bare reference should become a file part")
	assert.Equal(t, "gs://bucket/scan.png", file.FileURI)
	assert.Equal(t, "image/png", file.MIMEType)
}

func TestDocumentPartsDefaultsMIME(t *testing.T) {
	parts, err := documentParts(recognition.Document{Bytes: []byte("data")})
	require.NoError(t, err)

	blob := parts[0].(genai.Blob)
	assert.Equal(t, "application/pdf", blob.MIMEType)
}

func TestDocumentPartsRejectsEmptyDocument(t *testing.T) {
	_, err := documentParts(recognition.Document{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither bytes nor a reference")
}

func TestRecognitionPromptCarriesOptions(t *testing.T) {
	prompt := recognitionPrompt(recognition.Options{
		EnhanceImage: true,
		DetectTables: true,
		DetectForms:  true,
		Languages:    []string{"en", "es"},
	})

	assert.Contains(t, prompt, `"pages"`)
	assert.Contains(t, prompt, "en, es")
	assert.Contains(t, prompt, "table cells")
	assert.Contains(t, prompt, "fillable form structure")
	assert.Contains(t, prompt, "low-quality scan")
}

func TestRecognitionPromptBareContract(t *testing.T) {
	prompt := recognitionPrompt(recognition.Options{})
	assert.Equal(t, recognitionContract, prompt)
}

func TestResponseTextStripsFences(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{genai.Text("```json\n{\"pages\": []}\n```")},
			},
		}},
	}
	assert.Equal(t, `{"pages": []}`, responseText(resp))
}

func TestResponseTextEmptyShapes(t *testing.T) {
	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
	}))
}

func TestResponseTextDecodesThroughRecognition(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{genai.Text(`{
					"pages": [
						{
							"rawText": "Patient Name ____",
							"elements": [
								{"text": "Patient Name", "type": "label", "confidence": 97,
								 "boundingBox": {"left": 0.08, "top": 0.12, "width": 0.2, "height": 0.02},
								 "normalized": true}
							]
						}
					]
				}`)},
			},
		}},
	}

	res, err := recognition.Decode([]byte(responseText(resp)))
	require.NoError(t, err)
	require.Equal(t, 1, res.PageCount())
	require.Len(t, res.Pages[0].Elements, 1)
	assert.Equal(t, recognition.KindLabel, res.Pages[0].Elements[0].Kind)
	assert.True(t, res.Pages[0].Elements[0].IsNormalized())
}
