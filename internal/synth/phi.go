package synth

import "strings"

// phiKeywords flag labels that typically carry protected health information.
// Matching is substring-based on lowercased source text.
var phiKeywords = []string{
	"name",
	"dob",
	"birth",
	"ssn",
	"social",
	"address",
	"phone",
	"email",
	"medical",
	"diagnosis",
	"medication",
}

// IsPotentialPHI reports whether source text names a field that typically
// holds protected health information. PHI fields are flagged for audit.
func IsPotentialPHI(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range phiKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
