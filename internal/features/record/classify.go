package record

import "strings"

// Diagnosis fields are free text, so flagging works by case-insensitive
// substring match against a fixed keyword list. This is a triage heuristic,
// not a clinical algorithm.
var abnormalKeywords = []string{"abnormal", "suspicious", "concerning", "positive"}

const (
	StatusNormal   = "Normal"
	StatusAbnormal = "Abnormal"
)

// ClassifyDiagnosis labels a diagnosis string as Normal or Abnormal.
func ClassifyDiagnosis(diagnosis string) string {
	lower := strings.ToLower(diagnosis)
	for _, kw := range abnormalKeywords {
		if strings.Contains(lower, kw) {
			return StatusAbnormal
		}
	}
	return StatusNormal
}
