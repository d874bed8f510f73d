package record

import "testing"

func TestClassifyDiagnosis(t *testing.T) {
	tests := []struct {
		name      string
		diagnosis string
		want      string
	}{
		{"empty", "", StatusNormal},
		{"clean finding", "No acute cardiopulmonary process", StatusNormal},
		{"abnormal keyword", "Abnormal opacity in left lower lobe", StatusAbnormal},
		{"mixed case", "Findings SUSPICIOUS for malignancy", StatusAbnormal},
		{"keyword inside sentence", "Results concerning, follow up advised", StatusAbnormal},
		{"positive finding", "Positive for pneumothorax", StatusAbnormal},
		{"keyword as substring", "Seropositive screening result", StatusAbnormal},
		{"negated phrasing still flags", "No abnormal findings", StatusAbnormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDiagnosis(tt.diagnosis); got != tt.want {
				t.Errorf("ClassifyDiagnosis(%q) = %q, want %q", tt.diagnosis, got, tt.want)
			}
		})
	}
}
