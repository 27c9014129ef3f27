//go:build !integration

// File: internal/usecase/triage_uc_test.go
package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriageScreen(t *testing.T) {
	triage := NewTriageUseCase()

	cases := []struct {
		name      string
		message   string
		emergency bool
	}{
		{"plain symptom", "I have chest pain since morning", true},
		{"upper case", "SEVERE BLEEDING from a cut", true},
		{"mixed case mid-sentence", "my father had a Stroke last year and now feels dizzy", true},
		{"shortness of breath", "experiencing shortness of breath while climbing stairs", true},
		{"negation still matches", "no chest pain but I am worried", true},
		{"benign question", "what should I eat for a cold?", false},
		{"partial word", "my chest feels tight", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			advisory, emergency := triage.Screen(tc.message)
			assert.Equal(t, tc.emergency, emergency)
			if tc.emergency {
				assert.Equal(t, EmergencyAdvisory, advisory)
			} else {
				assert.Empty(t, advisory)
			}
		})
	}
}
