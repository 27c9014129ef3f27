// File: internal/usecase/triage_uc.go
package usecase

import "strings"

// Compile-time check
var _ TriageUseCase = (*triageUC)(nil)

// EmergencyAdvisory is the fixed reply returned whenever an emergency
// symptom is detected. The model is never consulted for these.
const EmergencyAdvisory = "⚠️ This seems critical. Please call emergency helplines 108 / 102 immediately. " +
	"Go to the nearest hospital. Stay calm and seek urgent medical help."

// emergencySymptoms is matched as lower-cased substrings. Substring
// matching is intentional and inherits its false positives ("no chest
// pain" still matches).
var emergencySymptoms = []string{
	"chest pain",
	"shortness of breath",
	"trouble breathing",
	"loss of consciousness",
	"stroke",
	"sudden numbness",
	"severe bleeding",
}

type TriageUseCase interface {
	// Screen reports whether the message names an emergency symptom and,
	// when it does, the advisory text to answer with.
	Screen(message string) (advisory string, emergency bool)
}

type triageUC struct {
	symptoms []string
}

func NewTriageUseCase() *triageUC {
	return &triageUC{symptoms: emergencySymptoms}
}

func (t *triageUC) Screen(message string) (string, bool) {
	lowered := strings.ToLower(message)
	for _, symptom := range t.symptoms {
		if strings.Contains(lowered, symptom) {
			return EmergencyAdvisory, true
		}
	}
	return "", false
}
