// Package models defines the data structures exchanged by the pipeline.
package models

import "strings"

// SectionMissing is the placeholder used when the LLM provides no content
// for a SOAP section.
const SectionMissing = "N/A"

// SOAPNote is a structured clinical note in Subjective/Objective/
// Assessment/Plan form, produced by the summarizer from a transcript.
type SOAPNote struct {
	Subjective string `json:"Subjective"`
	Objective  string `json:"Objective"`
	Assessment string `json:"Assessment"`
	Plan       string `json:"Plan"`
}

// EmptyNote returns a note with every section marked missing.
func EmptyNote() SOAPNote {
	return SOAPNote{
		Subjective: SectionMissing,
		Objective:  SectionMissing,
		Assessment: SectionMissing,
		Plan:       SectionMissing,
	}
}

// FillMissing replaces empty sections with the missing placeholder.
func (n *SOAPNote) FillMissing() {
	for _, s := range []*string{&n.Subjective, &n.Objective, &n.Assessment, &n.Plan} {
		if strings.TrimSpace(*s) == "" {
			*s = SectionMissing
		}
	}
}

// IsEmpty reports whether every section is missing.
func (n SOAPNote) IsEmpty() bool {
	return n.Subjective == SectionMissing &&
		n.Objective == SectionMissing &&
		n.Assessment == SectionMissing &&
		n.Plan == SectionMissing
}

// Entity is a normalized (surface text, label) pair extracted by the
// clinical NER model. Entities are compared as set members; no identity
// persists beyond a single request.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// NERMetrics holds set-overlap scores between reference and system
// entity sets.
type NERMetrics struct {
	TP        int     `json:"TP"`
	FP        int     `json:"FP"`
	FN        int     `json:"FN"`
	Precision float64 `json:"Precision"`
	Recall    float64 `json:"Recall"`
	F1        float64 `json:"F1_Score"`
}

// Action result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusWarning = "warning"
)

// ActionResult is the tagged outcome of a downstream action (medicine
// save, appointment email). Failures carry an error message; there is no
// retry and no partial-success tracking.
type ActionResult struct {
	Status       string `json:"status"`
	Result       string `json:"result,omitempty"`
	Error        string `json:"error,omitempty"`
	EmailContent string `json:"email_content,omitempty"`
	Message      string `json:"message,omitempty"`
}

// SuccessResult builds a success outcome with a result payload.
func SuccessResult(result string) ActionResult {
	return ActionResult{Status: StatusSuccess, Result: result}
}

// ErrorResult converts an error into an error outcome.
func ErrorResult(err error) ActionResult {
	return ActionResult{Status: StatusError, Error: err.Error()}
}
