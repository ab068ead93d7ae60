// Package agent executes the downstream actions approved by the
// clinician: recording prescribed medicines and scheduling the
// appointment confirmation email.
package agent

import (
	"context"
	"strings"
	"time"

	"medical-audio-processor/internal/models"
	"medical-audio-processor/internal/observability/logging"
	"medical-audio-processor/internal/observability/metrics"
	"medical-audio-processor/internal/service/llm"
)

// Markers delimiting agent-relevant subsections in the LLM analysis.
const (
	medicinesMarker   = "MEDICINES_FOUND:"
	appointmentMarker = "APPOINTMENT_FOUND:"
)

// NoAppointmentPreview is the fixed fallback preview when the plan
// contains no appointment.
const NoAppointmentPreview = "No appointment information found in the plan."

// analysisPrompt asks the LLM to pull medicines and appointments out of
// the plan section in the marker format the routers split on.
const analysisPrompt = `
Analyze this medical plan section and extract information:

Plan: {plan_section}

Please identify:
1. MEDICINES: List any medications, drugs, prescriptions mentioned with complete details
2. APPOINTMENTS: List any follow-up appointments, schedules, or future visits mentioned

Format your response exactly like this:
MEDICINES_FOUND: [If medicines found, list them with complete details separated by semicolons. If none, write "none"]
APPOINTMENT_FOUND: [If appointments found, describe them. If none, write "none"]

For medicines, keep the complete prescription details together (name, dosage, frequency, instructions).
For appointments, include timing, purpose, and any special instructions.
`

// MedicineStore persists parsed medicine records.
type MedicineStore interface {
	SaveMedicines(ctx context.Context, medicines []string) (string, error)
}

// EmailSender dispatches the appointment confirmation.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// Agent routes plan-section analysis results to the collaborators.
type Agent struct {
	llmClient llm.Client
	store     MedicineStore
	sender    EmailSender
	metrics   *metrics.Metrics
}

// New constructs an Agent.
func New(client llm.Client, store MedicineStore, sender EmailSender) *Agent {
	return &Agent{
		llmClient: client,
		store:     store,
		sender:    sender,
		metrics:   metrics.DefaultMetrics,
	}
}

// analyze re-invokes the LLM against the plan section.
func (a *Agent) analyze(ctx context.Context, planSection string) (string, error) {
	prompt := strings.Replace(analysisPrompt, "{plan_section}", planSection, 1)
	start := time.Now()
	analysis, err := a.llmClient.Generate(ctx, prompt)
	a.metrics.RecordLLMCall("analyze_plan", err, time.Since(start).Seconds())
	return analysis, err
}

// ProcessMedicines extracts the medicines payload from the plan
// analysis and persists any records found. Any failure is converted to
// an error result; an absent marker or "none" payload is a successful
// no-op.
func (a *Agent) ProcessMedicines(ctx context.Context, planSection string) models.ActionResult {
	logger := logging.WithComponent("agent")
	logger.Info().Msg("Processing medicines")

	analysis, err := a.analyze(ctx, planSection)
	if err != nil {
		logger.Error().Err(err).Msg("Medicine processing failed")
		a.metrics.RecordAction("medicine", models.StatusError)
		return models.ErrorResult(err)
	}

	medicinesText := extractMarkerPayload(analysis, medicinesMarker, appointmentMarker)
	if medicinesText == "" || strings.EqualFold(medicinesText, "none") {
		a.metrics.RecordAction("medicine", models.StatusSuccess)
		return models.SuccessResult("No medicines found.")
	}

	logger.Info().Str("medicines", medicinesText).Msg("Saving medicines")
	medicines := ParseMedicines(medicinesText)
	saved, err := a.store.SaveMedicines(ctx, medicines)
	if err != nil {
		logger.Error().Err(err).Msg("Medicine save failed")
		a.metrics.RecordAction("medicine", models.StatusError)
		return models.ErrorResult(err)
	}

	a.metrics.RecordAction("medicine", models.StatusSuccess)
	return models.SuccessResult(saved)
}

// ProcessAppointment extracts appointment details from the plan
// analysis. With sendEmail false it composes the confirmation body for
// caller-side preview; with sendEmail true it dispatches the email.
func (a *Agent) ProcessAppointment(ctx context.Context, planSection, userEmail string, sendEmail bool) models.ActionResult {
	logger := logging.WithComponent("agent")
	logger.Info().Bool("sendEmail", sendEmail).Msg("Processing appointment")

	analysis, err := a.analyze(ctx, planSection)
	if err != nil {
		logger.Error().Err(err).Msg("Appointment processing failed")
		a.metrics.RecordAction("appointment", models.StatusError)
		return models.ErrorResult(err)
	}

	appointmentText := extractMarkerPayload(analysis, appointmentMarker, "")
	if appointmentText == "" || strings.EqualFold(appointmentText, "none") {
		a.metrics.RecordAction("appointment", models.StatusSuccess)
		res := models.SuccessResult("No appointment found.")
		if !sendEmail {
			res.EmailContent = NoAppointmentPreview
		}
		return res
	}

	body := AppointmentEmailBody(appointmentText, planSection)

	if !sendEmail {
		logger.Info().Msg("Email content generated for preview (not sent)")
		a.metrics.RecordAction("appointment", models.StatusSuccess)
		return models.ActionResult{
			Status:       models.StatusSuccess,
			EmailContent: body,
			Message:      "Email content generated for preview",
		}
	}

	sent, err := a.sender.Send(ctx, userEmail, "Appointment Schedule", body)
	if err != nil {
		logger.Error().Err(err).Str("to", userEmail).Msg("Appointment email failed")
		a.metrics.RecordAction("appointment", models.StatusError)
		return models.ErrorResult(err)
	}

	a.metrics.RecordAction("appointment", models.StatusSuccess)
	return models.ActionResult{
		Status:  models.StatusSuccess,
		Result:  sent,
		Message: "Appointment email sent successfully",
	}
}

// extractMarkerPayload returns the trimmed substring after marker, cut
// at the next marker when given, or "" when the marker is absent.
func extractMarkerPayload(analysis, marker, nextMarker string) string {
	idx := strings.Index(analysis, marker)
	if idx < 0 {
		return ""
	}
	payload := analysis[idx+len(marker):]
	if nextMarker != "" {
		if cut := strings.Index(payload, nextMarker); cut >= 0 {
			payload = payload[:cut]
		}
	}
	return strings.TrimSpace(payload)
}

// AppointmentEmailBody builds the fixed-template confirmation email
// embedding the extracted appointment text and the full plan section.
func AppointmentEmailBody(appointmentText, planSection string) string {
	var b strings.Builder
	b.WriteString("Subject: Medical Appointment Confirmation\n\n")
	b.WriteString("Dear Patient,\n\n")
	b.WriteString("This is a confirmation of your upcoming medical appointment based on your recent consultation.\n\n")
	b.WriteString("APPOINTMENT DETAILS:\n")
	b.WriteString(appointmentText)
	b.WriteString("\n\nFULL TREATMENT PLAN:\n")
	b.WriteString(planSection)
	b.WriteString("\n\nIMPORTANT REMINDERS:\n")
	b.WriteString("- Please arrive 15 minutes early for check-in\n")
	b.WriteString("- Bring your ID and insurance card\n")
	b.WriteString("- Bring a list of current medications\n")
	b.WriteString("- If you need to reschedule, please contact us at least 24 hours in advance\n\n")
	b.WriteString("If you have any questions or concerns, please contact our office.\n\n")
	b.WriteString("Best regards,\nMedical Team\n\n---\nThis is an automated message. Please do not reply to this email.\n")
	return b.String()
}
