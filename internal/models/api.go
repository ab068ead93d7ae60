package models

// ProcessAudioResponse is the JSON body returned by POST /process_audio.
// The NER block is present only when reference text was supplied and the
// evaluation succeeded; an evaluation failure is reported in
// NERMetricsError instead of failing the request.
type ProcessAudioResponse struct {
	Transcript        string      `json:"transcript"`
	SOAPSections      SOAPNote    `json:"soap_sections"`
	AudioFileName     string      `json:"audio_file_name"`
	NERMetrics        *NERMetrics `json:"ner_metrics,omitempty"`
	ReferenceEntities []Entity    `json:"reference_entities,omitempty"`
	GeneratedEntities []Entity    `json:"generated_entities,omitempty"`
	NERMetricsError   string      `json:"ner_metrics_error,omitempty"`
}

// ApprovePlanRequest is the JSON body accepted by POST /approve_plan.
// SendEmail defaults to true when omitted.
type ApprovePlanRequest struct {
	PlanSection string `json:"plan_section"`
	UserEmail   string `json:"user_email,omitempty"`
	SendEmail   *bool  `json:"send_email,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

// ApprovePlanResponse reports the outcome of each executed action.
// Partial failures are reported in-body with HTTP 200.
type ApprovePlanResponse struct {
	Status             string        `json:"status,omitempty"`
	MedicineProcessing *ActionResult `json:"medicine_processing,omitempty"`
	AppointmentPreview *ActionResult `json:"appointment_preview,omitempty"`
	AppointmentSending *ActionResult `json:"appointment_sending,omitempty"`
	Message            string        `json:"message"`
}

// ErrorResponse is the uniform JSON error body for HTTP failures.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
