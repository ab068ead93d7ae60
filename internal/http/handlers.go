package http

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"medical-audio-processor/internal/agent"
	"medical-audio-processor/internal/events"
	"medical-audio-processor/internal/models"
	"medical-audio-processor/internal/observability/logging"
	"medical-audio-processor/internal/observability/metrics"
	"medical-audio-processor/internal/pipeline"
	"medical-audio-processor/internal/session"
)

const maxUploadBytes = 100 << 20 // 100MB

// Handler serves the two pipeline endpoints.
type Handler struct {
	processor        *pipeline.Processor
	agent            *agent.Agent
	publisher        *events.Publisher
	uploadDir        string
	defaultRecipient string
	metrics          *metrics.Metrics
	sessions         *session.Tracker
}

// NewHandler constructs a Handler.
func NewHandler(processor *pipeline.Processor, ag *agent.Agent, publisher *events.Publisher, uploadDir, defaultRecipient string) *Handler {
	return &Handler{
		processor:        processor,
		agent:            ag,
		publisher:        publisher,
		uploadDir:        uploadDir,
		defaultRecipient: defaultRecipient,
		metrics:          metrics.DefaultMetrics,
		sessions:         session.NewTracker(),
	}
}

// sessionID reuses a client-provided correlation id or generates a
// short one.
func sessionID(provided string) string {
	if provided != "" {
		return provided
	}
	return session.NewID()
}

// ProcessAudio handles POST /process_audio: normalize, transcribe,
// summarize and optionally score the uploaded consultation recording.
func (h *Handler) ProcessAudio(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		h.metrics.RecordRequest("process_audio", strconv.Itoa(status), time.Since(start).Seconds())
	}()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		status = http.StatusBadRequest
		writeError(w, status, "No audio file provided.")
		return
	}

	sid := sessionID(r.FormValue("session_id"))
	logger := logging.WithSession(sid)
	lc := h.sessions.Open(sid)
	// The approval may arrive at another replica or not at all; Resolve
	// re-registers on demand, so nothing is kept past the request.
	defer h.sessions.Forget(sid)

	file, header, err := r.FormFile("audio")
	if err != nil || header.Filename == "" {
		logger.Error().Msg("No audio file provided")
		status = http.StatusBadRequest
		writeError(w, status, "No audio file provided.")
		return
	}
	defer file.Close()

	logger.Info().Str("audioFileName", header.Filename).Msg("Received audio processing request")

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		logger.Error().Err(err).Msg("Failed to create upload dir")
		status = http.StatusInternalServerError
		writeError(w, status, "Internal server error: "+err.Error())
		return
	}

	tmp, err := os.CreateTemp(h.uploadDir, "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create temp file")
		status = http.StatusInternalServerError
		writeError(w, status, "Internal server error: "+err.Error())
		return
	}
	tmpPath := tmp.Name()
	// Best-effort cleanup on every path, success or failure.
	defer os.Remove(tmpPath)

	written, err := io.Copy(tmp, file)
	tmp.Close()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to save upload")
		status = http.StatusInternalServerError
		writeError(w, status, "Internal server error: "+err.Error())
		return
	}
	h.metrics.RecordAudioReceived(written)
	logger.Info().Str("path", tmpPath).Int64("bytes", written).Msg("Audio file saved")

	ctx := r.Context()

	wavPath := h.processor.EnsureWAV(ctx, tmpPath)
	if wavPath != tmpPath {
		defer os.Remove(wavPath)
	}
	transcript := h.processor.Transcribe(ctx, wavPath)
	if transcript == "" {
		logger.Error().Str("audioFileName", header.Filename).Msg("Transcription failed")
		lc.Drop()
		status = http.StatusInternalServerError
		writeError(w, status, "Failed to transcribe audio.")
		return
	}

	note, err := h.processor.Summarize(ctx, transcript)
	if err != nil {
		logger.Error().Str("audioFileName", header.Filename).Msg("Summary generation failed")
		lc.Drop()
		status = http.StatusInternalServerError
		writeError(w, status, "Failed to generate summary.")
		return
	}
	if note.IsEmpty() {
		// A consultation with nothing to report is still a valid note.
		logger.Info().Msg("Summary has no informative sections")
	}

	resp := models.ProcessAudioResponse{
		Transcript:    transcript,
		SOAPSections:  note,
		AudioFileName: header.Filename,
	}

	if sectionText := strings.TrimSpace(r.FormValue("section_text")); sectionText != "" {
		ev, err := h.processor.EvaluateEntities(ctx, sectionText, note)
		if err != nil {
			logger.Warn().Err(err).Msg("NER metric calculation failed")
			resp.NERMetricsError = err.Error()
		} else {
			resp.NERMetrics = &ev.Metrics
			resp.ReferenceEntities = ev.ReferenceEntities
			resp.GeneratedEntities = ev.GeneratedEntities
			logger.Info().Msg("NER metrics calculated")
		}
	}

	event := models.NoteCreated{
		EventType:     "consult.note.created",
		SessionID:     sid,
		AudioFileName: header.Filename,
		Transcript:    transcript,
		Note:          note,
		Timestamp:     time.Now().UnixMilli(),
	}
	if err := h.publisher.PublishNoteCreated(ctx, sid, event); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish note event")
	}

	if err := lc.EmitNote(); err != nil {
		logger.Warn().Err(err).Msg("Unexpected session state")
	}

	logger.Info().Msg("Audio processing successful")
	writeJSON(w, http.StatusOK, resp)
}

// ApprovePlan handles POST /approve_plan: execute the medicine and
// appointment actions against the approved plan section.
func (h *Handler) ApprovePlan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		h.metrics.RecordRequest("approve_plan", strconv.Itoa(status), time.Since(start).Seconds())
	}()

	var req models.ApprovePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusInternalServerError
		writeError(w, status, "Server error during plan approval: "+err.Error())
		return
	}

	sid := sessionID(req.SessionID)
	logger := logging.WithSession(sid)
	logger.Info().Msg("Received plan approval request")

	plan := strings.TrimSpace(req.PlanSection)
	if plan == "" || strings.EqualFold(plan, "n/a") {
		logger.Warn().Msg("No valid plan section provided for approval")
		writeJSON(w, http.StatusOK, models.ApprovePlanResponse{
			Status:  models.StatusWarning,
			Message: "No valid plan section provided for approval.",
		})
		return
	}

	userEmail := req.UserEmail
	if userEmail == "" {
		userEmail = h.defaultRecipient
	}
	sendEmail := true
	if req.SendEmail != nil {
		sendEmail = *req.SendEmail
	}

	ctx := r.Context()
	var resp models.ApprovePlanResponse

	logger.Info().Msg("Processing medicines")
	medicine := h.agent.ProcessMedicines(ctx, plan)
	resp.MedicineProcessing = &medicine

	// Generate email content first; the send flag controls dispatch.
	logger.Info().Msg("Generating appointment email content")
	preview := h.agent.ProcessAppointment(ctx, plan, userEmail, false)
	resp.AppointmentPreview = &preview

	emailSent := false
	if preview.Status == models.StatusSuccess && preview.EmailContent != "" {
		if sendEmail {
			logger.Info().Msg("Sending appointment email")
			sending := h.agent.ProcessAppointment(ctx, plan, userEmail, true)
			resp.AppointmentSending = &sending
			if sending.Status == models.StatusSuccess {
				emailSent = true
				resp.Message = "Plan approved and actions executed (including appointment email)."
				logger.Info().Msg("Plan approved and actions executed successfully")
			} else {
				resp.Message = "Plan approved, but appointment email sending failed."
				logger.Error().Str("error", sending.Error).Msg("Appointment email sending failed")
			}
		} else {
			resp.Message = "Plan approved. Email content generated for review; sending not requested."
			logger.Info().Msg("Plan approved; email content generated, not sent")
		}
	} else {
		resp.Message = "Plan approved, but no appointment found or email generation failed."
		logger.Info().Msg("No appointment found or email generation failed")
	}

	event := models.PlanApproved{
		EventType:      "consult.plan.approved",
		SessionID:      sid,
		MedicineStatus: medicine.Status,
		EmailSent:      emailSent,
		Timestamp:      time.Now().UnixMilli(),
	}
	if resp.AppointmentSending != nil {
		event.EmailStatus = resp.AppointmentSending.Status
	}
	if err := h.publisher.PublishPlanApproved(ctx, sid, event); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish approval event")
	}

	if err := h.sessions.Resolve(sid).Approve(); err != nil {
		logger.Warn().Err(err).Msg("Unexpected session state on approval")
	}
	h.sessions.Forget(sid)

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}
