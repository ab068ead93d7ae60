// Package pipeline coordinates the per-request processing sequence:
// audio normalization, transcription, SOAP summarization and optional
// entity evaluation.
package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"medical-audio-processor/internal/audio"
	"medical-audio-processor/internal/models"
	"medical-audio-processor/internal/observability/logging"
	"medical-audio-processor/internal/observability/metrics"
	"medical-audio-processor/internal/service/llm"
	"medical-audio-processor/internal/service/ner"
	"medical-audio-processor/internal/service/stt"
)

// soapPrompt is the instruction template for SOAP extraction. The
// response contract is strict JSON with exactly the four section keys.
const soapPrompt = `You are a precise medical dialogue extraction assistant.
Extract clinical information from the transcript using SOAP method.
Do NOT summarize. Do NOT generalize. Do NOT skip.

CRITICAL RULES:
1. Return output as valid JSON with exactly these keys: Subjective, Objective, Assessment, Plan.
2. Each value should be a string (short, factual, point-form). If no info, use "N/A".
3. Denied or negative findings go to the appropriate section (Subjective if patient-reported, Objective if clinician-observed).
4. Do NOT include extra text outside the JSON.

Now extract information from ONLY this transcript:

{transcript}

Output (strict JSON only, no extra text):
`

// Evaluation bundles the outcome of the optional NER scoring step.
type Evaluation struct {
	Metrics           models.NERMetrics
	ReferenceEntities []models.Entity
	GeneratedEntities []models.Entity
}

// Processor holds the model handles, constructed once at startup and
// reused across requests.
type Processor struct {
	normalizer *audio.Normalizer
	sttAdapter stt.Adapter
	llmClient  llm.Client
	extractor  ner.Extractor
	beamSize   int
	metrics    *metrics.Metrics
}

// New constructs a Processor around the given providers.
func New(normalizer *audio.Normalizer, adapter stt.Adapter, client llm.Client, extractor ner.Extractor, beamSize int) *Processor {
	if beamSize <= 0 {
		beamSize = stt.DefaultBeamSize
	}
	return &Processor{
		normalizer: normalizer,
		sttAdapter: adapter,
		llmClient:  client,
		extractor:  extractor,
		beamSize:   beamSize,
		metrics:    metrics.DefaultMetrics,
	}
}

// EnsureWAV normalizes the uploaded audio into the canonical container.
func (p *Processor) EnsureWAV(ctx context.Context, audioPath string) string {
	return p.normalizer.EnsureWAV(ctx, audioPath)
}

// Transcribe runs speech recognition and joins the segments into a
// single normalized transcript. Any failure yields an empty string;
// callers must treat that as "transcription unavailable".
func (p *Processor) Transcribe(ctx context.Context, audioPath string) string {
	logger := logging.WithComponent("pipeline")

	start := time.Now()
	segments, err := p.sttAdapter.Transcribe(ctx, audioPath, stt.Options{BeamSize: p.beamSize})
	p.metrics.RecordTranscription(p.sttAdapter.Provider(), err, time.Since(start).Seconds())
	if err != nil {
		logger.Error().Err(err).Str("audioPath", audioPath).Msg("Transcription failed")
		return ""
	}
	return stt.JoinSegments(segments)
}

// Summarize sends the transcript to the LLM and parses the structured
// SOAP note. An LLM call failure is returned as an error; malformed
// JSON degrades to an all-"N/A" note, as does a model that genuinely
// found nothing — both are valid notes, not failures.
func (p *Processor) Summarize(ctx context.Context, transcript string) (models.SOAPNote, error) {
	logger := logging.WithComponent("pipeline")

	prompt := strings.Replace(soapPrompt, "{transcript}", transcript, 1)

	start := time.Now()
	raw, err := p.llmClient.Generate(ctx, prompt)
	p.metrics.RecordLLMCall("summarize", err, time.Since(start).Seconds())
	if err != nil {
		logger.Error().Err(err).Msg("SOAP summarization failed")
		return models.EmptyNote(), err
	}

	text := StripCodeFence(raw)

	var note models.SOAPNote
	if err := json.Unmarshal([]byte(text), &note); err != nil {
		logger.Warn().Str("response", text).Msg("Malformed JSON from LLM, returning empty sections")
		return models.EmptyNote(), nil
	}
	note.FillMissing()
	return note, nil
}

// EvaluateEntities extracts entities from the clinician-supplied
// reference text and from the generated note, and scores their overlap.
// The note side is extracted from its JSON serialization so section
// names and values are both visible to the model.
func (p *Processor) EvaluateEntities(ctx context.Context, referenceText string, note models.SOAPNote) (*Evaluation, error) {
	refEntities, err := p.extractor.Extract(ctx, referenceText)
	p.metrics.RecordEntityExtraction(err, len(refEntities))
	if err != nil {
		return nil, err
	}

	noteJSON, err := json.Marshal(note)
	if err != nil {
		return nil, err
	}
	genEntities, err := p.extractor.Extract(ctx, string(noteJSON))
	p.metrics.RecordEntityExtraction(err, len(genEntities))
	if err != nil {
		return nil, err
	}

	refSet := ner.Dedupe(refEntities)
	genSet := ner.Dedupe(genEntities)
	m := ner.Score(refSet, genSet)
	return &Evaluation{
		Metrics:           m,
		ReferenceEntities: refSet,
		GeneratedEntities: genSet,
	}, nil
}

// StripCodeFence removes surrounding markdown code block markers that
// LLMs habitually wrap JSON responses in.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
