// Package app wires configuration into the service's collaborators.
package app

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"medical-audio-processor/internal/agent"
	"medical-audio-processor/internal/audio"
	"medical-audio-processor/internal/config"
	"medical-audio-processor/internal/events"
	"medical-audio-processor/internal/observability/logging"
	"medical-audio-processor/internal/pipeline"
	"medical-audio-processor/internal/service/llm"
	"medical-audio-processor/internal/service/llm/gemini"
	llmmock "medical-audio-processor/internal/service/llm/mock"
	"medical-audio-processor/internal/service/ner"
	"medical-audio-processor/internal/service/ner/httpner"
	nermock "medical-audio-processor/internal/service/ner/mock"
	"medical-audio-processor/internal/service/stt"
	"medical-audio-processor/internal/service/stt/google"
	sttmock "medical-audio-processor/internal/service/stt/mock"
	"medical-audio-processor/internal/service/stt/whisper"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config

	Publisher *events.Publisher
	Processor *pipeline.Processor
	Agent     *agent.Agent

	sttCloser io.Closer
}

// New constructs a new Application from the provided configuration.
func New(cfg *config.Config) *Application {
	a := &Application{
		Cfg: cfg,
	}
	a.setupLogger()

	appLogger := a.Logger.With().
		Str("method", "New").
		Logger()

	appLogger.Info().Msg("Medical audio processor application created")
	return a
}

// setupLogger configures zerolog for the service.
func (a *Application) setupLogger() {
	logging.Init(logging.Config{
		Level:      a.Cfg.Observability.LogLevel,
		Format:     a.Cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})

	a.Logger = log.With().
		Str("service", a.Cfg.Service.Name).
		Str("component", "application").
		Logger()

	a.Logger.Info().
		Str("logLevel", a.Cfg.Observability.LogLevel).
		Str("logFormat", a.Cfg.Observability.LogFormat).
		Msg("Logger setup completed")
}

// Start builds the pipeline and action collaborators from the selected
// providers. Serving must not begin before Start returns nil.
func (a *Application) Start(ctx context.Context) error {
	startLogger := a.Logger.With().
		Str("method", "Start").
		Logger()

	a.StartupTime = time.Now().UTC()

	sttAdapter, err := a.buildSTT(ctx)
	if err != nil {
		return err
	}

	llmClient, err := a.buildLLM()
	if err != nil {
		return err
	}
	extractor := a.buildNER()

	normalizer := audio.NewNormalizer(a.Cfg.STT.SampleRate)
	a.Processor = pipeline.New(normalizer, sttAdapter, llmClient, extractor, a.Cfg.STT.BeamSize)

	a.Agent = agent.New(
		llmClient,
		agent.NewExcelStore(a.Cfg.Actions.MedicineWorkbook),
		agent.NewSendGridSender(a.Cfg.Actions.EmailEnabled, a.Cfg.Actions.SendGridAPIKey, a.Cfg.Actions.EmailFrom),
	)

	a.Publisher = events.New(&events.Config{
		Enabled:       a.Cfg.Kafka.Enabled,
		Brokers:       a.Cfg.Kafka.Brokers,
		TopicNote:     a.Cfg.Kafka.TopicNote,
		TopicApproval: a.Cfg.Kafka.TopicApproval,
		Principal:     a.Cfg.Kafka.Principal,
	})

	startLogger.Info().
		Time("startupTime", a.StartupTime).
		Str("sttProvider", sttAdapter.Provider()).
		Str("llmProvider", llmClient.Provider()).
		Str("nerProvider", extractor.Provider()).
		Msg("Medical audio processor starting")

	return nil
}

func (a *Application) buildSTT(ctx context.Context) (stt.Adapter, error) {
	switch a.Cfg.STT.Provider {
	case "whisper":
		return whisper.New(a.Cfg.STT.WhisperURL, a.Cfg.STT.Model), nil
	case "google":
		adapter, err := google.New(ctx, a.Cfg.STT.Language, a.Cfg.STT.SampleRate)
		if err != nil {
			return nil, err
		}
		a.sttCloser = adapter
		return adapter, nil
	default:
		a.Logger.Warn().Str("provider", a.Cfg.STT.Provider).Msg("Using mock STT adapter")
		return sttmock.New(), nil
	}
}

// buildLLM fails startup on a misconfigured real provider; it never
// falls back to the mock.
func (a *Application) buildLLM() (llm.Client, error) {
	switch a.Cfg.LLM.Provider {
	case "gemini":
		return gemini.New(a.Cfg.LLM.Endpoint, a.Cfg.LLM.Model, a.Cfg.LLM.APIKey, a.Cfg.LLM.Timeout)
	default:
		a.Logger.Warn().Str("provider", a.Cfg.LLM.Provider).Msg("Using mock LLM client")
		return llmmock.New(), nil
	}
}

func (a *Application) buildNER() ner.Extractor {
	switch a.Cfg.NER.Provider {
	case "http":
		return httpner.New(a.Cfg.NER.URL, a.Cfg.NER.Timeout)
	default:
		a.Logger.Warn().Str("provider", a.Cfg.NER.Provider).Msg("Using mock NER extractor")
		return nermock.New()
	}
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	shutdownLogger := a.Logger.With().
		Str("method", "Shutdown").
		Logger()

	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			shutdownLogger.Error().Err(err).Msg("Error closing event publisher")
		}
	}
	if a.sttCloser != nil {
		if err := a.sttCloser.Close(); err != nil {
			shutdownLogger.Error().Err(err).Msg("Error closing STT client")
		}
	}

	shutdownLogger.Info().Msg("Medical audio processor shutting down")
}
