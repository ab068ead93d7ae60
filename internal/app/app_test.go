package app

import (
	"context"
	"testing"

	"medical-audio-processor/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Service.Name = "medical-audio-processor"
	cfg.STT.Provider = "mock"
	cfg.LLM.Provider = "mock"
	cfg.NER.Provider = "mock"
	cfg.Observability.LogLevel = "error"
	cfg.Observability.LogFormat = "json"
	return cfg
}

func TestStart_MockProviders(t *testing.T) {
	a := New(testConfig())
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Shutdown()

	if a.Processor == nil || a.Agent == nil || a.Publisher == nil {
		t.Error("expected all collaborators constructed")
	}
}

func TestStart_GeminiWithoutAPIKey_FailsStartup(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Provider = "gemini"
	cfg.LLM.APIKey = ""

	a := New(cfg)
	if err := a.Start(context.Background()); err == nil {
		t.Fatal("expected startup failure for gemini provider without API key")
	}
	if a.Processor != nil {
		t.Error("expected no processor after failed startup")
	}
}
