package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"SERVICE_NAME", "HTTP_PORT", "UPLOAD_DIR", "CONFIG_FILE",
		"STT_PROVIDER", "STT_WHISPER_URL", "STT_MODEL", "STT_LANGUAGE_CODE",
		"STT_BEAM_SIZE", "STT_SAMPLE_RATE_HZ",
		"LLM_PROVIDER", "GEMINI_API_KEY", "LLM_MODEL", "LLM_ENDPOINT", "LLM_TIMEOUT",
		"NER_PROVIDER", "NER_URL", "NER_TIMEOUT",
		"MEDICINE_WORKBOOK", "EMAIL_ENABLED", "SENDGRID_API_KEY",
		"EMAIL_FROM", "EMAIL_DEFAULT_RECIPIENT",
		"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_NOTE",
		"KAFKA_TOPIC_APPROVAL", "KAFKA_PRINCIPAL",
		"LOG_LEVEL", "LOG_FORMAT", "METRICS_ADDR",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Service.Name != "medical-audio-processor" {
		t.Errorf("expected default service name, got %s", cfg.Service.Name)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.UploadDir != "recordings_backend" {
		t.Errorf("expected default upload dir, got %s", cfg.Service.UploadDir)
	}
	if cfg.STT.Provider != "mock" {
		t.Errorf("expected default STT provider 'mock', got %s", cfg.STT.Provider)
	}
	if cfg.STT.BeamSize != 5 {
		t.Errorf("expected default beam size 5, got %d", cfg.STT.BeamSize)
	}
	if cfg.STT.SampleRate != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.STT.SampleRate)
	}
	if cfg.LLM.Provider != "mock" {
		t.Errorf("expected default LLM provider 'mock', got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("expected default LLM model, got %s", cfg.LLM.Model)
	}
	if cfg.LLM.Timeout != 60*time.Second {
		t.Errorf("expected default LLM timeout 60s, got %v", cfg.LLM.Timeout)
	}
	if cfg.Actions.EmailEnabled {
		t.Error("expected email disabled by default")
	}
	if cfg.Actions.DefaultRecipient != "default_patient@example.com" {
		t.Errorf("expected default recipient, got %s", cfg.Actions.DefaultRecipient)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("STT_PROVIDER", "whisper")
	t.Setenv("STT_BEAM_SIZE", "8")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("LLM_TIMEOUT", "90s")
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.STT.Provider != "whisper" {
		t.Errorf("expected STT provider 'whisper', got %s", cfg.STT.Provider)
	}
	if cfg.STT.BeamSize != 8 {
		t.Errorf("expected beam size 8, got %d", cfg.STT.BeamSize)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("expected LLM provider 'gemini', got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Timeout != 90*time.Second {
		t.Errorf("expected LLM timeout 90s, got %v", cfg.LLM.Timeout)
	}
	if !cfg.Actions.EmailEnabled {
		t.Error("expected email enabled")
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "broker1:9092" || cfg.Kafka.Brokers[1] != "broker2:9092" {
		t.Errorf("expected two trimmed brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_InvalidValues_FallbackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_BEAM_SIZE", "not-a-number")
	t.Setenv("EMAIL_ENABLED", "invalid")
	t.Setenv("LLM_TIMEOUT", "invalid")

	cfg := Load()

	if cfg.STT.BeamSize != 5 {
		t.Errorf("expected default beam size on invalid input, got %d", cfg.STT.BeamSize)
	}
	if cfg.Actions.EmailEnabled {
		t.Error("expected default email flag on invalid input")
	}
	if cfg.LLM.Timeout != 60*time.Second {
		t.Errorf("expected default LLM timeout on invalid input, got %v", cfg.LLM.Timeout)
	}
}

func TestLoad_KafkaPrincipal_FallsBackToServiceName(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVICE_NAME", "my-service")

	cfg := Load()

	if cfg.Kafka.Principal != "my-service" {
		t.Errorf("expected Kafka principal to fall back to service name, got %s", cfg.Kafka.Principal)
	}
}

func TestLoad_YAMLOverlay(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := `
service:
  httpPort: "8088"
stt:
  provider: google
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg := Load()

	if cfg.Service.HTTPPort != "8088" {
		t.Errorf("expected overlay port '8088', got %s", cfg.Service.HTTPPort)
	}
	if cfg.STT.Provider != "google" {
		t.Errorf("expected overlay STT provider 'google', got %s", cfg.STT.Provider)
	}
	// Env-derived values not named in the overlay survive.
	if cfg.STT.BeamSize != 5 {
		t.Errorf("expected beam size 5 to survive overlay, got %d", cfg.STT.BeamSize)
	}
}

func TestLoad_YAMLOverlay_MissingFileIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg := Load()

	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected defaults with missing overlay, got port %s", cfg.Service.HTTPPort)
	}
}

func TestEnvOrDefaultBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		expected bool
	}{
		{"true string", "true", false, true},
		{"false string", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"TRUE uppercase", "TRUE", false, true},
		{"invalid", "invalid", true, true},
		{"empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			if tt.envValue != "" {
				t.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}

			got := envOrDefaultBool(key, tt.def)
			if got != tt.expected {
				t.Errorf("envOrDefaultBool(%s, %v) = %v, want %v", tt.envValue, tt.def, got, tt.expected)
			}
		})
	}
}
