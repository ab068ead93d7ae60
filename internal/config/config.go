// Package config loads service configuration from environment variables,
// with an optional YAML overlay file pointed at by CONFIG_FILE.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServiceConfig holds core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	HTTPPort  string `yaml:"httpPort"`
	UploadDir string `yaml:"uploadDir"`
}

// STTConfig selects and configures the speech-to-text provider.
type STTConfig struct {
	Provider   string `yaml:"provider"` // mock | whisper | google
	WhisperURL string `yaml:"whisperURL"`
	Model      string `yaml:"model"`
	Language   string `yaml:"language"`
	BeamSize   int    `yaml:"beamSize"`
	SampleRate int    `yaml:"sampleRate"`
}

// LLMConfig selects and configures the summarization LLM.
type LLMConfig struct {
	Provider string        `yaml:"provider"` // mock | gemini
	APIKey   string        `yaml:"apiKey"`
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// NERConfig selects and configures the clinical NER provider.
type NERConfig struct {
	Provider string        `yaml:"provider"` // mock | http
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ActionsConfig configures the downstream collaborators invoked on
// plan approval.
type ActionsConfig struct {
	MedicineWorkbook string `yaml:"medicineWorkbook"`
	EmailEnabled     bool   `yaml:"emailEnabled"`
	SendGridAPIKey   string `yaml:"sendgridAPIKey"`
	EmailFrom        string `yaml:"emailFrom"`
	DefaultRecipient string `yaml:"defaultRecipient"`
}

// KafkaConfig configures the optional event publisher.
type KafkaConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Brokers       []string `yaml:"brokers"`
	TopicNote     string   `yaml:"topicNote"`
	TopicApproval string   `yaml:"topicApproval"`
	Principal     string   `yaml:"principal"`
}

// ObservabilityConfig configures logging and the metrics server.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"logLevel"`
	LogFormat   string `yaml:"logFormat"`
	MetricsAddr string `yaml:"metricsAddr"`
}

// Config is the full service configuration.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	STT           STTConfig           `yaml:"stt"`
	LLM           LLMConfig           `yaml:"llm"`
	NER           NERConfig           `yaml:"ner"`
	Actions       ActionsConfig       `yaml:"actions"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// Load builds the configuration from environment variables, then applies
// the YAML overlay file if CONFIG_FILE is set and readable. Invalid
// values fall back to defaults.
func Load() *Config {
	cfg := &Config{
		Service: ServiceConfig{
			Name:      envOrDefault("SERVICE_NAME", "medical-audio-processor"),
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
			UploadDir: envOrDefault("UPLOAD_DIR", "recordings_backend"),
		},
		STT: STTConfig{
			Provider:   envOrDefault("STT_PROVIDER", "mock"),
			WhisperURL: envOrDefault("STT_WHISPER_URL", "http://localhost:9000"),
			Model:      envOrDefault("STT_MODEL", "medium.en"),
			Language:   envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			BeamSize:   envOrDefaultInt("STT_BEAM_SIZE", 5),
			SampleRate: envOrDefaultInt("STT_SAMPLE_RATE_HZ", 16000),
		},
		LLM: LLMConfig{
			Provider: envOrDefault("LLM_PROVIDER", "mock"),
			APIKey:   envOrDefault("GEMINI_API_KEY", ""),
			Model:    envOrDefault("LLM_MODEL", "gemini-2.5-flash"),
			Endpoint: envOrDefault("LLM_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:  envOrDefaultDuration("LLM_TIMEOUT", 60*time.Second),
		},
		NER: NERConfig{
			Provider: envOrDefault("NER_PROVIDER", "mock"),
			URL:      envOrDefault("NER_URL", "http://localhost:8081/entities"),
			Timeout:  envOrDefaultDuration("NER_TIMEOUT", 30*time.Second),
		},
		Actions: ActionsConfig{
			MedicineWorkbook: envOrDefault("MEDICINE_WORKBOOK", "medicine/medicine_plan.xlsx"),
			EmailEnabled:     envOrDefaultBool("EMAIL_ENABLED", false),
			SendGridAPIKey:   envOrDefault("SENDGRID_API_KEY", ""),
			EmailFrom:        envOrDefault("EMAIL_FROM", "noreply@medical-audio-processor.local"),
			DefaultRecipient: envOrDefault("EMAIL_DEFAULT_RECIPIENT", "default_patient@example.com"),
		},
		Kafka: KafkaConfig{
			Enabled:       envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:       envOrDefaultSlice("KAFKA_BROKERS", nil),
			TopicNote:     envOrDefault("KAFKA_TOPIC_NOTE", "consult.note.created"),
			TopicApproval: envOrDefault("KAFKA_TOPIC_APPROVAL", "consult.plan.approved"),
			Principal:     envOrDefault("KAFKA_PRINCIPAL", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsAddr: envOrDefault("METRICS_ADDR", ":9090"),
		},
	}

	if cfg.Kafka.Principal == "" {
		cfg.Kafka.Principal = cfg.Service.Name
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		applyOverlay(cfg, path)
	}

	return cfg
}

// applyOverlay merges a YAML config file over the env-derived config.
// A missing or malformed file leaves the config untouched.
func applyOverlay(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = yaml.Unmarshal(data, cfg)
	if cfg.Kafka.Principal == "" {
		cfg.Kafka.Principal = cfg.Service.Name
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envOrDefaultSlice(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
