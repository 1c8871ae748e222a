package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini model factory.
type GeminiConfig struct {
	APIKey   string
	Model    string
	RetryMax int

	// Log receives HTTP retry diagnostics. Nil discards them.
	Log logrus.FieldLogger
}

// GeminiFactory returns a ModelFactory that builds a new Gemini client for
// every request.
func GeminiFactory(cfg GeminiConfig) ModelFactory {
	return func(ctx context.Context) (Model, error) {
		if cfg.APIKey == "" {
			return nil, errors.New("gemini API key is required (set GEMINI_API_KEY)")
		}

		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = cfg.RetryMax
		if cfg.Log != nil {
			retryClient.Logger = retryLogger{log: cfg.Log}
		} else {
			retryClient.Logger = nil
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     cfg.APIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: retryClient.StandardClient(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create GenAI client: %w", err)
		}

		return &geminiModel{client: client, model: cfg.Model}, nil
	}
}

type geminiModel struct {
	client *genai.Client
	model  string
}

// Generate sends prompt as a single user turn.
func (m *geminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return resp.Text(), nil
}

// =============================================================================
// RETRY LOGGING
// =============================================================================

// retryLogger adapts logrus to retryablehttp.LeveledLogger.
type retryLogger struct {
	log logrus.FieldLogger
}

var _ retryablehttp.LeveledLogger = retryLogger{}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Error(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Warn(msg)
}

// Info is demoted: retryablehttp logs every request at info.
func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(toFields(keysAndValues)).Debug(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
