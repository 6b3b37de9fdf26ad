package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvInkwellMode is the environment variable name for mode selection.
	EnvInkwellMode = "INKWELL_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewBackend creates a backend based on the INKWELL_MODE environment
// variable. INKWELL_MODE=MOCK returns a MockBackend; otherwise a real
// OpenAI backend.
func NewBackend(model, apiKey, baseURL string, timeout time.Duration) (Backend, error) {
	if os.Getenv(EnvInkwellMode) == ModeMock {
		log.Println("INKWELL_MODE=MOCK detected, using mock backend")
		return NewMockBackend(), nil
	}

	return NewOpenAIBackend(model, apiKey, baseURL, timeout)
}
