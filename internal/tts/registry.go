package tts

import (
	"fmt"

	"github.com/ny423/epub-to-audiobook/internal/converter"
)

// Config carries the provider-facing part of a run config. All fields are
// optional, every client falls back to its own defaults / env.
type Config struct {
	Language      string
	VoiceName     string
	ModelName     string
	OutputFormat  string
	BreakDuration string
}

// NewProvider picks a speech backend by name. Azure is the default, same
// as the CLI flags.
func NewProvider(name string, cfg Config) (converter.Provider, error) {
	switch name {
	case "", "azure":
		return NewAzureClient(cfg)
	case "openai":
		return NewOpenAIClient(cfg)
	case "elevenlabs":
		return NewElevenLabsClient(cfg)
	case "google":
		return NewGoogleClient(cfg)
	default:
		return nil, fmt.Errorf("unknown tts provider %q (supported: %v)", name, SupportedProviders())
	}
}

func SupportedProviders() []string {
	return []string{"azure", "openai", "elevenlabs", "google"}
}
