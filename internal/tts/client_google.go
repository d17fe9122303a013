package tts

import (
	"context"
	"fmt"
	"os"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/ny423/epub-to-audiobook/internal/converter"
)

// wavenet pricing, $ per 1M characters
const googlePricePerMillion = 16.0

// synthesize input limit is 5000 bytes
const googleMaxChars = 4500

type GoogleClient struct {
	language string
	voice    string
}

func NewGoogleClient(cfg Config) (*GoogleClient, error) {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS is not set")
	}

	language := cfg.Language
	if language == "" {
		language = "en-US"
	}
	voice := cfg.VoiceName
	if voice == "" {
		voice = "en-US-Standard-C"
	}

	return &GoogleClient{language: language, voice: voice}, nil
}

func (c *GoogleClient) GetBreakString() string         { return "\n\n" }
func (c *GoogleClient) GetOutputFileExtension() string { return "mp3" }

func (c *GoogleClient) EstimateCost(characters int) float64 {
	return float64(characters) / 1_000_000 * googlePricePerMillion
}

func (c *GoogleClient) TextToSpeech(ctx context.Context, text, outputPath string, tags converter.AudioTags) error {
	client, err := gctts.NewClient(ctx)
	if err != nil {
		return &converter.BackendError{Provider: "google", Err: err}
	}
	defer client.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}

	for _, chunk := range splitText(text, c.GetBreakString(), googleMaxChars) {
		req := &ttspb.SynthesizeSpeechRequest{
			Input: &ttspb.SynthesisInput{
				InputSource: &ttspb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &ttspb.VoiceSelectionParams{
				LanguageCode: c.language,
				Name:         c.voice,
			},
			AudioConfig: &ttspb.AudioConfig{
				AudioEncoding: ttspb.AudioEncoding_MP3,
			},
		}
		resp, err := client.SynthesizeSpeech(ctx, req)
		if err != nil {
			out.Close()
			os.Remove(outputPath)
			return &converter.BackendError{Provider: "google", Err: err}
		}
		if _, err := out.Write(resp.GetAudioContent()); err != nil {
			out.Close()
			os.Remove(outputPath)
			return fmt.Errorf("write artifact: %w", err)
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("close artifact: %w", err)
	}
	return applyTags(outputPath, tags)
}
