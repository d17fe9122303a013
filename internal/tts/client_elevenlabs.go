package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ny423/epub-to-audiobook/internal/converter"
)

// $ per 1M characters, creator tier
const elevenLabsPricePerMillion = 180.0

// request body headroom under the 10k character API limit
const elevenLabsMaxChars = 9500

type ElevenLabsClient struct {
	apiKey  string
	voiceID string
	modelID string
	baseURL string
}

func NewElevenLabsClient(cfg Config) (*ElevenLabsClient, error) {
	key := os.Getenv("ELEVENLABS_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY is not set")
	}

	voice := cfg.VoiceName
	if voice == "" {
		voice = os.Getenv("ELEVENLABS_VOICE_ID")
	}
	if voice == "" {
		return nil, fmt.Errorf("elevenlabs voice is not set")
	}

	model := cfg.ModelName
	if model == "" {
		model = "eleven_multilingual_v2"
	}

	return &ElevenLabsClient{
		apiKey:  key,
		voiceID: voice,
		modelID: model,
		baseURL: "https://api.elevenlabs.io",
	}, nil
}

func (c *ElevenLabsClient) GetBreakString() string         { return "\n\n" }
func (c *ElevenLabsClient) GetOutputFileExtension() string { return "mp3" }

func (c *ElevenLabsClient) EstimateCost(characters int) float64 {
	return float64(characters) / 1_000_000 * elevenLabsPricePerMillion
}

func (c *ElevenLabsClient) TextToSpeech(ctx context.Context, text, outputPath string, tags converter.AudioTags) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}

	for _, chunk := range splitText(text, c.GetBreakString(), elevenLabsMaxChars) {
		if err := c.synthesizeChunk(ctx, chunk, out); err != nil {
			out.Close()
			os.Remove(outputPath)
			return &converter.BackendError{Provider: "elevenlabs", Err: err}
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("close artifact: %w", err)
	}
	return applyTags(outputPath, tags)
}

func (c *ElevenLabsClient) synthesizeChunk(ctx context.Context, chunk string, out io.Writer) error {
	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voiceID)

	payload, err := json.Marshal(struct {
		Text    string `json:"text"`
		ModelID string `json:"model_id"`
	}{Text: chunk, ModelID: c.modelID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tts failed: %s", string(b))
	}

	_, err = io.Copy(out, resp.Body)
	return err
}
