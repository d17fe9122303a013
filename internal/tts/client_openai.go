package tts

import (
	"context"
	"fmt"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ny423/epub-to-audiobook/internal/converter"
)

// tts-1, $ per 1M characters
const openAIPricePerMillion = 15.0

// CreateSpeech accepts at most 4096 input characters
const openAIMaxChars = 4000

type OpenAIClient struct {
	client *openai.Client
	voice  openai.SpeechVoice
	model  openai.SpeechModel
}

func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	voice := openai.SpeechVoice(cfg.VoiceName)
	if voice == "" {
		voice = openai.VoiceAlloy
	}
	model := openai.SpeechModel(cfg.ModelName)
	if model == "" {
		model = openai.TTSModel1
	}

	return &OpenAIClient{client: openai.NewClient(key), voice: voice, model: model}, nil
}

func (c *OpenAIClient) GetBreakString() string         { return "\n\n" }
func (c *OpenAIClient) GetOutputFileExtension() string { return "mp3" }

func (c *OpenAIClient) EstimateCost(characters int) float64 {
	return float64(characters) / 1_000_000 * openAIPricePerMillion
}

func (c *OpenAIClient) TextToSpeech(ctx context.Context, text, outputPath string, tags converter.AudioTags) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}

	// chunk audio frames are appended into one file
	for _, chunk := range splitText(text, c.GetBreakString(), openAIMaxChars) {
		resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model:          c.model,
			Input:          chunk,
			Voice:          c.voice,
			ResponseFormat: openai.SpeechResponseFormatMp3,
		})
		if err != nil {
			out.Close()
			os.Remove(outputPath)
			return &converter.BackendError{Provider: "openai", Err: err}
		}
		_, copyErr := io.Copy(out, resp)
		resp.Close()
		if copyErr != nil {
			out.Close()
			os.Remove(outputPath)
			return fmt.Errorf("write artifact: %w", copyErr)
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("close artifact: %w", err)
	}
	return applyTags(outputPath, tags)
}
