package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/ny423/epub-to-audiobook/internal/converter"
)

// neural voices, $ per 1M characters
const azurePricePerMillion = 16.0

// SSML request body headroom
const azureMaxChars = 1800

var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// AzureClient talks to the Cognitive Services speech REST endpoint. The
// break token it hands to the parser is real SSML, so it survives into
// the synthesized pauses between text blocks.
type AzureClient struct {
	key      string
	endpoint string
	language string
	voice    string
	format   string
	breakMS  string
}

func NewAzureClient(cfg Config) (*AzureClient, error) {
	key := os.Getenv("AZURE_SPEECH_KEY")
	region := os.Getenv("AZURE_SPEECH_REGION")
	if key == "" || region == "" {
		return nil, fmt.Errorf("AZURE_SPEECH_KEY / AZURE_SPEECH_REGION are not set")
	}

	language := cfg.Language
	if language == "" {
		language = "en-US"
	}
	voice := cfg.VoiceName
	if voice == "" {
		voice = "en-US-JennyNeural"
	}
	format := cfg.OutputFormat
	if format == "" {
		format = "audio-24khz-48kbitrate-mono-mp3"
	}
	breakMS := cfg.BreakDuration
	if breakMS == "" {
		breakMS = "1250"
	}

	return &AzureClient{
		key:      key,
		endpoint: fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region),
		language: language,
		voice:    voice,
		format:   format,
		breakMS:  breakMS,
	}, nil
}

func (c *AzureClient) GetBreakString() string {
	return fmt.Sprintf(`<break time="%sms" />`, c.breakMS)
}

func (c *AzureClient) GetOutputFileExtension() string {
	if strings.Contains(c.format, "mp3") {
		return "mp3"
	}
	return "wav"
}

func (c *AzureClient) EstimateCost(characters int) float64 {
	return float64(characters) / 1_000_000 * azurePricePerMillion
}

func (c *AzureClient) TextToSpeech(ctx context.Context, text, outputPath string, tags converter.AudioTags) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}

	for _, chunk := range splitText(text, c.GetBreakString(), azureMaxChars) {
		if err := c.synthesizeChunk(ctx, chunk, out); err != nil {
			out.Close()
			os.Remove(outputPath)
			return &converter.BackendError{Provider: "azure", Err: err}
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("close artifact: %w", err)
	}
	return applyTags(outputPath, tags)
}

func (c *AzureClient) synthesizeChunk(ctx context.Context, chunk string, out io.Writer) error {
	// escape the text, keep the break tags intact
	parts := strings.Split(chunk, c.GetBreakString())
	for i, p := range parts {
		parts[i] = ssmlEscaper.Replace(p)
	}
	body := fmt.Sprintf(
		`<speak version='1.0' xml:lang='%s'><voice xml:lang='%s' name='%s'>%s</voice></speak>`,
		c.language, c.language, c.voice, strings.Join(parts, c.GetBreakString()),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader([]byte(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", c.format)
	req.Header.Set("User-Agent", "epub-to-audiobook")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tts failed (%d): %s", resp.StatusCode, string(b))
	}

	_, err = io.Copy(out, resp.Body)
	return err
}
