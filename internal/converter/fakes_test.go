package converter

import (
	"context"
	"errors"
	"os"
	"strings"
)

type fakeParser struct {
	chapters []Chapter
	author   string
	title    string
	err      error
}

func (f *fakeParser) GetChapters(string) ([]Chapter, error) { return f.chapters, f.err }
func (f *fakeParser) GetBookAuthor() string                 { return f.author }
func (f *fakeParser) GetBookTitle() string                  { return f.title }

// fakeProvider writes "audio:<text>" files and can be told to fail or to
// cancel the run when it meets a marker substring.
type fakeProvider struct {
	costPerChar float64
	failOn      string
	cancelOn    string
	cancel      context.CancelFunc
	converted   []string // output paths in call order
}

func (f *fakeProvider) GetBreakString() string         { return "\n\n" }
func (f *fakeProvider) GetOutputFileExtension() string { return "mp3" }
func (f *fakeProvider) EstimateCost(chars int) float64 { return float64(chars) * f.costPerChar }

func (f *fakeProvider) TextToSpeech(ctx context.Context, text, outputPath string, _ AudioTags) error {
	if f.cancelOn != "" && strings.Contains(text, f.cancelOn) {
		f.cancel()
		return ctx.Err()
	}
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return &BackendError{Provider: "fake", Err: errors.New("quota exceeded")}
	}
	if err := os.WriteFile(outputPath, []byte("audio:"+text), 0o644); err != nil {
		return err
	}
	f.converted = append(f.converted, outputPath)
	return nil
}

type memMessageSink struct {
	msgs []string
}

func (m *memMessageSink) Send(_ context.Context, text string) error {
	m.msgs = append(m.msgs, text)
	return nil
}

func (m *memMessageSink) contains(sub string) bool {
	for _, s := range m.msgs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type memAudioSink struct {
	delivered []string
	failAll   bool
	// consume delivered files before returning, like a sink that moves
	// the artifact elsewhere
	removeOnSend bool
}

func (m *memAudioSink) Send(_ context.Context, filePath string) error {
	if m.failAll {
		return errors.New("chat unreachable")
	}
	m.delivered = append(m.delivered, filePath)
	if m.removeOnSend {
		_ = os.Remove(filePath)
	}
	return nil
}
