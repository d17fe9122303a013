package converter

import "context"

// BookParser — источник глав и метаданных книги.
type BookParser interface {
	GetChapters(breakString string) ([]Chapter, error)
	GetBookAuthor() string
	GetBookTitle() string
}

// Provider turns a text segment into a persisted audio artifact.
type Provider interface {
	GetBreakString() string
	GetOutputFileExtension() string
	EstimateCost(characters int) float64
	TextToSpeech(ctx context.Context, text, outputPath string, tags AudioTags) error
}

// MessageSink receives human-readable progress text (chat, log, ...).
type MessageSink interface {
	Send(ctx context.Context, text string) error
}

// AudioSink receives a finished artifact by path.
type AudioSink interface {
	Send(ctx context.Context, filePath string) error
}
