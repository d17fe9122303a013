package telegram

import (
	"fmt"
	"os"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ny423/epub-to-audiobook/internal/alerts"
	"github.com/ny423/epub-to-audiobook/internal/language"
	"github.com/ny423/epub-to-audiobook/internal/userconfig"
)

// BotApp is the chat front-end: it collects an epub and the target
// locale from the user, then drives a conversion run with chat-backed
// progress and audio delivery.
type BotApp struct {
	Bot      *tgbotapi.BotAPI
	Prefs    userconfig.Service
	Catalog  *language.Catalog
	Detector *language.Detector
	Alerts   alerts.Notificator

	workDir   string
	provider  string
	archiveS3 bool

	// downloaded books waiting for a locale choice, keyed by chat
	mu      sync.Mutex
	pending map[int64]string
}

func NewBotApp(
	bot *tgbotapi.BotAPI,
	prefs userconfig.Service,
	catalog *language.Catalog,
	detector *language.Detector,
	notifier alerts.Notificator,
) (*BotApp, error) {
	workDir := os.Getenv("WORK_DIR")
	if workDir == "" {
		workDir = os.TempDir()
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	provider := os.Getenv("TTS_PROVIDER")
	if provider == "" {
		provider = "azure"
	}

	return &BotApp{
		Bot:       bot,
		Prefs:     prefs,
		Catalog:   catalog,
		Detector:  detector,
		Alerts:    notifier,
		workDir:   workDir,
		provider:  provider,
		archiveS3: os.Getenv("ARCHIVE_TO_S3") == "true",
		pending:   make(map[int64]string),
	}, nil
}

// Start blocks on the update loop.
func (app *BotApp) Start() {
	app.runBotLoop()
}

func (app *BotApp) takePending(chatID int64) (string, bool) {
	app.mu.Lock()
	defer app.mu.Unlock()
	path, ok := app.pending[chatID]
	if ok {
		delete(app.pending, chatID)
	}
	return path, ok
}

func (app *BotApp) putPending(chatID int64, path string) {
	app.mu.Lock()
	defer app.mu.Unlock()
	// a new upload replaces whatever was waiting
	if old, ok := app.pending[chatID]; ok {
		os.Remove(old)
	}
	app.pending[chatID] = path
}
