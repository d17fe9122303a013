package telegram

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/ny423/epub-to-audiobook/internal/book"
	"github.com/ny423/epub-to-audiobook/internal/converter"
	"github.com/ny423/epub-to-audiobook/internal/storage"
	"github.com/ny423/epub-to-audiobook/internal/tts"
)

func (app *BotApp) handleLocaleChoice(ctx context.Context, cb *tgbotapi.CallbackQuery, locale string) {
	chatID := cb.Message.Chat.ID

	bookPath, ok := app.takePending(chatID)
	if !ok {
		app.Bot.Send(tgbotapi.NewMessage(chatID, "I have no book waiting for you — send an .epub first."))
		return
	}

	app.Bot.Send(tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, "Selected option: "+locale))

	prefs, err := app.Prefs.Get(ctx, chatID)
	if err != nil {
		log.Printf("[convert_run] prefs fail chatID=%d err=%v", chatID, err)
		prefs.VoiceGender = "female"
	}

	voice, err := app.Catalog.VoiceFor(locale, prefs.VoiceGender)
	if err != nil {
		os.Remove(bookPath)
		app.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ "+err.Error()))
		return
	}

	// conversions are long, the update loop must not wait for them
	go app.runConversion(context.Background(), chatID, bookPath, locale, voice)
}

func (app *BotApp) runConversion(ctx context.Context, chatID int64, bookPath, locale, voice string) {
	defer os.Remove(bookPath)

	outputFolder := filepath.Join(app.workDir, fmt.Sprintf("out-%d-%s", chatID, uuid.NewString()[:8]))
	defer os.RemoveAll(outputFolder)

	cfg, err := converter.NewRunConfig(converter.RunConfig{
		OutputFolder: outputFolder,
		ChapterStart: 1,
		ChapterEnd:   -1,
		Provider:     app.provider,
		Language:     locale,
		VoiceName:    voice,
	})
	if err != nil {
		app.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ "+err.Error()))
		return
	}

	provider, err := tts.NewProvider(cfg.Provider, tts.Config{
		Language:  cfg.Language,
		VoiceName: cfg.VoiceName,
	})
	if err != nil {
		log.Printf("[convert_run] provider fail chatID=%d err=%v", chatID, err)
		app.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Speech backend is not configured: "+err.Error()))
		return
	}

	parser, err := book.NewEpubParser(bookPath)
	if err != nil {
		app.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Could not open the ebook: "+err.Error()))
		return
	}
	defer parser.Close()

	var audioSink converter.AudioSink = &chatAudioSink{bot: app.Bot, chatID: chatID}
	if app.archiveS3 {
		archive, err := storage.NewArchiveSink(fmt.Sprintf("books/%d", chatID))
		if err != nil {
			log.Printf("[convert_run] s3 fail chatID=%d err=%v", chatID, err)
		} else {
			audioSink = archive
		}
	}

	svc := converter.NewService(cfg, parser, provider,
		&chatMessageSink{bot: app.Bot, chatID: chatID},
		audioSink,
	)

	if err := svc.Run(ctx); err != nil {
		log.Printf("[convert_run] run fail chatID=%d err=%v", chatID, err)
		app.Alerts.Notify(ctx, err, fmt.Sprintf("chatID=%d locale=%s voice=%s", chatID, locale, voice))
	}
}
