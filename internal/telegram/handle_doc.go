package telegram

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/ny423/epub-to-audiobook/internal/book"
)

// enough text for a confident language guess
const detectSampleRunes = 3000

func (app *BotApp) handleDoc(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	doc := msg.Document

	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".epub") {
		app.Bot.Send(tgbotapi.NewMessage(chatID, "Please send an .epub file."))
		return
	}

	// 1. Получаем файл из Telegram
	fileInfo, err := app.Bot.GetFile(tgbotapi.FileConfig{FileID: doc.FileID})
	if err != nil {
		log.Printf("[doc] get file fail chatID=%d err=%v", chatID, err)
		app.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Could not fetch the document."))
		return
	}

	path := filepath.Join(app.workDir, uuid.NewString()+".epub")
	if err := downloadTo(fileInfo.Link(app.Bot.Token), path); err != nil {
		log.Printf("[doc] download fail chatID=%d err=%v", chatID, err)
		app.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Could not download the document."))
		return
	}

	// 2. Определяем язык по началу книги
	sample, err := bookSample(path)
	if err != nil {
		log.Printf("[doc] parse fail chatID=%d err=%v", chatID, err)
		os.Remove(path)
		app.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Could not read this ebook. Is it a valid epub?"))
		return
	}

	code, ok := app.Detector.Detect(sample)
	if !ok {
		os.Remove(path)
		app.Bot.Send(tgbotapi.NewMessage(chatID, "Sorry, I couldn't detect the language of this ebook. Please try another one."))
		return
	}

	matching := app.Catalog.Matching(code)
	if len(matching) == 0 {
		os.Remove(path)
		app.Bot.Send(tgbotapi.NewMessage(chatID, "Sorry, the detected language '"+code+"' is not supported."))
		return
	}

	// 3. Книга ждёт выбора локали
	app.putPending(chatID, path)

	out := tgbotapi.NewMessage(chatID, "Please select a language option:")
	out.ReplyMarkup = buildLocaleKeyboard(matching)
	app.Bot.Send(out)
}

func downloadTo(url, path string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// bookSample reads leading chapter text for language detection.
func bookSample(path string) (string, error) {
	parser, err := book.NewEpubParser(path)
	if err != nil {
		return "", err
	}
	defer parser.Close()

	chapters, err := parser.GetChapters("\n\n")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, ch := range chapters {
		if strings.TrimSpace(ch.Text) == "" {
			continue
		}
		sb.WriteString(ch.Text)
		sb.WriteString("\n")
		if utf8.RuneCountInString(sb.String()) >= detectSampleRunes {
			break
		}
	}
	return sb.String(), nil
}
