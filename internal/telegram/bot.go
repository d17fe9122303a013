package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const startInstructions = "Welcome to the eBook to Audio converter bot!\n\n" +
	"To use this bot, simply send me an .epub file, and I'll convert it to multiple .mp3 audio files.\n\n" +
	"You can set your preferred voice gender using the /config command.\n\n" +
	"Commands:\n" +
	"/start - Show these instructions\n" +
	"/config - Set your default voice gender (male/female)\n" +
	"/languages - Show supported languages"

// runBotLoop — главный цикл получения апдейтов
func (app *BotApp) runBotLoop() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := app.Bot.GetUpdatesChan(u)
	log.Printf("[bot_loop] started username=@%s", app.Bot.Self.UserName)

	for update := range updates {
		go app.dispatchUpdate(context.Background(), update)
	}
}

func (app *BotApp) dispatchUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		app.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		app.handleCallback(ctx, update.CallbackQuery)
	}
}

func (app *BotApp) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.Document != nil {
		app.handleDoc(ctx, msg)
		return
	}

	switch msg.Command() {
	case "start":
		app.Bot.Send(tgbotapi.NewMessage(chatID, startInstructions))

	case "config":
		prefs, err := app.Prefs.Get(ctx, chatID)
		if err != nil {
			log.Printf("[bot_loop] prefs fail chatID=%d err=%v", chatID, err)
			app.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Could not load your settings."))
			return
		}
		out := tgbotapi.NewMessage(chatID, fmt.Sprintf("Current default voice gender: %s", prefs.VoiceGender))
		out.ReplyMarkup = buildConfigKeyboard()
		app.Bot.Send(out)

	case "languages":
		languages := strings.Join(app.Catalog.Languages(), "\n")
		app.Bot.Send(tgbotapi.NewMessage(chatID, "Supported languages:\n\n"+languages))

	default:
		app.Bot.Send(tgbotapi.NewMessage(chatID, "Send me an .epub file or use /start for instructions."))
	}
}

func (app *BotApp) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	app.Bot.Request(tgbotapi.NewCallback(cb.ID, ""))

	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case data == "edit_config":
		edit := tgbotapi.NewEditMessageTextAndMarkup(
			chatID, cb.Message.MessageID,
			"Choose your default voice gender:",
			buildGenderKeyboard(),
		)
		app.Bot.Send(edit)

	case data == "cancel_config":
		app.Bot.Send(tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, "Configuration cancelled."))

	case strings.HasPrefix(data, "set_voice_"):
		gender := strings.TrimPrefix(data, "set_voice_")
		if err := app.Prefs.SetVoiceGender(ctx, chatID, gender); err != nil {
			log.Printf("[bot_loop] set gender fail chatID=%d err=%v", chatID, err)
			app.Bot.Send(tgbotapi.NewMessage(chatID, "⚠️ Could not save your settings."))
			return
		}
		app.Bot.Send(tgbotapi.NewEditMessageText(
			chatID, cb.Message.MessageID,
			fmt.Sprintf("Config default voice gender changed to %s", gender),
		))

	case strings.HasPrefix(data, "loc:"):
		app.handleLocaleChoice(ctx, cb, strings.TrimPrefix(data, "loc:"))
	}
}
