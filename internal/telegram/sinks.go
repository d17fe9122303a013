package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chatMessageSink implements converter.MessageSink over one chat.
type chatMessageSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func (s *chatMessageSink) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.bot.Send(tgbotapi.NewMessage(s.chatID, text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// chatAudioSink implements converter.AudioSink: the artifact is uploaded
// into the chat by path.
type chatAudioSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func (s *chatAudioSink) Send(ctx context.Context, filePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	audio := tgbotapi.NewAudio(s.chatID, tgbotapi.FilePath(filePath))
	if _, err := s.bot.Send(audio); err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	return nil
}
