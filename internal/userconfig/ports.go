package userconfig

import "context"

// Prefs — per-chat-user conversion preferences.
type Prefs struct {
	VoiceGender string // "female" | "male"
}

// Repo — работа с БД
type Repo interface {
	Get(ctx context.Context, telegramID int64) (*Prefs, error)
	Put(ctx context.Context, telegramID int64, prefs Prefs) error
}

// Service — бизнес-операции
type Service interface {
	Get(ctx context.Context, telegramID int64) (Prefs, error)
	SetVoiceGender(ctx context.Context, telegramID int64, gender string) error
}
