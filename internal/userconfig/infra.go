package userconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) (Repo, error) {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user_prefs (
			telegram_id  BIGINT PRIMARY KEY,
			voice_gender TEXT NOT NULL
		)
	`); err != nil {
		return nil, fmt.Errorf("init user_prefs: %w", err)
	}
	return &repo{db: db}, nil
}

func (r *repo) Get(ctx context.Context, telegramID int64) (*Prefs, error) {
	var p Prefs
	err := r.db.QueryRowContext(ctx, `
		SELECT voice_gender FROM user_prefs
		WHERE telegram_id = $1
	`, telegramID).Scan(&p.VoiceGender)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) Put(ctx context.Context, telegramID int64, prefs Prefs) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_prefs (telegram_id, voice_gender)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id)
		DO UPDATE SET voice_gender = EXCLUDED.voice_gender
	`, telegramID, prefs.VoiceGender)
	return err
}
