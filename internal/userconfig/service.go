package userconfig

import (
	"context"
	"fmt"
)

const defaultVoiceGender = "female"

type service struct {
	repo Repo
}

func NewService(repo Repo) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, telegramID int64) (Prefs, error) {
	p, err := s.repo.Get(ctx, telegramID)
	if err != nil {
		return Prefs{}, err
	}
	if p == nil {
		return Prefs{VoiceGender: defaultVoiceGender}, nil
	}
	return *p, nil
}

func (s *service) SetVoiceGender(ctx context.Context, telegramID int64, gender string) error {
	if gender != "female" && gender != "male" {
		return fmt.Errorf("unknown voice gender %q", gender)
	}
	return s.repo.Put(ctx, telegramID, Prefs{VoiceGender: gender})
}
