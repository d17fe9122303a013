package converter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Service drives one book-to-audio conversion run: resolves the chapter
// range, reports the estimated cost, then converts chapters strictly in
// order, delivering each artifact through the audio sink.
type Service struct {
	cfg    RunConfig
	parser BookParser
	tts    Provider
	msg    MessageSink
	audio  AudioSink

	// true only when a real audio sink was attached: delivered artifacts
	// are removed from local storage, otherwise they stay on disk
	removeAfterSend bool
}

func NewService(cfg RunConfig, parser BookParser, tts Provider, msg MessageSink, audio AudioSink) *Service {
	s := &Service{
		cfg:    cfg,
		parser: parser,
		tts:    tts,
		msg:    msg,
		audio:  audio,
	}
	if s.msg == nil {
		s.msg = logMessageSink{}
	}
	if s.audio == nil {
		s.audio = NopAudioSink{}
	} else {
		s.removeAfterSend = true
	}
	return s
}

// Run executes the whole pipeline. Every terminal outcome — success,
// abort, cancellation — produces exactly one final message before Run
// returns.
func (s *Service) Run(ctx context.Context) error {
	err := s.run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		s.notify(ctx, "Job stopped by user.")
		return err
	default:
		s.notify(ctx, fmt.Sprintf("An error occurred: %s", err))
		return err
	}
}

func (s *Service) run(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.OutputFolder, 0o755); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	parsed, err := s.parser.GetChapters(s.tts.GetBreakString())
	if err != nil {
		return fmt.Errorf("parse book: %w", err)
	}

	// whitespace-only chapters drop out before any indexing
	chapters := make([]Chapter, 0, len(parsed))
	for _, ch := range parsed {
		if strings.TrimSpace(ch.Text) == "" {
			continue
		}
		chapters = append(chapters, ch)
	}

	start, end, err := resolveRange(s.cfg.ChapterStart, s.cfg.ChapterEnd, len(chapters))
	if err != nil {
		return err
	}

	if err := s.msg.Send(ctx, fmt.Sprintf("Chapters count: %d.", len(chapters))); err != nil {
		return err
	}
	if err := s.msg.Send(ctx, fmt.Sprintf("Converting chapters from %d to %d.", start, end)); err != nil {
		return err
	}

	total := 0
	for _, ch := range chapters[start-1 : end] {
		total += utf8.RuneCountInString(ch.Text)
	}
	if err := s.msg.Send(ctx, fmt.Sprintf("✨ Total characters in selected book: %d ✨", total)); err != nil {
		return err
	}
	price := s.tts.EstimateCost(total)
	if err := s.msg.Send(ctx, fmt.Sprintf("Estimate book voiceover would cost you roughly: $%.2f", price)); err != nil {
		return err
	}

	for i, ch := range chapters {
		idx := i + 1
		if idx < start {
			log.Printf("[convert] skipping chapter %d", idx)
			continue
		}
		if idx > end {
			log.Printf("[convert] quitting at chapter %d", idx)
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.convertChapter(ctx, idx, len(chapters), ch); err != nil {
			return err
		}
	}

	return s.msg.Send(ctx, "All chapters converted and sent. 🎉🎉🎉")
}

func (s *Service) convertChapter(ctx context.Context, idx, total int, ch Chapter) error {
	chars := utf8.RuneCountInString(ch.Text)

	verb := "Converting"
	if s.cfg.Preview {
		verb = "Previewing convert"
	}
	if err := s.msg.Send(ctx, fmt.Sprintf("%s chapter %d/%d: %s, characters: %d", verb, idx, total, ch.Title, chars)); err != nil {
		return err
	}

	// raw text dump is independent of preview mode
	if s.cfg.OutputText {
		textPath := filepath.Join(s.cfg.OutputFolder, fmt.Sprintf("%04d_%s.txt", idx, ch.Title))
		if err := os.WriteFile(textPath, []byte(ch.Text), 0o644); err != nil {
			return fmt.Errorf("write chapter text: %w", err)
		}
	}

	if s.cfg.Preview {
		return nil
	}

	outPath := filepath.Join(s.cfg.OutputFolder, fmt.Sprintf("%04d_%s.%s", idx, ch.Title, s.tts.GetOutputFileExtension()))
	tags := AudioTags{
		Title:  ch.Title,
		Author: s.parser.GetBookAuthor(),
		Album:  s.parser.GetBookTitle(),
		Track:  idx,
	}

	if err := s.tts.TextToSpeech(ctx, ch.Text, outPath, tags); err != nil {
		return err
	}

	if err := s.audio.Send(ctx, outPath); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		derr := &DeliveryError{Path: outPath, Err: err}
		log.Printf("[convert] %v", derr)
		if nerr := s.msg.Send(ctx, fmt.Sprintf("⚠️ Could not send chapter %d/%d: %s", idx, total, derr.Err)); nerr != nil {
			return nerr
		}
	}
	if s.removeAfterSend {
		// deletion is idempotent: a file already gone is fine
		if err := os.Remove(outPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove artifact: %w", err)
		}
	}

	return s.msg.Send(ctx, fmt.Sprintf("✅ Converted and sent chapter %d/%d: %s", idx, total, ch.Title))
}

// notify delivers a terminal message even when ctx is already canceled.
func (s *Service) notify(ctx context.Context, text string) {
	if err := s.msg.Send(context.WithoutCancel(ctx), text); err != nil {
		log.Printf("[convert] notify fail: %v", err)
	}
}
