package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func sixChapters() []Chapter {
	out := make([]Chapter, 0, 6)
	for i := 1; i <= 6; i++ {
		out = append(out, Chapter{
			Title: fmt.Sprintf("Chapter %d", i),
			Text:  fmt.Sprintf("Text of chapter number %d.", i),
		})
	}
	return out
}

func newRun(t *testing.T, cfg RunConfig, chapters []Chapter) (*Service, *fakeProvider, *memMessageSink, *memAudioSink, string) {
	t.Helper()
	dir := t.TempDir()
	cfg.OutputFolder = dir
	cfg, err := NewRunConfig(cfg)
	if err != nil {
		t.Fatalf("NewRunConfig: %v", err)
	}
	parser := &fakeParser{chapters: chapters, author: "Jane Roe", title: "A Test Book"}
	provider := &fakeProvider{costPerChar: 0.0001}
	msg := &memMessageSink{}
	audio := &memAudioSink{removeOnSend: false}
	return NewService(cfg, parser, provider, msg, audio), provider, msg, audio, dir
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunSubRange(t *testing.T) {
	svc, provider, msg, audio, _ := newRun(t, RunConfig{ChapterStart: 4, ChapterEnd: 6}, sixChapters())

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if msg.msgs[0] != "Chapters count: 6." {
		t.Fatalf("first message = %q", msg.msgs[0])
	}
	if msg.msgs[1] != "Converting chapters from 4 to 6." {
		t.Fatalf("second message = %q", msg.msgs[1])
	}
	// the report sequence is a fixed transcript for chat clients
	if !strings.HasPrefix(msg.msgs[2], "✨ Total characters in selected book:") {
		t.Fatalf("third message = %q", msg.msgs[2])
	}
	if !strings.HasPrefix(msg.msgs[3], "Estimate book voiceover would cost you roughly: $") {
		t.Fatalf("fourth message = %q", msg.msgs[3])
	}

	if len(provider.converted) != 3 {
		t.Fatalf("converted %d chapters, want 3", len(provider.converted))
	}
	for i, want := range []string{"0004_Chapter 4.mp3", "0005_Chapter 5.mp3", "0006_Chapter 6.mp3"} {
		if got := filepath.Base(provider.converted[i]); got != want {
			t.Fatalf("artifact %d = %q, want %q", i, got, want)
		}
	}
	if len(audio.delivered) != 3 {
		t.Fatalf("delivered %d artifacts, want 3", len(audio.delivered))
	}
	if last := msg.msgs[len(msg.msgs)-1]; last != "All chapters converted and sent. 🎉🎉🎉" {
		t.Fatalf("terminal message = %q", last)
	}
}

func TestRunEndSentinelConvertsAll(t *testing.T) {
	svc, provider, _, _, _ := newRun(t, RunConfig{ChapterStart: 1, ChapterEnd: -1}, sixChapters())

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(provider.converted) != 6 {
		t.Fatalf("converted %d chapters, want 6", len(provider.converted))
	}
}

func TestRunStartOutOfRangeAborts(t *testing.T) {
	svc, provider, msg, audio, dir := newRun(t, RunConfig{ChapterStart: 7, ChapterEnd: -1}, sixChapters())

	err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RangeError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "7") || !strings.Contains(err.Error(), "6") {
		t.Fatalf("error should mention 7 and 6: %v", err)
	}
	if len(provider.converted) != 0 || len(audio.delivered) != 0 {
		t.Fatal("no artifacts or deliveries expected on range failure")
	}
	if files := listFiles(t, dir); len(files) != 0 {
		t.Fatalf("no files expected, got %v", files)
	}
	if !msg.contains("An error occurred:") {
		t.Fatalf("error text must reach the message sink: %v", msg.msgs)
	}
}

func TestBlankChaptersAreFiltered(t *testing.T) {
	chapters := sixChapters()
	chapters = append(chapters[:3], append([]Chapter{{Title: "Blank", Text: "   \n\t "}}, chapters[3:]...)...)

	svc, provider, msg, _, _ := newRun(t, RunConfig{ChapterStart: 1, ChapterEnd: -1}, chapters)
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if msg.msgs[0] != "Chapters count: 6." {
		t.Fatalf("blank chapter must not be counted: %q", msg.msgs[0])
	}
	if len(provider.converted) != 6 {
		t.Fatalf("converted %d chapters, want 6", len(provider.converted))
	}
}

func TestPreviewProducesNoArtifacts(t *testing.T) {
	svc, provider, msg, audio, dir := newRun(t, RunConfig{Preview: true, OutputText: true, ChapterStart: 1, ChapterEnd: -1}, sixChapters())

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(provider.converted) != 0 || len(audio.delivered) != 0 {
		t.Fatal("preview must produce no artifacts and no deliveries")
	}
	files := listFiles(t, dir)
	if len(files) != 6 {
		t.Fatalf("expected 6 text dumps, got %v", files)
	}
	for _, f := range files {
		if filepath.Ext(f) != ".txt" {
			t.Fatalf("unexpected non-text file in preview: %s", f)
		}
	}
	if !msg.contains("Previewing convert chapter 1/6") {
		t.Fatalf("preview wording missing: %v", msg.msgs)
	}
}

func TestTextDumpContent(t *testing.T) {
	svc, _, _, _, dir := newRun(t, RunConfig{OutputText: true, ChapterStart: 2, ChapterEnd: 2}, sixChapters())

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "0002_Chapter 2.txt"))
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	if string(raw) != "Text of chapter number 2." {
		t.Fatalf("dump content = %q", raw)
	}
}

func TestTotalCharactersCoversSelectionOnly(t *testing.T) {
	chapters := sixChapters()
	svc, _, msg, _, _ := newRun(t, RunConfig{ChapterStart: 4, ChapterEnd: 6}, chapters)

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := 0
	for _, ch := range chapters[3:6] {
		want += utf8.RuneCountInString(ch.Text)
	}
	if !msg.contains(fmt.Sprintf("Total characters in selected book: %d", want)) {
		t.Fatalf("expected character total %d in messages: %v", want, msg.msgs)
	}
	if !msg.contains("Estimate book voiceover would cost you roughly: $") {
		t.Fatalf("cost estimate missing: %v", msg.msgs)
	}
}

func TestArtifactsRemovedAfterDelivery(t *testing.T) {
	svc, _, _, audio, dir := newRun(t, RunConfig{ChapterStart: 1, ChapterEnd: -1}, sixChapters())

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(audio.delivered) != 6 {
		t.Fatalf("delivered %d, want 6", len(audio.delivered))
	}
	if files := listFiles(t, dir); len(files) != 0 {
		t.Fatalf("artifacts must be removed after delivery, got %v", files)
	}
}

func TestDeliveryConsumingFileIsFine(t *testing.T) {
	// sink removes the file itself; the cleanup must treat the missing
	// file as already done
	svc, _, _, audio, _ := newRun(t, RunConfig{ChapterStart: 1, ChapterEnd: -1}, sixChapters())
	audio.removeOnSend = true

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestDeliveryFailureContinuesRun(t *testing.T) {
	svc, provider, msg, audio, dir := newRun(t, RunConfig{ChapterStart: 1, ChapterEnd: -1}, sixChapters())
	audio.failAll = true

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("delivery failures must not abort the run: %v", err)
	}
	if len(provider.converted) != 6 {
		t.Fatalf("converted %d chapters, want 6", len(provider.converted))
	}
	if !msg.contains("Could not send chapter 1/6") {
		t.Fatalf("delivery failure must be surfaced: %v", msg.msgs)
	}
	// artifacts are still deleted after the failed delivery attempt
	if files := listFiles(t, dir); len(files) != 0 {
		t.Fatalf("artifacts must be removed, got %v", files)
	}
}

func TestNoAudioSinkRetainsArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfg, err := NewRunConfig(RunConfig{OutputFolder: dir, ChapterStart: 1, ChapterEnd: -1})
	if err != nil {
		t.Fatalf("NewRunConfig: %v", err)
	}
	parser := &fakeParser{chapters: sixChapters(), author: "Jane Roe", title: "A Test Book"}
	svc := NewService(cfg, parser, &fakeProvider{}, &memMessageSink{}, nil)

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if files := listFiles(t, dir); len(files) != 6 {
		t.Fatalf("expected 6 retained artifacts, got %v", files)
	}
}

func TestBackendFailureAbortsRun(t *testing.T) {
	svc, provider, msg, audio, dir := newRun(t, RunConfig{ChapterStart: 1, ChapterEnd: -1}, sixChapters())
	provider.failOn = "number 5"

	err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected backend error")
	}
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BackendError, got %T: %v", err, err)
	}
	if len(provider.converted) != 4 {
		t.Fatalf("chapters 1-4 should be converted, got %d", len(provider.converted))
	}
	if len(audio.delivered) != 4 {
		t.Fatalf("chapters 1-4 should be delivered, got %d", len(audio.delivered))
	}
	for _, f := range listFiles(t, dir) {
		if strings.HasPrefix(f, "0005") || strings.HasPrefix(f, "0006") {
			t.Fatalf("no artifact expected for chapters 5-6, found %s", f)
		}
	}
	if !msg.contains("An error occurred: tts provider fake: quota exceeded") {
		t.Fatalf("error text must reach the message sink: %v", msg.msgs)
	}
	if last := msg.msgs[len(msg.msgs)-1]; !strings.Contains(last, "An error occurred:") {
		t.Fatalf("error message must be terminal: %q", last)
	}
}

func TestCancellationIsPropagated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, provider, msg, _, _ := newRun(t, RunConfig{ChapterStart: 1, ChapterEnd: -1}, sixChapters())
	provider.cancelOn = "number 3"
	provider.cancel = cancel

	err := svc.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancellation must propagate, got %v", err)
	}
	if len(provider.converted) != 2 {
		t.Fatalf("converted %d chapters before cancel, want 2", len(provider.converted))
	}
	if last := msg.msgs[len(msg.msgs)-1]; last != "Job stopped by user." {
		t.Fatalf("terminal message = %q", last)
	}
}

func TestCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc, provider, _, _, _ := newRun(t, RunConfig{ChapterStart: 1, ChapterEnd: -1}, sixChapters())
	if err := svc.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if len(provider.converted) != 0 {
		t.Fatal("nothing should convert after cancellation")
	}
}
