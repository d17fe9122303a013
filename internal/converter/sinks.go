package converter

import (
	"context"
	"log"
)

// logMessageSink is the default when no chat is attached: progress goes
// to the local log.
type logMessageSink struct{}

func (logMessageSink) Send(_ context.Context, text string) error {
	log.Printf("[convert] %s", text)
	return nil
}

// NopAudioSink is the default delivery target: artifacts are kept
// under the output folder, nothing is sent anywhere.
type NopAudioSink struct{}

func (NopAudioSink) Send(context.Context, string) error { return nil }
