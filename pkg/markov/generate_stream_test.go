package markov

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestGenerateStream(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful stream", func(t *testing.T) {
		m := newTrainedModel(t, 1, "abac")
		stream := m.GenerateStream(ctx, WithRand(&scriptedRand{draws: []int{0, 0, 0, 1}}))

		var sb strings.Builder
		for s := range stream {
			sb.WriteRune(s)
		}
		if got := sb.String(); got != "abac" {
			t.Errorf("expected stream to generate %q, but got %q", "abac", got)
		}
	})

	t.Run("Stream from seed", func(t *testing.T) {
		m := newTrainedModel(t, 2, "hello", "help")
		stream := m.GenerateStreamFrom(ctx, []rune("he"), WithRand(&scriptedRand{draws: []int{0}}))

		var sb strings.Builder
		for s := range stream {
			sb.WriteRune(s)
		}
		if got := sb.String(); got != "llo" {
			t.Errorf("expected stream to generate %q, but got %q", "llo", got)
		}
	})

	t.Run("Stream cancellation", func(t *testing.T) {
		// With draw 0 only, this model never picks the terminus.
		m := newTrainedModel(t, 1, "aa")
		ctxCancel, cancel := context.WithCancel(ctx)
		defer cancel()

		streamCancel := m.GenerateStream(ctxCancel, WithRand(&scriptedRand{draws: []int{0}}))

		// Read one symbol, then cancel
		<-streamCancel
		cancel()

		// The channel should now close quickly. A symbol that was already
		// being handed over may still arrive first.
		timeout := time.After(time.Second)
		for {
			select {
			case _, ok := <-streamCancel:
				if !ok {
					return // Success, channel is closed.
				}
			case <-timeout:
				t.Fatal("timed out waiting for stream channel to close after cancellation")
			}
		}
	})

	t.Run("Unread stream closes on cancel", func(t *testing.T) {
		m := newTrainedModel(t, 1, "aa")
		ctxCancel, cancel := context.WithCancel(ctx)

		stream := m.GenerateStream(ctxCancel, WithRand(&scriptedRand{draws: []int{0}}))
		cancel()

		// Symbols racing with the cancellation may still arrive before the close.
		timeout := time.After(time.Second)
		for {
			select {
			case _, ok := <-stream:
				if !ok {
					return
				}
			case <-timeout:
				t.Fatal("timed out waiting for an unread stream to close after cancellation")
			}
		}
	})
}
