package session_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhasspy-grammar/grammarfst/core/nbest"
	"github.com/rhasspy-grammar/grammarfst/internal/toolrunner"
	"github.com/rhasspy-grammar/grammarfst/runtime/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newResolver(fake *toolrunner.Fake) *nbest.Resolver {
	return &nbest.Resolver{
		Runner:       fake,
		Logger:       discardLogger(),
		FuzzyFSTPath: "fuzzy.fst",
		SymbolsPath:  "symbols.txt",
	}
}

func TestSessionHappyPath(t *testing.T) {
	fake := toolrunner.NewFake()
	fake.On("fstcompile", toolrunner.Script{Stdout: []byte("0\t1\tturn\tturn\t0\n1\n")})
	s := session.New(newResolver(fake), discardLogger())

	require.Equal(t, session.Idle, s.State())
	require.NoError(t, s.StartAudio())
	require.Equal(t, session.AudioStreaming, s.State())

	text, err := s.Finish(context.Background(), []nbest.Hypothesis{{Utt: "u1", Words: []string{"turn"}}})
	require.NoError(t, err)
	assert.Equal(t, "turn", text)
	assert.Equal(t, session.Delivered, s.State())
}

func TestSessionNoAcceptingPathEndsEmpty(t *testing.T) {
	fake := toolrunner.NewFake()
	fake.On("fstcompile", toolrunner.Script{Stdout: []byte("")})
	s := session.New(newResolver(fake), discardLogger())
	require.NoError(t, s.StartAudio())

	text, err := s.Finish(context.Background(), []nbest.Hypothesis{{Utt: "u1", Words: []string{"gibberish"}}})
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, session.Empty, s.State())
}

func TestSessionResolverErrorEndsEmptyAndPropagatesError(t *testing.T) {
	fake := toolrunner.NewFake()
	fake.On("fstcompile", toolrunner.Script{Err: errors.New("boom")})
	s := session.New(newResolver(fake), discardLogger())
	require.NoError(t, s.StartAudio())

	_, err := s.Finish(context.Background(), []nbest.Hypothesis{{Utt: "u1", Words: []string{"turn"}}})
	require.Error(t, err)
	assert.Equal(t, session.Empty, s.State())
}

func TestSessionFinishFromIdleIsTransitionError(t *testing.T) {
	fake := toolrunner.NewFake()
	s := session.New(newResolver(fake), discardLogger())

	_, err := s.Finish(context.Background(), nil)
	require.Error(t, err)
	var terr *session.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, session.Idle, terr.From)
	assert.Equal(t, session.AudioStreaming, terr.Want)
}

func TestSessionStartAudioTwiceIsTransitionError(t *testing.T) {
	fake := toolrunner.NewFake()
	s := session.New(newResolver(fake), discardLogger())
	require.NoError(t, s.StartAudio())

	err := s.StartAudio()
	require.Error(t, err)
	var terr *session.TransitionError
	require.ErrorAs(t, err, &terr)
}

func TestSessionResetReturnsToIdle(t *testing.T) {
	fake := toolrunner.NewFake()
	fake.On("fstcompile", toolrunner.Script{Stdout: []byte("0\t1\tturn\tturn\t0\n1\n")})
	s := session.New(newResolver(fake), discardLogger())
	require.NoError(t, s.StartAudio())
	_, err := s.Finish(context.Background(), []nbest.Hypothesis{{Utt: "u1", Words: []string{"turn"}}})
	require.NoError(t, err)

	s.Reset()
	assert.Equal(t, session.Idle, s.State())
}
