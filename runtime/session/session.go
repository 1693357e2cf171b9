// Package session implements the transcription session state machine
// §4.I describes: Idle -> AudioStreaming -> Finishing -> {Delivered |
// Empty}. Grounded on speech_to_phrase/transcribe.py's session flow: audio
// capture and decoding are external collaborators (out of scope per
// spec.md's Non-goals), but the state machine around invoking the fuzzy
// N-best resolver exactly once per session belongs here.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rhasspy-grammar/grammarfst/core/nbest"
)

// State is one state of a transcription session's lifecycle.
type State int

const (
	Idle State = iota
	AudioStreaming
	Finishing
	Delivered
	Empty
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case AudioStreaming:
		return "AudioStreaming"
	case Finishing:
		return "Finishing"
	case Delivered:
		return "Delivered"
	case Empty:
		return "Empty"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TransitionError reports an attempt to drive the session from a state
// that does not permit the requested transition.
type TransitionError struct {
	From, Want State
	Action     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("session: cannot %s from state %s (want %s)", e.Action, e.From, e.Want)
}

// Session drives one transcription attempt through its lifecycle, calling
// the fuzzy N-best resolver exactly once, on Finish.
type Session struct {
	state    State
	resolver *nbest.Resolver
	logger   *slog.Logger
}

// New creates an Idle session. logger defaults to slog.Default() when nil.
func New(resolver *nbest.Resolver, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{state: Idle, resolver: resolver, logger: logger}
}

// State reports the session's current lifecycle state.
func (s *Session) State() State { return s.state }

// StartAudio transitions Idle -> AudioStreaming, marking the start of
// audio ingestion by the external decoder.
func (s *Session) StartAudio() error {
	if s.state != Idle {
		return &TransitionError{From: s.state, Want: Idle, Action: "start audio"}
	}
	s.state = AudioStreaming
	return nil
}

// Finish transitions AudioStreaming -> Finishing -> {Delivered | Empty},
// invoking the fuzzy resolver on the decoder's N-best hypotheses exactly
// once. A rejected or out-of-vocabulary result is not an error: it ends
// the session in Empty with an empty transcript and a logged warning,
// matching spec.md §7's "runtime transcription errors produce an empty
// transcript ... never a crashing failure."
func (s *Session) Finish(ctx context.Context, hyps []nbest.Hypothesis) (string, error) {
	if s.state != AudioStreaming {
		return "", &TransitionError{From: s.state, Want: AudioStreaming, Action: "finish"}
	}
	s.state = Finishing

	text, cost, ok, err := s.resolver.Resolve(ctx, hyps)
	if err != nil {
		s.state = Empty
		s.logger.Warn("session: resolver error, ending session empty", "error", err)
		return "", err
	}
	if !ok || text == "" {
		s.state = Empty
		s.logger.Warn("session: no accepted transcript", "cost", cost)
		return "", nil
	}

	s.state = Delivered
	return text, nil
}

// Reset returns a Delivered or Empty session to Idle so it can be reused
// for the next utterance.
func (s *Session) Reset() {
	s.state = Idle
}
