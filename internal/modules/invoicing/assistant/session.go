package assistant

import (
	"context"
	"strings"
	"sync"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

type Mode string

const (
	ModeChat  Mode = "chat"
	ModeVoice Mode = "voice"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	Greeting     = "Hi! I'm your AI assistant. I can help you create invoices, manage clients, or answer questions about your revenue."
	VoiceApology = "Sorry, I encountered an error."
)

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Speaker reads replies aloud in voice mode
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Stop()
}

// Listener captures speech in voice mode. Capture and synthesis never run
// together.
type Listener interface {
	Listen(ctx context.Context) error
	Stop()
}

type SessionOption func(*Session)

func WithListener(l Listener) SessionOption {
	return func(s *Session) { s.listener = l }
}

// Session holds one user's conversation. Only one request may be in flight.
type Session struct {
	dispatcher *Dispatcher
	speaker    Speaker
	listener   Listener

	mu         sync.Mutex
	mode       Mode
	busy       bool
	transcript []ChatMessage
}

func NewSession(dispatcher *Dispatcher, speaker Speaker, opts ...SessionOption) *Session {
	s := &Session{
		dispatcher: dispatcher,
		speaker:    speaker,
		mode:       ModeChat,
		transcript: []ChatMessage{{Role: RoleAssistant, Content: Greeting}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetMode switches interaction mode; leaving voice stops speech and capture
func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	prev := s.mode
	s.mode = m
	s.mu.Unlock()

	if prev == ModeVoice && m != ModeVoice {
		if s.speaker != nil {
			s.speaker.Stop()
		}
		s.StopListening()
	}
}

// StartListening stops any speech and begins voice capture
func (s *Session) StartListening(ctx context.Context) error {
	if s.listener == nil {
		return ierr.NewError("no voice capture configured").
			WithHint("Voice input is not available.").
			Mark(ierr.ErrUnsupported)
	}
	if s.speaker != nil {
		s.speaker.Stop()
	}
	if err := s.listener.Listen(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("Could not start voice input.").
			Mark(ierr.ErrAssistant)
	}
	return nil
}

func (s *Session) StopListening() {
	if s.listener != nil {
		s.listener.Stop()
	}
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Transcript() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatMessage(nil), s.transcript...)
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Send dispatches text in the given mode (the session mode when empty).
// Failures are reported to the user through the transcript or speaker and
// also returned.
func (s *Session) Send(ctx context.Context, text string, mode Mode) (Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}, ierr.NewError("empty assistant message").
			WithHint("Please type a message.").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return Outcome{}, ierr.NewError("assistant request already in flight").
			WithHint("Please wait for the current request to finish.").
			Mark(ierr.ErrBusy)
	}
	s.busy = true
	if mode == "" {
		mode = s.mode
	}
	if mode == ModeChat {
		s.transcript = append(s.transcript, ChatMessage{Role: RoleUser, Content: text})
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	out, err := s.dispatcher.Ask(ctx, text)
	if err != nil {
		utils.LogError("assistant command failed", err, map[string]interface{}{
			"mode": string(mode),
		})
		if mode == ModeVoice {
			s.say(ctx, VoiceApology)
		} else {
			s.appendAssistant("Error: " + ierr.UserMessage(err))
		}
		return Outcome{}, err
	}

	if mode == ModeVoice {
		s.say(ctx, out.Response)
	} else {
		s.appendAssistant(out.Response)
	}
	return out, nil
}

func (s *Session) appendAssistant(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, ChatMessage{Role: RoleAssistant, Content: content})
}

func (s *Session) say(ctx context.Context, text string) {
	if s.speaker == nil || text == "" {
		return
	}
	s.StopListening()
	s.speaker.Stop()
	if err := s.speaker.Speak(ctx, text); err != nil {
		utils.LogWarn("speech synthesis failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
