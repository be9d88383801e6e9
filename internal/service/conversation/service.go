package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smart-bharat/backend/internal/model/conversation"
	"github.com/smart-bharat/backend/internal/service/reply"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrReplyPending rejects a new capture while a generation is
	// outstanding. The frontend disables the mic button in this state; the
	// service enforces it for programmatic callers too.
	ErrReplyPending = errors.New("a reply is still pending for this session")
	// ErrSuperseded marks a reply that resolved after its turn was replaced.
	ErrSuperseded = errors.New("reply superseded by a newer turn")
)

// Assistant-facing strings. The app speaks Hindi first with an English gloss,
// matching the product's rural-India audience.
const (
	GreetingText     = "नमस्ते ! में आपकी कैसे मदत कर सकती हूँ? (Hello! How can I help you today?)"
	ThinkingText     = "सोच रही हूँ..."
	StillWorkingText = "थोड़ा इंतजार करें, जवाब आ रहा है..."
	ApologyText      = "कुछ गलत हो गया। कृपया पुनः प्रयास करें।"
)

type session struct {
	meta     conversation.Session
	messages []conversation.Message

	// turn increments on every submitted transcript; a reply carrying a
	// stale turn number is dropped instead of clobbering a newer exchange.
	turn          int
	placeholderID string

	subscribers map[int]chan Event
	nextSubID   int
}

// Event notifies voice-channel subscribers about log and state changes.
type Event struct {
	Type    EventType            `json:"type"`
	Message conversation.Message `json:"message,omitempty"`
	State   conversation.State   `json:"state,omitempty"`
}

type EventType string

const (
	EventMessageAppended EventType = "message"
	EventMessageUpdated  EventType = "message_update"
	EventStateChanged    EventType = "state"
)

// Service owns every session's message log and drives the
// Idle → Listening → AwaitingReply cycle.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]*session
	generator reply.Generator

	stillWorkingAfter time.Duration
}

// Option tunes the service.
type Option func(*Service)

// WithStillWorkingAfter overrides the delay before a pending placeholder is
// rewritten to the "still working" text.
func WithStillWorkingAfter(d time.Duration) Option {
	return func(s *Service) { s.stillWorkingAfter = d }
}

// NewService bootstraps the in-memory conversation service.
func NewService(generator reply.Generator, opts ...Option) *Service {
	s := &Service{
		sessions:          make(map[string]*session),
		generator:         generator,
		stillWorkingAfter: 4 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession provisions a session pre-seeded with the greeting message.
func (s *Service) CreateSession(_ context.Context, language string) (conversation.Session, error) {
	if language == "" {
		language = "hi"
	}

	meta := conversation.Session{
		ID:        uuid.NewString(),
		Language:  language,
		State:     conversation.Idle,
		CreatedAt: time.Now().UTC(),
	}

	sess := &session{
		meta:        meta,
		messages:    make([]conversation.Message, 0, 16),
		subscribers: make(map[int]chan Event),
	}
	sess.messages = append(sess.messages, conversation.Message{
		ID:        uuid.NewString(),
		SessionID: meta.ID,
		Text:      GreetingText,
		IsUser:    false,
		CreatedAt: meta.CreatedAt,
	})

	s.mu.Lock()
	s.sessions[meta.ID] = sess
	s.mu.Unlock()

	return meta, nil
}

// GetSession retrieves session metadata.
func (s *Service) GetSession(_ context.Context, sessionID string) (conversation.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return conversation.Session{}, ErrSessionNotFound
	}
	return sess.meta, nil
}

// Messages returns a copy of the ordered message log.
func (s *Service) Messages(_ context.Context, sessionID string) ([]conversation.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := make([]conversation.Message, len(sess.messages))
	copy(copied, sess.messages)
	return copied, nil
}

// StartCapture moves an idle session to Listening. Calling it while already
// listening is a no-op; while a reply is pending it is rejected.
func (s *Service) StartCapture(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	switch sess.meta.State {
	case conversation.Listening:
		return nil
	case conversation.AwaitingReply:
		return ErrReplyPending
	}

	s.setState(sess, conversation.Listening)
	return nil
}

// StopCapture ends a capture session. If no final transcript arrived, the
// session returns to Idle with nothing appended.
func (s *Service) StopCapture(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if sess.meta.State == conversation.Listening {
		s.setState(sess, conversation.Idle)
	}
	return nil
}

// SubmitTranscript runs one full turn: it appends the user message and the
// placeholder assistant message, asks the generator for a reply and resolves
// the placeholder in place. Exactly two messages are added per completed
// turn. The call blocks until the reply resolves (the generator bounds it).
func (s *Service) SubmitTranscript(ctx context.Context, sessionID, transcript string) (conversation.Message, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return conversation.Message{}, ErrSessionNotFound
	}
	if sess.meta.State == conversation.AwaitingReply {
		s.mu.Unlock()
		return conversation.Message{}, ErrReplyPending
	}

	now := time.Now().UTC()
	userMsg := conversation.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Text:      transcript,
		IsUser:    true,
		CreatedAt: now,
	}
	placeholder := conversation.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Text:      ThinkingText,
		IsUser:    false,
		CreatedAt: now,
	}
	sess.messages = append(sess.messages, userMsg, placeholder)
	sess.placeholderID = placeholder.ID
	sess.turn++
	turn := sess.turn
	s.setState(sess, conversation.AwaitingReply)
	s.notify(sess, Event{Type: EventMessageAppended, Message: userMsg})
	s.notify(sess, Event{Type: EventMessageAppended, Message: placeholder})
	s.mu.Unlock()

	// Cosmetic reassurance while the reply is still pending.
	timer := time.AfterFunc(s.stillWorkingAfter, func() {
		s.rewritePlaceholder(sessionID, turn, placeholder.ID, StillWorkingText)
	})
	defer timer.Stop()

	text, err := s.generator.Generate(ctx, transcript)
	if err != nil {
		text = ApologyText
	}

	return s.resolvePlaceholder(sessionID, turn, placeholder.ID, text)
}

// AppendAssistantMessage appends a system-originated assistant message, such
// as a localized capture-error explanation, and returns the session to Idle.
func (s *Service) AppendAssistantMessage(sessionID, text string) (conversation.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return conversation.Message{}, ErrSessionNotFound
	}

	msg := conversation.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Text:      text,
		IsUser:    false,
		CreatedAt: time.Now().UTC(),
	}
	sess.messages = append(sess.messages, msg)
	if sess.meta.State == conversation.Listening {
		s.setState(sess, conversation.Idle)
	}
	s.notify(sess, Event{Type: EventMessageAppended, Message: msg})
	return msg, nil
}

// Subscribe registers a listener for session events. The returned cancel
// func must be called when the listener goes away.
func (s *Service) Subscribe(sessionID string) (<-chan Event, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}

	id := sess.nextSubID
	sess.nextSubID++
	ch := make(chan Event, 32)
	sess.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.sessions[sessionID]; ok {
			if sub, ok := cur.subscribers[id]; ok {
				delete(cur.subscribers, id)
				close(sub)
			}
		}
	}
	return ch, cancel, nil
}

func (s *Service) rewritePlaceholder(sessionID string, turn int, placeholderID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.turn != turn || sess.placeholderID != placeholderID {
		return
	}
	for i := range sess.messages {
		if sess.messages[i].ID == placeholderID {
			sess.messages[i].Text = text
			s.notify(sess, Event{Type: EventMessageUpdated, Message: sess.messages[i]})
			return
		}
	}
}

func (s *Service) resolvePlaceholder(sessionID string, turn int, placeholderID, text string) (conversation.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return conversation.Message{}, ErrSessionNotFound
	}
	if sess.turn != turn {
		return conversation.Message{}, ErrSuperseded
	}

	sess.placeholderID = ""
	s.setState(sess, conversation.Idle)
	for i := range sess.messages {
		if sess.messages[i].ID == placeholderID {
			sess.messages[i].Text = text
			resolved := sess.messages[i]
			s.notify(sess, Event{Type: EventMessageUpdated, Message: resolved})
			return resolved, nil
		}
	}
	return conversation.Message{}, ErrSessionNotFound
}

// setState mutates state and fans the change out. Callers hold s.mu.
func (s *Service) setState(sess *session, state conversation.State) {
	if sess.meta.State == state {
		return
	}
	sess.meta.State = state
	s.notify(sess, Event{Type: EventStateChanged, State: state})
}

// notify never blocks; slow subscribers miss events. Callers hold s.mu.
func (s *Service) notify(sess *session, event Event) {
	for _, ch := range sess.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
