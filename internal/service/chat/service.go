package chat

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/johncabili/portfolio/backend/internal/model/assistant"
	"github.com/johncabili/portfolio/backend/internal/model/chat"
	"github.com/johncabili/portfolio/backend/internal/service/responder"
	"github.com/johncabili/portfolio/backend/internal/telemetry"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrWidgetClosed    = errors.New("chat widget is closed")
	ErrRateLimited     = errors.New("too many messages")
)

// RateLimiter gates visitor messages per session.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// Config tunes widget behaviour.
type Config struct {
	MaxMessages      int
	TypingMin        time.Duration
	TypingJitter     time.Duration
	SubscriberBuffer int
}

// DefaultConfig mirrors the widget's stock timings.
func DefaultConfig() Config {
	return Config{
		MaxMessages:      20,
		TypingMin:        time.Second,
		TypingJitter:     500 * time.Millisecond,
		SubscriberBuffer: 32,
	}
}

// Option customises a Service.
type Option func(*Service)

func WithConfig(cfg Config) Option {
	return func(s *Service) {
		if cfg.MaxMessages > 0 {
			s.cfg.MaxMessages = cfg.MaxMessages
		}
		if cfg.TypingMin > 0 {
			s.cfg.TypingMin = cfg.TypingMin
		}
		if cfg.TypingJitter >= 0 {
			s.cfg.TypingJitter = cfg.TypingJitter
		}
		if cfg.SubscriberBuffer > 0 {
			s.cfg.SubscriberBuffer = cfg.SubscriberBuffer
		}
	}
}

func WithScheduler(scheduler Scheduler) Option {
	return func(s *Service) {
		if scheduler != nil {
			s.scheduler = scheduler
		}
	}
}

func WithRateLimiter(limiter RateLimiter) Option {
	return func(s *Service) { s.limiter = limiter }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRecorder(recorder *telemetry.Recorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithRand seeds the typing jitter source.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Service) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// WithClock overrides the message timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service owns the live widgets, one per visitor session.
type Service struct {
	mu      sync.RWMutex
	widgets map[string]*widget

	cfg       Config
	profile   assistant.Profile
	responder *responder.Responder
	scheduler Scheduler
	limiter   RateLimiter
	logger    *zap.Logger
	recorder  *telemetry.Recorder
	broker    *Broker
	now       func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewService wires the widget registry around a responder.
func NewService(profile assistant.Profile, resp *responder.Responder, opts ...Option) *Service {
	s := &Service{
		widgets:   make(map[string]*widget),
		cfg:       DefaultConfig(),
		profile:   profile,
		responder: resp,
		scheduler: SystemScheduler(),
		logger:    zap.NewNop(),
		recorder:  telemetry.NopRecorder(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.responder == nil {
		s.responder = responder.New(responder.Options{OwnerEmail: profile.OwnerEmail, ResumePath: profile.ResumePath})
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x74797065))
	}
	s.broker = NewBroker(s.cfg.SubscriberBuffer, s.logger)
	return s
}

// Profile returns the assistant the widgets speak for.
func (s *Service) Profile() assistant.Profile {
	return s.profile
}

// CreateSession mounts a new widget seeded with the greeting.
func (s *Service) CreateSession(_ context.Context, open bool) (chat.Snapshot, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
	}
	w := newWidget(s, session, open)

	s.mu.Lock()
	s.widgets[session.ID] = w
	s.mu.Unlock()

	s.logger.Info("chat session created", zap.String("session_id", session.ID), zap.Bool("open", open))

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked(), nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	w, err := s.lookup(sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	return w.session, nil
}

// Snapshot returns the current widget view.
func (s *Service) Snapshot(_ context.Context, sessionID string) (chat.Snapshot, error) {
	return s.withWidget(sessionID, func(w *widget) error { return nil })
}

// Open shows the widget. Opening an open widget does nothing.
func (s *Service) Open(_ context.Context, sessionID, reason string) (chat.Snapshot, error) {
	return s.withWidget(sessionID, func(w *widget) error {
		w.open(reason)
		return nil
	})
}

// Close hides the widget and abandons any reply in flight.
func (s *Service) Close(_ context.Context, sessionID, reason string) (chat.Snapshot, error) {
	return s.withWidget(sessionID, func(w *widget) error {
		w.close(reason)
		return nil
	})
}

// Toggle flips between closed and open.
func (s *Service) Toggle(_ context.Context, sessionID, reason string) (chat.Snapshot, error) {
	return s.withWidget(sessionID, func(w *widget) error {
		if w.state.Open() {
			w.close(reason)
		} else {
			w.open(reason)
		}
		return nil
	})
}

// Send appends a visitor message and arms the typing timer for its reply.
func (s *Service) Send(ctx context.Context, sessionID, text string) (chat.Snapshot, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Snapshot{}, ErrEmptyMessage
	}
	w, err := s.lookup(sessionID)
	if err != nil {
		return chat.Snapshot{}, err
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, sessionID) {
		return chat.Snapshot{}, ErrRateLimited
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.send(ctx, text); err != nil {
		return chat.Snapshot{}, err
	}
	return w.snapshotLocked(), nil
}

// SelectQuickReply handles a suggestion click. Action labels deliver their
// effect without adding to the transcript; any other label is sent as text.
func (s *Service) SelectQuickReply(ctx context.Context, sessionID, label string) (chat.Snapshot, error) {
	effect, ok := s.responder.QuickAction(label)
	if !ok {
		return s.Send(ctx, sessionID, label)
	}

	return s.withWidget(sessionID, func(w *widget) error {
		if !w.state.Open() {
			return ErrWidgetClosed
		}
		w.scheduleEffectLocked(ctx, effect)
		return nil
	})
}

// Reset restores the greeting-only transcript.
func (s *Service) Reset(_ context.Context, sessionID string) (chat.Snapshot, error) {
	return s.withWidget(sessionID, func(w *widget) error {
		w.reset()
		return nil
	})
}

// SetMuted toggles the sound cue.
func (s *Service) SetMuted(_ context.Context, sessionID string, muted bool) (chat.Snapshot, error) {
	return s.withWidget(sessionID, func(w *widget) error {
		w.muted = muted
		return nil
	})
}

// LoadTranscript returns the visible messages, oldest first.
func (s *Service) LoadTranscript(ctx context.Context, sessionID string) ([]chat.Message, error) {
	snap, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return snap.Messages, nil
}

// EndSession unmounts the widget, cancelling every pending timer.
func (s *Service) EndSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	w, ok := s.widgets[sessionID]
	delete(s.widgets, sessionID)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	w.mu.Lock()
	w.end()
	w.mu.Unlock()

	s.broker.CloseSession(sessionID)
	s.logger.Info("chat session ended", zap.String("session_id", sessionID))
	return nil
}

// Subscribe attaches an event listener to a session.
func (s *Service) Subscribe(sessionID string) (<-chan Event, func(), error) {
	if _, err := s.lookup(sessionID); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.broker.Subscribe(sessionID)
	return ch, cancel, nil
}

func (s *Service) lookup(sessionID string) (*widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.widgets[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return w, nil
}

func (s *Service) withWidget(sessionID string, fn func(w *widget) error) (chat.Snapshot, error) {
	w, err := s.lookup(sessionID)
	if err != nil {
		return chat.Snapshot{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ended {
		return chat.Snapshot{}, ErrSessionNotFound
	}
	if err := fn(w); err != nil {
		return chat.Snapshot{}, err
	}
	return w.snapshotLocked(), nil
}

func (s *Service) respond(ctx context.Context, text string) responder.Reply {
	ctx, span := s.recorder.Start(ctx, "chat.respond")
	defer span.End()

	reply := s.responder.Respond(text)
	span.SetAttributes(attribute.String("intent", string(reply.Intent)), attribute.Int("effects", len(reply.Effects)))
	s.recorder.Intent(ctx, string(reply.Intent))
	return reply
}

func (s *Service) typingDelay() time.Duration {
	if s.cfg.TypingJitter <= 0 {
		return s.cfg.TypingMin
	}
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.cfg.TypingMin + time.Duration(s.rnd.Int64N(int64(s.cfg.TypingJitter)))
}

func (s *Service) completeTyping(w *widget, gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.completeTypingLocked(context.Background(), gen)
}

func (s *Service) fireEffect(w *widget, id, gen uint64, effect responder.Effect) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ended || gen != w.effectGen {
		return
	}
	if _, ok := w.effects[id]; !ok {
		return
	}
	delete(w.effects, id)
	w.fireEffectLocked(context.Background(), effect)
}
