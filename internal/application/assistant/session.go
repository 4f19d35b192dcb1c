// Package assistant implements Stocky, the inventory chat assistant: an
// ordered intent router over the shop ledger with a short conversational
// memory.
package assistant

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	appledger "github.com/ministock/backend/internal/application/ledger"
	"github.com/ministock/backend/internal/domain/conversation"
	"github.com/ministock/backend/internal/domain/ledger"
)

const tracerName = "github.com/ministock/backend/internal/application/assistant"

// LedgerSource loads the ledger and performs the one-time legacy migration.
type LedgerSource interface {
	Load(ctx context.Context) (*ledger.View, error)
	MigrateLegacy(ctx context.Context) (appledger.MigrationReport, error)
}

// NoticeSource yields transient notices, oldest first, removing them.
type NoticeSource interface {
	Drain() []string
}

// Recorder receives one measurement per answered turn.
type Recorder interface {
	RecordTurn(ctx context.Context, intent string, duration time.Duration, charted bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordTurn(context.Context, string, time.Duration, bool) {}

// Session is one conversation with the assistant. Turns are serialized.
type Session struct {
	mu sync.Mutex

	id         string
	source     LedgerSource
	router     *Router
	memory     *conversation.Memory
	memoryOpts []conversation.Option
	settings   Settings
	picker     Picker
	now        func() time.Time
	logger     *zap.Logger
	tracer     trace.Tracer
	recorder   Recorder
	notices    NoticeSource
	started    bool
}

// Option configures a Session.
type Option func(*Session)

// WithRouter replaces the default intent table.
func WithRouter(r *Router) Option {
	return func(s *Session) { s.router = r }
}

// WithSettings sets the generator thresholds.
func WithSettings(settings Settings) Option {
	return func(s *Session) { s.settings = settings }
}

// WithPicker sets the source of randomness for social replies.
func WithPicker(p Picker) Option {
	return func(s *Session) { s.picker = p }
}

// WithSeed makes social replies reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.picker = rand.New(rand.NewPCG(seed, seed)) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithTracer sets the tracer used for turn spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) { s.tracer = t }
}

// WithRecorder sets the turn metrics sink.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithNotices connects a notice queue, typically fed by ledger events.
func WithNotices(n NoticeSource) Option {
	return func(s *Session) { s.notices = n }
}

// WithMemoryOptions configures the conversation memory caps.
func WithMemoryOptions(opts ...conversation.Option) Option {
	return func(s *Session) { s.memoryOpts = append(s.memoryOpts, opts...) }
}

// NewSession creates a session over source.
func NewSession(source LedgerSource, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		source:   source,
		settings: DefaultSettings(),
		now:      time.Now,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.router == nil {
		s.router = NewDefaultRouter()
	}
	if s.picker == nil {
		s.picker = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	s.memory = conversation.NewMemory(s.memoryOpts...)
	s.logger = s.logger.With(zap.String("session_id", s.id))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Start migrates legacy single-item data on the first call. Later calls
// are no-ops.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.started = true

	report, err := s.source.MigrateLegacy(ctx)
	if err != nil {
		s.logger.Warn("legacy migration failed", zap.Error(err))
		return err
	}
	if len(report.Migrated) > 0 {
		s.logger.Info("legacy data migrated",
			zap.Int("sales", report.Sales),
			zap.Int("purchases", report.Purchases))
	}
	return nil
}

// HandleUtterance answers one user message. It never fails: load errors
// degrade to an empty ledger and unmatched input gets the fallback answer.
func (s *Session) HandleUtterance(ctx context.Context, text string) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "assistant.HandleUtterance")
	defer span.End()
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		span.SetAttributes(attribute.String("assistant.intent", "empty"))
		return Response{Text: emptyInputText}
	}

	view, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Warn("ledger unavailable, answering with empty data", zap.Error(err))
		span.RecordError(err)
		view = &ledger.View{}
	}

	now := s.now()
	turn := NewTurn(text, view, s.memory.Snapshot(), now, s.settings, s.picker)
	res, ok := s.router.Route(turn)
	if !ok {
		reply, _ := fallbackRule().Respond(turn)
		res = Result{Rule: "fallback", Reply: reply}
	}

	update := res.Reply.Update
	if update.Topic == "" {
		update.Topic = res.Rule
	}
	s.memory.Apply(update)
	s.memory.CountQuestion()
	s.memory.RecordTurn(conversation.RoleUser, text, now)
	s.memory.RecordTurn(conversation.RoleAssistant, res.Reply.Response.Text, now)

	resp := res.Reply.Response
	span.SetAttributes(
		attribute.String("assistant.intent", res.Rule),
		attribute.Bool("assistant.chart", resp.HasChart()),
	)
	s.recorder.RecordTurn(ctx, res.Rule, time.Since(start), resp.HasChart())
	s.logger.Debug("turn answered",
		zap.String("intent", res.Rule),
		zap.Bool("chart", resp.HasChart()))
	return resp
}

// Notifications drains pending notices such as completed migrations.
func (s *Session) Notifications() []string {
	if s.notices == nil {
		return nil
	}
	return s.notices.Drain()
}

// Memory returns a copy of the conversation memory.
func (s *Session) Memory() conversation.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory.Snapshot()
}

// Reset forgets the conversation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memory.Reset()
}
