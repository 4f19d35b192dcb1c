// Package conversation holds the bounded memory an assistant session keeps
// between turns. A Memory is owned by exactly one session and is not safe for
// concurrent use; the session serializes turns.
package conversation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default caps.
const (
	DefaultTranscriptCap = 10
	DefaultRecentCap     = 10
)

// Role is the author of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// EntityKind names the kinds of entity the memory remembers.
type EntityKind string

const (
	EntityProduct  EntityKind = "product"
	EntityClient   EntityKind = "client"
	EntityProvider EntityKind = "provider"
)

// AnalysisType is the closed set of analyses a follow-up can refer to.
type AnalysisType string

const (
	AnalysisNone      AnalysisType = ""
	AnalysisSales     AnalysisType = "sales"
	AnalysisPurchases AnalysisType = "purchases"
	AnalysisBalance   AnalysisType = "balance"
	AnalysisClients   AnalysisType = "clients"
	AnalysisProducts  AnalysisType = "products"
)

// Valid reports whether a is one of the known analysis types.
func (a AnalysisType) Valid() bool {
	switch a {
	case AnalysisSales, AnalysisPurchases, AnalysisBalance, AnalysisClients, AnalysisProducts:
		return true
	}
	return false
}

// EntityRef is a remembered entity.
type EntityRef struct {
	Name string
	ID   string
}

// IsZero reports whether no entity is remembered.
func (e EntityRef) IsZero() bool {
	return e.Name == "" && e.ID == ""
}

// Turn is one transcript entry.
type Turn struct {
	Role Role
	Text string
	At   time.Time
}

// Snapshot is a read-only copy of the memory.
type Snapshot struct {
	LastProduct       EntityRef
	LastClient        EntityRef
	LastProvider      EntityRef
	LastAnalysis      AnalysisType
	LastValue         decimal.NullDecimal
	RecentTopics      []string
	MentionedProducts []string
	MentionedClients  []string
	Questions         int
	Transcript        []Turn
}

// Memory is the mutable conversation state of one session.
type Memory struct {
	transcriptCap int
	recentCap     int
	state         Snapshot
}

// Option configures a Memory.
type Option func(*Memory)

// WithTranscriptCap sets the maximum number of transcript turns kept.
func WithTranscriptCap(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.transcriptCap = n
		}
	}
}

// WithRecentCap sets the maximum length of the topic and mention lists.
func WithRecentCap(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.recentCap = n
		}
	}
}

// NewMemory creates an empty memory.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		transcriptCap: DefaultTranscriptCap,
		recentCap:     DefaultRecentCap,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TranscriptCap returns the configured transcript cap.
func (m *Memory) TranscriptCap() int {
	return m.transcriptCap
}

// Snapshot returns a deep copy of the current state.
func (m *Memory) Snapshot() Snapshot {
	s := m.state
	s.RecentTopics = append([]string(nil), m.state.RecentTopics...)
	s.MentionedProducts = append([]string(nil), m.state.MentionedProducts...)
	s.MentionedClients = append([]string(nil), m.state.MentionedClients...)
	s.Transcript = append([]Turn(nil), m.state.Transcript...)
	return s
}

// RecordTurn appends a transcript entry, evicting the oldest beyond the cap.
func (m *Memory) RecordTurn(role Role, text string, at time.Time) {
	m.state.Transcript = appendCapped(m.state.Transcript, Turn{Role: role, Text: text, At: at}, m.transcriptCap)
}

// SetLastEntity overwrites the most recent entity of the given kind.
func (m *Memory) SetLastEntity(kind EntityKind, name, id string) {
	ref := EntityRef{Name: name, ID: id}
	switch kind {
	case EntityProduct:
		m.state.LastProduct = ref
		m.state.MentionedProducts = mention(m.state.MentionedProducts, name, m.recentCap)
	case EntityClient:
		m.state.LastClient = ref
		m.state.MentionedClients = mention(m.state.MentionedClients, name, m.recentCap)
	case EntityProvider:
		m.state.LastProvider = ref
	}
}

// SetAnalysisContext overwrites the last-analysis slot. The numeric value is
// only replaced when it is valid.
func (m *Memory) SetAnalysisContext(analysis AnalysisType, value decimal.NullDecimal) {
	if analysis.Valid() {
		m.state.LastAnalysis = analysis
	}
	if value.Valid {
		m.state.LastValue = value
	}
}

// AddTopic records a topic tag.
func (m *Memory) AddTopic(topic string) {
	if topic == "" {
		return
	}
	m.state.RecentTopics = appendCapped(m.state.RecentTopics, topic, m.recentCap)
}

// CountQuestion increments the question counter.
func (m *Memory) CountQuestion() {
	m.state.Questions++
}

// Apply commits the mutations a turn produced.
func (m *Memory) Apply(u Update) {
	for _, e := range u.Entities {
		m.SetLastEntity(e.Kind, e.Name, e.ID)
	}
	m.SetAnalysisContext(u.Analysis, u.Value)
	m.AddTopic(u.Topic)
}

// Reset clears all state, keeping the configured caps.
func (m *Memory) Reset() {
	m.state = Snapshot{}
}

func appendCapped[T any](list []T, v T, limit int) []T {
	list = append(list, v)
	if over := len(list) - limit; over > 0 {
		list = append(list[:0:0], list[over:]...)
	}
	return list
}

func mention(list []string, name string, limit int) []string {
	if name == "" {
		return list
	}
	out := make([]string, 0, len(list)+1)
	for _, n := range list {
		if n != name {
			out = append(out, n)
		}
	}
	return appendCapped(out, name, limit)
}
