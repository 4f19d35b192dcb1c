package conversation

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_TranscriptCap(t *testing.T) {
	m := NewMemory()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 37; i++ {
		m.RecordTurn(RoleUser, fmt.Sprintf("turn %d", i), start.Add(time.Duration(i)*time.Second))
		require.LessOrEqual(t, len(m.Snapshot().Transcript), DefaultTranscriptCap)
	}

	transcript := m.Snapshot().Transcript
	require.Len(t, transcript, DefaultTranscriptCap)
	assert.Equal(t, "turn 27", transcript[0].Text)
	assert.Equal(t, "turn 36", transcript[len(transcript)-1].Text)
}

func TestMemory_CustomCaps(t *testing.T) {
	m := NewMemory(WithTranscriptCap(3), WithRecentCap(2))
	for i := 0; i < 5; i++ {
		m.RecordTurn(RoleAssistant, "x", time.Now())
		m.AddTopic(fmt.Sprintf("t%d", i))
	}
	s := m.Snapshot()
	assert.Len(t, s.Transcript, 3)
	assert.Equal(t, []string{"t3", "t4"}, s.RecentTopics)
	assert.Equal(t, 3, m.TranscriptCap())
}

func TestMemory_SetLastEntity(t *testing.T) {
	m := NewMemory(WithRecentCap(3))

	m.SetLastEntity(EntityProduct, "Widget", "p1")
	m.SetLastEntity(EntityProduct, "Gadget", "p2")
	m.SetLastEntity(EntityProduct, "Widget", "p1")
	m.SetLastEntity(EntityClient, "Ana", "c1")
	m.SetLastEntity(EntityProvider, "Acme", "v1")

	s := m.Snapshot()
	assert.Equal(t, EntityRef{Name: "Widget", ID: "p1"}, s.LastProduct)
	assert.Equal(t, EntityRef{Name: "Ana", ID: "c1"}, s.LastClient)
	assert.Equal(t, EntityRef{Name: "Acme", ID: "v1"}, s.LastProvider)
	assert.Equal(t, []string{"Gadget", "Widget"}, s.MentionedProducts)
	assert.Equal(t, []string{"Ana"}, s.MentionedClients)
}

func TestMemory_SetAnalysisContext(t *testing.T) {
	m := NewMemory()

	m.SetAnalysisContext(AnalysisClients, decimal.NewNullDecimal(decimal.NewFromInt(1500)))
	m.SetAnalysisContext(AnalysisType("bogus"), decimal.NullDecimal{})

	s := m.Snapshot()
	assert.Equal(t, AnalysisClients, s.LastAnalysis)
	require.True(t, s.LastValue.Valid)
	assert.True(t, s.LastValue.Decimal.Equal(decimal.NewFromInt(1500)))
}

func TestMemory_SnapshotIsACopy(t *testing.T) {
	m := NewMemory()
	m.RecordTurn(RoleUser, "hola", time.Now())
	m.AddTopic("greeting")

	s := m.Snapshot()
	s.Transcript[0].Text = "changed"
	s.RecentTopics[0] = "changed"

	again := m.Snapshot()
	assert.Equal(t, "hola", again.Transcript[0].Text)
	assert.Equal(t, "greeting", again.RecentTopics[0])
}

func TestMemory_ApplyAndReset(t *testing.T) {
	m := NewMemory()
	m.Apply(Topic("product_price").
		WithEntity(EntityProduct, "Widget", "p1").
		WithAnalysis(AnalysisProducts).
		WithValue(decimal.RequireFromString("9.99")))
	m.CountQuestion()

	s := m.Snapshot()
	assert.Equal(t, "Widget", s.LastProduct.Name)
	assert.Equal(t, AnalysisProducts, s.LastAnalysis)
	assert.Equal(t, "9.99", s.LastValue.Decimal.StringFixed(2))
	assert.Equal(t, []string{"product_price"}, s.RecentTopics)
	assert.Equal(t, 1, s.Questions)

	m.Reset()
	s = m.Snapshot()
	assert.True(t, s.LastProduct.IsZero())
	assert.Empty(t, s.Transcript)
	assert.Zero(t, s.Questions)
}

func TestUpdate_WithEntityDoesNotAlias(t *testing.T) {
	base := Topic("x").WithEntity(EntityProduct, "A", "1")
	left := base.WithEntity(EntityClient, "B", "2")
	right := base.WithEntity(EntityClient, "C", "3")

	assert.Equal(t, "B", left.Entities[1].Name)
	assert.Equal(t, "C", right.Entities[1].Name)
}
