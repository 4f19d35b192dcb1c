package assistant

import (
	"strings"
	"time"

	"github.com/ministock/backend/internal/application/analytics"
	"github.com/ministock/backend/internal/application/textmatch"
	"github.com/ministock/backend/internal/domain/conversation"
	"github.com/ministock/backend/internal/domain/ledger"
)

// Picker returns a pseudo-random index in [0, n).
type Picker interface {
	IntN(n int) int
}

// Settings tunes the generators.
type Settings struct {
	LowStockThreshold int
	TopN              int
	Location          *time.Location
}

// DefaultSettings returns the stock thresholds used by the shop UI.
func DefaultSettings() Settings {
	return Settings{
		LowStockThreshold: analytics.DefaultLowStockThreshold,
		TopN:              analytics.DefaultTopN,
		Location:          time.Local,
	}
}

// Turn is everything a rule may read while answering one utterance.
type Turn struct {
	Raw      string
	Folded   string
	Keywords []string
	View     *ledger.View
	Memory   conversation.Snapshot
	Now      time.Time
	Settings Settings

	picker Picker
}

// NewTurn prepares an utterance for routing. A nil view is treated as an
// empty ledger.
func NewTurn(raw string, view *ledger.View, memory conversation.Snapshot, now time.Time, settings Settings, picker Picker) *Turn {
	if view == nil {
		view = &ledger.View{}
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}
	if settings.LowStockThreshold <= 0 {
		settings.LowStockThreshold = analytics.DefaultLowStockThreshold
	}
	if settings.TopN <= 0 {
		settings.TopN = analytics.DefaultTopN
	}
	return &Turn{
		Raw:      raw,
		Folded:   textmatch.Fold(raw),
		Keywords: textmatch.Keywords(raw),
		View:     view,
		Memory:   memory,
		Now:      now.In(settings.Location),
		Settings: settings,
		picker:   picker,
	}
}

// Has reports whether the folded utterance satisfies m.
func (t *Turn) Has(m textmatch.Matcher) bool {
	return m.Match(t.Folded)
}

// Contains reports whether the folded utterance contains any of the
// fragments.
func (t *Turn) Contains(fragments ...string) bool {
	for _, f := range fragments {
		if strings.Contains(t.Folded, f) {
			return true
		}
	}
	return false
}

// HasHistory reports whether earlier turns exist to refer back to.
func (t *Turn) HasHistory() bool {
	return len(t.Memory.Transcript) > 1
}

// FindProduct returns the first product, in store order, whose name or
// description contains one of the utterance keywords.
func (t *Turn) FindProduct() (ledger.Product, bool) {
	if len(t.Keywords) == 0 {
		return ledger.Product{}, false
	}
	for _, p := range t.View.Products {
		if textmatch.AnyKeywordIn(t.Keywords, p.Name, p.Description) {
			return p, true
		}
	}
	return ledger.Product{}, false
}

func (t *Turn) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	if t.picker == nil {
		return options[0]
	}
	return options[t.picker.IntN(len(options))]
}
