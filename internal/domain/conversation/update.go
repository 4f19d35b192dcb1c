package conversation

import "github.com/shopspring/decimal"

// Mention is an entity a turn referred to.
type Mention struct {
	Kind EntityKind
	Name string
	ID   string
}

// Update collects the memory changes produced while answering one turn.
// Handlers build it; the session applies it after the response is ready.
type Update struct {
	Topic    string
	Entities []Mention
	Analysis AnalysisType
	Value    decimal.NullDecimal
}

// WithEntity returns u with an entity mention appended.
func (u Update) WithEntity(kind EntityKind, name, id string) Update {
	u.Entities = append(append([]Mention(nil), u.Entities...), Mention{Kind: kind, Name: name, ID: id})
	return u
}

// WithAnalysis returns u with the analysis slot set.
func (u Update) WithAnalysis(analysis AnalysisType) Update {
	u.Analysis = analysis
	return u
}

// WithValue returns u with the numeric value set.
func (u Update) WithValue(v decimal.Decimal) Update {
	u.Value = decimal.NewNullDecimal(v)
	return u
}

// Topic starts an update tagged with topic.
func Topic(topic string) Update {
	return Update{Topic: topic}
}
