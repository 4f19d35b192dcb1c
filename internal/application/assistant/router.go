package assistant

import (
	"github.com/ministock/backend/internal/domain/conversation"
)

// Reply is a rule's answer plus the memory changes it implies.
type Reply struct {
	Response Response
	Update   conversation.Update
	// Intent names the nested rule that produced the reply, if any.
	Intent string
}

func say(text string) Reply {
	return Reply{Response: Response{Text: text}}
}

func (r Reply) withUpdate(u conversation.Update) Reply {
	r.Update = u
	return r
}

func (r Reply) withChart(c *ChartDescriptor) Reply {
	r.Response.Chart = c
	return r
}

// Rule is one intent. Match is a cheap precondition; a nil Match always
// passes. Respond may still decline with false, letting later rules run.
type Rule struct {
	Name    string
	Match   func(t *Turn) bool
	Respond func(t *Turn) (Reply, bool)
}

// Result is the outcome of routing one turn.
type Result struct {
	Rule  string
	Reply Reply
}

// Router evaluates rules top to bottom; the first one that responds wins.
type Router struct {
	rules []Rule
}

// NewRouter creates a router over an ordered rule list.
func NewRouter(rules ...Rule) *Router {
	return &Router{rules: append([]Rule(nil), rules...)}
}

// Route returns the first matching rule's reply.
func (r *Router) Route(t *Turn) (Result, bool) {
	for _, rule := range r.rules {
		if rule.Match != nil && !rule.Match(t) {
			continue
		}
		reply, ok := rule.Respond(t)
		if !ok {
			continue
		}
		name := rule.Name
		if reply.Intent != "" {
			name += "/" + reply.Intent
		}
		return Result{Rule: name, Reply: reply}, true
	}
	return Result{}, false
}

// Classify returns the name of the rule that would answer t, or "" when
// none does.
func (r *Router) Classify(t *Turn) string {
	res, _ := r.Route(t)
	return res.Rule
}

// Names lists the rule names in evaluation order.
func (r *Router) Names() []string {
	out := make([]string, len(r.rules))
	for i, rule := range r.rules {
		out[i] = rule.Name
	}
	return out
}

// always adapts a handler that never declines.
func always(fn func(t *Turn) Reply) func(t *Turn) (Reply, bool) {
	return func(t *Turn) (Reply, bool) { return fn(t), true }
}
