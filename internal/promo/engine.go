package promo

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCode indicates the submitted code matches no known promotion.
	ErrInvalidCode = errors.New("invalid promo code")
	// ErrAlreadyApplied indicates a promo is already active on the cart; it
	// must be removed before another one can be applied.
	ErrAlreadyApplied = errors.New("promo code already applied")
)

// Rule describes the terms of a single promo code.
type Rule struct {
	Code         string `json:"code"`
	Percent      int64  `json:"percent"`
	FreeDelivery bool   `json:"freeDelivery"`
}

// State is the promo currently attached to a cart, if any.
type State struct {
	Applied bool   `json:"applied"`
	Code    string `json:"code,omitempty"`
	Percent int64  `json:"percent,omitempty"`
	// FreeDelivery waives the delivery fee without touching the subtotal.
	FreeDelivery bool `json:"freeDelivery,omitempty"`
}

// Engine validates codes against a fixed rule table.
type Engine struct {
	rules map[string]Rule
}

// DefaultRules are the active promotions.
func DefaultRules() []Rule {
	return []Rule{
		{Code: "WELCOME10", Percent: 10},
		{Code: "SPECIAL25", Percent: 25},
		{Code: "FREESHIP", Percent: 0, FreeDelivery: true},
	}
}

// NewEngine builds an engine from the given rules. Codes are matched case-insensitively.
func NewEngine(rules []Rule) *Engine {
	table := make(map[string]Rule, len(rules))
	for _, r := range rules {
		table[normalize(r.Code)] = r
	}
	return &Engine{rules: table}
}

// Apply validates the code against the current state and returns the new state.
// Only one promo can be active at a time: while one is applied, every further
// apply is rejected and the caller must remove the active code first.
func (e *Engine) Apply(current State, code string) (State, error) {
	if current.Applied {
		return current, ErrAlreadyApplied
	}
	norm := normalize(code)
	if norm == "" {
		return current, ErrInvalidCode
	}
	rule, ok := e.rules[norm]
	if !ok {
		return current, ErrInvalidCode
	}
	return State{
		Applied:      true,
		Code:         rule.Code,
		Percent:      rule.Percent,
		FreeDelivery: rule.FreeDelivery,
	}, nil
}

// Remove clears any active promo.
func (e *Engine) Remove(State) State {
	return State{}
}

// Lookup returns the rule for a code, if defined.
func (e *Engine) Lookup(code string) (Rule, bool) {
	rule, ok := e.rules[normalize(code)]
	return rule, ok
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
