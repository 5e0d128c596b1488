// Package parse turns a free-text expense utterance ("500 rupees for
// pizza") into a classified transaction. Amount extraction can fail
// with a typed ParseError; classification always yields a category,
// falling back to Other when no keyword matches.
package parse

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"budgetai/internal/core"
)

// TieBreak selects which numeric token wins when the utterance has
// several and none sits next to a currency keyword.
type TieBreak string

const (
	TieBreakFirst TieBreak = "first"
	TieBreakLast  TieBreak = "last"
)

// Options configures a Parser. Zero values fall back to the defaults
// from rules.go.
type Options struct {
	Rules         []Rule
	CurrencyWords []string
	TieBreak      TieBreak
	Fallback      core.Category
	Now           func() time.Time
}

type Parser struct {
	rules    []Rule
	currency map[string]struct{}
	// markers holds the currency words longest first so that attached
	// markers match deterministically ("rupees" before "rupee").
	markers  []string
	tieBreak TieBreak
	fallback core.Category
	now      func() time.Time
}

var numberRe = regexp.MustCompile(`^[-+]?[0-9]+(?:[.,][0-9]+)?$`)

// New builds a Parser. A Parser is immutable after construction and
// safe for concurrent use.
func New(opts Options) *Parser {
	if len(opts.Rules) == 0 {
		opts.Rules = DefaultRules()
	}
	if len(opts.CurrencyWords) == 0 {
		opts.CurrencyWords = DefaultCurrencyWords()
	}
	if opts.TieBreak != TieBreakLast {
		opts.TieBreak = TieBreakFirst
	}
	if !opts.Fallback.IsValid() {
		opts.Fallback = core.CategoryOther
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	currency := make(map[string]struct{}, len(opts.CurrencyWords))
	for _, w := range opts.CurrencyWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			currency[w] = struct{}{}
		}
	}

	markers := make([]string, 0, len(currency))
	for w := range currency {
		markers = append(markers, w)
	}
	sort.Slice(markers, func(i, j int) bool {
		if len(markers[i]) != len(markers[j]) {
			return len(markers[i]) > len(markers[j])
		}
		return markers[i] < markers[j]
	})

	// Keywords are matched against case-folded text.
	rules := make([]Rule, len(opts.Rules))
	for i, r := range opts.Rules {
		kws := make([]string, len(r.Keywords))
		for j, kw := range r.Keywords {
			kws[j] = strings.ToLower(strings.TrimSpace(kw))
		}
		rules[i] = Rule{Category: r.Category, Keywords: kws}
	}

	return &Parser{
		rules:    rules,
		currency: currency,
		markers:  markers,
		tieBreak: opts.TieBreak,
		fallback: opts.Fallback,
		now:      opts.Now,
	}
}

// Parse extracts the amount, classifies the utterance, and returns the
// resulting transaction stamped with the current time. On failure it
// returns a *ParseError; the caller decides whether to re-prompt.
func (p *Parser) Parse(text string) (core.Transaction, error) {
	amount, err := p.extractAmount(text)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Amount:    amount,
		Category:  p.Classify(text),
		RawText:   text,
		CreatedAt: p.now(),
	}, nil
}

// Classify assigns a category from the fixed vocabulary. Rules are
// tested in order and the first keyword present in the normalized text
// wins; without a match the fallback category is returned. It never
// fails.
func (p *Parser) Classify(text string) core.Category {
	normalized := normalize(text)
	for _, rule := range p.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(normalized, kw) {
				return rule.Category
			}
		}
	}
	return p.fallback
}

type numToken struct {
	value    string // numeric literal, currency marker stripped
	negative bool
	adjacent bool // next to a currency keyword (attached or neighbor)
}

func (p *Parser) extractAmount(text string) (core.Money, error) {
	fields := strings.Fields(text)
	var tokens []numToken

	for i, f := range fields {
		tok, attached := p.splitCurrency(trimEdges(f))
		if !numberRe.MatchString(tok) {
			continue
		}
		adjacent := attached
		if !adjacent && i > 0 && p.isCurrencyWord(fields[i-1]) {
			adjacent = true
		}
		if !adjacent && i+1 < len(fields) && p.isCurrencyWord(fields[i+1]) {
			adjacent = true
		}
		tokens = append(tokens, numToken{
			value:    tok,
			negative: strings.HasPrefix(tok, "-"),
			adjacent: adjacent,
		})
	}

	if len(tokens) == 0 {
		return core.Money{}, &ParseError{Kind: NoAmountFound, Text: text}
	}

	chosen := tokens[0]
	if len(tokens) > 1 {
		picked := false
		for _, t := range tokens {
			if t.adjacent {
				chosen = t
				picked = true
				break
			}
		}
		if !picked && p.tieBreak == TieBreakLast {
			chosen = tokens[len(tokens)-1]
		}
	}

	if chosen.negative {
		return core.Money{}, &ParseError{Kind: InvalidAmount, Text: text}
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(chosen.value, ",", "."))
	if err != nil || d.Sign() < 0 {
		return core.Money{}, &ParseError{Kind: InvalidAmount, Text: text}
	}
	// Exact shift to cents, half-up on sub-cent digits.
	cents := d.Shift(2).Round(0).IntPart()
	return core.Money{Cents: cents}, nil
}

// splitCurrency strips an attached currency marker from a token, like
// "₹500" or "500rs", reporting whether one was present. Markers are
// tried longest first: "rupees500" must strip "rupees", never the
// shorter "rupee" prefix leaving a non-numeric "s500".
func (p *Parser) splitCurrency(tok string) (string, bool) {
	lower := strings.ToLower(tok)
	attached := false
	for _, w := range p.markers {
		if strings.HasPrefix(lower, w) && len(lower) > len(w) {
			tok = tok[len(w):]
			lower = lower[len(w):]
			attached = true
			break
		}
		if strings.HasSuffix(lower, w) && len(lower) > len(w) {
			tok = tok[:len(tok)-len(w)]
			lower = lower[:len(lower)-len(w)]
			attached = true
			break
		}
	}
	return tok, attached
}

func (p *Parser) isCurrencyWord(field string) bool {
	_, ok := p.currency[strings.ToLower(trimEdges(field))]
	return ok
}

// trimEdges drops surrounding punctuation while preserving an interior
// decimal separator and a leading sign.
func trimEdges(tok string) string {
	return strings.Trim(tok, `.,!?;:()"'`)
}

// normalize case-folds and strips punctuation so keyword matching is
// insensitive to both.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}
