package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCurrencyCode is returned for codes that are not three upper-case letters.
var ErrInvalidCurrencyCode = errors.New("invalid currency code")

// Pair is an ordered (source, target) pair of currency codes.
type Pair struct {
	From string
	To   string
}

func (p Pair) String() string { return p.From + "/" + p.To }

// ConversionTable maps ordered currency pairs to exchange rates.
// A missing pair is not an error here; it surfaces when a conversion needs it.
type ConversionTable struct {
	codes map[string]struct{}
	rates map[Pair]decimal.Decimal
}

// NewConversionTable creates an empty table.
func NewConversionTable() *ConversionTable {
	return &ConversionTable{
		codes: make(map[string]struct{}),
		rates: make(map[Pair]decimal.Decimal),
	}
}

// AddCurrency registers a currency code.
func (t *ConversionTable) AddCurrency(code string) error {
	if !validCode(code) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrencyCode, code)
	}
	t.codes[code] = struct{}{}
	return nil
}

// SetRate stores the rate for from->to, registering both codes.
func (t *ConversionTable) SetRate(from, to string, rate decimal.Decimal) error {
	if err := t.AddCurrency(from); err != nil {
		return err
	}
	if err := t.AddCurrency(to); err != nil {
		return err
	}
	t.rates[Pair{From: from, To: to}] = rate
	return nil
}

// Rate looks up the exchange rate for from->to.
// Converting a code to itself is always the identity.
func (t *ConversionTable) Rate(from, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if t == nil {
		return decimal.Decimal{}, false
	}
	r, ok := t.rates[Pair{From: from, To: to}]
	return r, ok
}

// HasCurrency reports whether code is a known currency.
func (t *ConversionTable) HasCurrency(code string) bool {
	if t == nil {
		return false
	}
	_, ok := t.codes[code]
	return ok
}

// Currencies returns the known codes in sorted order.
func (t *ConversionTable) Currencies() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.codes))
	for c := range t.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Pairs returns the configured pairs in sorted order.
func (t *ConversionTable) Pairs() []Pair {
	if t == nil {
		return nil
	}
	out := make([]Pair, 0, len(t.rates))
	for p := range t.rates {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// ValidateISO checks every registered code against ISO 4217.
func (t *ConversionTable) ValidateISO() error {
	var bad []string
	for _, c := range t.Currencies() {
		if !IsISOCurrency(c) {
			bad = append(bad, c)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: not ISO 4217: %s", ErrInvalidCurrencyCode, strings.Join(bad, ", "))
	}
	return nil
}

// IsISOCurrency reports whether code is an ISO 4217 currency.
func IsISOCurrency(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

func validCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ratesFile is the YAML layout of a conversion table:
//
//	currencies: [PLN, USD, CHF]
//	rates:
//	  USD/PLN: 4
//	  PLN/USD: 0.25
type ratesFile struct {
	Currencies []string          `yaml:"currencies"`
	Rates      map[string]string `yaml:"rates"`
}

// ParseConversionTable decodes a YAML conversion table.
func ParseConversionTable(data []byte) (*ConversionTable, error) {
	var rf ratesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing conversion table: %w", err)
	}

	table := NewConversionTable()
	for _, code := range rf.Currencies {
		if err := table.AddCurrency(code); err != nil {
			return nil, err
		}
	}

	for key, raw := range rf.Rates {
		from, to, ok := strings.Cut(key, "/")
		if !ok {
			return nil, fmt.Errorf("rate key %q: expected FROM/TO", key)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("rate %s: %w", key, err)
		}
		if err := table.SetRate(strings.TrimSpace(from), strings.TrimSpace(to), rate); err != nil {
			return nil, fmt.Errorf("rate %s: %w", key, err)
		}
	}
	return table, nil
}

// MarshalConversionTable encodes table in the layout ParseConversionTable reads.
func MarshalConversionTable(table *ConversionTable) ([]byte, error) {
	rf := ratesFile{
		Currencies: table.Currencies(),
		Rates:      make(map[string]string),
	}
	for _, p := range table.Pairs() {
		rate, _ := table.Rate(p.From, p.To)
		rf.Rates[p.String()] = rate.String()
	}
	return yaml.Marshal(&rf)
}

// LoadConversionTable reads a YAML conversion table from path.
func LoadConversionTable(path string) (*ConversionTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConversionTable(data)
}
