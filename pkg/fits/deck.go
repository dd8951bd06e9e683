package fits

import (
	"strings"

	"github.com/samcharles93/fits/pkg/card"
)

// Deck is the ordered card store of an HDU. Lookup is first-match on the
// uppercased keyword and linear in the deck size; insertion order is
// preserved through every mutation. A Deck never holds an END card — END is
// implied and only materialized at write time.
//
// Deck has no internal locking; share one across goroutines under an
// external mutex.
type Deck struct {
	cards []card.Card
}

// NewDeck builds a deck from the given cards, dropping any END cards.
func NewDeck(cards ...card.Card) *Deck {
	d := &Deck{cards: make([]card.Card, 0, len(cards))}
	for _, c := range cards {
		d.Append(c)
	}
	return d
}

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// Cards returns the backing slice. Callers must not insert END.
func (d *Deck) Cards() []card.Card { return d.cards }

// At returns the card at position i.
func (d *Deck) At(i int) card.Card { return d.cards[i] }

// Find returns the position of the first card whose keyword matches key, or
// -1. Matching uppercases the probe, never the stored keys.
func (d *Deck) Find(key string) int {
	key = strings.ToUpper(strings.TrimSpace(key))
	for i := range d.cards {
		if d.cards[i].Key == key {
			return i
		}
	}
	return -1
}

// Has reports whether a card with the given keyword exists.
func (d *Deck) Has(key string) bool {
	return d.Find(key) >= 0
}

// Get returns the value of the first matching card. Missing keywords yield a
// KeyError wrapping ErrKeyNotFound.
func (d *Deck) Get(key string) (any, error) {
	if i := d.Find(key); i >= 0 {
		return d.cards[i].Value, nil
	}
	return nil, &KeyError{Key: strings.ToUpper(strings.TrimSpace(key))}
}

// GetDefault returns the value of the first matching card, or def.
func (d *Deck) GetDefault(key string, def any) any {
	if i := d.Find(key); i >= 0 {
		return d.cards[i].Value
	}
	return def
}

// GetAll looks up keys in parallel with defs and returns the values in order.
// Missing entries take the matching default; a short defs slice defaults the
// remainder to nil.
func (d *Deck) GetAll(keys []string, defs []any) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		var def any
		if i < len(defs) {
			def = defs[i]
		}
		out[i] = d.GetDefault(k, def)
	}
	return out
}

// Set replaces the value of the first matching card in place, preserving its
// keyword and comment. Missing keywords yield a KeyError.
func (d *Deck) Set(key string, value any) error {
	if i := d.Find(key); i >= 0 {
		d.cards[i].Value = value
		return nil
	}
	return &KeyError{Key: strings.ToUpper(strings.TrimSpace(key))}
}

// Put sets the value of the first matching card or appends a new card with
// the given comment when the keyword is absent.
func (d *Deck) Put(key string, value any, comment string) {
	if err := d.Set(key, value); err != nil {
		d.Append(card.New(key, value, comment))
	}
}

// Pop removes and returns the first matching card's value, or def when the
// keyword is absent.
func (d *Deck) Pop(key string, def any) any {
	if i := d.Find(key); i >= 0 {
		v := d.cards[i].Value
		d.cards = append(d.cards[:i], d.cards[i+1:]...)
		return v
	}
	return def
}

// PopCard removes and returns the first matching card itself.
func (d *Deck) PopCard(key string) (card.Card, bool) {
	if i := d.Find(key); i >= 0 {
		c := d.cards[i]
		d.cards = append(d.cards[:i], d.cards[i+1:]...)
		return c, true
	}
	return card.Card{}, false
}

// Append adds a card at the end. END cards are silently dropped.
func (d *Deck) Append(c card.Card) {
	if c.Key == "END" {
		return
	}
	d.cards = append(d.cards, c)
}

// Clone returns a deep copy of the deck.
func (d *Deck) Clone() *Deck {
	return &Deck{cards: append([]card.Card(nil), d.cards...)}
}

// int64 lookup helpers used throughout the HDU layer. Card integers parse to
// int64; floats are accepted and truncated.

func (d *Deck) intDefault(key string, def int64) int64 {
	switch v := d.GetDefault(key, nil).(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return def
	}
}

func (d *Deck) floatDefault(key string, def float64) float64 {
	switch v := d.GetDefault(key, nil).(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return def
	}
}

func (d *Deck) stringDefault(key, def string) string {
	if s, ok := d.GetDefault(key, nil).(string); ok {
		return s
	}
	return def
}

func (d *Deck) boolDefault(key string, def bool) bool {
	if b, ok := d.GetDefault(key, nil).(bool); ok {
		return b
	}
	return def
}
