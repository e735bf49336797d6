package diagram

import (
	"fmt"
	"strings"
)

// Cardinality is the crow's-foot participation code at one end of a relationship.
type Cardinality string

const (
	CardZero       Cardinality = "0"
	CardOne        Cardinality = "1"
	CardMany       Cardinality = "M"
	CardZeroOrOne  Cardinality = "0..1"
	CardOneOrMany  Cardinality = "1..M"
	CardZeroOrMany Cardinality = "0..M"
)

// Cardinalities lists every valid code in display order.
var Cardinalities = []Cardinality{CardZero, CardOne, CardMany, CardZeroOrOne, CardOneOrMany, CardZeroOrMany}

// Valid reports whether c is one of the six known codes.
func (c Cardinality) Valid() bool {
	switch c {
	case CardZero, CardOne, CardMany, CardZeroOrOne, CardOneOrMany, CardZeroOrMany:
		return true
	}
	return false
}

// ParseCardinality normalises s into a Cardinality. N is accepted as a
// synonym for M.
func ParseCardinality(s string) (Cardinality, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "N", "M")
	c := Cardinality(norm)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCardinality, s)
	}
	return c, nil
}
