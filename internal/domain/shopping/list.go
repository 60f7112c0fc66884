// Package shopping implements the shopping-list aggregation: ingredient lines
// from all purchased recipes are merged per (title, unit) pair and rendered as
// a numbered plain-text list.
package shopping

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Header is the first line of every rendered shopping list.
const Header = "Shopping list:"

// ErrEmptyList is returned when a list is built from zero ingredient lines.
var ErrEmptyList = errors.New("shopping list is empty")

// Line is one ingredient requirement contributed by a purchased recipe.
type Line struct {
	Title  string
	Unit   string
	Amount decimal.Decimal
}

// List is an aggregated shopping list: one entry per (title, unit) pair,
// sorted by title ascending.
type List struct {
	entries []Line
}

// Build aggregates raw ingredient lines into a List. Amounts are summed with
// decimal arithmetic per (title, unit) key; units are never converted, so
// "100 g" and "0.1 kg" of the same ingredient stay separate entries.
func Build(lines []Line) (*List, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyList
	}

	type key struct {
		title string
		unit  string
	}
	totals := make(map[key]decimal.Decimal, len(lines))
	for _, l := range lines {
		k := key{title: l.Title, unit: l.Unit}
		totals[k] = totals[k].Add(l.Amount)
	}

	entries := make([]Line, 0, len(totals))
	for k, amount := range totals {
		entries = append(entries, Line{Title: k.title, Unit: k.unit, Amount: amount})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Title != entries[j].Title {
			return entries[i].Title < entries[j].Title
		}
		return entries[i].Unit < entries[j].Unit
	})

	return &List{entries: entries}, nil
}

// Entries returns the aggregated entries in render order
func (l *List) Entries() []Line {
	return l.entries
}

// Len returns the number of aggregated entries
func (l *List) Len() int {
	return len(l.entries)
}

// Render produces the plain-text document: a fixed header, a blank line, then
// one 1-indexed "{n}) {title} - {amount} {unit}" line per entry.
func (l *List) Render() string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	for i, e := range l.entries {
		fmt.Fprintf(&b, "%d) %s - %s %s\n", i+1, e.Title, e.Amount.String(), e.Unit)
	}
	return b.String()
}
