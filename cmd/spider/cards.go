package main

import (
	"fmt"
	"strconv"
	"strings"

	"spider-cipher/deck"
)

// parseCards reads decimal cards separated by whitespace or commas.
func parseCards(fields []string) ([]deck.Card, error) {
	var out []deck.Card
	for _, f := range fields {
		for _, tok := range strings.FieldsFunc(f, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		}) {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("card %q: %w", tok, err)
			}
			if n < 0 || n >= deck.Cards {
				return nil, fmt.Errorf("card %d: %w", n, deck.ErrCardRange)
			}
			out = append(out, deck.Card(n))
		}
	}
	return out, nil
}

// formatCards prints cards as two-digit numbers, in groups of group cards
// when group > 0.
func formatCards(cards []deck.Card, group int) string {
	var b strings.Builder
	for i, c := range cards {
		if i > 0 {
			if group > 0 && i%group == 0 {
				b.WriteString("  ")
			} else {
				b.WriteByte(' ')
			}
		}
		fmt.Fprintf(&b, "%02d", c)
	}
	return b.String()
}
