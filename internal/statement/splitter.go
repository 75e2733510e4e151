// Package statement converts raw bank and card CSV exports into canonical
// transactions. Several distinct column layouts (dialects) are recognized;
// parsing is best-effort and skips rows it cannot make sense of rather
// than failing the whole file.
package statement

import "strings"

// SplitLine tokenizes one line of CSV text into its cell strings.
// Quoting is RFC 4180-ish: a double quote toggles quoted mode, a comma
// inside quotes is literal, and two consecutive quotes inside quoted text
// collapse to one literal quote. An unterminated quote is tolerated; end
// of line closes it implicitly. No whitespace trimming happens here.
func SplitLine(line string) []string {
	var cells []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			cells = append(cells, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	cells = append(cells, current.String())
	return cells
}

// cleanCells trims each cell and strips one pair of outer quotes.
func cleanCells(cells []string) []string {
	cleaned := make([]string, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		c = strings.TrimPrefix(c, `"`)
		c = strings.TrimSuffix(c, `"`)
		cleaned[i] = c
	}
	return cleaned
}
