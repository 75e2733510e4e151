package statement

import "strings"

// DialectID names a recognized bank export layout.
type DialectID string

const (
	// DialectCard is a credit card statement export
	// (transaction date, description, category, amount, optional type).
	DialectCard DialectID = "card_statement"
	// DialectChecking is a checking/money-market export
	// (account id, transaction id, date, description, amount).
	DialectChecking DialectID = "checking"
	// DialectBank is an alternate bank export keyed on a posting date and
	// an explicit transaction type column.
	DialectBank DialectID = "alternate_bank"
	// DialectGeneric4 is the generic type/description/amount/date layout.
	DialectGeneric4 DialectID = "generic4"
	// DialectGeneric3 is the generic date/description/amount layout.
	DialectGeneric3 DialectID = "generic3"
	// DialectHeaderless marks records recovered by row-shape sniffing when
	// no header was recognized.
	DialectHeaderless DialectID = "headerless"
)

// layout is the column-index mapping a detected dialect resolves to.
// Indices are -1 when the dialect has no such column.
type layout struct {
	dialect       DialectID
	dateIdx       int
	descIdx       int
	amountIdx     int
	typeIdx       int
	categoryIdx   int
	parenNegative bool // dialect writes negatives as (123.45)
}

// descriptor pairs a dialect with its required-header predicate. Detect
// returns the resolved column layout when the header matches.
type descriptor struct {
	detect func(header []string) (layout, bool)
	id     DialectID
}

// dialects are tested in a fixed priority order; the first match wins.
// More specific signatures come first: the card and checking layouts both
// carry a date-named column and are told apart only by the presence of
// category / account id, so they must be tried before the generic shapes.
var dialects = []descriptor{
	{id: DialectCard, detect: detectCard},
	{id: DialectChecking, detect: detectChecking},
	{id: DialectBank, detect: detectBank},
	{id: DialectGeneric4, detect: detectGeneric4},
	{id: DialectGeneric3, detect: detectGeneric3},
}

// ClassifyHeader inspects the lowercased first-row cells and picks the
// dialect the file matches. ok is false when no known layout matches and
// every line, the first included, should be treated as data.
func ClassifyHeader(cells []string) (layout, bool) {
	header := make([]string, len(cells))
	for i, c := range cells {
		header[i] = strings.ToLower(c)
	}
	for _, d := range dialects {
		if l, ok := d.detect(header); ok {
			return l, true
		}
	}
	return layout{dialect: DialectHeaderless}, false
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// amountIndex accepts an exact "amount" column or one that merely starts
// with it, e.g. "amount (usd)".
func amountIndex(header []string) int {
	for i, h := range header {
		if h == "amount" || strings.HasPrefix(h, "amount") {
			return i
		}
	}
	return -1
}

func detectCard(header []string) (layout, bool) {
	dateIdx := indexOf(header, "transaction date")
	descIdx := indexOf(header, "description")
	catIdx := indexOf(header, "category")
	amtIdx := indexOf(header, "amount")
	if dateIdx < 0 || descIdx < 0 || catIdx < 0 || amtIdx < 0 {
		return layout{}, false
	}
	return layout{
		dialect:     DialectCard,
		dateIdx:     dateIdx,
		descIdx:     descIdx,
		amountIdx:   amtIdx,
		categoryIdx: catIdx,
		typeIdx:     indexOf(header, "type"),
	}, true
}

func detectChecking(header []string) (layout, bool) {
	if indexOf(header, "account id") < 0 || indexOf(header, "transaction id") < 0 {
		return layout{}, false
	}
	dateIdx := indexOf(header, "date")
	descIdx := indexOf(header, "description")
	amtIdx := amountIndex(header)
	if dateIdx < 0 || descIdx < 0 || amtIdx < 0 {
		return layout{}, false
	}
	return layout{
		dialect:       DialectChecking,
		dateIdx:       dateIdx,
		descIdx:       descIdx,
		amountIdx:     amtIdx,
		typeIdx:       -1,
		categoryIdx:   -1,
		parenNegative: true,
	}, true
}

func detectBank(header []string) (layout, bool) {
	dateIdx := indexOf(header, "posting date")
	typeIdx := indexOf(header, "transaction type")
	amtIdx := amountIndex(header)
	if dateIdx < 0 || typeIdx < 0 || amtIdx < 0 {
		return layout{}, false
	}
	// Prefer the extended description when the export carries both. A
	// missing description column stays -1; rows parse with an empty
	// description rather than being dropped.
	descIdx := -1
	for i, h := range header {
		if strings.Contains(h, "extended description") {
			descIdx = i
			break
		}
	}
	if descIdx < 0 {
		descIdx = indexOf(header, "description")
	}
	return layout{
		dialect:     DialectBank,
		dateIdx:     dateIdx,
		descIdx:     descIdx,
		amountIdx:   amtIdx,
		typeIdx:     typeIdx,
		categoryIdx: -1,
	}, true
}

func detectGeneric4(header []string) (layout, bool) {
	if len(header) < 4 || header[0] != "type" || !strings.HasPrefix(header[1], "description") || !strings.HasPrefix(header[2], "amount") {
		return layout{}, false
	}
	dateIdx := -1
	for i, h := range header {
		if strings.HasPrefix(h, "date") {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return layout{}, false
	}
	return layout{
		dialect:     DialectGeneric4,
		dateIdx:     dateIdx,
		descIdx:     1,
		amountIdx:   2,
		typeIdx:     0,
		categoryIdx: -1,
	}, true
}

func detectGeneric3(header []string) (layout, bool) {
	if len(header) < 3 || header[0] != "date" || !strings.HasPrefix(header[1], "description") || !strings.HasPrefix(header[2], "amount") {
		return layout{}, false
	}
	return layout{
		dialect:     DialectGeneric3,
		dateIdx:     0,
		descIdx:     1,
		amountIdx:   2,
		typeIdx:     -1,
		categoryIdx: -1,
	}, true
}
