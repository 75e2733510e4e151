package statement

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/centsible/centsible/internal/classify"
	"github.com/centsible/centsible/internal/model"
)

// compactCode matches the second cell of the compact export shape, an
// eight digit date followed by a colon and a reference code.
var compactCode = regexp.MustCompile(`^\d{8}:`)

// Parser turns raw CSV text into canonical transactions. It owns the id
// counter for one import batch; the caller reuses a single Parser across
// the batch's files so ids never collide within it. Parsing performs no
// I/O and never mutates a record once emitted.
type Parser struct {
	taken  map[string]bool
	nextID int
}

// NewParser creates a parser whose id counter starts after startID and
// which avoids every id already present in the working set.
func NewParser(startID int, existing []string) *Parser {
	taken := make(map[string]bool, len(existing))
	for _, id := range existing {
		taken[id] = true
	}
	return &Parser{nextID: startID + 1, taken: taken}
}

// NextID reports the counter value the next record will draw from, so a
// caller running files back to back can persist it between batches.
func (p *Parser) NextID() int {
	return p.nextID
}

// Parse converts one file's CSV text into transactions. Rows the parser
// cannot make sense of are dropped silently; the only failure signal is
// producing fewer records than input lines. An empty result means no
// valid rows were found.
func (p *Parser) Parse(text string) []model.Transaction {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	header := cleanCells(SplitLine(lines[0]))
	lay, ok := ClassifyHeader(header)
	if !ok {
		// No recognized header: every line is data, classified per row.
		var txns []model.Transaction
		for _, line := range lines {
			if txn, ok := p.parseHeaderlessRow(line); ok {
				txns = append(txns, txn)
			}
		}
		return txns
	}

	var txns []model.Transaction
	for _, line := range lines[1:] {
		if txn, ok := p.parseDialectRow(lay, line); ok {
			txns = append(txns, txn)
		}
	}
	return txns
}

// parseDialectRow extracts one row under a recognized dialect. ok is
// false for rows that are short, unparseable, or zero-amount sentinels.
func (p *Parser) parseDialectRow(lay layout, line string) (model.Transaction, bool) {
	cells := cleanCells(SplitLine(line))
	if len(cells) < 3 {
		return model.Transaction{}, false
	}
	if lay.dateIdx < 0 || lay.amountIdx < 0 ||
		lay.dateIdx >= len(cells) || lay.amountIdx >= len(cells) {
		return model.Transaction{}, false
	}

	// The alternate bank export may carry no description column at all;
	// its rows still parse, with an empty description.
	desc := ""
	switch {
	case lay.descIdx >= 0 && lay.descIdx < len(cells):
		desc = cells[lay.descIdx]
	case lay.dialect != DialectBank:
		return model.Transaction{}, false
	}

	signed, err := ParseAmount(cells[lay.amountIdx], lay.parenNegative)
	if err != nil || signed == 0 {
		return model.Transaction{}, false
	}

	date := NormalizeDate(cells[lay.dateIdx])

	rawType := ""
	if lay.typeIdx >= 0 && lay.typeIdx < len(cells) {
		rawType = cells[lay.typeIdx]
	}

	var txnType model.TxnType
	switch lay.dialect {
	case DialectCard:
		txnType = classifyCard(desc, rawType, signed)
	case DialectChecking, DialectBank, DialectGeneric3:
		txnType = classifyBySign(desc, rawType, signed)
	case DialectGeneric4:
		explicit, ok := parseExplicitType(rawType)
		if !ok {
			return model.Transaction{}, false
		}
		txnType = explicit
		if IsTransfer(desc) {
			txnType = model.TypeTransfer
		}
	default:
		return model.Transaction{}, false
	}

	category := ""
	if lay.categoryIdx >= 0 && lay.categoryIdx < len(cells) {
		category = cells[lay.categoryIdx]
	}

	return p.assemble(date, desc, signed, txnType, classify.GuessWithSource(desc, category), lay.dialect), true
}

// parseHeaderlessRow sniffs one row's shape when the file had no
// recognizable header. Shapes are tried in a fixed order: type-prefixed,
// ISO-date-prefixed, then the compact date-code layout.
func (p *Parser) parseHeaderlessRow(line string) (model.Transaction, bool) {
	cells := cleanCells(SplitLine(line))
	if len(cells) < 3 {
		return model.Transaction{}, false
	}

	// Type, Description, Amount, Date
	if explicit, ok := parseExplicitType(cells[0]); ok && len(cells) >= 4 {
		signed, err := ParseAmount(cells[2], false)
		if err != nil || signed == 0 {
			return model.Transaction{}, false
		}
		desc := cells[1]
		txnType := explicit
		if IsTransfer(desc) {
			txnType = model.TypeTransfer
		}
		return p.assemble(NormalizeDate(cells[3]), desc, signed, txnType, classify.Guess(desc), DialectHeaderless), true
	}

	// Date, Description, Amount with the sign encoding direction
	if isoDate.MatchString(cells[0]) {
		signed, err := ParseAmount(cells[2], false)
		if err != nil || signed == 0 {
			return model.Transaction{}, false
		}
		desc := cells[1]
		return p.assemble(cells[0], desc, signed, classifyBySign(desc, "", signed), classify.Guess(desc), DialectHeaderless), true
	}

	// Description, YYYYMMDD:code, Amount
	if compactCode.MatchString(cells[1]) {
		signed, err := ParseAmount(cells[2], false)
		if err != nil || signed == 0 {
			return model.Transaction{}, false
		}
		desc := cells[0]
		digits := cells[1][:8]
		date := digits[:4] + "-" + digits[4:6] + "-" + digits[6:8]
		return p.assemble(date, desc, signed, classifyBySign(desc, "", signed), classify.Guess(desc), DialectHeaderless), true
	}

	return model.Transaction{}, false
}

// Assemble builds a canonical record for a row recovered outside the CSV
// pipeline, such as an OFX statement entry, drawing ids from the same
// space as the rest of the batch.
func (p *Parser) Assemble(date, desc string, signed float64, txnType model.TxnType, category, source string) model.Transaction {
	return p.assemble(date, desc, signed, txnType, category, DialectID(source))
}

// assemble builds the canonical record and claims a unique id for it.
// A proposed id already in use is perturbed with a random suffix until
// it is free; no two live records ever share an id.
func (p *Parser) assemble(date, desc string, signed float64, txnType model.TxnType, category string, source DialectID) model.Transaction {
	id := strconv.Itoa(p.nextID)
	p.nextID++
	for p.taken[id] {
		id = fmt.Sprintf("%s-%04d", id, rand.Intn(10000))
	}
	p.taken[id] = true

	return model.Transaction{
		ID:          id,
		Date:        date,
		Description: desc,
		Amount:      math.Abs(signed),
		Type:        txnType,
		Category:    category,
		Source:      string(source),
	}
}
