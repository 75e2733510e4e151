// Package ofx parses OFX/QFX statement exports into the same raw entry
// shape the CSV pipeline consumes, so both paths share one canonical
// transaction model.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/statement"
)

// Entry is one statement line extracted from an OFX file. Amount keeps
// the OFX sign convention (negative debits); the import engine hands it
// to the record assembler, which stores the magnitude.
type Entry struct {
	Date        string // YYYY-MM-DD
	Description string
	RawType     string // OFX TRNTYPE, e.g. DEBIT, CREDIT, XFER, PAYMENT
	Type        model.TxnType
	Amount      float64
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocess fixes common formatting issues in SGML-style OFX files:
// leading blank lines, mixed-case severity values, and opening tags
// missing their closing bracket.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns its statement entries.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			entries = append(entries, p.statementEntries(stmt.BankTranList, false)...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			entries = append(entries, p.statementEntries(stmt.BankTranList, true)...)
		}
	}

	slog.Info("Parsed OFX file",
		"entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func (p *Parser) statementEntries(list *ofxgo.TransactionList, creditCard bool) []Entry {
	if list == nil {
		return nil
	}
	entries := make([]Entry, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		entries = append(entries, p.convert(tx, creditCard))
	}
	return entries
}

// convert maps one OFX transaction to an entry, cleaning the merchant
// description and assigning a canonical type from the OFX TRNTYPE, the
// sign, and the usual transfer/payment keyword overrides.
func (p *Parser) convert(tx ofxgo.Transaction, creditCard bool) Entry {
	amount, _ := tx.TrnAmt.Float64()
	desc := p.extractDescription(tx)
	rawType := fmt.Sprintf("%v", tx.TrnType)

	return Entry{
		Date:        tx.DtPosted.Time.Format("2006-01-02"),
		Description: desc,
		Amount:      amount,
		RawType:     rawType,
		Type:        classifyEntry(desc, rawType, amount, creditCard),
	}
}

func classifyEntry(desc, rawType string, amount float64, creditCard bool) model.TxnType {
	if statement.IsTransfer(desc) || strings.EqualFold(rawType, "XFER") {
		return model.TypeTransfer
	}
	if creditCard {
		if strings.EqualFold(rawType, "PAYMENT") || strings.Contains(strings.ToLower(desc), "payment thank you") {
			return model.TypePayment
		}
		if amount > 0 {
			return model.TypeIncome
		}
		return model.TypeCreditCard
	}
	if amount > 0 {
		return model.TypeIncome
	}
	return model.TypeExpense
}

// extractDescription tries to get a clean merchant name from OFX data.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip a leading MM/DD date fragment some banks prepend.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic to be
// worth keeping over the memo field.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}
	upper := strings.ToUpper(name)
	for _, g := range generic {
		if upper == g {
			return true
		}
	}
	return false
}
