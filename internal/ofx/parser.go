// Package ofx reads OFX/QFX bank and credit card statements and imports
// their debits as expenses.
package ofx

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Entry is one statement line.
type Entry struct {
	Date      time.Time
	Amount    decimal.Decimal // always positive
	ID        string          // FITID
	AccountID string
	Name      string // raw NAME field
	Note      string // cleaned merchant text used as the expense note
	Type      string // DEBIT, CREDIT, CHECK, ...
	Debit     bool
}

// Hash identifies an entry by its content, so the same spend exported
// twice under different FITIDs is recognized.
func (e Entry) Hash() string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		e.Date.Format("2006-01-02"),
		e.Amount.StringFixed(2),
		strings.ToLower(e.Note),
		e.AccountID,
	}, "|")))
	return hex.EncodeToString(sum[:])
}

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagPattern  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// merchantPrefixes are card-network boilerplate stripped from NAME.
var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// Parser reads OFX/QFX statements.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocess fixes formatting issues common in bank exports.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	// SGML files sometimes drop the closing bracket of a bare opening tag.
	return openTagPattern.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile returns every bank and credit card entry in the statement.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Entry, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		entries = append(entries, p.convertAll(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))...)
	}

	for _, msg := range resp.CreditCard {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		entries = append(entries, p.convertAll(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))...)
	}

	slog.Info("Parsed OFX file",
		"entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func (p *Parser) convertAll(txns []ofxgo.Transaction, accountID string) []Entry {
	entries := make([]Entry, 0, len(txns))
	for _, tx := range txns {
		entry, err := p.convert(tx, accountID)
		if err != nil {
			slog.Warn("Skipping unreadable OFX transaction", "fitid", tx.FiTID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// convert maps an OFX transaction to an Entry. OFX amounts are negative for
// money leaving the account.
func (p *Parser) convert(tx ofxgo.Transaction, accountID string) (Entry, error) {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid amount: %w", err)
	}

	posted := tx.DtPosted.Time
	return Entry{
		ID:        string(tx.FiTID),
		AccountID: accountID,
		Date:      time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC),
		Amount:    amount.Abs(),
		Debit:     amount.IsNegative(),
		Name:      string(tx.Name),
		Note:      p.extractMerchantName(tx),
		Type:      fmt.Sprintf("%v", tx.TrnType),
	}, nil
}

// extractMerchantName prefers PAYEE, falls back to NAME (or MEMO when NAME
// is generic) and strips card-network prefixes and leading MM/DD dates.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// GetAccounts returns the sorted account ids present in the statement.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			seen[string(stmt.BankAcctFrom.AcctID)] = true
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			seen[string(stmt.CCAcctFrom.AcctID)] = true
		}
	}

	accounts := make([]string, 0, len(seen))
	for acct := range seen {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)
	return accounts, nil
}
