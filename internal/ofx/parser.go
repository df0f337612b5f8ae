// Package ofx turns OFX/QFX statement downloads into card detail records.
package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/aclindsa/ofxgo"
)

// ErrNoStatements is returned when a file parses but holds no bank or card statement.
var ErrNoStatements = errors.New("no statements in OFX file")

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Standard industrial codes mapped to the categories shown on cards.
var sicCategories = map[int]string{
	4111: "Transport",
	4121: "Transport",
	4511: "Travel",
	4814: "Telecom",
	4900: "Utilities",
	5311: "Department Store",
	5411: "Groceries",
	5499: "Groceries",
	5541: "Fuel",
	5542: "Fuel",
	5732: "Electronics",
	5812: "Dining",
	5813: "Dining",
	5814: "Dining",
	5912: "Pharmacy",
	5942: "Books",
	5999: "Shopping",
	7011: "Travel",
	7832: "Entertainment",
	8062: "Medical",
}

// Fallback categories by transaction type.
var typeCategories = map[string]string{
	"INT":     "Interest",
	"DIV":     "Interest",
	"FEE":     "Fees",
	"SRVCHG":  "Fees",
	"ATM":     "Cash",
	"CASH":    "Cash",
	"CHECK":   "Checks",
	"XFER":    "Transfers",
	"PAYMENT": "Payments",
	"CREDIT":  "Refunds",
}

const otherCategory = "Other"

// Parser converts OFX files.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX repairs the formatting quirks some banks emit.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	// SGML files sometimes drop the closing bracket of a bare opening tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(ctx context.Context, reader io.Reader) (*ofxgo.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile returns one detail record per statement line, in file order.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.DetailRecord, error) {
	resp, err := p.parse(ctx, reader)
	if err != nil {
		return nil, err
	}

	var (
		details            []model.DetailRecord
		bankStmts, ccStmts int
	)
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList != nil {
				details = append(details, p.convertAll(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))...)
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList != nil {
				details = append(details, p.convertAll(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))...)
			}
		}
	}

	if bankStmts+ccStmts == 0 {
		return nil, ErrNoStatements
	}

	common.Logger(ctx).Info("Parsed OFX file",
		"details", len(details),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return details, nil
}

func (p *Parser) convertAll(txns []ofxgo.Transaction, accountID string) []model.DetailRecord {
	out := make([]model.DetailRecord, 0, len(txns))
	for _, tx := range txns {
		out = append(out, p.convertTransaction(tx, accountID))
	}
	return out
}

// convertTransaction flips the OFX sign so that purchases are positive and
// refunds negative.
func (p *Parser) convertTransaction(tx ofxgo.Transaction, accountID string) model.DetailRecord {
	amount, _ := tx.TrnAmt.Float64()
	return model.DetailRecord{
		Date:         tx.DtPosted.Format(model.DetailDateLayout),
		Amount:       -int64(math.Round(amount)),
		Store:        p.extractStoreName(tx),
		CardLastFour: lastFour(accountID),
		Category:     category(tx),
	}
}

func lastFour(accountID string) string {
	accountID = strings.TrimSpace(accountID)
	if len(accountID) <= 4 {
		return accountID
	}
	return accountID[len(accountID)-4:]
}

func category(tx ofxgo.Transaction) string {
	if c, ok := sicCategories[int(tx.SIC)]; ok {
		return c
	}
	if c, ok := typeCategories[strings.ToUpper(tx.TrnType.String())]; ok {
		return c
	}
	return otherCategory
}

// extractStoreName prefers PAYEE, then NAME, then MEMO when NAME says nothing.
func (p *Parser) extractStoreName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && (name == "" || isGenericDescription(name)) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	} {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// "MM/DD " left over from an authorization prefix.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	if name == "" {
		return "Unknown"
	}
	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// Accounts lists the distinct account IDs in a file, sorted.
func (p *Parser) Accounts(ctx context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(ctx, reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			seen[string(stmt.BankAcctFrom.AcctID)] = struct{}{}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			seen[string(stmt.CCAcctFrom.AcctID)] = struct{}{}
		}
	}

	accounts := make([]string, 0, len(seen))
	for acct := range seen {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)
	return accounts, nil
}
