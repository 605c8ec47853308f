package convert

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/stmtconv/internal/camt053"
	"github.com/cleared-dev/stmtconv/internal/errs"
	"github.com/cleared-dev/stmtconv/internal/model"
	"github.com/cleared-dev/stmtconv/internal/mt940"
)

const statementNumberDigits = 5

// Statements yields one text message per Stmt of doc, in document order.
// The sequence stops at the first statement that cannot be mapped, yielding
// the error with a nil message. It may be ranged over more than once.
func (c *Converter) Statements(doc *camt053.Document) iter.Seq2[*model.Message, error] {
	return func(yield func(*model.Message, error) bool) {
		if doc == nil || doc.BkToCstmrStmt == nil {
			yield(nil, &errs.BlockError{Name: "BkToCstmrStmt"})
			return
		}
		header, err := mt940.ParseBasicHeader(c.cfg.Defaults.BasicHeader)
		if err != nil {
			yield(nil, &errs.ConversionError{Statement: -1, Err: fmt.Errorf("default basic header: %w", err)})
			return
		}

		msgID := doc.BkToCstmrStmt.GrpHdr.MsgId
		for i := range doc.BkToCstmrStmt.Stmt {
			src := &doc.BkToCstmrStmt.Stmt[i]
			stmt, err := c.textStatement(msgID, src)
			if err != nil {
				yield(nil, &errs.ConversionError{Statement: i, Err: err})
				return
			}
			c.log.WithFields(logrus.Fields{
				"statement": i + 1,
				"account":   stmt.Account,
				"lines":     len(stmt.Transactions),
			}).Debug("mapped XML statement to text")

			msg := &model.Message{
				BasicHeader:       header,
				ApplicationHeader: c.cfg.Defaults.ApplicationHeader,
				Statement:         *stmt,
			}
			if !yield(msg, nil) {
				return
			}
		}
	}
}

// ToMT940 maps every statement of doc. A failure on any statement discards
// the whole batch.
func (c *Converter) ToMT940(doc *camt053.Document) ([]*model.Message, error) {
	var msgs []*model.Message
	for msg, err := range c.Statements(doc) {
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (c *Converter) textStatement(msgID string, s *camt053.Stmt) (*model.Statement, error) {
	opening, ok := s.Balance(camt053.CodeOpening)
	if !ok {
		return nil, &errs.MissingBalanceError{Role: camt053.CodeOpening}
	}
	closing, ok := s.Balance(camt053.CodeClosing)
	if !ok {
		return nil, &errs.MissingBalanceError{Role: camt053.CodeClosing}
	}

	out := &model.Statement{
		Reference:        msgID,
		RelatedReference: s.Id,
		Account:          s.AccountID(),
		StatementNumber:  statementNumber(s.SequenceNumber()),
	}

	var err error
	if out.Opening, err = c.textBalance(opening, model.RoleOpening); err != nil {
		return nil, err
	}
	if out.Closing, err = c.textBalance(closing, model.RoleClosing); err != nil {
		return nil, err
	}
	if b, ok := s.Balance(camt053.CodeClosingAvailable); ok {
		if out.ClosingAvailable, err = c.textBalance(b, model.RoleClosingAvailable); err != nil {
			return nil, err
		}
	}
	for _, b := range s.Balances(camt053.CodeForwardAvailable) {
		fwd, err := c.textBalance(&b, model.RoleForwardAvailable)
		if err != nil {
			return nil, err
		}
		out.ForwardAvailable = append(out.ForwardAvailable, *fwd)
	}

	for i, n := range s.Ntry {
		tx, err := c.textTransaction(n, out.Closing.Date)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		out.Transactions = append(out.Transactions, tx)
	}
	return out, nil
}

// statementNumber keeps the last five digits of seq and appends "/1".
func statementNumber(seq string) string {
	var digits []byte
	for i := 0; i < len(seq); i++ {
		if seq[i] >= '0' && seq[i] <= '9' {
			digits = append(digits, seq[i])
		}
	}
	if len(digits) > statementNumberDigits {
		digits = digits[len(digits)-statementNumberDigits:]
	}
	if len(digits) == 0 {
		return "1/1"
	}
	return string(digits) + "/1"
}

// textBalance renders an XML balance as a wire balance body and decodes it
// with the text grammar.
func (c *Converter) textBalance(b *camt053.Bal, role model.BalanceRole) (*model.Balance, error) {
	tag := role.Tag()
	if b.Amt == nil {
		return nil, &errs.FieldError{Kind: errs.ErrInvalidBalance, Tag: tag, Raw: string(role), Reason: "balance has no amount"}
	}

	day := b.Dt.Day()
	date, err := time.Parse(isoDate, day)
	if err != nil {
		return nil, &errs.FieldError{Kind: errs.ErrInvalidBalance, Tag: tag, Raw: day, Reason: "balance date is not YYYY-MM-DD"}
	}

	ccy := b.Amt.Ccy
	if ccy == "" {
		ccy = c.cfg.Defaults.Currency
		c.log.WithFields(logrus.Fields{"role": role, "currency": ccy}).Warn("balance has no currency, assuming configured default")
	}

	amount := strings.Replace(strings.TrimSpace(b.Amt.Value), ".", ",", 1)
	body := balanceSign(b.CdtDbtInd) + date.Format(wireDate) + ccy + amount

	bal, err := mt940.ParseBalance(tag, body, role)
	if err != nil {
		return nil, err
	}
	return &bal, nil
}

// balanceSign maps an XML indicator onto the one-letter wire sign. An absent
// indicator reads as credit; unknown ones are passed through so the balance
// grammar rejects them.
func balanceSign(ind string) string {
	ind = strings.ToUpper(strings.TrimSpace(ind))
	switch ind {
	case "", "C", camt053.Credit:
		return string(model.SignCredit)
	case "D", camt053.Debit:
		return string(model.SignDebit)
	}
	return ind
}

// textTransaction rebuilds a statement line from an entry's amount,
// indicator and date. The value date falls back to the booking date, then
// to the closing balance date. Type identifier, reference and narrative are
// the configured placeholders.
func (c *Converter) textTransaction(n camt053.Ntry, fallback time.Time) (model.Transaction, error) {
	if n.Amt == nil {
		return model.Transaction{}, &errs.FieldError{Kind: errs.ErrInvalidTransaction, Tag: "61", Reason: "entry has no amount"}
	}
	raw := strings.TrimSpace(n.Amt.Value)
	amount, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return model.Transaction{}, &errs.FieldError{Kind: errs.ErrInvalidTransaction, Tag: "61", Raw: raw, Reason: "malformed amount", Cause: err}
	}

	date := fallback
	day := n.ValDt.Day()
	if day == "" {
		day = n.BookgDt.Day()
	}
	if day != "" {
		if date, err = time.Parse(isoDate, day); err != nil {
			return model.Transaction{}, &errs.FieldError{Kind: errs.ErrInvalidTransaction, Tag: "61", Raw: day, Reason: "entry date is not YYYY-MM-DD"}
		}
	}

	mark := string(model.SignCredit)
	if n.IsDebit() {
		mark = string(model.SignDebit)
	}

	line := mt940.FormatTransaction(model.Transaction{
		ValueDate: date,
		Mark:      mark,
		Amount:    amount.Abs(),
		TypeID:    c.cfg.Placeholders.TransactionType,
		Reference: c.cfg.Placeholders.Reference,
	})
	tx, err := mt940.ParseTransaction(line)
	if err != nil {
		return model.Transaction{}, err
	}
	ph := c.cfg.Placeholders
	if tx.TypeID != ph.TransactionType || tx.Reference != ph.Reference {
		return model.Transaction{}, &errs.FieldError{Kind: errs.ErrInvalidTransaction, Tag: "61", Raw: line, Reason: "placeholder type or reference does not re-read from the statement line"}
	}
	tx.Narrative = c.cfg.Placeholders.Narrative
	return tx, nil
}
