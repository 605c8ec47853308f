package convert

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/stmtconv/internal/camt053"
	"github.com/cleared-dev/stmtconv/internal/errs"
	"github.com/cleared-dev/stmtconv/internal/model"
	"github.com/cleared-dev/stmtconv/internal/mt940"
)

const bookedStatus = "BOOK"

// ToCamt maps text messages onto one XML document, one Stmt per message.
// The group header message id is the first statement's reference.
//
// Type identifier, reference, supplementary text and entry date of each
// statement line are not carried over.
func (c *Converter) ToCamt(msgs ...*model.Message) (*camt053.Document, error) {
	if len(msgs) == 0 {
		return nil, &errs.ConversionError{Statement: -1, Err: errors.New("no statements to convert")}
	}

	body := &camt053.BkToCstmrStmt{
		GrpHdr: camt053.GrpHdr{MsgId: msgs[0].Statement.Reference},
	}
	for i, msg := range msgs {
		stmt, err := c.camtStatement(&msg.Statement)
		if err != nil {
			return nil, &errs.ConversionError{Statement: i, Err: err}
		}
		body.Stmt = append(body.Stmt, stmt)
		c.log.WithFields(logrus.Fields{
			"statement": i + 1,
			"account":   stmt.AccountID(),
			"entries":   len(stmt.Ntry),
		}).Debug("mapped statement text to XML")
	}

	return &camt053.Document{Xmlns: camt053.Namespace, BkToCstmrStmt: body}, nil
}

func (c *Converter) camtStatement(s *model.Statement) (camt053.Stmt, error) {
	// The text format has no account currency field.
	ccy := c.cfg.Defaults.Currency
	c.log.WithFields(logrus.Fields{
		"account":  s.Account,
		"currency": ccy,
	}).Warn("statement text carries no account currency, assuming configured default")

	out := camt053.Stmt{
		Id:           s.RelatedReference,
		ElctrncSeqNb: s.StatementNumber,
		Acct: &camt053.Acct{
			Id:  &camt053.AcctId{IBAN: s.Account},
			Ccy: ccy,
		},
	}

	balances, err := balancesOf(s)
	if err != nil {
		return camt053.Stmt{}, err
	}
	for _, b := range balances {
		bal, err := camtBalance(b)
		if err != nil {
			return camt053.Stmt{}, err
		}
		out.Bal = append(out.Bal, bal)
	}

	for _, tx := range s.Transactions {
		out.Ntry = append(out.Ntry, camtEntry(tx, ccy))
	}
	return out, nil
}

// balancesOf lists the statement's balances in XML order, each carrying the
// role of the slot it was found in.
func balancesOf(s *model.Statement) ([]model.Balance, error) {
	if s.Opening == nil {
		return nil, &errs.MissingBalanceError{Role: string(model.RoleOpening)}
	}
	if s.Closing == nil {
		return nil, &errs.MissingBalanceError{Role: string(model.RoleClosing)}
	}

	withRole := func(b model.Balance, role model.BalanceRole) model.Balance {
		b.Role = role
		return b
	}
	out := []model.Balance{
		withRole(*s.Opening, model.RoleOpening),
		withRole(*s.Closing, model.RoleClosing),
	}
	if s.ClosingAvailable != nil {
		out = append(out, withRole(*s.ClosingAvailable, model.RoleClosingAvailable))
	}
	for _, b := range s.ForwardAvailable {
		out = append(out, withRole(b, model.RoleForwardAvailable))
	}
	return out, nil
}

// camtBalance re-renders b through the wire grammar and reads it back, so
// the XML side receives exactly what a text reader would decode.
func camtBalance(b model.Balance) (camt053.Bal, error) {
	tag := b.Tag
	if tag == "" {
		tag = b.Role.Tag()
	}
	parsed, err := mt940.ParseBalance(tag, mt940.FormatBalance(b), b.Role)
	if err != nil {
		return camt053.Bal{}, err
	}

	ind := camt053.Credit
	if parsed.Sign == model.SignDebit {
		ind = camt053.Debit
	}
	return camt053.Bal{
		Tp:        &camt053.BalTp{CdOrPrtry: camt053.CdOrPrtry{Cd: string(b.Role)}},
		Amt:       &camt053.Amt{Ccy: parsed.Currency, Value: parsed.AmountText},
		CdtDbtInd: ind,
		Dt:        &camt053.DtChoice{Dt: parsed.Date.Format(isoDate)},
	}, nil
}

// camtEntry maps a statement line. Marks other than D, including the RD and
// RC reversals, map to CRDT.
func camtEntry(tx model.Transaction, ccy string) camt053.Ntry {
	ind := camt053.Credit
	if tx.IsDebit() {
		ind = camt053.Debit
	}
	amount := tx.Amount.Abs().StringFixed(2)

	details := camt053.TxDtls{Amt: &camt053.Amt{Ccy: ccy, Value: amount}}
	if tx.Narrative != "" {
		details.RmtInf = &camt053.RmtInf{Ustrd: []string{strings.ReplaceAll(tx.Narrative, "\n", " ")}}
	}

	return camt053.Ntry{
		Amt:       &camt053.Amt{Ccy: ccy, Value: amount},
		CdtDbtInd: ind,
		Sts:       bookedStatus,
		ValDt:     &camt053.DtChoice{Dt: tx.ValueDate.Format(isoDate)},
		NtryDtls:  []camt053.NtryDtls{{TxDtls: []camt053.TxDtls{details}}},
	}
}
