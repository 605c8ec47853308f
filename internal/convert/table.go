package convert

import (
	"strconv"
	"strings"

	"github.com/cleared-dev/stmtconv/internal/camt053"
	"github.com/cleared-dev/stmtconv/internal/model"
	"github.com/cleared-dev/stmtconv/internal/passthrough"
)

// EntryHeader is the header row of the flat entry export.
const EntryHeader = "statement,account,value_date,mark,amount,currency,type,reference,narrative"

const (
	numEntryFields = 9
	colStatement   = 0
	colAccount     = 1
	colValueDate   = 2
	colMark        = 3
	colAmount      = 4
	colCurrency    = 5
	colType        = 6
	colReference   = 7
	colNarrative   = 8
)

// TextEntries flattens the statement lines of msgs into one row per line.
// Amounts are signed: debits and credit reversals (RC) are negative. The
// currency is the one of the closing balance, as statement lines carry none.
func TextEntries(msgs []*model.Message) *passthrough.Table {
	t := &passthrough.Table{Header: strings.Split(EntryHeader, ",")}
	for i, m := range msgs {
		s := &m.Statement
		var ccy string
		if s.Closing != nil {
			ccy = s.Closing.Currency
		}
		for _, tx := range s.Transactions {
			row := make([]string, numEntryFields)
			row[colStatement] = strconv.Itoa(i + 1)
			row[colAccount] = s.Account
			row[colValueDate] = tx.ValueDate.Format(isoDate)
			row[colMark] = tx.Mark
			row[colAmount] = signed(tx.Amount.StringFixed(2), tx.Mark == "D" || tx.Mark == "RC")
			row[colCurrency] = ccy
			row[colType] = tx.TypeID
			row[colReference] = tx.Reference
			row[colNarrative] = strings.ReplaceAll(tx.Narrative, "\n", " ")
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// CamtEntries flattens the entries of every statement in doc. The reference
// column takes the first end-to-end id found in the entry details and the
// narrative joins the unstructured remittance lines.
func CamtEntries(doc *camt053.Document) *passthrough.Table {
	t := &passthrough.Table{Header: strings.Split(EntryHeader, ",")}
	if doc == nil || doc.BkToCstmrStmt == nil {
		return t
	}
	for i := range doc.BkToCstmrStmt.Stmt {
		s := &doc.BkToCstmrStmt.Stmt[i]
		for _, n := range s.Ntry {
			row := make([]string, numEntryFields)
			row[colStatement] = strconv.Itoa(i + 1)
			row[colAccount] = s.AccountID()
			row[colValueDate] = n.ValDt.Day()
			if row[colValueDate] == "" {
				row[colValueDate] = n.BookgDt.Day()
			}
			row[colMark] = n.CdtDbtInd
			if n.Amt != nil {
				row[colAmount] = signed(strings.TrimSpace(n.Amt.Value), n.IsDebit())
				row[colCurrency] = n.Amt.Ccy
			}
			row[colType] = entryType(n)
			row[colReference] = endToEndID(n)
			row[colNarrative] = strings.Join(n.Remittance(), " ")
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

func signed(amount string, debit bool) string {
	if debit && amount != "" && !strings.HasPrefix(amount, "-") {
		return "-" + amount
	}
	return amount
}

// entryType renders the bank transaction code as DOMAIN/FAMILY/SUBFAMILY,
// or the proprietary code when no domain code is present.
func entryType(n camt053.Ntry) string {
	if n.BkTxCd == nil {
		return ""
	}
	if d := n.BkTxCd.Domn; d != nil {
		parts := []string{d.Cd}
		if d.Fmly != nil {
			parts = append(parts, d.Fmly.Cd, d.Fmly.SubFmlyCd)
		}
		return strings.Join(parts, "/")
	}
	if p := n.BkTxCd.Prtry; p != nil {
		return p.Cd
	}
	return ""
}

func endToEndID(n camt053.Ntry) string {
	for _, d := range n.NtryDtls {
		for _, tx := range d.TxDtls {
			if tx.Refs != nil && tx.Refs.EndToEndId != "" {
				return tx.Refs.EndToEndId
			}
		}
	}
	return ""
}
