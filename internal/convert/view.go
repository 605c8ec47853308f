package convert

import (
	"encoding/xml"
	"fmt"

	"github.com/cleared-dev/stmtconv/internal/camt053"
	"github.com/cleared-dev/stmtconv/internal/model"
	"github.com/cleared-dev/stmtconv/internal/passthrough"
)

const viewIndent = "  "

// textView is the plain XML rendering of parsed statement text. Element
// names follow the model, not the tag codes, since tag codes such as "60F"
// are not valid XML names.
type textView struct {
	XMLName  xml.Name      `xml:"Mt940Xml"`
	Messages []messageView `xml:"Message"`
}

type messageView struct {
	BasicHeader       string        `xml:"BasicHeader"`
	ApplicationHeader string        `xml:"ApplicationHeader"`
	UserHeader        string        `xml:"UserHeader,omitempty"`
	Statement         statementView `xml:"Statement"`
	Trailer           string        `xml:"Trailer,omitempty"`
}

type statementView struct {
	Reference        string            `xml:"Reference"`
	RelatedReference string            `xml:"RelatedReference,omitempty"`
	Account          string            `xml:"Account"`
	StatementNumber  string            `xml:"StatementNumber"`
	Opening          *balanceView      `xml:"OpeningBalance"`
	Transactions     []transactionView `xml:"Transactions>Transaction"`
	Closing          *balanceView      `xml:"ClosingBalance"`
	ClosingAvailable *balanceView      `xml:"ClosingAvailableBalance"`
	ForwardAvailable []balanceView     `xml:"ForwardAvailableBalance"`
	Other            []fieldView       `xml:"Field"`
}

type balanceView struct {
	Tag      string `xml:"tag,attr"`
	Sign     string `xml:"Sign"`
	Date     string `xml:"Date"`
	Currency string `xml:"Currency"`
	Amount   string `xml:"Amount"`
}

type transactionView struct {
	ValueDate     string `xml:"ValueDate"`
	EntryDate     string `xml:"EntryDate,omitempty"`
	Mark          string `xml:"Mark"`
	FundsCode     string `xml:"FundsCode,omitempty"`
	Amount        string `xml:"Amount"`
	TypeID        string `xml:"TypeId,omitempty"`
	Reference     string `xml:"Reference,omitempty"`
	Supplementary string `xml:"Supplementary,omitempty"`
	Narrative     string `xml:"Narrative,omitempty"`
}

type fieldView struct {
	Tag  string `xml:"tag,attr"`
	Body string `xml:",chardata"`
}

// TextView renders parsed statement text as an indented generic XML tree.
func TextView(msgs []*model.Message) ([]byte, error) {
	view := textView{}
	for _, m := range msgs {
		view.Messages = append(view.Messages, newMessageView(m))
	}
	data, err := xml.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("encoding text view: %w", err)
	}
	return passthrough.FormatXML(data, viewIndent)
}

// CamtView re-serializes an XML statement document through the generic
// pretty printer.
func CamtView(doc *camt053.Document) ([]byte, error) {
	data, err := camt053.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return passthrough.FormatXML(data, viewIndent)
}

func newMessageView(m *model.Message) messageView {
	s := &m.Statement
	sv := statementView{
		Reference:        s.Reference,
		RelatedReference: s.RelatedReference,
		Account:          s.Account,
		StatementNumber:  s.StatementNumber,
		Opening:          newBalanceView(s.Opening),
		Closing:          newBalanceView(s.Closing),
		ClosingAvailable: newBalanceView(s.ClosingAvailable),
	}
	for i := range s.ForwardAvailable {
		sv.ForwardAvailable = append(sv.ForwardAvailable, *newBalanceView(&s.ForwardAvailable[i]))
	}
	for _, tx := range s.Transactions {
		tv := transactionView{
			ValueDate:     tx.ValueDate.Format(isoDate),
			Mark:          tx.Mark,
			FundsCode:     tx.FundsCode,
			Amount:        tx.Amount.StringFixed(2),
			TypeID:        tx.TypeID,
			Reference:     tx.Reference,
			Supplementary: tx.Supplementary,
			Narrative:     tx.Narrative,
		}
		if tx.HasEntryDate() {
			tv.EntryDate = tx.EntryDate.Format(isoDate)
		}
		sv.Transactions = append(sv.Transactions, tv)
	}
	for _, f := range s.Other {
		sv.Other = append(sv.Other, fieldView{Tag: f.Tag, Body: f.Body})
	}

	return messageView{
		BasicHeader:       m.BasicHeader.String(),
		ApplicationHeader: m.ApplicationHeader,
		UserHeader:        m.UserHeader,
		Statement:         sv,
		Trailer:           m.Trailer,
	}
}

func newBalanceView(b *model.Balance) *balanceView {
	if b == nil {
		return nil
	}
	tag := b.Tag
	if tag == "" {
		tag = b.Role.Tag()
	}
	return &balanceView{
		Tag:      tag,
		Sign:     string(b.Sign),
		Date:     b.Date.Format(isoDate),
		Currency: b.Currency,
		Amount:   b.Amount.StringFixed(2),
	}
}
