package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sign is the credit/debit indicator of a balance.
type Sign string

const (
	SignCredit Sign = "C"
	SignDebit  Sign = "D"
)

// BalanceRole classifies a balance within a statement. The values are the
// balance type codes used on the XML side, which double as the join key
// during conversion.
type BalanceRole string

const (
	RoleOpening          BalanceRole = "OPBD"
	RoleClosing          BalanceRole = "CLBD"
	RoleClosingAvailable BalanceRole = "CLAV"
	RoleForwardAvailable BalanceRole = "FWAV"
)

// Tag returns the default wire tag for the role.
func (r BalanceRole) Tag() string {
	switch r {
	case RoleOpening:
		return "60F"
	case RoleClosing:
		return "62F"
	case RoleClosingAvailable:
		return "64"
	case RoleForwardAvailable:
		return "65"
	}
	return ""
}

// BasicHeader is the fixed-width content of envelope block 1.
type BasicHeader struct {
	AppID     string // 1 char
	ServiceID string // 2 chars
	LTAddress string // 12 chars
	Session   string // 4 chars
	Sequence  string // 6 chars
}

// String renders the header back to its 25-character wire form.
func (h BasicHeader) String() string {
	return h.AppID + h.ServiceID + h.LTAddress + h.Session + h.Sequence
}

// Balance is one decoded balance line (:60F:, :62F:, :64:, :65: ...).
type Balance struct {
	Tag        string // wire tag the balance was read from, e.g. "60M"
	Role       BalanceRole
	Sign       Sign
	Date       time.Time
	Currency   string
	Amount     decimal.Decimal
	AmountText string // amount as written on the wire, e.g. "10000,00"
	Raw        string
}

// Transaction is one statement line (:61:) with its optional :86: narrative.
type Transaction struct {
	ValueDate     time.Time
	EntryDate     time.Time // zero if absent
	Mark          string    // D, C, RD, RC
	FundsCode     string
	Amount        decimal.Decimal
	AmountText    string
	TypeID        string
	Reference     string
	Supplementary string
	Narrative     string
	Raw           string
}

// IsDebit reports whether the transaction carries a plain debit mark.
func (t Transaction) IsDebit() bool { return t.Mark == string(SignDebit) }

// HasEntryDate reports whether an entry date was present on the wire.
func (t Transaction) HasEntryDate() bool { return !t.EntryDate.IsZero() }

// Statement is the typed content of envelope block 4.
type Statement struct {
	Reference        string // :20:
	RelatedReference string // :21:
	Account          string // :25:
	StatementNumber  string // :28: / :28C:
	Opening          *Balance
	Transactions     []Transaction
	Closing          *Balance
	ClosingAvailable *Balance
	ForwardAvailable []Balance
	Other            Fields
}

// Message is one complete text document: the envelope blocks around a
// single statement.
type Message struct {
	BasicHeader       BasicHeader
	ApplicationHeader string
	UserHeader        string // empty if absent
	Statement         Statement
	Trailer           string // empty if absent
}
