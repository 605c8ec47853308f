// Package camt053 holds the struct-mapped model of the nested XML bank
// statement (BkToCstmrStmt) together with its reader and writer.
package camt053

import (
	"encoding/xml"
	"strings"
)

// Namespace is written on generated documents.
const Namespace = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"

// Balance type codes.
const (
	CodeOpening          = "OPBD"
	CodeClosing          = "CLBD"
	CodeClosingAvailable = "CLAV"
	CodeForwardAvailable = "FWAV"
)

// Credit/debit indicators.
const (
	Credit = "CRDT"
	Debit  = "DBIT"
)

// Document is the XML root.
type Document struct {
	XMLName       xml.Name       `xml:"Document"`
	Xmlns         string         `xml:"xmlns,attr,omitempty"`
	BkToCstmrStmt *BkToCstmrStmt `xml:"BkToCstmrStmt"`
}

// BkToCstmrStmt is the bank-to-customer statement message.
type BkToCstmrStmt struct {
	GrpHdr GrpHdr `xml:"GrpHdr"`
	Stmt   []Stmt `xml:"Stmt"`
}

// GrpHdr is the group header shared by every statement in the message.
type GrpHdr struct {
	MsgId   string `xml:"MsgId,omitempty"`
	CreDtTm string `xml:"CreDtTm,omitempty"`
}

// Stmt is one account statement.
type Stmt struct {
	Id           string  `xml:"Id,omitempty"`
	ElctrncSeqNb string  `xml:"ElctrncSeqNb,omitempty"`
	LglSeqNb     string  `xml:"LglSeqNb,omitempty"`
	CreDtTm      string  `xml:"CreDtTm,omitempty"`
	FrToDt       *FrToDt `xml:"FrToDt"`
	Acct         *Acct   `xml:"Acct"`
	Bal          []Bal   `xml:"Bal"`
	Ntry         []Ntry  `xml:"Ntry"`
}

// FrToDt is the period covered by a statement.
type FrToDt struct {
	FrDtTm string `xml:"FrDtTm,omitempty"`
	ToDtTm string `xml:"ToDtTm,omitempty"`
}

// Acct identifies the statement account.
type Acct struct {
	Id  *AcctId `xml:"Id"`
	Ccy string  `xml:"Ccy,omitempty"`
	Nm  string  `xml:"Nm,omitempty"`
}

// AcctId is either an IBAN or a generic identifier.
type AcctId struct {
	IBAN string     `xml:"IBAN,omitempty"`
	Othr *GenericId `xml:"Othr"`
}

// GenericId is a scheme-less account identifier.
type GenericId struct {
	Id string `xml:"Id,omitempty"`
}

// Bal is one balance line. Tp.CdOrPrtry.Cd carries the role code.
type Bal struct {
	Tp        *BalTp    `xml:"Tp"`
	Amt       *Amt      `xml:"Amt"`
	CdtDbtInd string    `xml:"CdtDbtInd,omitempty"`
	Dt        *DtChoice `xml:"Dt"`
}

// BalTp is the balance type.
type BalTp struct {
	CdOrPrtry CdOrPrtry `xml:"CdOrPrtry"`
}

// CdOrPrtry is a code or a proprietary value.
type CdOrPrtry struct {
	Cd    string `xml:"Cd,omitempty"`
	Prtry string `xml:"Prtry,omitempty"`
}

// Amt is an amount with its currency attribute.
type Amt struct {
	Ccy   string `xml:"Ccy,attr,omitempty"`
	Value string `xml:",chardata"`
}

// DtChoice is a date or a date-time.
type DtChoice struct {
	Dt   string `xml:"Dt,omitempty"`
	DtTm string `xml:"DtTm,omitempty"`
}

// Ntry is one posted entry.
type Ntry struct {
	Amt       *Amt       `xml:"Amt"`
	CdtDbtInd string     `xml:"CdtDbtInd,omitempty"`
	Sts       string     `xml:"Sts,omitempty"`
	BookgDt   *DtChoice  `xml:"BookgDt"`
	ValDt     *DtChoice  `xml:"ValDt"`
	BkTxCd    *BkTxCd    `xml:"BkTxCd"`
	NtryDtls  []NtryDtls `xml:"NtryDtls"`
}

// BkTxCd is the bank transaction code.
type BkTxCd struct {
	Domn  *Domn        `xml:"Domn"`
	Prtry *PrtryBkTxCd `xml:"Prtry"`
}

type Domn struct {
	Cd   string `xml:"Cd,omitempty"`
	Fmly *Fmly  `xml:"Fmly"`
}

type Fmly struct {
	Cd        string `xml:"Cd,omitempty"`
	SubFmlyCd string `xml:"SubFmlyCd,omitempty"`
}

type PrtryBkTxCd struct {
	Cd   string `xml:"Cd,omitempty"`
	Issr string `xml:"Issr,omitempty"`
}

// NtryDtls groups the transaction details of an entry.
type NtryDtls struct {
	TxDtls []TxDtls `xml:"TxDtls"`
}

// TxDtls is the detail of one underlying transaction.
type TxDtls struct {
	Refs      *Refs      `xml:"Refs"`
	Amt       *Amt       `xml:"Amt"`
	RltdPties *RltdPties `xml:"RltdPties"`
	RmtInf    *RmtInf    `xml:"RmtInf"`
}

type Refs struct {
	MsgId       string `xml:"MsgId,omitempty"`
	AcctSvcrRef string `xml:"AcctSvcrRef,omitempty"`
	PmtInfId    string `xml:"PmtInfId,omitempty"`
	InstrId     string `xml:"InstrId,omitempty"`
	EndToEndId  string `xml:"EndToEndId,omitempty"`
	TxId        string `xml:"TxId,omitempty"`
}

// RltdPties names the debtor and creditor of a transaction.
type RltdPties struct {
	Dbtr     *Party    `xml:"Dbtr"`
	DbtrAcct *CashAcct `xml:"DbtrAcct"`
	Cdtr     *Party    `xml:"Cdtr"`
	CdtrAcct *CashAcct `xml:"CdtrAcct"`
}

type Party struct {
	Nm string `xml:"Nm,omitempty"`
}

type CashAcct struct {
	Id *AcctId `xml:"Id"`
}

// RmtInf holds unstructured remittance lines.
type RmtInf struct {
	Ustrd []string `xml:"Ustrd"`
}

// Code returns the balance role code, or "" if the balance has no type.
func (b Bal) Code() string {
	if b.Tp == nil {
		return ""
	}
	return b.Tp.CdOrPrtry.Cd
}

// Balance returns the first balance whose role code is code.
func (s *Stmt) Balance(code string) (*Bal, bool) {
	for i := range s.Bal {
		if s.Bal[i].Code() == code {
			return &s.Bal[i], true
		}
	}
	return nil, false
}

// Balances returns every balance whose role code is code, in document order.
func (s *Stmt) Balances(code string) []Bal {
	var out []Bal
	for _, b := range s.Bal {
		if b.Code() == code {
			out = append(out, b)
		}
	}
	return out
}

// AccountID returns the IBAN, falling back to the generic identifier.
func (s *Stmt) AccountID() string {
	if s.Acct == nil || s.Acct.Id == nil {
		return ""
	}
	if s.Acct.Id.IBAN != "" {
		return s.Acct.Id.IBAN
	}
	if s.Acct.Id.Othr != nil {
		return s.Acct.Id.Othr.Id
	}
	return ""
}

// SequenceNumber returns the electronic sequence number, or the legal one
// when the electronic number is absent.
func (s *Stmt) SequenceNumber() string {
	if s.ElctrncSeqNb != "" {
		return s.ElctrncSeqNb
	}
	return s.LglSeqNb
}

// Day returns the calendar-date part of the choice: Dt, or the first ten
// characters of DtTm.
func (d *DtChoice) Day() string {
	if d == nil {
		return ""
	}
	if d.Dt != "" {
		return d.Dt
	}
	if len(d.DtTm) >= len("2006-01-02") {
		return d.DtTm[:len("2006-01-02")]
	}
	return d.DtTm
}

// Remittance returns every unstructured remittance line of the entry.
func (n Ntry) Remittance() []string {
	var lines []string
	for _, d := range n.NtryDtls {
		for _, tx := range d.TxDtls {
			if tx.RmtInf != nil {
				lines = append(lines, tx.RmtInf.Ustrd...)
			}
		}
	}
	return lines
}

// IsDebit reports whether the entry carries the debit indicator.
func (n Ntry) IsDebit() bool {
	return IsDebit(n.CdtDbtInd)
}

// IsDebit reports whether ind is DBIT or its one-letter short form.
func IsDebit(ind string) bool {
	ind = strings.TrimSpace(ind)
	return strings.EqualFold(ind, Debit) || strings.EqualFold(ind, "D")
}
