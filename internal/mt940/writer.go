package mt940

import (
	"io"
	"strings"

	"github.com/cleared-dev/stmtconv/internal/errs"
	"github.com/cleared-dev/stmtconv/internal/model"
)

const crlf = "\r\n"

// Marshal renders a document in wire form with CRLF line endings.
func Marshal(m *model.Message) []byte {
	var b strings.Builder

	b.WriteString("{1:" + m.BasicHeader.String() + "}")
	b.WriteString("{2:" + m.ApplicationHeader + "}" + crlf)
	if m.UserHeader != "" {
		b.WriteString("{3:" + m.UserHeader + "}" + crlf)
	}

	b.WriteString("{4:" + crlf)
	for _, line := range StatementLines(&m.Statement) {
		b.WriteString(line)
		b.WriteString(crlf)
	}
	b.WriteString("-}")
	if m.Trailer != "" {
		b.WriteString("{5:" + m.Trailer + "}")
	}
	b.WriteString(crlf)

	return []byte(b.String())
}

// StatementLines renders the text block as wire lines, one tag per entry.
// Multi-line bodies keep their line breaks as CRLF. Unrecognized tags are
// placed after the statement number so a :86: kept there stays detached
// from the statement lines on re-read.
func StatementLines(s *model.Statement) []string {
	var lines []string
	add := func(code, body string) {
		lines = append(lines, ":"+code+":"+strings.ReplaceAll(body, "\n", crlf))
	}

	add("20", s.Reference)
	if s.RelatedReference != "" {
		add("21", s.RelatedReference)
	}
	add("25", s.Account)
	add("28C", s.StatementNumber)
	for _, f := range s.Other {
		add(f.Tag, f.Body)
	}
	if s.Opening != nil {
		add(balanceTag(s.Opening), FormatBalance(*s.Opening))
	}
	for _, tx := range s.Transactions {
		add("61", FormatTransaction(tx))
		if tx.Narrative != "" {
			add("86", tx.Narrative)
		}
	}
	if s.Closing != nil {
		add(balanceTag(s.Closing), FormatBalance(*s.Closing))
	}
	if s.ClosingAvailable != nil {
		add(balanceTag(s.ClosingAvailable), FormatBalance(*s.ClosingAvailable))
	}
	for i := range s.ForwardAvailable {
		add(balanceTag(&s.ForwardAvailable[i]), FormatBalance(s.ForwardAvailable[i]))
	}
	return lines
}

func balanceTag(b *model.Balance) string {
	if b.Tag != "" {
		return b.Tag
	}
	return b.Role.Tag()
}

// Write renders m to w.
func Write(w io.Writer, m *model.Message) error {
	if _, err := w.Write(Marshal(m)); err != nil {
		return &errs.IOError{Op: "writing statement text", Err: err}
	}
	return nil
}

// WriteAll renders each document to w, separating consecutive documents
// with a blank line.
func WriteAll(w io.Writer, msgs []*model.Message) error {
	for i, m := range msgs {
		if i > 0 {
			if _, err := io.WriteString(w, crlf); err != nil {
				return &errs.IOError{Op: "writing statement text", Err: err}
			}
		}
		if err := Write(w, m); err != nil {
			return err
		}
	}
	return nil
}
