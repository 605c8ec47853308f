package camt053

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/cleared-dev/stmtconv/internal/errs"
)

// Parse decodes an XML statement document. The root must be Document and
// must contain BkToCstmrStmt; zero Stmt children is accepted.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding statement XML: %v", errs.ErrMalformedEnvelope, err)
	}
	if doc.BkToCstmrStmt == nil {
		return nil, &errs.BlockError{Name: "BkToCstmrStmt"}
	}
	return &doc, nil
}

// Read reads r to the end and parses it.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errs.IOError{Op: "reading statement XML", Err: err}
	}
	return Parse(data)
}

// Marshal renders doc as indented XML with an XML declaration.
func Marshal(doc *Document) ([]byte, error) {
	out := *doc
	// A namespace picked up while decoding would be written twice next to Xmlns.
	out.XMLName = xml.Name{}
	if out.Xmlns == "" && doc.XMLName.Space != "" {
		out.Xmlns = doc.XMLName.Space
	}

	body, err := xml.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding statement XML: %w", err)
	}
	data := make([]byte, 0, len(xml.Header)+len(body)+1)
	data = append(data, xml.Header...)
	data = append(data, body...)
	return append(data, '\n'), nil
}

// Write renders doc to w.
func Write(w io.Writer, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return &errs.IOError{Op: "writing statement XML", Err: err}
	}
	return nil
}
