package convert

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xpath"

	"github.com/cleared-dev/stmtconv/internal/passthrough"
)

// Format names a document format on the command line, in the API and in the
// decoder registry.
type Format string

const (
	Auto    Format = "auto"
	MT940   Format = "mt940"
	CAMT053 Format = "camt053"
	XML     Format = "xml"
	CSV     Format = "csv"
)

// ErrUnknownFormat is returned by ParseFormat for names it does not know.
var ErrUnknownFormat = errors.New("unknown format")

// Formats lists the concrete formats in display order.
func Formats() []Format {
	return []Format{MT940, CAMT053, XML, CSV}
}

// ParseFormat resolves a user-supplied format name. Matching ignores case,
// and "camt.053" and "camt" are accepted for CAMT053.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "mt940", "mt":
		return MT940, nil
	case "camt053", "camt.053", "camt":
		return CAMT053, nil
	case "xml":
		return XML, nil
	case "csv":
		return CSV, nil
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, s, formatList())
}

func formatList() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

var statementExpr = xpath.MustCompile("//*[local-name()='BkToCstmrStmt']")

// Detect sniffs the format of data. A leading "{1:" block marks statement
// text; well-formed XML holding a BkToCstmrStmt element is CAMT053, any
// other well-formed XML is XML; everything else is treated as CSV.
func Detect(data []byte) Format {
	head := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), " \t\r\n")
	if bytes.HasPrefix(head, []byte("{1:")) {
		return MT940
	}
	if bytes.HasPrefix(head, []byte("<")) {
		x, err := passthrough.ParseXML(data)
		if err != nil {
			return CSV
		}
		if x.Exists(statementExpr) {
			return CAMT053
		}
		return XML
	}
	return CSV
}
