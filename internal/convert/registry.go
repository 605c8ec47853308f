package convert

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/stmtconv/internal/camt053"
	"github.com/cleared-dev/stmtconv/internal/model"
	"github.com/cleared-dev/stmtconv/internal/mt940"
	"github.com/cleared-dev/stmtconv/internal/passthrough"
)

// Decoder reads one format and describes what it found.
type Decoder interface {
	Format() Format
	Decode(data []byte) (*Summary, error)
}

// Summary describes a decoded document. Model is the decoded value itself,
// suitable for dumping.
type Summary struct {
	Format     Format
	Statements int
	Entries    int
	Details    []string
	Model      any
}

// Registry holds decoders by format.
type Registry struct {
	decoders map[Format]Decoder
}

// NewRegistry creates an empty decoder registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[Format]Decoder)}
}

// Register adds a decoder. Panics on duplicate format.
func (r *Registry) Register(d Decoder) {
	key := Format(strings.ToLower(string(d.Format())))
	if _, ok := r.decoders[key]; ok {
		panic("duplicate decoder format: " + string(key))
	}
	r.decoders[key] = d
}

// Get returns the decoder for format, or nil.
func (r *Registry) Get(format Format) Decoder {
	return r.decoders[Format(strings.ToLower(string(format)))]
}

// DefaultRegistry returns a registry with all built-in decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(textDecoder{})
	r.Register(camtDecoder{})
	r.Register(xmlDecoder{})
	r.Register(csvDecoder{})
	return r
}

type textDecoder struct{}

func (textDecoder) Format() Format { return MT940 }

func (textDecoder) Decode(data []byte) (*Summary, error) {
	msgs, err := mt940.ParseAll(data)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Format: MT940, Statements: len(msgs), Model: msgs}
	for i, m := range msgs {
		s := &m.Statement
		sum.Entries += len(s.Transactions)
		sum.Details = append(sum.Details, fmt.Sprintf("statement %d: %s account %s, %d lines, opening %s, closing %s",
			i+1, s.Reference, s.Account, len(s.Transactions), describeBalance(s.Opening), describeBalance(s.Closing)))
	}
	return sum, nil
}

func describeBalance(b *model.Balance) string {
	if b == nil {
		return "none"
	}
	return fmt.Sprintf("%s %s %s on %s", b.Sign, b.Amount.StringFixed(2), b.Currency, b.Date.Format(isoDate))
}

type camtDecoder struct{}

func (camtDecoder) Format() Format { return CAMT053 }

func (camtDecoder) Decode(data []byte) (*Summary, error) {
	doc, err := camt053.Parse(data)
	if err != nil {
		return nil, err
	}
	stmts := doc.BkToCstmrStmt.Stmt
	sum := &Summary{Format: CAMT053, Statements: len(stmts), Model: doc}
	for i := range stmts {
		s := &stmts[i]
		sum.Entries += len(s.Ntry)
		sum.Details = append(sum.Details, fmt.Sprintf("statement %d: %s account %s, %d entries, %d balances",
			i+1, s.Id, s.AccountID(), len(s.Ntry), len(s.Bal)))
	}
	return sum, nil
}

type xmlDecoder struct{}

func (xmlDecoder) Format() Format { return XML }

func (xmlDecoder) Decode(data []byte) (*Summary, error) {
	x, err := passthrough.ParseXML(data)
	if err != nil {
		return nil, err
	}
	outline := x.Outline()
	return &Summary{
		Format:  XML,
		Details: []string{fmt.Sprintf("root element %s with %d children", outline.Name, len(outline.Children))},
		Model:   outline,
	}, nil
}

type csvDecoder struct{}

func (csvDecoder) Format() Format { return CSV }

func (csvDecoder) Decode(data []byte) (*Summary, error) {
	t, err := passthrough.ParseCSV(data)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Format:  CSV,
		Entries: len(t.Rows),
		Details: []string{fmt.Sprintf("%d columns: %s", len(t.Header), strings.Join(t.Header, ", "))},
		Model:   t,
	}, nil
}
