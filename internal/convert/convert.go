package convert

import (
	"bytes"
	"io"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/stmtconv/internal/camt053"
	"github.com/cleared-dev/stmtconv/internal/errs"
	"github.com/cleared-dev/stmtconv/internal/mt940"
	"github.com/cleared-dev/stmtconv/internal/passthrough"
)

// Convert converts data from one format to another and returns the complete
// output. An Auto source format is resolved with Detect. Identical source
// and target formats copy the input byte for byte.
func (c *Converter) Convert(data []byte, from, to Format) ([]byte, error) {
	if from == Auto {
		from = Detect(data)
		c.log.WithField("format", from).Debug("detected input format")
	}
	if from == to {
		return bytes.Clone(data), nil
	}
	if !Supported(from, to) {
		return nil, &errs.UnsupportedConversionError{Source: string(from), Target: string(to)}
	}

	log := c.log.WithFields(logrus.Fields{"from": from, "to": to})
	log.Debug("converting")

	switch from {
	case MT940:
		msgs, err := mt940.ParseAll(data)
		if err != nil {
			return nil, err
		}
		switch to {
		case CAMT053:
			doc, err := c.ToCamt(msgs...)
			if err != nil {
				return nil, err
			}
			return camt053.Marshal(doc)
		case XML:
			return TextView(msgs)
		case CSV:
			return tableBytes(TextEntries(msgs))
		}

	case CAMT053:
		doc, err := camt053.Parse(data)
		if err != nil {
			return nil, err
		}
		switch to {
		case MT940:
			msgs, err := c.ToMT940(doc)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if err := mt940.WriteAll(&buf, msgs); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		case XML:
			return CamtView(doc)
		case CSV:
			return tableBytes(CamtEntries(doc))
		}
	}

	return nil, &errs.UnsupportedConversionError{Source: string(from), Target: string(to)}
}

var conversions = map[Format][]Format{
	MT940:   {CAMT053, XML, CSV},
	CAMT053: {MT940, XML, CSV},
}

// Supported reports whether Convert has a path from one format to the other.
func Supported(from, to Format) bool {
	return (from == to && from != Auto) || slices.Contains(conversions[from], to)
}

// ConvertStream reads r to the end, converts it and writes the result to w.
// Nothing is written unless the whole conversion succeeds.
func (c *Converter) ConvertStream(r io.Reader, from Format, w io.Writer, to Format) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &errs.IOError{Op: "reading input", Err: err}
	}
	out, err := c.Convert(data, from, to)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return &errs.IOError{Op: "writing output", Err: err}
	}
	return nil
}

func tableBytes(t *passthrough.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := passthrough.WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
