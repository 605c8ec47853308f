package mt940

import (
	"fmt"
	"io"

	"github.com/cleared-dev/stmtconv/internal/errs"
	"github.com/cleared-dev/stmtconv/internal/model"
)

// Parse decodes one text document. Blocks 1, 2 and 4 are mandatory, and the
// statement must carry an opening and a closing balance.
func Parse(data []byte) (*model.Message, error) {
	blocks := SplitBlocks(string(data))
	if blocks.Count() == 0 {
		return nil, fmt.Errorf("%w: no {n:...} blocks found", errs.ErrMalformedEnvelope)
	}

	raw, ok := blocks.Get(BlockBasicHeader)
	if !ok {
		return nil, &errs.BlockError{Name: "basic header"}
	}
	header, err := ParseBasicHeader(raw)
	if err != nil {
		return nil, err
	}

	appHeader, ok := blocks.Get(BlockApplicationHeader)
	if !ok {
		return nil, &errs.BlockError{Name: "application header"}
	}

	text, ok := blocks.Get(BlockText)
	if !ok {
		return nil, &errs.BlockError{Name: "statement"}
	}
	stmt, err := Decode(Tokenize(text))
	if err != nil {
		return nil, err
	}
	if stmt.Opening == nil {
		return nil, &errs.MissingBalanceError{Role: string(model.RoleOpening)}
	}
	if stmt.Closing == nil {
		return nil, &errs.MissingBalanceError{Role: string(model.RoleClosing)}
	}

	userHeader, _ := blocks.Get(BlockUserHeader)
	trailer, _ := blocks.Get(BlockTrailer)

	return &model.Message{
		BasicHeader:       header,
		ApplicationHeader: appHeader,
		UserHeader:        userHeader,
		Statement:         *stmt,
		Trailer:           trailer,
	}, nil
}

// ParseAll decodes a file holding one or more documents back to back, as
// written by WriteAll. Any failure aborts the whole batch.
func ParseAll(data []byte) ([]*model.Message, error) {
	text := string(data)
	starts := messageStarts(text)
	if len(starts) == 0 {
		msg, err := Parse(data)
		if err != nil {
			return nil, err
		}
		return []*model.Message{msg}, nil
	}

	msgs := make([]*model.Message, 0, len(starts))
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		msg, err := Parse([]byte(text[start:end]))
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i+1, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Read reads r to the end and parses it as one document.
func Read(r io.Reader) (*model.Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errs.IOError{Op: "reading statement text", Err: err}
	}
	return Parse(data)
}
