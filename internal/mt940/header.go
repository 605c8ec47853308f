package mt940

import (
	"fmt"

	"github.com/cleared-dev/stmtconv/internal/errs"
	"github.com/cleared-dev/stmtconv/internal/model"
)

// BasicHeaderLen is the fixed width of block 1.
const BasicHeaderLen = 25

// ParseBasicHeader splits block 1 into its fixed-width fields.
func ParseBasicHeader(s string) (model.BasicHeader, error) {
	if len(s) != BasicHeaderLen {
		return model.BasicHeader{}, fmt.Errorf("%w: basic header is %d characters, want %d", errs.ErrMalformedEnvelope, len(s), BasicHeaderLen)
	}
	return model.BasicHeader{
		AppID:     s[0:1],
		ServiceID: s[1:3],
		LTAddress: s[3:15],
		Session:   s[15:19],
		Sequence:  s[19:25],
	}, nil
}
