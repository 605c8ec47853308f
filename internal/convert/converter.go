// Package convert maps statements between the tag/block text format and
// the nested XML format, and dispatches conversions between every format
// the tool reads and writes.
package convert

import (
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/stmtconv/internal/config"
	"github.com/cleared-dev/stmtconv/internal/logging"
)

const (
	isoDate  = "2006-01-02"
	wireDate = "060102"
)

// Converter holds the defaults and placeholders applied where one format
// carries information the other does not. A Converter holds no mutable
// state and may be shared between goroutines.
type Converter struct {
	cfg *config.Config
	log logrus.FieldLogger
}

// New returns a Converter. A nil cfg selects config.Default and a nil log
// discards all output.
func New(cfg *config.Config, log logrus.FieldLogger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Converter{cfg: cfg, log: log}
}
