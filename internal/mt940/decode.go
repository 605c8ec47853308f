package mt940

import (
	"strings"

	"github.com/cleared-dev/stmtconv/internal/model"
)

// Decode interprets tokenized tags into a Statement. Tags are consumed in
// order; a :86: attaches to the most recently decoded :61:, and repeated
// :86: tags for the same line are joined with "\n". Unrecognized tags, and
// a :86: seen before any :61:, go to Statement.Other.
func Decode(tags []Tag) (*model.Statement, error) {
	stmt := &model.Statement{}

	current := -1     // index of the most recent transaction
	narrated := false // whether current already carries a narrative

	for _, t := range tags {
		switch t.Code {
		case "20":
			stmt.Reference = t.Body
		case "21":
			stmt.RelatedReference = t.Body
		case "25":
			stmt.Account = t.Body
		case "28", "28C":
			stmt.StatementNumber = t.Body
		case "60F", "60M":
			b, err := ParseBalance(t.Code, t.Body, model.RoleOpening)
			if err != nil {
				return nil, err
			}
			stmt.Opening = &b
		case "62F", "62M":
			b, err := ParseBalance(t.Code, t.Body, model.RoleClosing)
			if err != nil {
				return nil, err
			}
			stmt.Closing = &b
		case "64":
			b, err := ParseBalance(t.Code, t.Body, model.RoleClosingAvailable)
			if err != nil {
				return nil, err
			}
			stmt.ClosingAvailable = &b
		case "65":
			b, err := ParseBalance(t.Code, t.Body, model.RoleForwardAvailable)
			if err != nil {
				return nil, err
			}
			stmt.ForwardAvailable = append(stmt.ForwardAvailable, b)
		case "61":
			tx, err := ParseTransaction(t.Body)
			if err != nil {
				return nil, err
			}
			stmt.Transactions = append(stmt.Transactions, tx)
			current, narrated = len(stmt.Transactions)-1, false
		case "86":
			if current < 0 {
				stmt.Other.Add(t.Code, t.Body)
				continue
			}
			text := strings.TrimSpace(t.Body)
			tx := &stmt.Transactions[current]
			if narrated {
				tx.Narrative += "\n" + text
			} else {
				tx.Narrative = text
			}
			narrated = true
		default:
			stmt.Other.Add(t.Code, t.Body)
		}
	}
	return stmt, nil
}
