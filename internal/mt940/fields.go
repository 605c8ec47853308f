package mt940

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtconv/internal/errs"
	"github.com/cleared-dev/stmtconv/internal/model"
)

const (
	wireDateFormat  = "060102"
	entryDateFormat = "0102"
	currencyLen     = 3
	minTypeIDLen    = 3
)

// cursor walks a field body left to right. Grammars read a fixed number of
// characters, validate them, and advance; nothing is revisited.
type cursor struct {
	s   string
	pos int
}

func (c *cursor) rest() string { return c.s[c.pos:] }

func (c *cursor) peek(off int) byte {
	if c.pos+off >= len(c.s) {
		return 0
	}
	return c.s[c.pos+off]
}

// take consumes n characters if available.
func (c *cursor) take(n int) (string, bool) {
	if c.pos+n > len(c.s) {
		return "", false
	}
	out := c.s[c.pos : c.pos+n]
	c.pos += n
	return out, true
}

// digits reports whether the next n characters are all digits.
func (c *cursor) digits(n int) bool {
	if c.pos+n > len(c.s) {
		return false
	}
	for i := 0; i < n; i++ {
		if !isDigit(c.s[c.pos+i]) {
			return false
		}
	}
	return true
}

// span consumes the longest run of characters accepted by ok.
func (c *cursor) span(ok func(byte) bool) string {
	start := c.pos
	for c.pos < len(c.s) && ok(c.s[c.pos]) {
		c.pos++
	}
	return c.s[start:c.pos]
}

func isUpper(b byte) bool       { return b >= 'A' && b <= 'Z' }
func isAmountChar(b byte) bool  { return isDigit(b) || b == ',' }
func isCreditDebit(b byte) bool { return b == 'C' || b == 'D' }

// ParseDate decodes a YYMMDD wire date. Years 00-69 map to 20yy, 70-99 to 19yy.
func ParseDate(s string) (time.Time, error) {
	if len(s) != 6 {
		return time.Time{}, fmt.Errorf("expected YYMMDD, got %q", s)
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return time.Time{}, fmt.Errorf("expected YYMMDD, got %q", s)
		}
	}
	yy := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[2]-'0')*10 + int(s[3]-'0')
	dd := int(s[4]-'0')*10 + int(s[5]-'0')
	return calendarDate(pivotYear(yy), mm, dd, s)
}

func pivotYear(yy int) int {
	if yy <= 69 {
		return 2000 + yy
	}
	return 1900 + yy
}

func calendarDate(year, month, day int, raw string) (time.Time, error) {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", raw)
	}
	return d, nil
}

// ParseAmount decodes a wire amount using ',' as the decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" || strings.Count(s, ",") > 1 || strings.Trim(s, ",") == "" {
		return decimal.Decimal{}, fmt.Errorf("malformed amount %q", s)
	}
	for i := 0; i < len(s); i++ {
		if !isAmountChar(s[i]) {
			return decimal.Decimal{}, fmt.Errorf("malformed amount %q", s)
		}
	}
	norm := strings.Replace(s, ",", ".", 1)
	norm = strings.TrimSuffix(norm, ".")
	if strings.HasPrefix(norm, ".") {
		norm = "0" + norm
	}
	d, err := decimal.NewFromString(norm)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("malformed amount %q: %w", s, err)
	}
	return d, nil
}

// FormatAmount renders an amount in wire form with two decimals, e.g. "250,00".
func FormatAmount(d decimal.Decimal) string {
	return strings.Replace(d.Abs().StringFixed(2), ".", ",", 1)
}

// ParseBalance decodes a balance body: sign, YYMMDD date, 3-letter
// currency, amount.
func ParseBalance(tag, body string, role model.BalanceRole) (model.Balance, error) {
	fail := func(reason string, cause error) (model.Balance, error) {
		return model.Balance{}, &errs.FieldError{Kind: errs.ErrInvalidBalance, Tag: tag, Raw: body, Reason: reason, Cause: cause}
	}

	c := cursor{s: strings.TrimSpace(body)}

	sign, ok := c.take(1)
	if !ok {
		return fail("missing debit/credit sign", nil)
	}
	if !isCreditDebit(sign[0]) {
		return fail(fmt.Sprintf("sign %q is not C or D", sign), errs.ErrInvalidIndicator)
	}

	rawDate, ok := c.take(6)
	if !ok {
		return fail("missing date", nil)
	}
	date, err := ParseDate(rawDate)
	if err != nil {
		return fail(err.Error(), nil)
	}

	currency, ok := c.take(currencyLen)
	if !ok || !isUpper(currency[0]) || !isUpper(currency[1]) || !isUpper(currency[2]) {
		return fail("missing or malformed currency code", nil)
	}

	amountText := c.rest()
	amount, err := ParseAmount(amountText)
	if err != nil {
		return fail(err.Error(), nil)
	}

	return model.Balance{
		Tag:        tag,
		Role:       role,
		Sign:       model.Sign(sign),
		Date:       date,
		Currency:   currency,
		Amount:     amount,
		AmountText: amountText,
		Raw:        body,
	}, nil
}

// FormatBalance renders a balance body in the grammar ParseBalance reads.
func FormatBalance(b model.Balance) string {
	amount := b.AmountText
	if amount == "" {
		amount = FormatAmount(b.Amount)
	}
	return string(b.Sign) + b.Date.Format(wireDateFormat) + b.Currency + amount
}

// ParseTransaction decodes a statement line body:
//
//	value date (6) [entry date (4)] mark (C|D|RC|RD) [funds code (1)] amount rest
//
// The rest splits on the first "//" into type identifier and reference;
// without "//" its first 3 characters are the type identifier and the
// remainder is supplementary text.
func ParseTransaction(body string) (model.Transaction, error) {
	fail := func(reason string, cause error) (model.Transaction, error) {
		return model.Transaction{}, &errs.FieldError{Kind: errs.ErrInvalidTransaction, Tag: "61", Raw: body, Reason: reason, Cause: cause}
	}

	c := cursor{s: strings.ReplaceAll(body, "\n", "")}

	if !c.digits(6) {
		return fail("missing value date", nil)
	}
	rawValue, _ := c.take(6)
	valueDate, err := ParseDate(rawValue)
	if err != nil {
		return fail(err.Error(), nil)
	}

	var entryDate time.Time
	if c.digits(4) {
		rawEntry, _ := c.take(4)
		mm := int(rawEntry[0]-'0')*10 + int(rawEntry[1]-'0')
		dd := int(rawEntry[2]-'0')*10 + int(rawEntry[3]-'0')
		if d, err := calendarDate(valueDate.Year(), mm, dd, rawEntry); err == nil {
			entryDate = d
		}
	}

	var mark string
	switch {
	case c.peek(0) == 'R' && isCreditDebit(c.peek(1)):
		mark, _ = c.take(2)
	case isCreditDebit(c.peek(0)):
		mark, _ = c.take(1)
	default:
		return fail("missing debit/credit mark", errs.ErrInvalidIndicator)
	}

	var funds string
	if isUpper(c.peek(0)) {
		funds, _ = c.take(1)
	}

	amountText := c.span(isAmountChar)
	amount, err := ParseAmount(amountText)
	if err != nil {
		return fail(err.Error(), nil)
	}

	tx := model.Transaction{
		ValueDate:  valueDate,
		EntryDate:  entryDate,
		Mark:       mark,
		FundsCode:  funds,
		Amount:     amount,
		AmountText: amountText,
		Raw:        body,
	}

	rest := strings.TrimSpace(c.rest())
	if before, after, found := strings.Cut(rest, "//"); found {
		if len(before) >= minTypeIDLen {
			tx.TypeID = before
		}
		tx.Reference = after
	} else if len(rest) >= minTypeIDLen {
		tx.TypeID = rest[:minTypeIDLen]
		tx.Supplementary = strings.TrimSpace(rest[minTypeIDLen:])
	} else {
		tx.Supplementary = rest
	}
	return tx, nil
}

// FormatTransaction renders a statement line body in the grammar
// ParseTransaction reads.
func FormatTransaction(t model.Transaction) string {
	var b strings.Builder
	b.WriteString(t.ValueDate.Format(wireDateFormat))
	if t.HasEntryDate() {
		b.WriteString(t.EntryDate.Format(entryDateFormat))
	}
	b.WriteString(t.Mark)
	b.WriteString(t.FundsCode)
	if t.AmountText != "" {
		b.WriteString(t.AmountText)
	} else {
		b.WriteString(FormatAmount(t.Amount))
	}
	b.WriteString(t.TypeID)
	if t.Reference != "" {
		b.WriteString("//")
		b.WriteString(t.Reference)
	} else {
		b.WriteString(t.Supplementary)
	}
	return b.String()
}
