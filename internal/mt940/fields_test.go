package mt940

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtconv/internal/errs"
	"github.com/cleared-dev/stmtconv/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate_Pivot(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"251020", day(2025, time.October, 20)},
		{"000101", day(2000, time.January, 1)},
		{"690101", day(2069, time.January, 1)},
		{"700101", day(1970, time.January, 1)},
		{"991231", day(1999, time.December, 31)},
		{"240229", day(2024, time.February, 29)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "ParseDate(%q) = %v", tt.in, got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "2510", "2510201", "25a020", "251320", "250230", "251000"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10000,00", "10000"},
		{"250,", "250"},
		{",5", "0.5"},
		{"12", "12"},
		{"1489,50", "1489.5"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "ParseAmount(%q) = %s", tt.in, got)
	}

	for _, bad := range []string{"", ",", "1,2,3", "12a", "1.00", "-5"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "250,00", FormatAmount(decimal.RequireFromString("250")))
	assert.Equal(t, "1489,50", FormatAmount(decimal.RequireFromString("1489.5")))
	assert.Equal(t, "250,00", FormatAmount(decimal.RequireFromString("-250")))
}

func TestParseBalance(t *testing.T) {
	b, err := ParseBalance("60F", "C251020EUR10000,00", model.RoleOpening)
	require.NoError(t, err)

	assert.Equal(t, "60F", b.Tag)
	assert.Equal(t, model.RoleOpening, b.Role)
	assert.Equal(t, model.SignCredit, b.Sign)
	assert.True(t, day(2025, time.October, 20).Equal(b.Date))
	assert.Equal(t, "EUR", b.Currency)
	assert.Equal(t, "10000,00", b.AmountText)
	assert.True(t, decimal.NewFromInt(10000).Equal(b.Amount))
	assert.Equal(t, "C251020EUR10000,00", b.Raw)
}

func TestParseBalance_Debit(t *testing.T) {
	b, err := ParseBalance("62M", " D991231USD0,5 ", model.RoleClosing)
	require.NoError(t, err)
	assert.Equal(t, model.SignDebit, b.Sign)
	assert.Equal(t, 1999, b.Date.Year())
	assert.Equal(t, "0,5", b.AmountText)
}

func TestParseBalance_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		indicator bool
	}{
		{"empty", "", false},
		{"bad sign", "X251020EUR1,00", true},
		{"short date", "C2510", false},
		{"bad date", "C251340EUR1,00", false},
		{"short currency", "C251020EU", false},
		{"lowercase currency", "C251020eur1,00", false},
		{"missing amount", "C251020EUR", false},
		{"two commas", "C251020EUR1,0,0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBalance("60F", tt.body, model.RoleOpening)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrInvalidBalance)
			assert.Equal(t, tt.indicator, errors.Is(err, errs.ErrInvalidIndicator))

			var fe *errs.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.body, fe.Raw)
			assert.Equal(t, "60F", fe.Tag)
		})
	}
}

func TestFormatBalance(t *testing.T) {
	b, err := ParseBalance("60F", "C251020EUR10000,00", model.RoleOpening)
	require.NoError(t, err)
	assert.Equal(t, "C251020EUR10000,00", FormatBalance(b))

	b.AmountText = ""
	b.Amount = decimal.RequireFromString("10.5")
	assert.Equal(t, "C251020EUR10,50", FormatBalance(b))
}

func TestParseTransaction(t *testing.T) {
	tx, err := ParseTransaction("2510211021D250,00NTRFNONREF//BKNTRX0001")
	require.NoError(t, err)

	assert.True(t, day(2025, time.October, 21).Equal(tx.ValueDate))
	assert.True(t, tx.HasEntryDate())
	assert.True(t, day(2025, time.October, 21).Equal(tx.EntryDate))
	assert.Equal(t, "D", tx.Mark)
	assert.True(t, tx.IsDebit())
	assert.Empty(t, tx.FundsCode)
	assert.True(t, decimal.NewFromInt(250).Equal(tx.Amount))
	assert.Equal(t, "250,00", tx.AmountText)
	assert.Equal(t, "NTRFNONREF", tx.TypeID)
	assert.Equal(t, "BKNTRX0001", tx.Reference)
	assert.Empty(t, tx.Supplementary)
}

func TestParseTransaction_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		mark   string
		funds  string
		amount string
		typeID string
		ref    string
		supp   string
		entry  bool
	}{
		{"no entry date", "251021C100,00NMSC", "C", "", "100", "NMS", "", "C", false},
		{"funds code", "2510211021CR1000,00NTRFREF", "C", "R", "1000", "NTR", "", "FREF", true},
		{"reversal", "2510211021RD50,00NTRFX//Y", "RD", "", "50", "NTRFX", "Y", "", true},
		{"reversal credit", "251021RC1,NMSC", "RC", "", "1", "NMS", "", "C", false},
		{"short rest", "251021D5,00AB", "D", "", "5", "", "", "AB", false},
		{"short type before ref", "251021D5,00AB//REF1", "D", "", "5", "", "REF1", "", false},
		{"invalid entry date", "2510211340D5,00NTRF", "D", "", "5", "NTR", "", "F", false},
		{"continuation line", "2510211021D250,00NTRF\nNONREF//X", "D", "", "250", "NTRFNONREF", "X", "", true},
		{"nothing after amount", "251021C7,25", "C", "", "7.25", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := ParseTransaction(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.mark, tx.Mark)
			assert.Equal(t, tt.funds, tx.FundsCode)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(tx.Amount), "amount %s", tx.Amount)
			assert.Equal(t, tt.typeID, tx.TypeID)
			assert.Equal(t, tt.ref, tx.Reference)
			assert.Equal(t, tt.supp, tx.Supplementary)
			assert.Equal(t, tt.entry, tx.HasEntryDate())
			assert.Equal(t, tt.body, tx.Raw)
		})
	}
}

func TestParseTransaction_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		indicator bool
	}{
		{"empty", "", false},
		{"bad value date", "2510X1D5,00NTRF", false},
		{"impossible value date", "251321D5,00NTRF", false},
		{"missing mark", "251021X5,00NTRF", true},
		{"missing amount", "251021D", false},
		{"funds code without amount", "251021DNTRF", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTransaction(tt.body)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrInvalidTransaction)
			assert.Equal(t, tt.indicator, errors.Is(err, errs.ErrInvalidIndicator))

			var fe *errs.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "61", fe.Tag)
			assert.Equal(t, tt.body, fe.Raw)
		})
	}
}

func TestFormatTransaction_RoundTrip(t *testing.T) {
	for _, body := range []string{
		"2510211021D250,00NTRFNONREF//BKNTRX0001",
		"251021C100,00NMSC",
		"2510211021CR1000,00NTRFREF",
		"2510211021RD50,00NTRFX//Y",
		"251021D5,00AB",
		"2502180218D12,01NTRFGSLNVSHSUTKWDR//GI2504900007841",
	} {
		tx, err := ParseTransaction(body)
		require.NoError(t, err, body)
		assert.Equal(t, body, FormatTransaction(tx))
	}
}

func TestFormatTransaction_FromFields(t *testing.T) {
	tx := model.Transaction{
		ValueDate: day(2025, time.October, 21),
		Mark:      "C",
		Amount:    decimal.RequireFromString("1489.5"),
		TypeID:    "NMSC",
		Reference: "NONREF",
	}
	assert.Equal(t, "251021C1489,50NMSC//NONREF", FormatTransaction(tx))
}
