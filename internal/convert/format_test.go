package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"mt940", MT940},
		{"MT940", MT940},
		{"camt053", CAMT053},
		{"CAMT.053", CAMT053},
		{" camt ", CAMT053},
		{"xml", XML},
		{"Csv", CSV},
		{"auto", Auto},
		{"", Auto},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseFormat_Unknown(t *testing.T) {
	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorContains(t, err, "mt940, camt053, xml, csv")
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"statement text", readFixture(t, "simple.mt940"), MT940},
		{"statement text after whitespace", append([]byte("\r\n  "), readFixture(t, "full.mt940")...), MT940},
		{"statement text after byte order mark", append([]byte("\xef\xbb\xbf"), readFixture(t, "simple.mt940")...), MT940},
		{"statement XML", readFixture(t, "valid1.camt053"), CAMT053},
		{"multi statement XML", readFixture(t, "multi.camt053"), CAMT053},
		{"other XML", []byte(`<?xml version="1.0"?><feed><entry/></feed>`), XML},
		{"broken XML", []byte("<feed><entry></feed>"), CSV},
		{"csv", []byte("date,amount\n2025-01-01,1.00\n"), CSV},
		{"empty", nil, CSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.data))
		})
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(MT940, CAMT053))
	assert.True(t, Supported(CAMT053, MT940))
	assert.True(t, Supported(CAMT053, CSV))
	assert.True(t, Supported(XML, XML))
	assert.False(t, Supported(XML, MT940))
	assert.False(t, Supported(CSV, CAMT053))
	assert.False(t, Supported(Auto, Auto))
	assert.False(t, Supported(MT940, Auto))
}
