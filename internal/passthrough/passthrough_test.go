package passthrough

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/antchfx/xpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtconv/internal/errs"
)

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV([]byte("date,amount,memo\n2025-01-02,1.00,\"coffee, large\"\n2025-01-03,-4.50,rent\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "amount", "memo"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "coffee, large", table.Rows[0][2])
	assert.Equal(t, 1, table.Column("amount"))
	assert.Equal(t, -1, table.Column("missing"))
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(nil)
	assert.ErrorContains(t, err, "no header row")

	_, err = ParseCSV([]byte("a,b\n1,2,3\n"))
	assert.Error(t, err)

	_, err = ParseCSV([]byte("a,b\n\"unterminated,2\n"))
	assert.Error(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	in := &Table{
		Header: []string{"ref", "text"},
		Rows: [][]string{
			{"1", "plain"},
			{"2", "with, comma"},
			{"3", "with \"quotes\""},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))
	assert.Equal(t, "ref,text\n1,plain\n2,\"with, comma\"\n3,\"with \"\"quotes\"\"\"\n", buf.String())

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

type failingIO struct{}

func (failingIO) Read([]byte) (int, error)  { return 0, errors.New("gone") }
func (failingIO) Write([]byte) (int, error) { return 0, errors.New("gone") }

func TestCSV_IOFailures(t *testing.T) {
	_, err := ReadCSV(failingIO{})
	assert.ErrorIs(t, err, errs.ErrIO)

	err = WriteCSV(failingIO{}, &Table{Header: []string{"a"}})
	assert.ErrorIs(t, err, errs.ErrIO)
}

func TestParseXML(t *testing.T) {
	x, err := ParseXML([]byte(`<?xml version="1.0"?><Document xmlns="urn:x"><A n="1">one</A><A n="2">two</A></Document>`))
	require.NoError(t, err)
	assert.Equal(t, "Document", x.RootName())

	assert.True(t, x.Exists(xpath.MustCompile("//*[local-name()='A']")))
	assert.False(t, x.Exists(xpath.MustCompile("//*[local-name()='B']")))
	assert.Equal(t, 2, x.Count(xpath.MustCompile("//*[local-name()='A']")))
}

func TestParseXML_Errors(t *testing.T) {
	for _, in := range []string{
		"",
		"a,b\n1,2\n",
		"<open><unclosed></open>",
	} {
		_, err := ParseXML([]byte(in))
		assert.Error(t, err, in)
	}

	_, err := ReadXML(failingIO{})
	assert.ErrorIs(t, err, errs.ErrIO)
}

func TestFormat(t *testing.T) {
	in := `<a x="1"><b>t &amp; u</b><c/><d>
   </d><!--note--><e><f>deep</f></e></a>`

	out, err := FormatXML([]byte(in), "  ")
	require.NoError(t, err)
	assert.Equal(t, `<a x="1">
  <b>t &amp; u</b>
  <c/>
  <d/>
  <!--note-->
  <e>
    <f>deep</f>
  </e>
</a>
`, string(out))
}

func TestFormat_KeepsDeclarationAndReparses(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?><r><v>1</v></r>`
	out, err := FormatXML([]byte(in), "\t")
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, `version="1.0"`)
	assert.Contains(t, s, "<r>\n\t<v>1</v>\n</r>\n")

	again, err := FormatXML(out, "\t")
	require.NoError(t, err)
	assert.Equal(t, s, string(again))
}

func TestFormat_DoesNotAddDeclaration(t *testing.T) {
	for _, in := range []string{"<r><v>1</v></r>", "\n  <r><v>1</v></r>"} {
		out, err := FormatXML([]byte(in), "  ")
		require.NoError(t, err)
		assert.Equal(t, "<r>\n  <v>1</v>\n</r>\n", string(out), in)
	}
}

func TestOutline(t *testing.T) {
	x, err := ParseXML([]byte(`<root id="7"><item>  a  </item><item><sub>b</sub></item></root>`))
	require.NoError(t, err)

	assert.Equal(t, Element{
		Name:  "root",
		Attrs: map[string]string{"id": "7"},
		Children: []Element{
			{Name: "item", Text: "a"},
			{Name: "item", Children: []Element{{Name: "sub", Text: "b"}}},
		},
	}, x.Outline())
}
