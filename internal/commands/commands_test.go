package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtconv/internal/commands"
	"github.com/cleared-dev/stmtconv/internal/config"
	"github.com/cleared-dev/stmtconv/internal/convert"
	"github.com/cleared-dev/stmtconv/internal/errs"
)

const testdata = "../../testdata/"

type result struct {
	stdout string
	stderr string
	err    error
}

func runStmtconv(t *testing.T, stdin []byte, args ...string) result {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestVersion(t *testing.T) {
	r := runStmtconv(t, nil, "--version")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "dev (commit: none, built: unknown)")
}

func TestConvert_FileToStdout(t *testing.T) {
	r := runStmtconv(t, nil, "convert", "-i", testdata+"simple.mt940", "--out-format", "camt053")
	require.NoError(t, r.err, r.stderr)

	assert.Equal(t, convert.CAMT053, convert.Detect([]byte(r.stdout)))
	assert.Contains(t, r.stdout, "<MsgId>STAT202510210001</MsgId>")
	assert.Contains(t, r.stderr, "assuming configured default")
}

func TestConvert_StdinToFile(t *testing.T) {
	src, err := os.ReadFile(testdata + "valid1.camt053")
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "statement.sta")

	r := runStmtconv(t, src, "convert", "--in-format", "camt053", "--out-format", "mt940", "-o", out)
	require.NoError(t, r.err, r.stderr)
	assert.Empty(t, r.stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("{1:")))
}

func TestConvert_FailureWritesNoFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "statement.sta")

	r := runStmtconv(t, nil, "convert", "-i", testdata+"missing_clbd.camt053", "--out-format", "mt940", "-o", out)
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, errs.ErrMissingBalance)
	assert.Contains(t, r.stderr, "CLBD")

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestConvert_SameFormatCopies(t *testing.T) {
	src, err := os.ReadFile(testdata + "simple.mt940")
	require.NoError(t, err)

	r := runStmtconv(t, src, "convert", "--in-format", "mt940", "--out-format", "mt940")
	require.NoError(t, r.err)
	assert.Equal(t, string(src), r.stdout)
}

func TestConvert_FlagErrors(t *testing.T) {
	r := runStmtconv(t, nil, "convert", "-i", testdata+"simple.mt940")
	assert.ErrorContains(t, r.err, "out-format")

	r = runStmtconv(t, nil, "convert", "-i", testdata+"simple.mt940", "--out-format", "ofx")
	assert.ErrorIs(t, r.err, convert.ErrUnknownFormat)

	r = runStmtconv(t, nil, "convert", "-i", testdata+"simple.mt940", "--out-format", "auto")
	assert.ErrorContains(t, r.err, "must name a target format")

	r = runStmtconv(t, nil, "convert", "-i", filepath.Join(t.TempDir(), "absent"), "--out-format", "camt053")
	assert.ErrorContains(t, r.err, "opening input")

	r = runStmtconv(t, nil, "convert", "-i", testdata+"simple.mt940", "--out-format", "camt053", "--log-level", "loud")
	assert.ErrorContains(t, r.err, "log level")
}

func TestConvert_Unsupported(t *testing.T) {
	r := runStmtconv(t, []byte("a,b\n1,2\n"), "convert", "--out-format", "mt940")
	assert.ErrorIs(t, r.err, errs.ErrUnsupportedConversion)
	assert.Empty(t, r.stdout)
}

func TestLogging_Verbose(t *testing.T) {
	r := runStmtconv(t, nil, "-v", "convert", "-i", testdata+"simple.mt940", "--out-format", "csv")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "level=debug")
	assert.Contains(t, r.stderr, "detected input format")
	assert.True(t, strings.HasPrefix(r.stdout, convert.EntryHeader+"\n"))
}

func TestLogging_JSON(t *testing.T) {
	r := runStmtconv(t, nil, "--log-format", "json", "convert", "-i", testdata+"simple.mt940", "--out-format", "camt053")
	require.NoError(t, r.err)

	line, _, _ := strings.Cut(r.stderr, "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "EUR", entry["currency"])
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	cfg := config.Default()
	cfg.Defaults.Currency = "CHF"
	cfg.Logging.Level = "error"
	require.NoError(t, config.Save(path, cfg))

	r := runStmtconv(t, nil, "--config", path, "convert", "-i", testdata+"simple.mt940", "--out-format", "camt053")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "<Ccy>CHF</Ccy>")
	assert.Empty(t, r.stderr, "warnings are below the configured level")

	r = runStmtconv(t, nil, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "validate", "-i", testdata+"simple.mt940")
	assert.ErrorContains(t, r.err, "reading config")
}

func TestValidate_Summary(t *testing.T) {
	r := runStmtconv(t, nil, "validate", "-i", testdata+"simple.mt940")
	require.NoError(t, r.err)
	assert.Equal(t, "valid mt940 document: 1 statements, 2 entries\n"+
		"  statement 1: STAT202510210001 account NL91ABNA0417164300, 2 lines, opening C 10000.00 EUR on 2025-10-20, closing C 11239.50 EUR on 2025-10-21\n",
		r.stdout)
}

func TestValidate_DetectsFormat(t *testing.T) {
	src, err := os.ReadFile(testdata + "multi.camt053")
	require.NoError(t, err)

	r := runStmtconv(t, src, "validate")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "valid camt053 document: 2 statements, 2 entries\n"))
}

func TestValidate_Dump(t *testing.T) {
	r := runStmtconv(t, nil, "validate", "--dump", "-i", testdata+"simple.mt940")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "reference: STAT202510210001")
	assert.Contains(t, r.stdout, "account: NL91ABNA0417164300")
}

func TestValidate_Invalid(t *testing.T) {
	r := runStmtconv(t, nil, "validate", "--format", "camt053", "-i", testdata+"simple.mt940")
	assert.ErrorContains(t, r.err, "invalid camt053 document")
	assert.ErrorIs(t, r.err, errs.ErrMalformedEnvelope)

	r = runStmtconv(t, nil, "validate", "--format", "pdf", "-i", testdata+"simple.mt940")
	assert.ErrorIs(t, r.err, convert.ErrUnknownFormat)
}

func TestServe_BadAddress(t *testing.T) {
	r := runStmtconv(t, nil, "serve", "--addr", "no-port")
	assert.ErrorContains(t, r.err, "serving no-port")
}

func TestInit_WritesConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")

	r := runStmtconv(t, nil, "init", dir, "--currency", "usd")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Initialized stmtconv config at")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Defaults.Currency)
	assert.Equal(t, config.Default().Placeholders, cfg.Placeholders)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runStmtconv(t, nil, "init", dir).err)

	r := runStmtconv(t, nil, "init", dir, "--currency", "GBP")
	assert.ErrorContains(t, r.err, "already exists")

	require.NoError(t, runStmtconv(t, nil, "init", dir, "--currency", "GBP", "--force").err)
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "GBP", cfg.Defaults.Currency)
}

func TestInit_InvalidCurrency(t *testing.T) {
	dir := t.TempDir()
	r := runStmtconv(t, nil, "init", dir, "--currency", "euro")
	assert.ErrorContains(t, r.err, "defaults.currency")

	_, err := os.Stat(filepath.Join(dir, config.FileName))
	assert.True(t, os.IsNotExist(err))
}
