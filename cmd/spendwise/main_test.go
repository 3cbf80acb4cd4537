package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260301120000[0:GMT]
<DTEND>20260331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260302120000[0:GMT]
<TRNAMT>-60.00
<FITID>A1
<NAME>ELECTRICITY BILL
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260303120000[0:GMT]
<TRNAMT>-18.00
<FITID>A2
<NAME>NETFLIX.COM
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260304120000[0:GMT]
<TRNAMT>2500.00
<FITID>A3
<NAME>PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20260331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

var userIDPattern = regexp.MustCompile(`User id: ([0-9a-f-]{36})`)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func setupCLI(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("SPENDWISE_DATABASE_PATH", filepath.Join(dir, "spendwise.db"))
	t.Setenv("SPENDWISE_LLM_PROVIDER", "")
	t.Setenv("SPENDWISE_USER", "")
	cfgFile = ""
}

func TestCLI_ExpenseWorkflow(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "users", "create", "ann@example.com", "Ann Lee")
	require.NoError(t, err)
	match := userIDPattern.FindStringSubmatch(out)
	require.Len(t, match, 2, out)
	user := match[1]
	assert.Contains(t, out, "Grocery")

	out, err = run(t, "expenses", "add", "12.40", "uber", "ride", "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "under Transport")

	out, err = run(t, "expenses", "add", "30", "dinner", "--category", "food", "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "under Food")

	out, err = run(t, "expenses", "list", "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "uber ride")
	assert.Contains(t, out, "12.40")

	out, err = run(t, "categorize", "electricity bill payment", "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "Utilities")

	out, err = run(t, "report", "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 42.40 across 2 expenses")

	out, err = run(t, "categories", "delete", "Transport", "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "Moved 1 expenses to Other")

	_, err = run(t, "categories", "delete", "Other", "--user", user)
	assert.Error(t, err)

	out, err = run(t, "categories", "list", "--user", user)
	require.NoError(t, err)
	assert.NotContains(t, out, "Transport")
	assert.Contains(t, out, "(default)")
}

func TestCLI_Import(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "users", "create", "bo@example.com", "Bo")
	require.NoError(t, err)
	user := userIDPattern.FindStringSubmatch(out)[1]

	path := filepath.Join(t.TempDir(), "march.ofx")
	require.NoError(t, os.WriteFile(path, []byte(statementOFX), 0o600))

	out, err = run(t, "import", path, "--dry-run", "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "2 debits would be imported")

	out, err = run(t, "import", path, "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 expenses (0 duplicates, 1 credits skipped, 0 failed)")
	assert.Contains(t, out, "Entertainment: 1")
	assert.Contains(t, out, "Utilities: 1")

	out, err = run(t, "import", path, "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 expenses (2 duplicates")
}

func TestCLI_Errors(t *testing.T) {
	setupCLI(t)

	_, err := run(t, "expenses", "list")
	assert.ErrorContains(t, err, "no user selected")

	_, err = run(t, "expenses", "add", "abc", "lunch", "--user", "nobody")
	assert.ErrorContains(t, err, "invalid amount")

	_, err = run(t, "report", "--months", "13", "--user", "nobody")
	assert.Error(t, err)

	_, err = run(t, "import", filepath.Join(t.TempDir(), "missing-*.ofx"))
	assert.ErrorContains(t, err, "no files found")
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "spendwise dev")
}
