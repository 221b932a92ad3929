package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dues/internal/calculator"
	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/service"
	"github.com/mmynk/dues/internal/storage/sqlite"
	"github.com/mmynk/dues/internal/storage/storagetest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func useSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dues.db")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", path)
	t.Setenv("AMQP_URL", "")
	t.Setenv("PORT", "")
	return path
}

func TestVersion(t *testing.T) {
	// Invalid configuration must not matter for version.
	t.Setenv("PORT", "abc")

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dues dev")
}

func TestInvalidConfig(t *testing.T) {
	useSQLite(t)
	t.Setenv("PORT", "abc")

	_, err := run(t, "settle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 'abc'")
}

func TestMigrate(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite schema at version 1")

	t.Setenv("DATA_BACKEND", "memory")
	out, err = run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to migrate")
}

func TestSettle(t *testing.T) {
	path := useSQLite(t)

	out, err := run(t, "settle")
	require.NoError(t, err)
	assert.Contains(t, out, "No dues to settle")

	store, err := sqlite.New(path)
	require.NoError(t, err)
	alice := storagetest.AddMember(t, store, "Alice")
	bob := storagetest.AddMember(t, store, "Bob")
	carol := storagetest.AddMember(t, store, "Carol")
	storagetest.AddExpense(t, store, alice, "Dinner", 1, map[*models.Member]string{
		alice: "30", bob: "30", carol: "30",
	})
	require.NoError(t, store.Close())

	out, err = run(t, "settle", "--balances")
	require.NoError(t, err)
	assert.Regexp(t, `Bob\s+pays\s+Alice\s+30\.00`, out)
	assert.Regexp(t, `Carol\s+pays\s+Alice\s+30\.00`, out)
	assert.Regexp(t, `Alice\s+60\.00\s+0\.00\s+60\.00`, out)
}

func TestPrintDues_GroupedByDebtor(t *testing.T) {
	ref := func(id, name string) models.MemberRef { return models.MemberRef{ID: id, Name: name} }
	alice, bob, carol := ref("id-3", "Alice"), ref("id-1", "Bob"), ref("id-2", "Carol")

	dues := &service.Dues{
		Balances: []models.MemberBalance{{Member: alice}, {Member: bob}, {Member: carol}},
		Settlements: []calculator.Settlement{
			{From: carol.ID, To: alice.ID, Amount: decimal.RequireFromString("5")},
			{From: bob.ID, To: alice.ID, Amount: decimal.RequireFromString("10")},
			{From: bob.ID, To: carol.ID, Amount: decimal.RequireFromString("1")},
		},
	}

	var out bytes.Buffer
	require.NoError(t, printDues(&out, dues, 2, false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^Bob\s+pays\s+Alice\s+10\.00$`, lines[0])
	assert.Regexp(t, `^Bob\s+pays\s+Carol\s+1\.00$`, lines[1])
	assert.Regexp(t, `^Carol\s+pays\s+Alice\s+5\.00$`, lines[2])
}
