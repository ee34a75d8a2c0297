package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"hipaa-audit/internal/compliance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTestEnv направляет команды во временную SQLite-базу.
func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "cli admin password")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSeedIsIdempotent(t *testing.T) {
	setTestEnv(t)

	out, err := run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "requirements inserted: 40")
	assert.Contains(t, out, "admin account created: admin")

	out, err = run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "requirements inserted: 0")
	assert.NotContains(t, out, "admin account created")
}

func TestStatsJSON(t *testing.T) {
	setTestEnv(t)
	_, err := run(t, "seed")
	require.NoError(t, err)

	out, err := run(t, "stats")
	require.NoError(t, err)

	var got struct {
		Compliance struct {
			Total       int64   `json:"total"`
			NotAssessed int64   `json:"not_assessed"`
			Percentage  float64 `json:"compliance_percentage"`
		} `json:"compliance"`
		Risks              compliance.RiskBands `json:"risks"`
		BusinessAssociates map[string]int64     `json:"business_associates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, int64(len(compliance.Catalog)), got.Compliance.Total)
	assert.Equal(t, got.Compliance.Total, got.Compliance.NotAssessed)
	assert.Equal(t, 0.0, got.Compliance.Percentage)
	assert.Equal(t, compliance.RiskBands{}, got.Risks)
	assert.Equal(t, map[string]int64{"total": 0, "active": 0}, got.BusinessAssociates)
}

func TestResetRequiresConfirmation(t *testing.T) {
	setTestEnv(t)
	_, err := run(t, "seed")
	require.NoError(t, err)

	_, err = run(t, "reset-requirements")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, err := run(t, "reset-requirements", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "requirements reseeded: 40")
}

func TestCreateUser(t *testing.T) {
	setTestEnv(t)

	out, err := run(t, "create-user", "--username", "auditor", "--email", "a@example.org", "--password", "auditor password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "user created: auditor"))

	_, err = run(t, "create-user", "--username", "auditor", "--password", "auditor password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	t.Setenv("HIPAACTL_PASSWORD", "from environment")
	_, err = run(t, "create-user", "--username", "viewer")
	assert.NoError(t, err)

	_, err = run(t, "create-user")
	assert.Error(t, err)
}
