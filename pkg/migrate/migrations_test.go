package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/camarize/camarize-backend/pkg/migrate"
)

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestCoreMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_core_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS farms",
		"CREATE TABLE IF NOT EXISTS farm_memberships",
		"CREATE UNIQUE INDEX IF NOT EXISTS farm_memberships_user_farm_key",
		"CHECK (role IN ('membro', 'admin', 'master'))",
		"DROP TABLE IF EXISTS farm_memberships",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRequestsMigrationConstrainsStatus(t *testing.T) {
	content := readMigration(t, "*_create_readings_and_requests.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS requests",
		"CHECK (status IN ('pendente', 'aprovado', 'recusado'))",
		"CHECK (type IN ('leve', 'pesada'))",
		"payload            jsonb NOT NULL",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestBackfillMigrationGuardsExistingRows(t *testing.T) {
	content := readMigration(t, "*_backfill_legacy_farm_memberships.sql")

	if !strings.Contains(content, "NOT EXISTS") {
		t.Error("backfill must skip users that already hold a membership")
	}
	if !strings.Contains(content, "legacy_farm_id IS NOT NULL") {
		t.Error("backfill must only touch legacy rows")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
