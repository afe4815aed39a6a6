package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestWalletMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_wallets.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS wallets",
		"CHECK (total_balance = available_balance + withheld_balance)",
		"CREATE TABLE IF NOT EXISTS wallet_transactions",
		"CREATE UNIQUE INDEX ux_wallet_tx_user_type_order",
		"ON wallet_transactions (user_id, transaction_type, order_id)",
		"DROP TABLE IF EXISTS wallet_transactions",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestWithdrawalMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_withdrawal_requests.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS withdrawal_requests",
		"CHECK (amount > 0)",
		"CHECK (net_amount = amount - fee)",
		"DROP TABLE IF EXISTS withdrawal_requests",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSubmissionMigrationCoversWorkflowTables(t *testing.T) {
	content := readMigration(t, "*_create_verification_submissions.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS verification_submissions",
		"CREATE UNIQUE INDEX ux_verification_submissions_marketer",
		"CREATE TABLE IF NOT EXISTS verification_workflow_logs",
		"FOREIGN KEY (submission_id) REFERENCES verification_submissions(id) ON DELETE CASCADE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) < 9 {
		t.Fatalf("expected at least 9 migrations, found %d", len(matches))
	}
}
