package db

import (
	"strings"
	"testing"
)

func findStatement(t *testing.T, table string) string {
	t.Helper()
	for _, stmt := range migrationStatements {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+table) {
			return stmt
		}
	}
	t.Fatalf("no CREATE TABLE statement for %s", table)
	return ""
}

// Потребление отслеживается отдельной колонкой на каждый тип акта,
// иначе генерация одного типа затирала бы потребление другого.
func TestWorkCompletionsTrackConsumptionPerActType(t *testing.T) {
	stmt := findStatement(t, "work_completions")
	for _, col := range []string{
		"last_client_act_id UUID REFERENCES completion_acts(id) ON DELETE SET NULL",
		"last_specialist_act_id UUID REFERENCES completion_acts(id) ON DELETE SET NULL",
	} {
		if !strings.Contains(stmt, col) {
			t.Errorf("work_completions is missing column %q:\n%s", col, stmt)
		}
	}
	if strings.Contains(stmt, "last_act_id UUID") {
		t.Errorf("work_completions must not carry a shared consumption column:\n%s", stmt)
	}
}
