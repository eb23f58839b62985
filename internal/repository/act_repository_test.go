package repository

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nurpe/smeta-acts/internal/model"
)

// dryRunDB открывает gorm без подключения к базе: SQL собирается, но не
// исполняется, что позволяет проверять итоговый текст запросов.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestConsumptionColumn(t *testing.T) {
	if got := consumptionColumn(model.ActTypeClient); got != "last_client_act_id" {
		t.Errorf("consumptionColumn(CLIENT) = %q", got)
	}
	if got := consumptionColumn(model.ActTypeSpecialist); got != "last_specialist_act_id" {
		t.Errorf("consumptionColumn(SPECIALIST) = %q", got)
	}
}

func TestEligibleWorksSQLScopedByActType(t *testing.T) {
	client := eligibleWorksSQL(model.ActTypeClient)
	if !strings.Contains(client, "wc.last_client_act_id IS NULL") {
		t.Errorf("client query does not filter by client consumption:\n%s", client)
	}
	if strings.Contains(client, "last_specialist_act_id") {
		t.Errorf("client query must not look at specialist consumption:\n%s", client)
	}

	specialist := eligibleWorksSQL(model.ActTypeSpecialist)
	if !strings.Contains(specialist, "wc.last_specialist_act_id IS NULL") {
		t.Errorf("specialist query does not filter by specialist consumption:\n%s", specialist)
	}
	if strings.Contains(specialist, "last_client_act_id") {
		t.Errorf("specialist query must not look at client consumption:\n%s", specialist)
	}
}

// Список позиций должен раскрываться в перечисление скалярных
// плейсхолдеров: срез, подставленный как один параметр в ANY(...),
// даёт некорректный SQL вида ANY($3,$4).
func TestConsumeRecordsSQLExpandsItemList(t *testing.T) {
	db := dryRunDB(t)

	consumed := []uuid.UUID{uuid.New(), uuid.New()}
	tx := db.Session(&gorm.Session{DryRun: true}).
		Exec(consumeRecordsSQL(model.ActTypeClient), uuid.New(), uuid.New(), consumed)
	if tx.Error != nil {
		t.Fatalf("build statement: %v", tx.Error)
	}

	sql := tx.Statement.SQL.String()
	if strings.Contains(sql, "ANY") {
		t.Errorf("rendered SQL uses ANY over an expanded list:\n%s", sql)
	}
	if !strings.Contains(sql, "IN ($3,$4)") {
		t.Errorf("item list did not expand into scalar placeholders:\n%s", sql)
	}
	if !strings.Contains(sql, "SET last_client_act_id = $1") {
		t.Errorf("client act must write the client consumption column:\n%s", sql)
	}
	if len(tx.Statement.Vars) != 4 {
		t.Errorf("statement vars = %d, want 4 scalars", len(tx.Statement.Vars))
	}
}
