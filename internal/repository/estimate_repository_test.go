package repository

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/smeta-acts/internal/model"
)

// Пересохранение сметы не должно трогать позиции, оставшиеся в составе:
// на estimate_items каскадом завязан журнал выполнения, и полное
// удаление с перевставкой стёрло бы его при каждом применении
// коэффициента или сбросе цен.
func TestSaveItemsSQLPreservesSurvivingRows(t *testing.T) {
	if !strings.Contains(upsertItemSQL, "ON CONFLICT (id) DO UPDATE") {
		t.Errorf("item save must update in place by id:\n%s", upsertItemSQL)
	}
	if strings.Contains(upsertItemSQL, "DELETE") {
		t.Errorf("item save must not delete rows:\n%s", upsertItemSQL)
	}
	if !strings.Contains(deleteRemovedItemsSQL, "id NOT IN (?)") {
		t.Errorf("cleanup must only remove items absent from the payload:\n%s", deleteRemovedItemsSQL)
	}
}

func TestDeleteRemovedItemsSQLExpandsKeepList(t *testing.T) {
	db := dryRunDB(t)

	keep := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	tx := db.Session(&gorm.Session{DryRun: true}).Exec(deleteRemovedItemsSQL, uuid.New(), keep)
	if tx.Error != nil {
		t.Fatalf("build statement: %v", tx.Error)
	}

	sql := tx.Statement.SQL.String()
	if !strings.Contains(sql, "NOT IN ($2,$3,$4)") {
		t.Errorf("keep list did not expand into scalar placeholders:\n%s", sql)
	}
}

func TestSectionTotalRoundsToKopecks(t *testing.T) {
	items := []model.WorkItem{
		{Total: 0.1},
		{Total: 0.2, Materials: []model.Material{{Total: 0.3}}},
	}
	// 0.1 + 0.2 + 0.3 в float64 даёт 0.6000000000000001
	if got := sectionTotal(items); got != 0.6 {
		t.Errorf("sectionTotal = %v, want 0.6", got)
	}

	if got := sectionTotal(nil); got != 0 {
		t.Errorf("sectionTotal(nil) = %v, want 0", got)
	}
}
