package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/smeta-acts/internal/catalog"
	"github.com/nurpe/smeta-acts/internal/model"
)

type fakeCatalog struct {
	works     map[uuid.UUID]*catalog.Work
	materials map[uuid.UUID][]catalog.WorkMaterial
}

func (f *fakeCatalog) Work(_ context.Context, id uuid.UUID) (*catalog.Work, error) {
	work, ok := f.works[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return work, nil
}

func (f *fakeCatalog) WorkMaterials(_ context.Context, id uuid.UUID) ([]catalog.WorkMaterial, error) {
	return f.materials[id], nil
}

func seedEstimate(store *fakeEstimateStore, tenantID uuid.UUID, price float64) uuid.UUID {
	estimateID := uuid.New()
	store.estimates[estimateID] = &model.Estimate{
		ID:       estimateID,
		TenantID: tenantID,
		Name:     "Отделка квартиры",
		Sections: []model.Section{
			{
				Phase: "Фаза 1",
				Items: []model.WorkItem{
					{
						Code:      "2-20",
						Name:      "Монтаж перегородок",
						Quantity:  10,
						UnitPrice: price,
						Total:     10 * price,
						Phase:     "Фаза 1",
					},
				},
			},
		},
	}
	return estimateID
}

func TestSaveValidation(t *testing.T) {
	store := newFakeEstimateStore()
	svc := NewEstimateService(store, &fakeCatalog{})
	tenantID := uuid.New()

	if _, err := svc.Save(context.Background(), viewer(tenantID), &model.Estimate{Name: "x"}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("viewer error = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.Save(context.Background(), estimator(tenantID), &model.Estimate{Name: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank name error = %v, want ErrInvalidInput", err)
	}
}

func TestSaveStampsTenantAndStatus(t *testing.T) {
	store := newFakeEstimateStore()
	svc := NewEstimateService(store, &fakeCatalog{})
	principal := estimator(uuid.New())

	saved, err := svc.Save(context.Background(), principal, &model.Estimate{Name: "Новая смета"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.TenantID != principal.TenantID {
		t.Error("tenant was not stamped from principal")
	}
	if saved.Status != model.EstimateStatusDraft {
		t.Errorf("status = %s, want DRAFT default", saved.Status)
	}
}

func TestSaveSortsSections(t *testing.T) {
	store := newFakeEstimateStore()
	svc := NewEstimateService(store, &fakeCatalog{})
	principal := estimator(uuid.New())

	est := &model.Estimate{
		Name: "Смета",
		Sections: []model.Section{
			{
				Phase: "Фаза 1",
				Items: []model.WorkItem{
					{Code: "2-100", Name: "Б", Phase: "Фаза 1"},
					{Code: "2-20", Name: "А", Phase: "Фаза 1"},
				},
			},
		},
	}
	saved, err := svc.Save(context.Background(), principal, est)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Sections[0].Items[0].Code != "2-20" {
		t.Errorf("first item code = %q, want 2-20", saved.Sections[0].Items[0].Code)
	}
}

func TestApplyCoefficientValidation(t *testing.T) {
	store := newFakeEstimateStore()
	svc := NewEstimateService(store, &fakeCatalog{})
	tenantID := uuid.New()
	estimateID := seedEstimate(store, tenantID, 100)

	for _, percent := range []float64{-100, -150} {
		if _, err := svc.ApplyCoefficient(context.Background(), estimator(tenantID), estimateID, percent); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("percent %v error = %v, want ErrInvalidInput", percent, err)
		}
	}
}

// Базовые цены живут в хранилище, поэтому последовательные запросы
// считаются от одной базы, а не накапливаются.
func TestApplyCoefficientIdempotentAcrossRequests(t *testing.T) {
	store := newFakeEstimateStore()
	svc := NewEstimateService(store, &fakeCatalog{})
	tenantID := uuid.New()
	estimateID := seedEstimate(store, tenantID, 100)
	principal := estimator(tenantID)

	first, err := svc.ApplyCoefficient(context.Background(), principal, estimateID, 20)
	if err != nil {
		t.Fatalf("ApplyCoefficient(+20) error = %v", err)
	}
	if got := first.Sections[0].Items[0].UnitPrice; got != 120 {
		t.Fatalf("price after +20%% = %v, want 120", got)
	}

	second, err := svc.ApplyCoefficient(context.Background(), principal, estimateID, -10)
	if err != nil {
		t.Fatalf("ApplyCoefficient(-10) error = %v", err)
	}
	if got := second.Sections[0].Items[0].UnitPrice; got != 90 {
		t.Fatalf("price after -10%% = %v, want 90 from baseline", got)
	}
}

func TestResetPricesAcrossRequests(t *testing.T) {
	store := newFakeEstimateStore()
	svc := NewEstimateService(store, &fakeCatalog{})
	tenantID := uuid.New()
	estimateID := seedEstimate(store, tenantID, 100)
	principal := estimator(tenantID)

	if _, err := svc.ApplyCoefficient(context.Background(), principal, estimateID, 45); err != nil {
		t.Fatalf("ApplyCoefficient() error = %v", err)
	}
	reset, err := svc.ResetPrices(context.Background(), principal, estimateID)
	if err != nil {
		t.Fatalf("ResetPrices() error = %v", err)
	}
	if got := reset.Sections[0].Items[0].UnitPrice; got != 100 {
		t.Errorf("price after reset = %v, want 100", got)
	}
}

func TestGetForeignTenant(t *testing.T) {
	store := newFakeEstimateStore()
	svc := NewEstimateService(store, &fakeCatalog{})
	estimateID := seedEstimate(store, uuid.New(), 100)

	if _, err := svc.Get(context.Background(), estimator(uuid.New()), estimateID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Get() error = %v, want ErrPermissionDenied", err)
	}
}

func TestInsertCatalogWork(t *testing.T) {
	store := newFakeEstimateStore()
	tenantID := uuid.New()
	estimateID := seedEstimate(store, tenantID, 100)

	workID := uuid.New()
	materialID := uuid.New()
	lookup := &fakeCatalog{
		works: map[uuid.UUID]*catalog.Work{
			workID: {ID: workID, Code: "7-1", Name: "Облицовка", Unit: "м2", BasePrice: 400, Phase: "Фаза 2"},
		},
		materials: map[uuid.UUID][]catalog.WorkMaterial{
			workID: {{MaterialID: materialID, Code: "М-9", Name: "Плитка", Unit: "м2", BasePrice: 800, Consumption: 1.05, IsRequired: true}},
		},
	}
	svc := NewEstimateService(store, lookup)

	est, err := svc.InsertCatalogWork(context.Background(), estimator(tenantID), estimateID, workID)
	if err != nil {
		t.Fatalf("InsertCatalogWork() error = %v", err)
	}
	if len(est.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(est.Sections))
	}

	var inserted *model.WorkItem
	for si := range est.Sections {
		for ii := range est.Sections[si].Items {
			if est.Sections[si].Items[ii].Code == "7-1" {
				inserted = &est.Sections[si].Items[ii]
			}
		}
	}
	if inserted == nil {
		t.Fatal("inserted work not found")
	}
	if inserted.Quantity != 0 {
		t.Errorf("inserted quantity = %v, want 0", inserted.Quantity)
	}
	if len(inserted.Materials) != 1 || !inserted.Materials[0].AutoCalculate {
		t.Error("catalog materials were not carried over with auto-calc")
	}
	if inserted.Materials[0].Consumption != 1.05 {
		t.Errorf("consumption = %v, want 1.05", inserted.Materials[0].Consumption)
	}

	baselines := store.baselines[estimateID]
	if price, ok := baselines[workID.String()]; !ok || price != 400 {
		t.Errorf("baseline = %v, %v; want 400 recorded on insert", price, ok)
	}
}

func TestInsertCatalogWorkNotFound(t *testing.T) {
	store := newFakeEstimateStore()
	tenantID := uuid.New()
	estimateID := seedEstimate(store, tenantID, 100)
	svc := NewEstimateService(store, &fakeCatalog{})

	if _, err := svc.InsertCatalogWork(context.Background(), estimator(tenantID), estimateID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("InsertCatalogWork() error = %v, want ErrNotFound", err)
	}
}
