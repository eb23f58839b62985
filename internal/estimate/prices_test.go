package estimate

import (
	"testing"

	"github.com/nurpe/smeta-acts/internal/model"
)

func pricedEstimate(price float64) *model.Estimate {
	return &model.Estimate{
		Sections: []model.Section{
			{
				Phase: "Фаза 1",
				Items: []model.WorkItem{
					{
						Code:      "2-20",
						Name:      "Монтаж перегородок",
						Quantity:  10,
						UnitPrice: price,
						Total:     Round2(10 * price),
						Phase:     "Фаза 1",
						Materials: []model.Material{
							{Code: "М-1", Name: "Профиль", Quantity: 15, UnitPrice: 20, Total: 300},
						},
					},
				},
			},
		},
	}
}

func TestApplyCoefficientFromBaseline(t *testing.T) {
	tree := NewTree(pricedEstimate(100), nil)

	tree.ApplyCoefficient(20)
	if got := tree.Estimate().Sections[0].Items[0].UnitPrice; got != 120 {
		t.Fatalf("price after +20%% = %v, want 120", got)
	}

	// Повторное применение считается от базы, не от текущей цены.
	tree.ApplyCoefficient(-10)
	it := tree.Estimate().Sections[0].Items[0]
	if it.UnitPrice != 90 {
		t.Fatalf("price after -10%% = %v, want 90", it.UnitPrice)
	}
	if it.Total != 900 {
		t.Errorf("total after -10%% = %v, want 900", it.Total)
	}
}

func TestApplyCoefficientLeavesMaterials(t *testing.T) {
	tree := NewTree(pricedEstimate(100), nil)

	tree.ApplyCoefficient(50)

	m := tree.Estimate().Sections[0].Items[0].Materials[0]
	if m.UnitPrice != 20 || m.Total != 300 {
		t.Errorf("material price/total = %v/%v, want 20/300", m.UnitPrice, m.Total)
	}
}

func TestResetPricesRestoresBaseline(t *testing.T) {
	tree := NewTree(pricedEstimate(100), nil)
	tree.ApplyCoefficient(35)

	tree.ResetPrices()

	it := tree.Estimate().Sections[0].Items[0]
	if it.UnitPrice != 100 {
		t.Errorf("price after reset = %v, want 100", it.UnitPrice)
	}
	if it.Total != 1000 {
		t.Errorf("total after reset = %v, want 1000", it.Total)
	}
}

func TestResetPricesWithoutBaselineKeepsPrice(t *testing.T) {
	tree := NewTree(pricedEstimate(100), nil)

	tree.ResetPrices()

	if got := tree.Estimate().Sections[0].Items[0].UnitPrice; got != 100 {
		t.Errorf("price = %v, want 100 untouched", got)
	}
}

func TestPriceStoreRememberIsWriteOnce(t *testing.T) {
	store := NewPriceStore()
	store.Remember("k", 100)
	store.Remember("k", 500)

	if price, _ := store.Baseline("k"); price != 100 {
		t.Errorf("baseline = %v, want first remembered 100", price)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewPriceStore()
	store.Remember("a", 1)
	store.Remember("b", 2)

	restored := RestorePriceStore(store.Snapshot())
	if restored.Len() != 2 {
		t.Fatalf("restored len = %d, want 2", restored.Len())
	}
	if price, ok := restored.Baseline("b"); !ok || price != 2 {
		t.Errorf("restored baseline b = %v, %v; want 2, true", price, ok)
	}
}
