package estimate

import (
	"math"
	"testing"

	"github.com/nurpe/smeta-acts/internal/model"
)

func singleWorkEstimate() *model.Estimate {
	return &model.Estimate{
		Sections: []model.Section{
			{
				Phase: "Фаза 1",
				Items: []model.WorkItem{
					{
						Code:      "2-20",
						Name:      "Монтаж перегородок",
						Unit:      "м2",
						UnitPrice: 100,
						Phase:     "Фаза 1",
						Materials: []model.Material{
							{
								Code:          "М-1",
								Name:          "Профиль",
								Unit:          "шт",
								Consumption:   1.5,
								AutoCalculate: true,
								UnitPrice:     20,
							},
						},
					},
				},
			},
		},
	}
}

func TestSetWorkQuantityCascades(t *testing.T) {
	tree := NewTree(singleWorkEstimate(), nil)

	tree.SetWorkQuantity(0, 0, 10)

	it := tree.Estimate().Sections[0].Items[0]
	if it.Total != 1000 {
		t.Fatalf("work total = %v, want 1000", it.Total)
	}
	m := it.Materials[0]
	if m.Quantity != 15 {
		t.Errorf("material quantity = %v, want 15", m.Quantity)
	}
	if m.Total != 300 {
		t.Errorf("material total = %v, want 300", m.Total)
	}
	if got := tree.Estimate().Sections[0].Subtotal; got != 1300 {
		t.Errorf("section subtotal = %v, want 1300", got)
	}
}

func TestSetWorkQuantitySkipsManualMaterials(t *testing.T) {
	est := singleWorkEstimate()
	est.Sections[0].Items[0].Materials[0].AutoCalculate = false
	est.Sections[0].Items[0].Materials[0].Quantity = 7
	est.Sections[0].Items[0].Materials[0].Total = 140
	tree := NewTree(est, nil)

	tree.SetWorkQuantity(0, 0, 10)

	m := tree.Estimate().Sections[0].Items[0].Materials[0]
	if m.Quantity != 7 {
		t.Errorf("manual material quantity = %v, want 7", m.Quantity)
	}
	if m.Total != 140 {
		t.Errorf("manual material total = %v, want 140", m.Total)
	}
}

func TestClearWorkQuantity(t *testing.T) {
	est := singleWorkEstimate()
	est.Sections[0].Items[0].Materials = append(est.Sections[0].Items[0].Materials, model.Material{
		Code:          "М-2",
		Name:          "Саморезы",
		AutoCalculate: false,
		Quantity:      4,
		UnitPrice:     50,
	})
	tree := NewTree(est, nil)
	tree.SetWorkQuantity(0, 0, 10)

	tree.ClearWorkQuantity(0, 0)

	it := tree.Estimate().Sections[0].Items[0]
	if !it.QuantityUnset {
		t.Error("QuantityUnset = false, want true")
	}
	if it.Quantity != 0 || it.Total != 0 {
		t.Errorf("work quantity/total = %v/%v, want 0/0", it.Quantity, it.Total)
	}
	auto := it.Materials[0]
	if auto.Quantity != 0 || auto.Total != 0 {
		t.Errorf("auto material quantity/total = %v/%v, want 0/0", auto.Quantity, auto.Total)
	}
	manual := it.Materials[1]
	if manual.Quantity != 4 {
		t.Errorf("manual material quantity = %v, want 4", manual.Quantity)
	}
	if manual.Total != 200 {
		t.Errorf("manual material total = %v, want 200", manual.Total)
	}
}

func TestSetMaterialQuantityDisablesAutoCalc(t *testing.T) {
	tree := NewTree(singleWorkEstimate(), nil)
	tree.SetWorkQuantity(0, 0, 10)

	tree.SetMaterialQuantity(0, 0, 0, 99)
	tree.SetWorkQuantity(0, 0, 20)

	m := tree.Estimate().Sections[0].Items[0].Materials[0]
	if m.AutoCalculate {
		t.Error("AutoCalculate = true, want false after manual quantity")
	}
	if m.Quantity != 99 {
		t.Errorf("material quantity = %v, want 99", m.Quantity)
	}
}

func TestSetMaterialConsumptionRecalculates(t *testing.T) {
	tree := NewTree(singleWorkEstimate(), nil)
	tree.SetWorkQuantity(0, 0, 10)

	tree.SetMaterialConsumption(0, 0, 0, 2)

	m := tree.Estimate().Sections[0].Items[0].Materials[0]
	if m.Quantity != 20 {
		t.Errorf("material quantity = %v, want 20", m.Quantity)
	}
	if m.Total != 400 {
		t.Errorf("material total = %v, want 400", m.Total)
	}
}

func TestInvalidNumericInputIgnored(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"negative", -5},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewTree(singleWorkEstimate(), nil)
			tree.SetWorkQuantity(0, 0, 10)
			before := tree.Estimate()

			tree.SetWorkQuantity(0, 0, tt.value)
			tree.SetWorkPrice(0, 0, tt.value)
			tree.SetMaterialQuantity(0, 0, 0, tt.value)

			if tree.Estimate() != before {
				t.Error("tree changed on invalid input")
			}
		})
	}
}

func TestDeleteWorkRemovesEmptySection(t *testing.T) {
	tree := NewTree(singleWorkEstimate(), nil)

	tree.DeleteWork(0, 0)

	if n := len(tree.Estimate().Sections); n != 0 {
		t.Fatalf("sections = %d, want 0", n)
	}
}

func TestDeleteMaterialRecalculatesSubtotal(t *testing.T) {
	tree := NewTree(singleWorkEstimate(), nil)
	tree.SetWorkQuantity(0, 0, 10)

	tree.DeleteMaterial(0, 0, 0)

	it := tree.Estimate().Sections[0].Items[0]
	if len(it.Materials) != 0 {
		t.Fatalf("materials = %d, want 0", len(it.Materials))
	}
	if got := tree.Estimate().Sections[0].Subtotal; got != 1000 {
		t.Errorf("section subtotal = %v, want 1000", got)
	}
}

func TestInsertWorkCreatesSectionAndBaseline(t *testing.T) {
	tree := NewTree(&model.Estimate{}, nil)

	tree.InsertWork(WorkInput{
		Code:      "3-10",
		Name:      "Штукатурка стен",
		Unit:      "м2",
		UnitPrice: 250,
		Phase:     "Фаза 2",
	}, []MaterialInput{
		{Code: "М-3", Name: "Смесь", Unit: "кг", Consumption: 3, UnitPrice: 10},
	})

	est := tree.Estimate()
	if len(est.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(est.Sections))
	}
	it := est.Sections[0].Items[0]
	if it.Quantity != 0 || it.Total != 0 {
		t.Errorf("new work quantity/total = %v/%v, want 0/0", it.Quantity, it.Total)
	}
	if !it.Materials[0].AutoCalculate {
		t.Error("inserted material AutoCalculate = false, want true")
	}
	if base, ok := tree.Prices().Baseline(ItemKey(it)); !ok || base != 250 {
		t.Errorf("baseline = %v, %v; want 250, true", base, ok)
	}
}

func TestInsertWorkEmptyPhaseFallsBack(t *testing.T) {
	tree := NewTree(&model.Estimate{}, nil)

	tree.InsertWork(WorkInput{Code: "1-1", Name: "Разметка", UnitPrice: 10}, nil)

	if got := tree.Estimate().Sections[0].Phase; got != model.DefaultPhase {
		t.Errorf("phase = %q, want %q", got, model.DefaultPhase)
	}
}

func TestMutationSharesUntouchedSections(t *testing.T) {
	est := singleWorkEstimate()
	est.Sections = append(est.Sections, model.Section{
		Phase: "Фаза 2",
		Items: []model.WorkItem{{Code: "5-1", Name: "Кровля", UnitPrice: 300, Phase: "Фаза 2"}},
	})
	tree := NewTree(est, nil)
	before := tree.Estimate()

	tree.SetWorkQuantity(0, 0, 10)
	after := tree.Estimate()

	if after == before {
		t.Fatal("mutation did not produce a new root")
	}
	if &after.Sections[1].Items[0] != &before.Sections[1].Items[0] {
		t.Error("untouched section items were copied")
	}
	if &after.Sections[0].Items[0] == &before.Sections[0].Items[0] {
		t.Error("mutated section items were not copied")
	}
	if before.Sections[0].Items[0].Total != 0 {
		t.Error("old root was mutated")
	}
}
