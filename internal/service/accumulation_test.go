package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/smeta-acts/internal/model"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildAccumulationSplitsPeriods(t *testing.T) {
	actID := uuid.New()
	prevActID := uuid.New()
	itemA := uuid.New()
	itemB := uuid.New()

	act := model.CompletionAct{
		ID:          actID,
		ActDate:     day(20),
		TotalAmount: 700,
	}
	history := []model.ActItemHistory{
		{ActID: prevActID, ActDate: day(5), EstimateItemID: itemA, ActualQuantity: 10, TotalPrice: 1000},
		{ActID: prevActID, ActDate: day(5), EstimateItemID: itemB, ActualQuantity: 2, TotalPrice: 200},
		{ActID: actID, ActDate: day(20), EstimateItemID: itemA, ActualQuantity: 5, TotalPrice: 500},
		{ActID: actID, ActDate: day(20), EstimateItemID: itemB, ActualQuantity: 2, TotalPrice: 200},
	}

	acc := BuildAccumulation(act, history)

	if acc.TotalAmountYTD != 1900 {
		t.Errorf("TotalAmountYTD = %v, want 1900", acc.TotalAmountYTD)
	}
	if acc.PrevPeriodAmount != 1200 {
		t.Errorf("PrevPeriodAmount = %v, want 1200", acc.PrevPeriodAmount)
	}
	if acc.CurrentPeriodAmount != 700 {
		t.Errorf("CurrentPeriodAmount = %v, want act total 700", acc.CurrentPeriodAmount)
	}

	if len(acc.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(acc.Items))
	}
	a := acc.Items[0]
	if a.EstimateItemID != itemA {
		t.Fatalf("first item = %s, want %s", a.EstimateItemID, itemA)
	}
	if a.QuantityPrev != 10 || a.QuantityCurrent != 5 || a.QuantityYTD != 15 {
		t.Errorf("item A quantities = %v/%v/%v, want 10/5/15", a.QuantityPrev, a.QuantityCurrent, a.QuantityYTD)
	}
	if a.AmountPrev != 1000 || a.AmountCurrent != 500 || a.AmountYTD != 1500 {
		t.Errorf("item A amounts = %v/%v/%v, want 1000/500/1500", a.AmountPrev, a.AmountCurrent, a.AmountYTD)
	}
}

func TestBuildAccumulationFirstAct(t *testing.T) {
	actID := uuid.New()
	item := uuid.New()
	act := model.CompletionAct{ID: actID, ActDate: day(10), TotalAmount: 300}
	history := []model.ActItemHistory{
		{ActID: actID, ActDate: day(10), EstimateItemID: item, ActualQuantity: 3, TotalPrice: 300},
	}

	acc := BuildAccumulation(act, history)

	if acc.PrevPeriodAmount != 0 {
		t.Errorf("PrevPeriodAmount = %v, want 0", acc.PrevPeriodAmount)
	}
	if acc.TotalAmountYTD != 300 {
		t.Errorf("TotalAmountYTD = %v, want 300", acc.TotalAmountYTD)
	}
	got := acc.Items[0]
	if got.QuantityPrev != 0 || got.QuantityCurrent != 3 || got.QuantityYTD != 3 {
		t.Errorf("quantities = %v/%v/%v, want 0/3/3", got.QuantityPrev, got.QuantityCurrent, got.QuantityYTD)
	}
}

func TestBuildAccumulationEmptyHistory(t *testing.T) {
	act := model.CompletionAct{ID: uuid.New(), ActDate: day(1), TotalAmount: 100}

	acc := BuildAccumulation(act, nil)

	if acc.TotalAmountYTD != 0 || acc.PrevPeriodAmount != 0 {
		t.Errorf("totals = %v/%v, want 0/0", acc.TotalAmountYTD, acc.PrevPeriodAmount)
	}
	if acc.CurrentPeriodAmount != 100 {
		t.Errorf("CurrentPeriodAmount = %v, want 100", acc.CurrentPeriodAmount)
	}
	if len(acc.Items) != 0 {
		t.Errorf("items = %d, want 0", len(acc.Items))
	}
}

func TestBuildAccumulationRoundsTotals(t *testing.T) {
	actID := uuid.New()
	item := uuid.New()
	act := model.CompletionAct{ID: actID, ActDate: day(10), TotalAmount: 0.3}
	history := []model.ActItemHistory{
		{ActID: actID, ActDate: day(10), EstimateItemID: item, ActualQuantity: 0.1, TotalPrice: 0.1},
		{ActID: actID, ActDate: day(10), EstimateItemID: item, ActualQuantity: 0.2, TotalPrice: 0.2},
	}

	acc := BuildAccumulation(act, history)

	if acc.TotalAmountYTD != 0.3 {
		t.Errorf("TotalAmountYTD = %v, want exactly 0.3", acc.TotalAmountYTD)
	}
	if acc.Items[0].QuantityYTD != 0.3 {
		t.Errorf("QuantityYTD = %v, want exactly 0.3", acc.Items[0].QuantityYTD)
	}
}
