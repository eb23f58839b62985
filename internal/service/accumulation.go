package service

import (
	"github.com/google/uuid"

	"github.com/nurpe/smeta-acts/internal/estimate"
	"github.com/nurpe/smeta-acts/internal/model"
)

// Accumulation — накопительные итоги для форм с нарастающим итогом:
// с начала года, за предыдущие периоды и за текущий акт.
type Accumulation struct {
	TotalAmountYTD      float64
	PrevPeriodAmount    float64
	CurrentPeriodAmount float64
	Items               []ItemAccumulation
}

type ItemAccumulation struct {
	EstimateItemID  uuid.UUID
	QuantityPrev    float64
	QuantityCurrent float64
	QuantityYTD     float64
	AmountPrev      float64
	AmountCurrent   float64
	AmountYTD       float64
}

// BuildAccumulation делит строки истории (акты той же сметы и того же
// типа за календарный год, act_date не позже даты акта, без отменённых)
// на три среза. Предыдущие периоды — строго раньше даты акта; с начала
// года — не позже неё; текущий период — строки самого акта. История
// приходит одним агрегатным запросом, расчёт чисто арифметический.
func BuildAccumulation(act model.CompletionAct, history []model.ActItemHistory) Accumulation {
	acc := Accumulation{}
	index := make(map[uuid.UUID]int)

	for _, row := range history {
		acc.TotalAmountYTD += row.TotalPrice
		if row.ActID != act.ID {
			acc.PrevPeriodAmount += row.TotalPrice
		}

		pos, ok := index[row.EstimateItemID]
		if !ok {
			acc.Items = append(acc.Items, ItemAccumulation{EstimateItemID: row.EstimateItemID})
			pos = len(acc.Items) - 1
			index[row.EstimateItemID] = pos
		}
		item := &acc.Items[pos]

		item.QuantityYTD += row.ActualQuantity
		item.AmountYTD += row.TotalPrice
		if row.ActDate.Before(act.ActDate) {
			item.QuantityPrev += row.ActualQuantity
			item.AmountPrev += row.TotalPrice
		}
		if row.ActID == act.ID {
			item.QuantityCurrent += row.ActualQuantity
			item.AmountCurrent += row.TotalPrice
		}
	}

	acc.CurrentPeriodAmount = act.TotalAmount
	acc.TotalAmountYTD = estimate.Round2(acc.TotalAmountYTD)
	acc.PrevPeriodAmount = estimate.Round2(acc.PrevPeriodAmount)
	for i := range acc.Items {
		item := &acc.Items[i]
		item.QuantityPrev = estimate.Round2(item.QuantityPrev)
		item.QuantityCurrent = estimate.Round2(item.QuantityCurrent)
		item.QuantityYTD = estimate.Round2(item.QuantityYTD)
		item.AmountPrev = estimate.Round2(item.AmountPrev)
		item.AmountCurrent = estimate.Round2(item.AmountCurrent)
		item.AmountYTD = estimate.Round2(item.AmountYTD)
	}
	return acc
}
