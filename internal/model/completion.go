package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkCompletionRecord отмечает фактическое выполнение позиции сметы.
// Потребление отслеживается отдельной ссылкой на каждый тип акта:
// запись, включённая в клиентский акт, остаётся доступной для акта
// специалиста и наоборот, и ни одна генерация не затирает потребление
// другого типа.
type WorkCompletionRecord struct {
	EstimateID          uuid.UUID
	EstimateItemID      uuid.UUID
	Completed           bool
	ActualQuantity      float64
	LastClientActID     *uuid.UUID
	LastSpecialistActID *uuid.UUID
	UpdatedAt           time.Time
}

// EligibleWork — запись о выполненной работе, доступная для включения в
// акт запрошенного типа, вместе с данными для расчёта цены.
type EligibleWork struct {
	EstimateItemID  uuid.UUID
	WorkCode        string
	WorkName        string
	Unit            string
	PlannedQuantity float64
	ActualQuantity  float64
	EstimatePrice   float64
	BasePrice       *float64 // цена из справочника, nil для ручных позиций
}
