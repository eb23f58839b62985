package model

import (
	"time"

	"github.com/google/uuid"
)

type ActType string

const (
	ActTypeClient     ActType = "CLIENT"
	ActTypeSpecialist ActType = "SPECIALIST"
)

type ActStatus string

const (
	ActStatusGenerated ActStatus = "GENERATED"
	ActStatusApproved  ActStatus = "APPROVED"
	ActStatusCancelled ActStatus = "CANCELLED"
)

// CompletionAct — акт выполненных работ. После создания не изменяется:
// позиции фиксируются снимком на момент генерации и не пересчитываются
// из живой сметы.
type CompletionAct struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	EstimateID    uuid.UUID
	ActType       ActType
	ActNumber     string
	ActDate       time.Time
	PeriodFrom    time.Time
	PeriodTo      time.Time
	TotalAmount   float64
	TotalQuantity float64
	WorkCount     int
	Status        ActStatus
	CreatedByID   uuid.UUID
	CreatedAt     time.Time
}

// ActItem — замороженная копия работы на момент генерации акта.
// EstimateItemID сохраняется только для аудита и накопительных форм.
type ActItem struct {
	ID              uuid.UUID
	ActID           uuid.UUID
	EstimateItemID  uuid.UUID
	PositionNumber  int
	WorkCode        string
	WorkName        string
	Unit            string
	PlannedQuantity float64
	ActualQuantity  float64
	UnitPrice       float64
	TotalPrice      float64
}

// ActItemHistory — строка агрегатного запроса по истории актов сметы,
// используется накопительным расчётом.
type ActItemHistory struct {
	ActID          uuid.UUID
	ActDate        time.Time
	EstimateItemID uuid.UUID
	ActualQuantity float64
	TotalPrice     float64
}

// ActDocument — данные для печатной формы акта.
type ActDocument struct {
	Act            CompletionAct
	Items          []ActItem
	CustomerName   string
	ContractorName string
	ContractNumber string
	ObjectName     string
	Currency       string
}
