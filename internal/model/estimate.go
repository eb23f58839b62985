package model

import (
	"time"

	"github.com/google/uuid"
)

type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "DRAFT"
	EstimateStatusActive   EstimateStatus = "ACTIVE"
	EstimateStatusArchived EstimateStatus = "ARCHIVED"
)

// DefaultPhase используется для работ без указанной фазы.
const DefaultPhase = "Без фазы"

type Estimate struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	ProjectID      *uuid.UUID
	Name           string
	EstimateType   string
	Status         EstimateStatus
	Description    string
	EstimateDate   time.Time
	Currency       string
	CustomerName   string
	ContractorName string
	ContractNumber string
	ObjectName     string
	Sections       []Section
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Section — материализованная группировка работ по фазе. Секции не
// хранятся отдельно: они собираются из позиций при загрузке и исчезают,
// как только из них удалена последняя работа.
type Section struct {
	Phase    string
	Code     string
	Subtotal float64
	Items    []WorkItem
}

type WorkItem struct {
	ID     uuid.UUID
	WorkID *uuid.UUID // ссылка на справочник; nil для ручных позиций
	Code   string
	Name   string
	Unit   string
	// Quantity с установленным QuantityUnset означает "поле очищено":
	// значение равно нулю, но в форме показывается пустым.
	Quantity      float64
	QuantityUnset bool
	UnitPrice     float64
	Total         float64
	Phase         string
	Section       string
	Subsection    string
	Materials     []Material
}

type Material struct {
	ID            uuid.UUID
	MaterialID    *uuid.UUID
	Code          string
	Name          string
	Unit          string
	Consumption   float64
	AutoCalculate bool
	Quantity      float64
	UnitPrice     float64
	Total         float64
	IsRequired    bool
	Notes         string
}

// Items возвращает все работы сметы в порядке секций.
func (e *Estimate) Items() []WorkItem {
	var items []WorkItem
	for _, s := range e.Sections {
		items = append(items, s.Items...)
	}
	return items
}
