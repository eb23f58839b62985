package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Work — позиция справочника работ.
type Work struct {
	ID         uuid.UUID
	Code       string
	Name       string
	Unit       string
	BasePrice  float64
	Phase      string
	Section    string
	Subsection string
}

// WorkMaterial — материал, привязанный к работе справочника, с нормой
// расхода на единицу работы.
type WorkMaterial struct {
	MaterialID  uuid.UUID
	Code        string
	Name        string
	Unit        string
	BasePrice   float64
	Consumption float64
	IsRequired  bool
}

type Lookup interface {
	Work(ctx context.Context, id uuid.UUID) (*Work, error)
	WorkMaterials(ctx context.Context, id uuid.UUID) ([]WorkMaterial, error)
}
