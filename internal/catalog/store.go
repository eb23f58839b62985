package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store — справочник работ и материалов поверх таблиц каталога.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Work(ctx context.Context, id uuid.UUID) (*Work, error) {
	var work Work
	err := s.db.WithContext(ctx).Raw(`
		SELECT id, code, name, unit, base_price, phase, section, subsection
		FROM catalog_works
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&work).Error
	if err != nil {
		return nil, err
	}
	if work.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &work, nil
}

func (s *Store) WorkMaterials(ctx context.Context, id uuid.UUID) ([]WorkMaterial, error) {
	var rows []WorkMaterial
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			cm.id AS material_id,
			cm.code,
			cm.name,
			cm.unit,
			cm.base_price,
			wm.consumption,
			wm.is_required
		FROM work_materials wm
		JOIN catalog_materials cm ON cm.id = wm.material_id
		WHERE wm.work_id = ?
		ORDER BY cm.code ASC
	`, id).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
