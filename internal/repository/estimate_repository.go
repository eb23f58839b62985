package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/smeta-acts/internal/estimate"
	"github.com/nurpe/smeta-acts/internal/model"
)

// deleteRemovedItemsSQL убирает только позиции, выпавшие из состава
// сметы; slice в IN (?) раскрывается gorm в перечисление плейсхолдеров.
const deleteRemovedItemsSQL = `DELETE FROM estimate_items WHERE estimate_id = ? AND id NOT IN (?)`

const upsertItemSQL = `
	INSERT INTO estimate_items (
		id, estimate_id, work_id, item_type, code, name, unit,
		quantity, quantity_unset, unit_price, total,
		phase, section, subsection, position
	) VALUES (?, ?, ?, 'work', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		work_id = EXCLUDED.work_id,
		code = EXCLUDED.code,
		name = EXCLUDED.name,
		unit = EXCLUDED.unit,
		quantity = EXCLUDED.quantity,
		quantity_unset = EXCLUDED.quantity_unset,
		unit_price = EXCLUDED.unit_price,
		total = EXCLUDED.total,
		phase = EXCLUDED.phase,
		section = EXCLUDED.section,
		subsection = EXCLUDED.subsection,
		position = EXCLUDED.position`

type EstimateRepository struct {
	db *gorm.DB
}

func NewEstimateRepository(db *gorm.DB) *EstimateRepository {
	return &EstimateRepository{db: db}
}

type estimateRow struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	ProjectID      *uuid.UUID
	Name           string
	EstimateType   string
	Status         string
	Description    string
	EstimateDate   time.Time
	Currency       string
	CustomerName   string
	ContractorName string
	ContractNumber string
	ObjectName     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type itemRow struct {
	ID            uuid.UUID
	WorkID        *uuid.UUID
	Code          string
	Name          string
	Unit          string
	Quantity      float64
	QuantityUnset bool
	UnitPrice     float64
	Total         float64
	Phase         string
	Section       string
	Subsection    string
	Position      int
}

type materialRow struct {
	ID             uuid.UUID
	EstimateItemID uuid.UUID
	MaterialID     *uuid.UUID
	Code           string
	Name           string
	Unit           string
	Consumption    float64
	AutoCalculate  bool
	Quantity       float64
	UnitPrice      float64
	Total          float64
	IsRequired     bool
	Notes          string
}

// SaveEstimate сохраняет смету целиком: шапку, позиции и материалы.
// Позиции перезаписываются в переданном порядке секций. Материалы без
// ссылки на справочник или с неположительным количеством в сохранённый
// состав не попадают; работы с нулевым количеством сохраняются как
// есть, чтобы оператор видел и поправил их.
//
// Позиции обновляются на месте по своим id, а не через полное
// удаление с перевставкой: на estimate_items каскадом завязаны записи
// work_completions, и пересохранение сметы не должно стирать журнал
// выполнения. Удаляются только позиции, отсутствующие в переданном
// составе, — их записи о выполнении уходят вместе с ними.
func (r *EstimateRepository) SaveEstimate(ctx context.Context, est *model.Estimate) (*model.Estimate, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if est.ID == uuid.Nil {
			est.ID = uuid.New()
			if err := tx.Exec(`
				INSERT INTO estimates (
					id, tenant_id, project_id, name, estimate_type, status,
					description, estimate_date, currency,
					customer_name, contractor_name, contract_number, object_name
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				est.ID, est.TenantID, est.ProjectID, est.Name, est.EstimateType, est.Status,
				est.Description, est.EstimateDate, est.Currency,
				est.CustomerName, est.ContractorName, est.ContractNumber, est.ObjectName,
			).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Exec(`
				UPDATE estimates
				SET
					name = ?, estimate_type = ?, status = ?, description = ?,
					estimate_date = ?, currency = ?,
					customer_name = ?, contractor_name = ?, contract_number = ?, object_name = ?,
					updated_at = NOW()
				WHERE id = ? AND tenant_id = ?
			`,
				est.Name, est.EstimateType, est.Status, est.Description,
				est.EstimateDate, est.Currency,
				est.CustomerName, est.ContractorName, est.ContractNumber, est.ObjectName,
				est.ID, est.TenantID,
			).Error; err != nil {
				return err
			}
		}

		keep := make([]uuid.UUID, 0)
		for si := range est.Sections {
			sec := &est.Sections[si]
			for ii := range sec.Items {
				it := &sec.Items[ii]
				if it.ID == uuid.Nil {
					it.ID = uuid.New()
				}
				keep = append(keep, it.ID)
			}
		}

		if err := tx.Exec(`
			DELETE FROM estimate_materials
			WHERE estimate_item_id IN (SELECT id FROM estimate_items WHERE estimate_id = ?)
		`, est.ID).Error; err != nil {
			return err
		}
		if len(keep) == 0 {
			if err := tx.Exec(`DELETE FROM estimate_items WHERE estimate_id = ?`, est.ID).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Exec(deleteRemovedItemsSQL, est.ID, keep).Error; err != nil {
				return err
			}
		}

		position := 0
		for si := range est.Sections {
			sec := &est.Sections[si]
			for ii := range sec.Items {
				it := &sec.Items[ii]
				position++
				if err := tx.Exec(upsertItemSQL,
					it.ID, est.ID, it.WorkID, it.Code, it.Name, it.Unit,
					it.Quantity, it.QuantityUnset, it.UnitPrice, it.Total,
					it.Phase, it.Section, it.Subsection, position,
				).Error; err != nil {
					return err
				}

				for mi := range it.Materials {
					m := &it.Materials[mi]
					if m.MaterialID == nil || m.Quantity <= 0 {
						continue
					}
					if m.ID == uuid.Nil {
						m.ID = uuid.New()
					}
					if err := tx.Exec(`
						INSERT INTO estimate_materials (
							id, estimate_item_id, material_id, code, name, unit,
							consumption, auto_calculate, quantity, unit_price, total,
							is_required, notes
						) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
					`,
						m.ID, it.ID, m.MaterialID, m.Code, m.Name, m.Unit,
						m.Consumption, m.AutoCalculate, m.Quantity, m.UnitPrice, m.Total,
						m.IsRequired, m.Notes,
					).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return est, nil
}

// GetEstimate загружает смету и собирает секции группировкой позиций по
// фазе в сохранённом порядке.
func (r *EstimateRepository) GetEstimate(ctx context.Context, id uuid.UUID) (*model.Estimate, error) {
	var row estimateRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, tenant_id, project_id, name, estimate_type, status,
			description, estimate_date, currency,
			customer_name, contractor_name, contract_number, object_name,
			created_at, updated_at
		FROM estimates
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	var items []itemRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, work_id, code, name, unit,
			quantity, quantity_unset, unit_price, total,
			phase, section, subsection, position
		FROM estimate_items
		WHERE estimate_id = ?
		ORDER BY position ASC
	`, id).Scan(&items).Error; err != nil {
		return nil, err
	}

	var materials []materialRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			em.id, em.estimate_item_id, em.material_id, em.code, em.name, em.unit,
			em.consumption, em.auto_calculate, em.quantity, em.unit_price, em.total,
			em.is_required, em.notes
		FROM estimate_materials em
		JOIN estimate_items ei ON ei.id = em.estimate_item_id
		WHERE ei.estimate_id = ?
		ORDER BY em.code ASC
	`, id).Scan(&materials).Error; err != nil {
		return nil, err
	}

	byItem := make(map[uuid.UUID][]model.Material, len(items))
	for _, m := range materials {
		byItem[m.EstimateItemID] = append(byItem[m.EstimateItemID], model.Material{
			ID:            m.ID,
			MaterialID:    m.MaterialID,
			Code:          m.Code,
			Name:          m.Name,
			Unit:          m.Unit,
			Consumption:   m.Consumption,
			AutoCalculate: m.AutoCalculate,
			Quantity:      m.Quantity,
			UnitPrice:     m.UnitPrice,
			Total:         m.Total,
			IsRequired:    m.IsRequired,
			Notes:         m.Notes,
		})
	}

	est := &model.Estimate{
		ID:             row.ID,
		TenantID:       row.TenantID,
		ProjectID:      row.ProjectID,
		Name:           row.Name,
		EstimateType:   row.EstimateType,
		Status:         model.EstimateStatus(row.Status),
		Description:    row.Description,
		EstimateDate:   row.EstimateDate,
		Currency:       row.Currency,
		CustomerName:   row.CustomerName,
		ContractorName: row.ContractorName,
		ContractNumber: row.ContractNumber,
		ObjectName:     row.ObjectName,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}

	for _, it := range items {
		phase := it.Phase
		if phase == "" {
			phase = model.DefaultPhase
		}
		work := model.WorkItem{
			ID:            it.ID,
			WorkID:        it.WorkID,
			Code:          it.Code,
			Name:          it.Name,
			Unit:          it.Unit,
			Quantity:      it.Quantity,
			QuantityUnset: it.QuantityUnset,
			UnitPrice:     it.UnitPrice,
			Total:         it.Total,
			Phase:         phase,
			Section:       it.Section,
			Subsection:    it.Subsection,
			Materials:     byItem[it.ID],
		}
		idx := -1
		for i := range est.Sections {
			if est.Sections[i].Phase == phase {
				idx = i
				break
			}
		}
		if idx < 0 {
			est.Sections = append(est.Sections, model.Section{Phase: phase})
			idx = len(est.Sections) - 1
		}
		est.Sections[idx].Items = append(est.Sections[idx].Items, work)
	}
	for i := range est.Sections {
		est.Sections[i].Subtotal = sectionTotal(est.Sections[i].Items)
	}
	return est, nil
}

// sectionTotal складывает суммы позиций и их материалов и округляет до
// копеек, чтобы загруженный итог совпадал с рассчитанным при сохранении.
func sectionTotal(items []model.WorkItem) float64 {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Total
		for _, m := range it.Materials {
			subtotal += m.Total
		}
	}
	return estimate.Round2(subtotal)
}

func (r *EstimateRepository) ListEstimates(ctx context.Context, tenantID uuid.UUID) ([]model.Estimate, error) {
	var rows []estimateRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, tenant_id, project_id, name, estimate_type, status,
			description, estimate_date, currency,
			customer_name, contractor_name, contract_number, object_name,
			created_at, updated_at
		FROM estimates
		WHERE tenant_id = ?
		ORDER BY created_at DESC
	`, tenantID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	estimates := make([]model.Estimate, 0, len(rows))
	for _, row := range rows {
		estimates = append(estimates, model.Estimate{
			ID:             row.ID,
			TenantID:       row.TenantID,
			ProjectID:      row.ProjectID,
			Name:           row.Name,
			EstimateType:   row.EstimateType,
			Status:         model.EstimateStatus(row.Status),
			Description:    row.Description,
			EstimateDate:   row.EstimateDate,
			Currency:       row.Currency,
			CustomerName:   row.CustomerName,
			ContractorName: row.ContractorName,
			ContractNumber: row.ContractNumber,
			ObjectName:     row.ObjectName,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
		})
	}
	return estimates, nil
}

// LoadBaselines возвращает запомненные базовые цены сметы.
func (r *EstimateRepository) LoadBaselines(ctx context.Context, estimateID uuid.UUID) (map[string]float64, error) {
	var rows []struct {
		ItemKey string
		Price   float64
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT item_key, price
		FROM estimate_price_baselines
		WHERE estimate_id = ?
	`, estimateID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	baselines := make(map[string]float64, len(rows))
	for _, row := range rows {
		baselines[row.ItemKey] = row.Price
	}
	return baselines, nil
}

// SaveBaselines дописывает новые базовые цены. Существующие записи не
// перезаписываются: базовая цена фиксируется один раз.
func (r *EstimateRepository) SaveBaselines(ctx context.Context, estimateID uuid.UUID, baselines map[string]float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, price := range baselines {
			if err := tx.Exec(`
				INSERT INTO estimate_price_baselines (estimate_id, item_key, price)
				VALUES (?, ?, ?)
				ON CONFLICT (estimate_id, item_key) DO NOTHING
			`, estimateID, key, price).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
