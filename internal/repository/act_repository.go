package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/smeta-acts/internal/estimate"
	"github.com/nurpe/smeta-acts/internal/model"
)

// ErrNoEligibleRecords — для сметы нет выполненных работ, доступных
// акту запрошенного типа.
var ErrNoEligibleRecords = errors.New("no eligible completion records")

type ActRepository struct {
	db *gorm.DB
}

func NewActRepository(db *gorm.DB) *ActRepository {
	return &ActRepository{db: db}
}

type GenerateActParams struct {
	TenantID    uuid.UUID
	EstimateID  uuid.UUID
	ActType     model.ActType
	ActDate     time.Time
	PeriodFrom  time.Time
	PeriodTo    time.Time
	CreatedByID uuid.UUID
}

// consumptionColumn выбирает колонку потребления для типа акта. Ссылки
// раздельные по типам: включение в клиентский акт не влияет на
// доступность записи для акта специалиста и наоборот, и ни один из
// типов не затирает потребление другого.
func consumptionColumn(t model.ActType) string {
	if t == model.ActTypeSpecialist {
		return "last_specialist_act_id"
	}
	return "last_client_act_id"
}

func eligibleWorksSQL(t model.ActType) string {
	return `
		SELECT
			wc.estimate_item_id,
			ei.code AS work_code,
			ei.name AS work_name,
			ei.unit,
			ei.quantity AS planned_quantity,
			wc.actual_quantity,
			ei.unit_price AS estimate_price,
			cw.base_price
		FROM work_completions wc
		JOIN estimate_items ei ON ei.id = wc.estimate_item_id
		LEFT JOIN catalog_works cw ON cw.id = ei.work_id
		WHERE wc.estimate_id = ?
			AND wc.completed = TRUE
			AND wc.actual_quantity > 0
			AND wc.` + consumptionColumn(t) + ` IS NULL
		ORDER BY ei.position ASC`
}

// consumeRecordsSQL отмечает записи потреблёнными актом своего типа.
// Список id раскрывается в IN (...): драйверу уходят скалярные
// плейсхолдеры, массивный параметр здесь не нужен.
func consumeRecordsSQL(t model.ActType) string {
	return `
		UPDATE work_completions
		SET ` + consumptionColumn(t) + ` = ?, updated_at = NOW()
		WHERE estimate_id = ? AND estimate_item_id IN (?)`
}

// GenerateAct выполняет всю генерацию акта одной транзакцией: выборка
// доступных записей, расчёт цен, выдача номера, вставка акта и снимков
// позиций, отметка потреблённых записей. Любой сбой откатывает всё —
// номер не сгорает, частичный акт не сохраняется.
//
// Правило "ровно один раз" действует в разрезе типа акта: запись,
// включённая в клиентский акт, остаётся доступной для акта специалиста
// и наоборот. Одна транзакция сама по себе не защищает от двух
// конкурентных генераций, прочитавших один снимок, поэтому перед
// выборкой берётся advisory-блокировка на пару (смета, тип акта) и на
// пару (тенант, тип) для выдачи номера.
func (r *ActRepository) GenerateAct(ctx context.Context, p GenerateActParams) (*model.CompletionAct, []model.ActItem, error) {
	var saved model.CompletionAct
	var items []model.ActItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			SELECT pg_advisory_xact_lock(hashtext(?), hashtext(?))
		`, p.EstimateID.String(), string(p.ActType)).Error; err != nil {
			return err
		}
		if err := tx.Exec(`
			SELECT pg_advisory_xact_lock(hashtext(?), hashtext(?))
		`, p.TenantID.String(), "act_number:"+string(p.ActType)).Error; err != nil {
			return err
		}

		var eligible []model.EligibleWork
		if err := tx.Raw(eligibleWorksSQL(p.ActType), p.EstimateID).Scan(&eligible).Error; err != nil {
			return err
		}
		if len(eligible) == 0 {
			return ErrNoEligibleRecords
		}

		items = items[:0]
		totalAmount := 0.0
		totalQuantity := 0.0
		consumed := make([]uuid.UUID, 0, len(eligible))
		for i, rec := range eligible {
			price := rec.EstimatePrice
			if p.ActType == model.ActTypeSpecialist && rec.BasePrice != nil {
				price = *rec.BasePrice
			}
			total := estimate.Round2(rec.ActualQuantity * price)
			items = append(items, model.ActItem{
				ID:              uuid.New(),
				EstimateItemID:  rec.EstimateItemID,
				PositionNumber:  i + 1,
				WorkCode:        rec.WorkCode,
				WorkName:        rec.WorkName,
				Unit:            rec.Unit,
				PlannedQuantity: rec.PlannedQuantity,
				ActualQuantity:  rec.ActualQuantity,
				UnitPrice:       price,
				TotalPrice:      total,
			})
			totalAmount += total
			totalQuantity += rec.ActualQuantity
			consumed = append(consumed, rec.EstimateItemID)
		}
		totalAmount = estimate.Round2(totalAmount)
		totalQuantity = estimate.Round2(totalQuantity)

		year := p.ActDate.Year()
		var existing []string
		if err := tx.Raw(`
			SELECT act_number
			FROM completion_acts
			WHERE tenant_id = ?
				AND act_type = ?
				AND EXTRACT(YEAR FROM act_date) = ?
		`, p.TenantID, p.ActType, year).Scan(&existing).Error; err != nil {
			return err
		}
		actNumber := nextActNumber(existing, p.ActType, year)

		if err := tx.Raw(`
			INSERT INTO completion_acts (
				id, tenant_id, estimate_id, act_type, act_number, act_date,
				period_from, period_to,
				total_amount, total_quantity, work_count,
				status, created_by_id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING
				id, tenant_id, estimate_id, act_type, act_number, act_date,
				period_from, period_to,
				total_amount, total_quantity, work_count,
				status, created_by_id, created_at
		`,
			uuid.New(), p.TenantID, p.EstimateID, p.ActType, actNumber, p.ActDate,
			p.PeriodFrom, p.PeriodTo,
			totalAmount, totalQuantity, len(items),
			model.ActStatusGenerated, p.CreatedByID,
		).Scan(&saved).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].ActID = saved.ID
			if err := tx.Exec(`
				INSERT INTO act_items (
					id, act_id, estimate_item_id, position_number,
					work_code, work_name, unit,
					planned_quantity, actual_quantity, unit_price, total_price
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				items[i].ID, items[i].ActID, items[i].EstimateItemID, items[i].PositionNumber,
				items[i].WorkCode, items[i].WorkName, items[i].Unit,
				items[i].PlannedQuantity, items[i].ActualQuantity, items[i].UnitPrice, items[i].TotalPrice,
			).Error; err != nil {
				return err
			}
		}

		return tx.Exec(consumeRecordsSQL(p.ActType), saved.ID, p.EstimateID, consumed).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &saved, items, nil
}

// MarkCompletion фиксирует фактическое выполнение позиции сметы.
// Ссылки потребления при повторной отметке не сбрасываются: их снимает
// только явный ReleaseActRecords.
func (r *ActRepository) MarkCompletion(ctx context.Context, rec model.WorkCompletionRecord) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO work_completions (estimate_id, estimate_item_id, completed, actual_quantity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (estimate_id, estimate_item_id) DO UPDATE
		SET completed = EXCLUDED.completed,
			actual_quantity = EXCLUDED.actual_quantity,
			updated_at = NOW()
	`, rec.EstimateID, rec.EstimateItemID, rec.Completed, rec.ActualQuantity).Error
}

func (r *ActRepository) GetActByID(ctx context.Context, id uuid.UUID) (*model.CompletionAct, error) {
	var act model.CompletionAct
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, tenant_id, estimate_id, act_type, act_number, act_date,
			period_from, period_to,
			total_amount, total_quantity, work_count,
			status, created_by_id, created_at
		FROM completion_acts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&act).Error
	if err != nil {
		return nil, err
	}
	if act.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &act, nil
}

func (r *ActRepository) GetActItems(ctx context.Context, actID uuid.UUID) ([]model.ActItem, error) {
	var items []model.ActItem
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, act_id, estimate_item_id, position_number,
			work_code, work_name, unit,
			planned_quantity, actual_quantity, unit_price, total_price
		FROM act_items
		WHERE act_id = ?
		ORDER BY position_number ASC
	`, actID).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ActRepository) ListActs(ctx context.Context, estimateID uuid.UUID) ([]model.CompletionAct, error) {
	var acts []model.CompletionAct
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id, tenant_id, estimate_id, act_type, act_number, act_date,
			period_from, period_to,
			total_amount, total_quantity, work_count,
			status, created_by_id, created_at
		FROM completion_acts
		WHERE estimate_id = ?
		ORDER BY act_date ASC, act_number ASC
	`, estimateID).Scan(&acts).Error; err != nil {
		return nil, err
	}
	return acts, nil
}

// UpdateActStatus меняет статус акта. Отмена акта не возвращает его
// записи в оборот автоматически — для этого есть ReleaseActRecords.
func (r *ActRepository) UpdateActStatus(ctx context.Context, actID uuid.UUID, status model.ActStatus) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE completion_acts SET status = ? WHERE id = ?
	`, status, actID).Error
}

// ReleaseActRecords снимает ссылки акта с его записей о выполнении,
// делая их снова доступными для акта этого типа. Потребление другим
// типом не затрагивается. Явная операция сопровождения, никогда не
// вызывается неявно.
func (r *ActRepository) ReleaseActRecords(ctx context.Context, actID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE work_completions
		SET last_client_act_id = NULLIF(last_client_act_id, ?),
			last_specialist_act_id = NULLIF(last_specialist_act_id, ?),
			updated_at = NOW()
		WHERE last_client_act_id = ? OR last_specialist_act_id = ?
	`, actID, actID, actID, actID).Error
}

// AccumulationHistory — один агрегатный запрос по истории актов сметы
// того же типа за календарный год, не позже указанной даты, без
// отменённых. Накопительный расчёт делит эти строки сам: N запросов на
// позицию здесь недопустимы.
func (r *ActRepository) AccumulationHistory(
	ctx context.Context,
	estimateID uuid.UUID,
	actType model.ActType,
	year int,
	asOf time.Time,
) ([]model.ActItemHistory, error) {
	var rows []model.ActItemHistory
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			ca.id AS act_id,
			ca.act_date,
			ai.estimate_item_id,
			ai.actual_quantity,
			ai.total_price
		FROM act_items ai
		JOIN completion_acts ca ON ca.id = ai.act_id
		WHERE ca.estimate_id = ?
			AND ca.act_type = ?
			AND ca.status <> ?
			AND EXTRACT(YEAR FROM ca.act_date) = ?
			AND ca.act_date <= ?
		ORDER BY ca.act_date ASC, ai.position_number ASC
	`, estimateID, actType, model.ActStatusCancelled, year, asOf).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
