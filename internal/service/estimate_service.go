package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/smeta-acts/internal/catalog"
	"github.com/nurpe/smeta-acts/internal/estimate"
	"github.com/nurpe/smeta-acts/internal/model"
)

type EstimateService struct {
	store   EstimateStore
	catalog catalog.Lookup
}

func NewEstimateService(store EstimateStore, lookup catalog.Lookup) *EstimateService {
	return &EstimateService{store: store, catalog: lookup}
}

// Save сортирует смету каноническим порядком и сохраняет её целиком.
func (s *EstimateService) Save(ctx context.Context, principal model.Principal, est *model.Estimate) (*model.Estimate, error) {
	if principal.IsViewer() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(est.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	est.TenantID = principal.TenantID
	if est.Status == "" {
		est.Status = model.EstimateStatusDraft
	}

	tree := estimate.NewTree(est, nil)
	tree.Sort()
	return s.store.SaveEstimate(ctx, tree.Estimate())
}

func (s *EstimateService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Estimate, error) {
	est, err := s.store.GetEstimate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if est.TenantID != principal.TenantID {
		return nil, ErrPermissionDenied
	}
	return est, nil
}

func (s *EstimateService) List(ctx context.Context, principal model.Principal) ([]model.Estimate, error) {
	return s.store.ListEstimates(ctx, principal.TenantID)
}

// ApplyCoefficient применяет процент к ценам работ сметы. Базовые цены
// живут в хранилище вместе со сметой, поэтому повторные применения на
// разных запросах считаются от одной и той же базы.
func (s *EstimateService) ApplyCoefficient(ctx context.Context, principal model.Principal, id uuid.UUID, percent float64) (*model.Estimate, error) {
	if principal.IsViewer() {
		return nil, ErrPermissionDenied
	}
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent <= -100 {
		return nil, fmt.Errorf("%w: invalid coefficient percent", ErrInvalidInput)
	}

	tree, err := s.loadTree(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	tree.ApplyCoefficient(percent)
	if err := s.store.SaveBaselines(ctx, id, tree.Prices().Snapshot()); err != nil {
		return nil, err
	}
	return s.store.SaveEstimate(ctx, tree.Estimate())
}

// ResetPrices возвращает цены работ к запомненным базовым.
func (s *EstimateService) ResetPrices(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Estimate, error) {
	if principal.IsViewer() {
		return nil, ErrPermissionDenied
	}
	tree, err := s.loadTree(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	tree.ResetPrices()
	return s.store.SaveEstimate(ctx, tree.Estimate())
}

// InsertCatalogWork переносит работу справочника в смету вместе с её
// материалами и нормами расхода. Новая позиция приходит с нулевым
// количеством и сразу получает запомненную базовую цену.
func (s *EstimateService) InsertCatalogWork(ctx context.Context, principal model.Principal, estimateID, workID uuid.UUID) (*model.Estimate, error) {
	if principal.IsViewer() {
		return nil, ErrPermissionDenied
	}

	work, err := s.catalog.Work(ctx, workID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: catalog work", ErrNotFound)
		}
		return nil, err
	}
	workMaterials, err := s.catalog.WorkMaterials(ctx, workID)
	if err != nil {
		return nil, err
	}

	tree, err := s.loadTree(ctx, principal, estimateID)
	if err != nil {
		return nil, err
	}

	workIDCopy := work.ID
	materials := make([]estimate.MaterialInput, 0, len(workMaterials))
	for _, m := range workMaterials {
		materialID := m.MaterialID
		materials = append(materials, estimate.MaterialInput{
			MaterialID:  &materialID,
			Code:        m.Code,
			Name:        m.Name,
			Unit:        m.Unit,
			Consumption: m.Consumption,
			UnitPrice:   m.BasePrice,
			IsRequired:  m.IsRequired,
		})
	}
	tree.InsertWork(estimate.WorkInput{
		WorkID:     &workIDCopy,
		Code:       work.Code,
		Name:       work.Name,
		Unit:       work.Unit,
		UnitPrice:  work.BasePrice,
		Phase:      work.Phase,
		Section:    work.Section,
		Subsection: work.Subsection,
	}, materials)

	if err := s.store.SaveBaselines(ctx, estimateID, tree.Prices().Snapshot()); err != nil {
		return nil, err
	}
	return s.store.SaveEstimate(ctx, tree.Estimate())
}

func (s *EstimateService) loadTree(ctx context.Context, principal model.Principal, id uuid.UUID) (*estimate.Tree, error) {
	est, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	baselines, err := s.store.LoadBaselines(ctx, id)
	if err != nil {
		return nil, err
	}
	return estimate.NewTree(est, estimate.RestorePriceStore(baselines)), nil
}
