package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/smeta-acts/internal/model"
	"github.com/nurpe/smeta-acts/internal/repository"
)

type ActStore interface {
	GenerateAct(ctx context.Context, p repository.GenerateActParams) (*model.CompletionAct, []model.ActItem, error)
	MarkCompletion(ctx context.Context, rec model.WorkCompletionRecord) error
	GetActByID(ctx context.Context, id uuid.UUID) (*model.CompletionAct, error)
	GetActItems(ctx context.Context, actID uuid.UUID) ([]model.ActItem, error)
	ListActs(ctx context.Context, estimateID uuid.UUID) ([]model.CompletionAct, error)
	UpdateActStatus(ctx context.Context, actID uuid.UUID, status model.ActStatus) error
	ReleaseActRecords(ctx context.Context, actID uuid.UUID) error
	AccumulationHistory(ctx context.Context, estimateID uuid.UUID, actType model.ActType, year int, asOf time.Time) ([]model.ActItemHistory, error)
}

type EstimateStore interface {
	SaveEstimate(ctx context.Context, est *model.Estimate) (*model.Estimate, error)
	GetEstimate(ctx context.Context, id uuid.UUID) (*model.Estimate, error)
	ListEstimates(ctx context.Context, tenantID uuid.UUID) ([]model.Estimate, error)
	LoadBaselines(ctx context.Context, estimateID uuid.UUID) (map[string]float64, error)
	SaveBaselines(ctx context.Context, estimateID uuid.UUID, baselines map[string]float64) error
}

type CertificateGenerator interface {
	Generate(cert model.Certificate) ([]byte, error)
}

type ActFormGenerator interface {
	Generate(doc model.ActDocument) ([]byte, error)
}

type ActService struct {
	acts      ActStore
	estimates EstimateStore
	excel     CertificateGenerator
	pdf       ActFormGenerator
}

func NewActService(acts ActStore, estimates EstimateStore, excel CertificateGenerator, pdf ActFormGenerator) *ActService {
	return &ActService{acts: acts, estimates: estimates, excel: excel, pdf: pdf}
}

type GenerateActInput struct {
	Principal  model.Principal
	EstimateID uuid.UUID
	ActType    model.ActType
	ActDate    time.Time
	PeriodFrom time.Time
	PeriodTo   time.Time
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// Generate превращает выполненные работы сметы в акт указанного типа.
// Клиентский акт считается по текущим ценам сметы, акт специалиста —
// по базовым ценам справочника с откатом к цене сметы для ручных
// позиций. Пустая выборка — это ErrNoCompletedWorks, а не сбой.
func (s *ActService) Generate(ctx context.Context, input GenerateActInput) (*model.CompletionAct, error) {
	if input.Principal.IsViewer() {
		return nil, ErrPermissionDenied
	}
	if input.EstimateID == uuid.Nil {
		return nil, fmt.Errorf("%w: estimate_id is required", ErrInvalidInput)
	}
	if input.ActType != model.ActTypeClient && input.ActType != model.ActTypeSpecialist {
		return nil, fmt.Errorf("%w: invalid act type", ErrInvalidInput)
	}
	if input.ActDate.IsZero() || input.PeriodFrom.IsZero() || input.PeriodTo.IsZero() {
		return nil, fmt.Errorf("%w: act and period dates are required", ErrInvalidInput)
	}
	if input.PeriodFrom.After(input.PeriodTo) {
		return nil, fmt.Errorf("%w: period_from must be before or equal to period_to", ErrInvalidInput)
	}

	est, err := s.estimates.GetEstimate(ctx, input.EstimateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if est.TenantID != input.Principal.TenantID {
		return nil, ErrPermissionDenied
	}

	act, _, err := s.acts.GenerateAct(ctx, repository.GenerateActParams{
		TenantID:    input.Principal.TenantID,
		EstimateID:  input.EstimateID,
		ActType:     input.ActType,
		ActDate:     dateOnly(input.ActDate),
		PeriodFrom:  dateOnly(input.PeriodFrom),
		PeriodTo:    dateOnly(input.PeriodTo),
		CreatedByID: input.Principal.UserID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoEligibleRecords) {
			return nil, ErrNoCompletedWorks
		}
		return nil, err
	}
	return act, nil
}

type MarkCompletedInput struct {
	Principal      model.Principal
	EstimateID     uuid.UUID
	EstimateItemID uuid.UUID
	Completed      bool
	ActualQuantity float64
}

func (s *ActService) MarkCompleted(ctx context.Context, input MarkCompletedInput) error {
	if input.Principal.IsViewer() {
		return ErrPermissionDenied
	}
	if input.EstimateID == uuid.Nil || input.EstimateItemID == uuid.Nil {
		return fmt.Errorf("%w: estimate and item ids are required", ErrInvalidInput)
	}
	if input.ActualQuantity < 0 {
		return fmt.Errorf("%w: actual_quantity must be non-negative", ErrInvalidInput)
	}
	return s.acts.MarkCompletion(ctx, model.WorkCompletionRecord{
		EstimateID:     input.EstimateID,
		EstimateItemID: input.EstimateItemID,
		Completed:      input.Completed,
		ActualQuantity: input.ActualQuantity,
	})
}

func (s *ActService) GetAct(ctx context.Context, principal model.Principal, actID uuid.UUID) (*model.CompletionAct, []model.ActItem, error) {
	act, err := s.loadAct(ctx, principal, actID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.acts.GetActItems(ctx, actID)
	if err != nil {
		return nil, nil, err
	}
	return act, items, nil
}

func (s *ActService) ListActs(ctx context.Context, principal model.Principal, estimateID uuid.UUID) ([]model.CompletionAct, error) {
	est, err := s.estimates.GetEstimate(ctx, estimateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if est.TenantID != principal.TenantID {
		return nil, ErrPermissionDenied
	}
	return s.acts.ListActs(ctx, estimateID)
}

// SetStatus переводит акт в новый статус. Отмена не возвращает записи
// о выполнении в оборот: это отдельная операция ReleaseRecords.
func (s *ActService) SetStatus(ctx context.Context, principal model.Principal, actID uuid.UUID, status model.ActStatus) error {
	if !principal.IsManager() {
		return ErrPermissionDenied
	}
	if status != model.ActStatusApproved && status != model.ActStatusCancelled {
		return fmt.Errorf("%w: invalid act status", ErrInvalidInput)
	}
	if _, err := s.loadAct(ctx, principal, actID); err != nil {
		return err
	}
	return s.acts.UpdateActStatus(ctx, actID, status)
}

func (s *ActService) ReleaseRecords(ctx context.Context, principal model.Principal, actID uuid.UUID) error {
	if !principal.IsManager() {
		return ErrPermissionDenied
	}
	if _, err := s.loadAct(ctx, principal, actID); err != nil {
		return err
	}
	return s.acts.ReleaseActRecords(ctx, actID)
}

// Accumulate считает накопительные срезы акта по одной выборке истории.
func (s *ActService) Accumulate(ctx context.Context, principal model.Principal, actID uuid.UUID) (*model.CompletionAct, Accumulation, error) {
	act, err := s.loadAct(ctx, principal, actID)
	if err != nil {
		return nil, Accumulation{}, err
	}
	history, err := s.acts.AccumulationHistory(ctx, act.EstimateID, act.ActType, act.ActDate.Year(), act.ActDate)
	if err != nil {
		return nil, Accumulation{}, err
	}
	return act, BuildAccumulation(*act, history), nil
}

// ExportCertificate собирает справку с нарастающим итогом и отдаёт её
// книгой xlsx.
func (s *ActService) ExportCertificate(ctx context.Context, principal model.Principal, actID uuid.UUID) (*ExportResult, error) {
	act, acc, err := s.Accumulate(ctx, principal, actID)
	if err != nil {
		return nil, err
	}
	items, err := s.acts.GetActItems(ctx, actID)
	if err != nil {
		return nil, err
	}
	est, err := s.estimates.GetEstimate(ctx, act.EstimateID)
	if err != nil {
		return nil, err
	}

	cert := model.Certificate{
		Act:                 *act,
		CustomerName:        est.CustomerName,
		ContractorName:      est.ContractorName,
		ContractNumber:      est.ContractNumber,
		ObjectName:          est.ObjectName,
		Currency:            est.Currency,
		TotalAmountYTD:      acc.TotalAmountYTD,
		PrevPeriodAmount:    acc.PrevPeriodAmount,
		CurrentPeriodAmount: acc.CurrentPeriodAmount,
	}
	byItem := make(map[uuid.UUID]ItemAccumulation, len(acc.Items))
	for _, item := range acc.Items {
		byItem[item.EstimateItemID] = item
	}
	for _, it := range items {
		row := model.CertificateRow{
			Position:  it.PositionNumber,
			WorkCode:  it.WorkCode,
			WorkName:  it.WorkName,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
		}
		if agg, ok := byItem[it.EstimateItemID]; ok {
			row.QuantityPrev = agg.QuantityPrev
			row.QuantityCurrent = agg.QuantityCurrent
			row.QuantityYTD = agg.QuantityYTD
			row.AmountPrev = agg.AmountPrev
			row.AmountCurrent = agg.AmountCurrent
			row.AmountYTD = agg.AmountYTD
		}
		cert.Rows = append(cert.Rows, row)
	}

	content, err := s.excel.Generate(cert)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildExportFileName("ks3", act, "xlsx"),
		Content:  content,
	}, nil
}

// ExportActForm отдаёт печатную форму акта в PDF.
func (s *ActService) ExportActForm(ctx context.Context, principal model.Principal, actID uuid.UUID) (*ExportResult, error) {
	act, items, err := s.GetAct(ctx, principal, actID)
	if err != nil {
		return nil, err
	}
	est, err := s.estimates.GetEstimate(ctx, act.EstimateID)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.Generate(model.ActDocument{
		Act:            *act,
		Items:          items,
		CustomerName:   est.CustomerName,
		ContractorName: est.ContractorName,
		ContractNumber: est.ContractNumber,
		ObjectName:     est.ObjectName,
		Currency:       est.Currency,
	})
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildExportFileName("act", act, "pdf"),
		Content:  content,
	}, nil
}

func (s *ActService) loadAct(ctx context.Context, principal model.Principal, actID uuid.UUID) (*model.CompletionAct, error) {
	act, err := s.acts.GetActByID(ctx, actID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if act.TenantID != principal.TenantID {
		return nil, ErrPermissionDenied
	}
	return act, nil
}

func buildExportFileName(kind string, act *model.CompletionAct, ext string) string {
	number := sanitizeFileName(act.ActNumber)
	if number == "" {
		number = act.ID.String()
	}
	return fmt.Sprintf("%s-%s-%s.%s", kind, number, act.ActDate.Format("20060102"), ext)
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
