package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/smeta-acts/internal/estimate"
	"github.com/nurpe/smeta-acts/internal/http/middleware"
	"github.com/nurpe/smeta-acts/internal/model"
	"github.com/nurpe/smeta-acts/internal/service"
)

type Handler struct {
	estimates *service.EstimateService
	acts      *service.ActService
	log       zerolog.Logger
}

func NewHandler(estimates *service.EstimateService, acts *service.ActService, log zerolog.Logger) *Handler {
	return &Handler{estimates: estimates, acts: acts, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/estimates", h.listEstimates)
	protected.POST("/estimates", h.saveEstimate)
	protected.GET("/estimates/:id", h.getEstimate)
	protected.POST("/estimates/:id/works", h.insertWork)
	protected.POST("/estimates/:id/coefficient", h.applyCoefficient)
	protected.POST("/estimates/:id/prices/reset", h.resetPrices)
	protected.POST("/estimates/:id/completions", h.markCompleted)
	protected.POST("/estimates/:id/acts", h.generateAct)
	protected.GET("/estimates/:id/acts", h.listActs)

	protected.GET("/acts/:id", h.getAct)
	protected.PATCH("/acts/:id/status", h.setActStatus)
	protected.POST("/acts/:id/release", h.releaseActRecords)
	protected.GET("/acts/:id/accumulation", h.accumulation)
	protected.GET("/acts/:id/certificate", h.exportCertificate)
	protected.GET("/acts/:id/form", h.exportActForm)
}

type saveMaterialRequest struct {
	MaterialID    string  `json:"material_id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Consumption   float64 `json:"consumption"`
	AutoCalculate bool    `json:"auto_calculate"`
	IsRequired    bool    `json:"is_required"`
	Notes         string  `json:"notes"`
}

type saveItemRequest struct {
	ID            string                `json:"id"`
	WorkID        string                `json:"workId"`
	ItemType      string                `json:"item_type"`
	Code          string                `json:"code"`
	Name          string                `json:"name"`
	Unit          string                `json:"unit"`
	Quantity      float64               `json:"quantity"`
	QuantityUnset bool                  `json:"quantity_unset"`
	UnitPrice     float64               `json:"unit_price"`
	Phase         string                `json:"phase"`
	Section       string                `json:"section"`
	Subsection    string                `json:"subsection"`
	Materials     []saveMaterialRequest `json:"materials"`
}

type saveEstimateRequest struct {
	ID             string            `json:"id"`
	Name           string            `json:"name" binding:"required"`
	ProjectID      string            `json:"projectId"`
	EstimateType   string            `json:"estimateType"`
	Status         string            `json:"status"`
	Description    string            `json:"description"`
	EstimateDate   string            `json:"estimateDate"`
	Currency       string            `json:"currency"`
	CustomerName   string            `json:"customerName"`
	ContractorName string            `json:"contractorName"`
	ContractNumber string            `json:"contractNumber"`
	ObjectName     string            `json:"objectName"`
	Items          []saveItemRequest `json:"items"`
}

func (h *Handler) saveEstimate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req saveEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	est, err := buildEstimate(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.estimates.Save(c.Request.Context(), principal, est)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimateResponse(saved))
}

func (h *Handler) listEstimates(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	estimates, err := h.estimates.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]gin.H, 0, len(estimates))
	for i := range estimates {
		out = append(out, estimateHeaderResponse(&estimates[i]))
	}
	c.JSON(http.StatusOK, gin.H{"estimates": out})
}

func (h *Handler) getEstimate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}
	est, err := h.estimates.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimateResponse(est))
}

type insertWorkRequest struct {
	WorkID string `json:"work_id" binding:"required"`
}

func (h *Handler) insertWork(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}
	var req insertWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	workID, err := uuid.Parse(strings.TrimSpace(req.WorkID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work_id"})
		return
	}

	est, err := h.estimates.InsertCatalogWork(c.Request.Context(), principal, estimateID, workID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimateResponse(est))
}

type coefficientRequest struct {
	Percent *float64 `json:"percent" binding:"required"`
}

func (h *Handler) applyCoefficient(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}
	var req coefficientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	est, err := h.estimates.ApplyCoefficient(c.Request.Context(), principal, id, *req.Percent)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimateResponse(est))
}

func (h *Handler) resetPrices(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}

	est, err := h.estimates.ResetPrices(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimateResponse(est))
}

type markCompletedRequest struct {
	EstimateItemID string  `json:"estimate_item_id" binding:"required"`
	Completed      bool    `json:"completed"`
	ActualQuantity float64 `json:"actual_quantity"`
}

func (h *Handler) markCompleted(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}
	var req markCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itemID, err := uuid.Parse(strings.TrimSpace(req.EstimateItemID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate_item_id"})
		return
	}

	err = h.acts.MarkCompleted(c.Request.Context(), service.MarkCompletedInput{
		Principal:      principal,
		EstimateID:     estimateID,
		EstimateItemID: itemID,
		Completed:      req.Completed,
		ActualQuantity: req.ActualQuantity,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type generateActRequest struct {
	ActType    string `json:"act_type" binding:"required"`
	ActDate    string `json:"act_date" binding:"required"`
	PeriodFrom string `json:"period_from" binding:"required"`
	PeriodTo   string `json:"period_to" binding:"required"`
}

func (h *Handler) generateAct(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}
	var req generateActRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actType, err := parseActType(req.ActType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid act_type"})
		return
	}
	actDate, err := parseDate(req.ActDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid act_date"})
		return
	}
	from, err := parseDate(req.PeriodFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_from"})
		return
	}
	to, err := parseDate(req.PeriodTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_to"})
		return
	}

	act, err := h.acts.Generate(c.Request.Context(), service.GenerateActInput{
		Principal:  principal,
		EstimateID: estimateID,
		ActType:    actType,
		ActDate:    actDate,
		PeriodFrom: from,
		PeriodTo:   to,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, actResponse(act))
}

func (h *Handler) listActs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}
	acts, err := h.acts.ListActs(c.Request.Context(), principal, estimateID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]gin.H, 0, len(acts))
	for i := range acts {
		out = append(out, actResponse(&acts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"acts": out})
}

func (h *Handler) getAct(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid act id"})
		return
	}
	act, items, err := h.acts.GetAct(c.Request.Context(), principal, actID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response := actResponse(act)
	rows := make([]gin.H, 0, len(items))
	for _, item := range items {
		rows = append(rows, gin.H{
			"position_number":  item.PositionNumber,
			"estimate_item_id": item.EstimateItemID,
			"work_code":        item.WorkCode,
			"work_name":        item.WorkName,
			"unit":             item.Unit,
			"planned_quantity": item.PlannedQuantity,
			"actual_quantity":  item.ActualQuantity,
			"unit_price":       item.UnitPrice,
			"total_price":      item.TotalPrice,
		})
	}
	response["items"] = rows
	c.JSON(http.StatusOK, response)
}

type actStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) setActStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid act id"})
		return
	}
	var req actStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := model.ActStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err := h.acts.SetStatus(c.Request.Context(), principal, actID, status); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) releaseActRecords(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid act id"})
		return
	}
	if err := h.acts.ReleaseRecords(c.Request.Context(), principal, actID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) accumulation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid act id"})
		return
	}
	act, acc, err := h.acts.Accumulate(c.Request.Context(), principal, actID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]gin.H, 0, len(acc.Items))
	for _, item := range acc.Items {
		items = append(items, gin.H{
			"estimate_item_id": item.EstimateItemID,
			"quantity_prev":    item.QuantityPrev,
			"quantity_current": item.QuantityCurrent,
			"quantity_ytd":     item.QuantityYTD,
			"amount_prev":      item.AmountPrev,
			"amount_current":   item.AmountCurrent,
			"amount_ytd":       item.AmountYTD,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"act_id":                act.ID,
		"total_amount_ytd":      acc.TotalAmountYTD,
		"prev_period_amount":    acc.PrevPeriodAmount,
		"current_period_amount": acc.CurrentPeriodAmount,
		"items":                 items,
	})
}

func (h *Handler) exportCertificate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid act id"})
		return
	}
	result, err := h.acts.ExportCertificate(c.Request.Context(), principal, actID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) exportActForm(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid act id"})
		return
	}
	result, err := h.acts.ExportActForm(c.Request.Context(), principal, actID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoCompletedWorks):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// buildEstimate собирает модель из сохраняемого контракта, пересчитывая
// итоги на сервере: клиентским суммам не доверяем.
func buildEstimate(req saveEstimateRequest) (*model.Estimate, error) {
	est := &model.Estimate{
		Name:           strings.TrimSpace(req.Name),
		EstimateType:   req.EstimateType,
		Status:         model.EstimateStatus(req.Status),
		Description:    req.Description,
		Currency:       req.Currency,
		CustomerName:   req.CustomerName,
		ContractorName: req.ContractorName,
		ContractNumber: req.ContractNumber,
		ObjectName:     req.ObjectName,
	}
	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, errors.New("invalid estimate id")
		}
		est.ID = id
	}
	if req.ProjectID != "" {
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return nil, errors.New("invalid projectId")
		}
		est.ProjectID = &projectID
	}
	if req.EstimateDate != "" {
		date, err := parseDate(req.EstimateDate)
		if err != nil {
			return nil, errors.New("invalid estimateDate")
		}
		est.EstimateDate = date
	}

	for _, item := range req.Items {
		if item.ItemType != "" && item.ItemType != "work" {
			continue
		}
		work := model.WorkItem{
			Code:          item.Code,
			Name:          item.Name,
			Unit:          item.Unit,
			Quantity:      item.Quantity,
			QuantityUnset: item.QuantityUnset,
			UnitPrice:     item.UnitPrice,
			Phase:         strings.TrimSpace(item.Phase),
			Section:       item.Section,
			Subsection:    item.Subsection,
		}
		if work.Phase == "" {
			work.Phase = model.DefaultPhase
		}
		if item.ID != "" {
			id, err := uuid.Parse(item.ID)
			if err != nil {
				return nil, errors.New("invalid item id")
			}
			work.ID = id
		}
		if item.WorkID != "" {
			workID, err := uuid.Parse(item.WorkID)
			if err != nil {
				return nil, errors.New("invalid workId")
			}
			work.WorkID = &workID
		}
		if work.QuantityUnset {
			work.Quantity = 0
		}
		work.Total = estimate.Round2(work.Quantity * work.UnitPrice)

		for _, m := range item.Materials {
			material := model.Material{
				Code:          m.Code,
				Name:          m.Name,
				Unit:          m.Unit,
				Consumption:   m.Consumption,
				AutoCalculate: m.AutoCalculate,
				Quantity:      m.Quantity,
				UnitPrice:     m.UnitPrice,
				IsRequired:    m.IsRequired,
				Notes:         m.Notes,
			}
			if m.MaterialID != "" {
				materialID, err := uuid.Parse(m.MaterialID)
				if err != nil {
					return nil, errors.New("invalid material_id")
				}
				material.MaterialID = &materialID
			}
			material.Total = estimate.Round2(material.Quantity * material.UnitPrice)
			work.Materials = append(work.Materials, material)
		}

		idx := -1
		for i := range est.Sections {
			if est.Sections[i].Phase == work.Phase {
				idx = i
				break
			}
		}
		if idx < 0 {
			est.Sections = append(est.Sections, model.Section{Phase: work.Phase})
			idx = len(est.Sections) - 1
		}
		est.Sections[idx].Items = append(est.Sections[idx].Items, work)
	}
	return est, nil
}

func estimateHeaderResponse(est *model.Estimate) gin.H {
	return gin.H{
		"id":             est.ID,
		"name":           est.Name,
		"projectId":      est.ProjectID,
		"estimateType":   est.EstimateType,
		"status":         est.Status,
		"description":    est.Description,
		"estimateDate":   formatDate(est.EstimateDate),
		"currency":       est.Currency,
		"customerName":   est.CustomerName,
		"contractorName": est.ContractorName,
		"contractNumber": est.ContractNumber,
		"objectName":     est.ObjectName,
	}
}

func estimateResponse(est *model.Estimate) gin.H {
	response := estimateHeaderResponse(est)

	works := est.Items()
	items := make([]gin.H, 0, len(works))
	for _, it := range works {
		materials := make([]gin.H, 0, len(it.Materials))
		for _, m := range it.Materials {
			materials = append(materials, gin.H{
				"material_id":    m.MaterialID,
				"code":           m.Code,
				"name":           m.Name,
				"unit":           m.Unit,
				"quantity":       m.Quantity,
				"unit_price":     m.UnitPrice,
				"total":          m.Total,
				"consumption":    m.Consumption,
				"auto_calculate": m.AutoCalculate,
				"is_required":    m.IsRequired,
				"notes":          m.Notes,
			})
		}
		items = append(items, gin.H{
			"id":             it.ID,
			"workId":         it.WorkID,
			"item_type":      "work",
			"code":           it.Code,
			"name":           it.Name,
			"unit":           it.Unit,
			"quantity":       it.Quantity,
			"quantity_unset": it.QuantityUnset,
			"unit_price":     it.UnitPrice,
			"total":          it.Total,
			"phase":          it.Phase,
			"section":        it.Section,
			"subsection":     it.Subsection,
			"materials":      materials,
		})
	}
	response["items"] = items

	sections := make([]gin.H, 0, len(est.Sections))
	for _, sec := range est.Sections {
		sections = append(sections, gin.H{
			"phase":    sec.Phase,
			"subtotal": sec.Subtotal,
		})
	}
	response["sections"] = sections
	return response
}

func actResponse(act *model.CompletionAct) gin.H {
	return gin.H{
		"id":             act.ID,
		"estimate_id":    act.EstimateID,
		"act_type":       act.ActType,
		"act_number":     act.ActNumber,
		"act_date":       formatDate(act.ActDate),
		"period_from":    formatDate(act.PeriodFrom),
		"period_to":      formatDate(act.PeriodTo),
		"total_amount":   act.TotalAmount,
		"total_quantity": act.TotalQuantity,
		"work_count":     act.WorkCount,
		"status":         act.Status,
	}
}

func parseActType(raw string) (model.ActType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "client":
		return model.ActTypeClient, nil
	case "specialist":
		return model.ActTypeSpecialist, nil
	default:
		return "", service.ErrInvalidInput
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
