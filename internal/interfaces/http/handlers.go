package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/service"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	reportService     service.ReportService
	auditService      service.AuditService
	suggestionService service.SuggestionService
	logger            Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	reportService service.ReportService,
	auditService service.AuditService,
	suggestionService service.SuggestionService,
	logger Logger,
) *Handlers {
	return &Handlers{
		reportService:     reportService,
		auditService:      auditService,
		suggestionService: suggestionService,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateReportRequest is the body of POST /api/reports
type CreateReportRequest struct {
	AssetID       int64    `json:"asset_id" binding:"required"`
	Type          string   `json:"type" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Images        []string `json:"images"`
	ReporterName  string   `json:"reporter_name"`
	ReporterEmail string   `json:"reporter_email"`
}

// ApproveReportRequest is the body of POST /api/reports/:id/approve
type ApproveReportRequest struct {
	StaffIDs       []int64 `json:"staff_ids" binding:"required"`
	Subject        string  `json:"subject" binding:"required"`
	Description    string  `json:"description"`
	ExpirationDays int     `json:"expiration_days" binding:"required"`
	Actor          string  `json:"actor"`
}

// RejectReportRequest is the body of POST /api/reports/:id/reject
type RejectReportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CreateAuditRequest is the body of POST /api/audits
type CreateAuditRequest struct {
	AssetID        int64   `json:"asset_id" binding:"required"`
	Subject        string  `json:"subject" binding:"required"`
	Description    string  `json:"description"`
	StaffIDs       []int64 `json:"staff_ids" binding:"required"`
	ExpirationDays int     `json:"expiration_days" binding:"required"`
	Actor          string  `json:"actor"`
}

// UpdateAuditStatusRequest is the body of POST /api/audits/:id/status
type UpdateAuditStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Actor  string `json:"actor"`
}

// CancelAuditRequest is the body of POST /api/audits/:id/cancel
type CancelAuditRequest struct {
	Reason string `json:"reason" binding:"required"`
	Actor  string `json:"actor"`
}

// ListRequest represents pagination query parameters
type ListRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

func (r *ListRequest) normalize() {
	if r.Limit <= 0 || r.Limit > 100 {
		r.Limit = 20
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateReport handles POST /api/reports
func (h *Handlers) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), service.CreateReportInput{
		AssetID:       req.AssetID,
		Type:          req.Type,
		Description:   req.Description,
		Images:        req.Images,
		ReporterName:  req.ReporterName,
		ReporterEmail: req.ReporterEmail,
	})
	if err != nil {
		h.serviceError(c, "create report", err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: report})
}

// ListReports handles GET /api/reports
func (h *Handlers) ListReports(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters")
		return
	}
	req.normalize()

	reports, err := h.reportService.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.serviceError(c, "list reports", err)
		return
	}
	if reports == nil {
		reports = []*entity.Report{}
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: reports})
}

// GetReport handles GET /api/reports/:id
func (h *Handlers) GetReport(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	report, err := h.reportService.Get(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, "get report", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: report})
}

// GetAdvice handles GET /api/reports/:id/advice
func (h *Handlers) GetAdvice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	advice, err := h.reportService.GetAdvice(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, "get advice", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: advice})
}

// GetSuggestions handles GET /api/reports/:id/suggestions
func (h *Handlers) GetSuggestions(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	result, err := h.suggestionService.SuggestStaffFor(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, "suggest staff", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// ApproveReport handles POST /api/reports/:id/approve
func (h *Handlers) ApproveReport(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req ApproveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	audit, err := h.reportService.Approve(c.Request.Context(), service.ApproveInput{
		ReportID:       id,
		StaffIDs:       req.StaffIDs,
		Subject:        req.Subject,
		Description:    req.Description,
		ExpirationDays: req.ExpirationDays,
		Actor:          req.Actor,
	})
	if err != nil {
		h.serviceError(c, "approve report", err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: audit})
}

// RejectReport handles POST /api/reports/:id/reject
func (h *Handlers) RejectReport(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req RejectReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	report, err := h.reportService.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.serviceError(c, "reject report", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: report})
}

// CreateAudit handles POST /api/audits
func (h *Handlers) CreateAudit(c *gin.Context) {
	var req CreateAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	audit, err := h.auditService.CreateDirect(c.Request.Context(), service.CreateDirectInput{
		AssetID:        req.AssetID,
		Subject:        req.Subject,
		Description:    req.Description,
		StaffIDs:       req.StaffIDs,
		ExpirationDays: req.ExpirationDays,
		Actor:          req.Actor,
	})
	if err != nil {
		h.serviceError(c, "create audit", err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: audit})
}

// ListAudits handles GET /api/audits
func (h *Handlers) ListAudits(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters")
		return
	}
	req.normalize()

	audits, err := h.auditService.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.serviceError(c, "list audits", err)
		return
	}
	if audits == nil {
		audits = []*entity.Audit{}
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: audits})
}

// ListOverdueAudits handles GET /api/audits/overdue
func (h *Handlers) ListOverdueAudits(c *gin.Context) {
	audits, err := h.auditService.ListOverdue(c.Request.Context())
	if err != nil {
		h.serviceError(c, "list overdue audits", err)
		return
	}
	if audits == nil {
		audits = []*entity.Audit{}
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: audits})
}

// ExportAudits handles GET /api/audits/export
func (h *Handlers) ExportAudits(c *gin.Context) {
	path, err := h.auditService.ExportSummary(c.Request.Context())
	if err != nil {
		h.serviceError(c, "export audits", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"file_path": path},
	})
}

// GetAudit handles GET /api/audits/:id
func (h *Handlers) GetAudit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	audit, err := h.auditService.Get(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, "get audit", err)
		return
	}

	overdue, err := h.auditService.IsOverdue(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, "check overdue", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"audit": audit, "overdue": overdue},
	})
}

// GetAuditHistory handles GET /api/audits/:id/history
func (h *Handlers) GetAuditHistory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	history, err := h.auditService.History(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, "get audit history", err)
		return
	}
	if history == nil {
		history = []*entity.AuditStatusHistory{}
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// UpdateAuditStatus handles POST /api/audits/:id/status
func (h *Handlers) UpdateAuditStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateAuditStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	audit, err := h.auditService.UpdateStatus(c.Request.Context(), id, req.Status, req.Actor)
	if err != nil {
		h.serviceError(c, "update audit status", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: audit})
}

// CancelAudit handles POST /api/audits/:id/cancel
func (h *Handlers) CancelAudit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req CancelAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	audit, err := h.auditService.Cancel(c.Request.Context(), id, req.Reason, req.Actor)
	if err != nil {
		h.serviceError(c, "cancel audit", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: audit})
}

// pathID parses the :id path parameter, responding 400 on failure
func (h *Handlers) pathID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger.Error("Invalid ID", "id", idStr, "error", err)
		h.badRequest(c, "invalid ID")
		return 0, false
	}
	return id, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg,
	})
}

// serviceError translates service errors to HTTP status codes
func (h *Handlers) serviceError(c *gin.Context, op string, err error) {
	h.logger.Error("Request failed", "op", op, "error", err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, service.ErrAdvisoryDisabled):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, Response{
		Success: false,
		Error:   err.Error(),
	})
}
