package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/authz"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/middleware"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/models"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/repository"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/services"
	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
	exportService      *services.ExportService
}

func NewApplicationHandler(applicationService *services.ApplicationService, exportService *services.ExportService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService, exportService: exportService}
}

// Index lists live applications. Customers only see their own.
func (h *ApplicationHandler) Index(c *gin.Context) {
	query := &repository.ApplicationQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	query.Status = strings.ToUpper(c.Query("status"))
	if query.Status != "" && !models.IsValidStatus(query.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}
	query.LoanType = strings.ToUpper(c.Query("loan_type"))
	if query.PerPage < 1 {
		query.PerPage = 20
	}
	if !authz.Allows(middleware.GetRole(c), authz.Decide) {
		query.Email = middleware.GetActor(c)
	}

	apps, total, err := h.applicationService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

func (h *ApplicationHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	app, err := h.applicationService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// Lookup finds an application by its LA-... identifier
func (h *ApplicationHandler) Lookup(c *gin.Context) {
	app, err := h.applicationService.GetByApplicationID(c.Request.Context(), c.Param("application_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// Create submits and scores a new application
func (h *ApplicationHandler) Create(c *gin.Context) {
	var in models.ApplicationInput
	if err := BindNestedOrFlat(c, "application", &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ev, err := h.applicationService.Create(c.Request.Context(), in, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// Update replaces the data of a pending application and rescores it
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in models.ApplicationInput
	if err := BindNestedOrFlat(c, "application", &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ev, err := h.applicationService.Update(c.Request.Context(), id, in, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.applicationService.Delete(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "application deleted"})
}

// Purge removes the application and its whole history
func (h *ApplicationHandler) Purge(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.applicationService.Purge(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ApplicationHandler) RiskFactors(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	factors, err := h.applicationService.RiskFactors(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"risk_factors": factors})
}

type AdvisoryRequest struct {
	Explanation string `json:"explanation"`
	Suggestions string `json:"suggestions"`
}

// SetAdvisory stores externally produced narrative text
func (h *ApplicationHandler) SetAdvisory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req AdvisoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	app, err := h.applicationService.SetAdvisory(c.Request.Context(), id, req.Explanation, req.Suggestions, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// Export downloads the application report as csv, xlsx or pdf
func (h *ApplicationHandler) Export(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "pdf")

	report, err := h.exportService.BuildReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var (
		data     []byte
		filename string
	)
	switch format {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(c.Request.Context(), report)
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context(), report)
	case "pdf":
		data, filename, err = h.exportService.ExportPDF(c.Request.Context(), report)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format (csv, xlsx, pdf)"})
		return
	}
	if err != nil {
		respondError(c, fmt.Errorf("failed to generate %s: %w", format, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}
