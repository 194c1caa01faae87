package handlers

import (
	"net/http"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/services"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// Index returns the audit trail of one application, oldest first
func (h *AuditHandler) Index(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.auditService.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_trail": entries, "total": len(entries)})
}
