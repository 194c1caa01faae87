package handlers

import (
	"net/http"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/middleware"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/services"
	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) Index(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	docs, err := h.documentService.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Create registers document metadata. The file itself is stored elsewhere.
func (h *DocumentHandler) Create(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.DocumentInput
	if err := BindNestedOrFlat(c, "document", &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentService.Register(c.Request.Context(), id, in, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

type VerifyRequest struct {
	Verified *bool `json:"verified"`
}

// Verify sets the verification flag; it defaults to true
func (h *DocumentHandler) Verify(c *gin.Context) {
	docID, ok := parseID(c, "document_id")
	if !ok {
		return
	}
	var req VerifyRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	verified := req.Verified == nil || *req.Verified

	doc, err := h.documentService.Verify(c.Request.Context(), docID, verified, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}
