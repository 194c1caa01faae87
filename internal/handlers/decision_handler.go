package handlers

import (
	"net/http"

	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/middleware"
	"github.com/Manishnemade12/Intelligent-Loan-Approval-System/internal/services"
	"github.com/gin-gonic/gin"
)

type DecisionHandler struct {
	decisionService *services.DecisionService
}

func NewDecisionHandler(decisionService *services.DecisionService) *DecisionHandler {
	return &DecisionHandler{decisionService: decisionService}
}

type ApproveRequest struct {
	Notes string `json:"notes"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

type ReviewRequest struct {
	Reason     string `json:"reason"`
	AssignedTo string `json:"assigned_to"`
	Notes      string `json:"notes"`
}

type NoteRequest struct {
	Note string `json:"note"`
}

func (h *DecisionHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ApproveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	app, err := h.decisionService.Approve(c.Request.Context(), id, middleware.GetActor(c), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *DecisionHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req RejectRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	app, err := h.decisionService.Reject(c.Request.Context(), id, middleware.GetActor(c), req.Reason, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *DecisionHandler) RequestReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	app, err := h.decisionService.RequestManualReview(c.Request.Context(), id, middleware.GetActor(c), req.Reason, req.AssignedTo, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *DecisionHandler) AddNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req NoteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	app, err := h.decisionService.AppendNote(c.Request.Context(), id, middleware.GetActor(c), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}
