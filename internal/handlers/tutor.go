package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pathwise/pathwise-backend/internal/response"
	"github.com/pathwise/pathwise-backend/internal/roadmap"
	"github.com/pathwise/pathwise-backend/internal/services"
)

type TutorHandler struct {
	tutor services.TutorService
}

func NewTutorHandler(tutor services.TutorService) *TutorHandler {
	return &TutorHandler{tutor: tutor}
}

// tutorReply splits a raw tutoring-service reply into clean prose and an
// optional extracted roadmap. Extraction fails open: when no valid roadmap
// is embedded the full text is the message and roadmap stays null.
func tutorReply(raw string) gin.H {
	plan, ok := roadmap.Extract(raw)
	if !ok {
		return gin.H{"message": roadmap.StripPlan(raw), "roadmap": nil}
	}
	return gin.H{"message": roadmap.StripPlan(raw), "roadmap": plan}
}

// GET /api/tutor/ask?query=...
func (h *TutorHandler) Ask(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_query", nil)
		return
	}
	raw, err := h.tutor.Ask(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "upstream_unavailable", err)
		return
	}
	response.RespondOK(c, tutorReply(raw))
}

type tutorChatReq struct {
	Metadata services.ChatContext `json:"metadata"`
	Query    string               `json:"query" binding:"required"`
}

// POST /api/tutor/chat
func (h *TutorHandler) GeneralChat(c *gin.Context) {
	var req tutorChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	raw, err := h.tutor.GeneralChat(c.Request.Context(), req.Metadata, req.Query)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "upstream_unavailable", err)
		return
	}
	response.RespondOK(c, tutorReply(raw))
}

// GET /api/content?query=...
func (h *TutorHandler) LookupContent(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_query", nil)
		return
	}
	items, err := h.tutor.LookupContent(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "upstream_unavailable", err)
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}
