package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pathwise/pathwise-backend/internal/response"
	"github.com/pathwise/pathwise-backend/internal/roadmap"
	"github.com/pathwise/pathwise-backend/internal/services"
)

type PathwayHandler struct {
	pathway services.PathwayService
}

func NewPathwayHandler(pathway services.PathwayService) *PathwayHandler {
	return &PathwayHandler{pathway: pathway}
}

type savePathwayReq struct {
	Plan   roadmap.Roadmap `json:"plan"`
	Title  *string         `json:"title"`
	Status *string         `json:"status"`
}

// POST /api/chats/:id/pathway
func (h *PathwayHandler) SaveAsPathway(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chat_id", err)
		return
	}
	var req savePathwayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	pathwayID, created, err := h.pathway.SaveAsPathway(c.Request.Context(), chatID, req.Plan, req.Title, req.Status)
	if err != nil {
		respondChatErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"pathway_id": pathwayID, "created": created})
}
