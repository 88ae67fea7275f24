package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathwise/pathwise-backend/internal/response"
	"github.com/pathwise/pathwise-backend/internal/services"
)

type PracticeHandler struct {
	practice services.PracticeService
}

func NewPracticeHandler(practice services.PracticeService) *PracticeHandler {
	return &PracticeHandler{practice: practice}
}

// POST /api/practice
//
// Always responds 200: generation fails open to empty item lists so the UI
// can substitute placeholder content.
func (h *PracticeHandler) Generate(c *gin.Context) {
	var req services.PracticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	practice := h.practice.Generate(c.Request.Context(), req)
	response.RespondOK(c, practice)
}
