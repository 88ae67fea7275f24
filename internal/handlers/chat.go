package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pathwise/pathwise-backend/internal/response"
	"github.com/pathwise/pathwise-backend/internal/roadmap"
	"github.com/pathwise/pathwise-backend/internal/services"
	"github.com/pathwise/pathwise-backend/internal/types"
)

type ChatHandler struct {
	chat services.ChatService
}

func NewChatHandler(chat services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func respondChatErr(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "chat_not_found", err)
		return
	}
	response.RespondError(c, http.StatusBadRequest, "chat_operation_failed", err)
}

type createChatReq struct {
	Title           string              `json:"title"`
	InitialMessages []types.ChatMessage `json:"initial_messages"`
	InitialRoadmap  roadmap.Roadmap     `json:"initial_roadmap"`
}

// POST /api/chats
func (h *ChatHandler) Create(c *gin.Context) {
	var req createChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	chatID, err := h.chat.Create(c.Request.Context(), req.Title, req.InitialMessages, req.InitialRoadmap)
	if err != nil {
		respondChatErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chat_id": chatID})
}

// GET /api/chats
func (h *ChatHandler) List(c *gin.Context) {
	chats, err := h.chat.List(c.Request.Context())
	if err != nil {
		respondChatErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chats": chats})
}

// GET /api/chats/:id
func (h *ChatHandler) GetSnapshot(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chat_id", err)
		return
	}
	snapshot, err := h.chat.GetSnapshot(c.Request.Context(), chatID)
	if err != nil {
		respondChatErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chat": snapshot})
}

type saveSnapshotReq struct {
	Messages      []types.ChatMessage `json:"messages"`
	Roadmap       roadmap.Roadmap     `json:"roadmap"`
	TitleFallback string              `json:"title_fallback"`
}

// PUT /api/chats/:id
func (h *ChatHandler) SaveSnapshot(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chat_id", err)
		return
	}
	var req saveSnapshotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.chat.SaveSnapshot(c.Request.Context(), chatID, req.Messages, req.Roadmap, req.TitleFallback); err != nil {
		respondChatErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"saved": true})
}

type appendTurnReq struct {
	UserMessage types.ChatMessage `json:"user_message"`
	AIMessage   types.ChatMessage `json:"ai_message"`
	Roadmap     *roadmap.Roadmap  `json:"roadmap"`
	UIPatch     map[string]any    `json:"ui_patch"`
}

// POST /api/chats/:id/turns
func (h *ChatHandler) AppendTurn(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chat_id", err)
		return
	}
	var req appendTurnReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.chat.AppendTurn(c.Request.Context(), chatID, req.UserMessage, req.AIMessage, req.Roadmap, req.UIPatch); err != nil {
		respondChatErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"appended": true})
}

type renameChatReq struct {
	Title string `json:"title" binding:"required"`
}

// PATCH /api/chats/:id
func (h *ChatHandler) Rename(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chat_id", err)
		return
	}
	var req renameChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.chat.Rename(c.Request.Context(), chatID, req.Title); err != nil {
		respondChatErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"renamed": true})
}

// DELETE /api/chats/:id
func (h *ChatHandler) Delete(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chat_id", err)
		return
	}
	if err := h.chat.Delete(c.Request.Context(), chatID); err != nil {
		respondChatErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
