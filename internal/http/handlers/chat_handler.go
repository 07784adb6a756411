package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zigger-app/gig-backend/internal/http/handlers/common"
	"github.com/zigger-app/gig-backend/internal/service"
)

// ChatHandler отвечает за чат задания между участниками.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler создаёт хэндлер.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Send POST /gigs/:id/chat
func (h *ChatHandler) Send(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "сообщение не может быть пустым")
		return
	}

	msg, err := h.chat.SendMessage(c.Request.Context(), userID, gigID, req.Content)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// List GET /gigs/:id/chat
func (h *ChatHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := h.chat.ListMessages(c.Request.Context(), userID, gigID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
