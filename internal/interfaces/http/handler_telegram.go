package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TelegramStatus tells the owner whether a chat is linked and which bot to
// message to obtain a chat id.
func (h *Handler) TelegramStatus(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	b, err := h.Businesses.Get(c.Request.Context(), mustActor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{
		"enabled": h.TelegramBot != "",
		"linked":  b.TelegramChatID != nil,
		"chat_id": b.TelegramChatID,
	}
	if h.TelegramBot != "" {
		resp["bot_name"] = "@" + h.TelegramBot
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) LinkTelegram(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	var req struct {
		ChatID int64 `json:"chat_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Businesses.LinkTelegram(c.Request.Context(), mustActor(c), id, req.ChatID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "linked", "chat_id": req.ChatID})
}

func (h *Handler) UnlinkTelegram(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	if err := h.Businesses.UnlinkTelegram(c.Request.Context(), mustActor(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unlinked"})
}
