package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"project_resident/internal/usecases"
)

// SendChatMessage runs one chat widget turn for a public business page.
func (h *Handler) SendChatMessage(c *gin.Context) {
	var in usecases.ChatInput
	if !bindJSON(c, &in) {
		return
	}
	in.Message = SanitizeString(in.Message)

	reply, err := h.Chat.Chat(c.Request.Context(), c.Param("slug"), in)
	if err != nil {
		if errors.Is(err, usecases.ErrRateLimited) {
			c.Header("Retry-After", retryAfterSeconds(h.Chat.RetryAfter(in.VisitorID)))
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// retryAfterSeconds rounds up to whole seconds, at least one.
func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func (h *Handler) CreateInquiry(c *gin.Context) {
	var in usecases.InquiryInput
	if !bindJSON(c, &in) {
		return
	}
	in.CustomerName = SanitizeString(in.CustomerName)
	in.Contact = SanitizeString(in.Contact)
	in.Message = SanitizeString(in.Message)

	inquiry, err := h.Chat.CreateInquiry(c.Request.Context(), c.Param("slug"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inquiry)
}

func (h *Handler) ListConversations(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	list, err := h.Chat.ListConversations(c.Request.Context(), mustActor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) ListMessages(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	msgs, err := h.Chat.ListMessages(c.Request.Context(), mustActor(c), id, c.Param("conversationId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) ListInquiries(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	list, err := h.Chat.ListInquiries(c.Request.Context(), mustActor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) UpdateInquiry(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	inquiryID, ok := intParam(c, "inquiryId")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if err := h.Chat.UpdateInquiryStatus(c.Request.Context(), mustActor(c), id, inquiryID, status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": inquiryID, "status": status})
}
