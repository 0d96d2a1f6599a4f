package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"business_name"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, business, err := h.Auth.Register(c.Request.Context(), req.Email, req.Password, SanitizeString(req.BusinessName))
	if err != nil {
		h.respondError(c, err)
		return
	}
	token, err := h.Auth.IssueToken(user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "business": business, "token": token})
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) Me(c *gin.Context) {
	user, businesses, err := h.Auth.Me(c.Request.Context(), mustActor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	ids := make([]int, 0, len(businesses))
	for _, b := range businesses {
		ids = append(ids, b.ID)
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "business_ids": ids, "businesses": businesses})
}
