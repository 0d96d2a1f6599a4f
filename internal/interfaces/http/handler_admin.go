package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// AdminListBusinesses returns every business, active or not.
func (h *Handler) AdminListBusinesses(c *gin.Context) {
	list, err := h.Dashboard.ListBusinesses(c.Request.Context(), mustActor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AdminSetBusinessStatus activates or deactivates a tenant.
func (h *Handler) AdminSetBusinessStatus(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	var payload struct {
		IsActive *bool `json:"is_active"`
	}
	if !bindJSON(c, &payload) {
		return
	}
	if payload.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
		return
	}

	b, err := h.Dashboard.SetBusinessActive(c.Request.Context(), mustActor(c), id, *payload.IsActive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info("business status changed",
		zap.Int("business_id", b.ID),
		zap.Bool("is_active", b.IsActive),
		zap.Int("admin_id", mustActor(c).UserID))
	c.JSON(http.StatusOK, b)
}

// AdminStats returns platform statistics
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context(), mustActor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"stats": stats}
	if h.WhatsApp != nil {
		resp["whatsapp"] = h.WhatsApp.Status()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) WhatsAppStatus(c *gin.Context) {
	if h.WhatsApp == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false, "connected": false})
		return
	}
	c.JSON(http.StatusOK, h.WhatsApp.Status())
}

// WhatsAppQR returns the pairing QR code as a PNG image.
func (h *Handler) WhatsAppQR(c *gin.Context) {
	if h.WhatsApp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp not configured"})
		return
	}

	code := h.WhatsApp.QR()
	if code == "" {
		if h.WhatsApp.Status().LoggedIn {
			c.JSON(http.StatusConflict, gin.H{"error": "Already logged in"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "QR code not yet available. Please wait..."})
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) WhatsAppLogout(c *gin.Context) {
	if h.WhatsApp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp not configured"})
		return
	}
	if err := h.WhatsApp.Logout(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
