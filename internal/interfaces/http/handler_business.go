package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project_resident/internal/interfaces"
	"project_resident/internal/usecases"
)

func (h *Handler) ListOwnBusinesses(c *gin.Context) {
	list, err := h.Businesses.ListOwn(c.Request.Context(), mustActor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateBusiness(c *gin.Context) {
	var in usecases.BusinessInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.Businesses.Create(c.Request.Context(), mustActor(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBusiness(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	b, err := h.Businesses.Get(c.Request.Context(), mustActor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) UpdateBusiness(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	var in usecases.BusinessInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.Businesses.Update(c.Request.Context(), mustActor(c), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Directory is the public catalogue of active businesses.
func (h *Handler) Directory(c *gin.Context) {
	list, err := h.Businesses.Directory(c.Request.Context(), interfaces.BusinessFilter{
		City:     TruncateString(c.Query("city"), MaxFilterLength),
		Category: TruncateString(c.Query("category"), MaxFilterLength),
		Query:    TruncateString(c.Query("q"), MaxFilterLength),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	for i := range list {
		list[i].TelegramChatID = nil
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Showcase(c *gin.Context) {
	slug := c.Param("slug")
	if !ValidSlug(slug) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	showcase, err := h.Businesses.Showcase(c.Request.Context(), slug)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, showcase)
}

func (h *Handler) ListPortfolio(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	items, err := h.Portfolio.List(c.Request.Context(), mustActor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreatePortfolioItem(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	var in usecases.PortfolioItemInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.Portfolio.Create(c.Request.Context(), mustActor(c), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetPortfolioItem(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	itemID, ok := intParam(c, "itemId")
	if !ok {
		return
	}
	item, err := h.Portfolio.Get(c.Request.Context(), mustActor(c), id, itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) UpdatePortfolioItem(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	itemID, ok := intParam(c, "itemId")
	if !ok {
		return
	}
	var in usecases.PortfolioItemInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.Portfolio.Update(c.Request.Context(), mustActor(c), id, itemID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeletePortfolioItem(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	itemID, ok := intParam(c, "itemId")
	if !ok {
		return
	}
	if err := h.Portfolio.Delete(c.Request.Context(), mustActor(c), id, itemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddPhoto(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	itemID, ok := intParam(c, "itemId")
	if !ok {
		return
	}
	var in usecases.PhotoInput
	if !bindJSON(c, &in) {
		return
	}
	photo, err := h.Portfolio.AddPhoto(c.Request.Context(), mustActor(c), id, itemID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	photoID, ok := intParam(c, "photoId")
	if !ok {
		return
	}
	if err := h.Portfolio.DeletePhoto(c.Request.Context(), mustActor(c), id, photoID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
