package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"project_resident/internal/entities"
	"project_resident/internal/usecases"
)

// maxImportBytes caps an uploaded price list file.
const maxImportBytes = 5 << 20

func (h *Handler) ListPriceLists(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	lists, err := h.Prices.ListPriceLists(c.Request.Context(), mustActor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

func (h *Handler) CreatePriceList(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	var in usecases.PriceListInput
	if !bindJSON(c, &in) {
		return
	}
	list, err := h.Prices.CreatePriceList(c.Request.Context(), mustActor(c), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (h *Handler) GetPriceList(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	listID, ok := intParam(c, "listId")
	if !ok {
		return
	}
	list, err := h.Prices.GetPriceList(c.Request.Context(), mustActor(c), id, listID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) UpdatePriceList(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	listID, ok := intParam(c, "listId")
	if !ok {
		return
	}
	var in usecases.PriceListInput
	if !bindJSON(c, &in) {
		return
	}
	list, err := h.Prices.UpdatePriceList(c.Request.Context(), mustActor(c), id, listID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) DeletePriceList(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	listID, ok := intParam(c, "listId")
	if !ok {
		return
	}
	if err := h.Prices.DeletePriceList(c.Request.Context(), mustActor(c), id, listID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ReplaceRows(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	listID, ok := intParam(c, "listId")
	if !ok {
		return
	}
	var req struct {
		Rows []entities.PriceListRow `json:"rows"`
	}
	if !bindJSON(c, &req) {
		return
	}
	list, err := h.Prices.ReplaceRows(c.Request.Context(), mustActor(c), id, listID, req.Rows)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ImportPriceList accepts a CSV either as multipart field "file" or as the raw body.
func (h *Handler) ImportPriceList(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	listID, ok := intParam(c, "listId")
	if !ok {
		return
	}

	body := c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
			return
		}
		if fh.Size > maxImportBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}
		defer f.Close()
		body = f
	}

	list, err := h.Prices.ImportCSV(c.Request.Context(), mustActor(c), id, listID, body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(list.Rows), "price_list": list})
}

func (h *Handler) SharePriceList(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	listID, ok := intParam(c, "listId")
	if !ok {
		return
	}
	var req struct {
		PartnerSlug string `json:"partner_slug"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if !ValidSlug(req.PartnerSlug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner_slug"})
		return
	}
	a, err := h.Prices.Share(c.Request.Context(), mustActor(c), id, listID, req.PartnerSlug)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAssignments(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	a, err := h.Prices.ListAssignments(c.Request.Context(), mustActor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) AcceptAssignment(c *gin.Context) {
	h.respondAssignment(c, true)
}

func (h *Handler) DeclineAssignment(c *gin.Context) {
	h.respondAssignment(c, false)
}

func (h *Handler) respondAssignment(c *gin.Context, accept bool) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	assignmentID, ok := intParam(c, "assignmentId")
	if !ok {
		return
	}
	a, err := h.Prices.Respond(c.Request.Context(), mustActor(c), id, assignmentID, accept)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) RevokeAssignment(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	assignmentID, ok := intParam(c, "assignmentId")
	if !ok {
		return
	}
	if err := h.Prices.Revoke(c.Request.Context(), mustActor(c), id, assignmentID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PriceComparison(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	cmp, err := h.Comparison.Compare(c.Request.Context(), mustActor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// RequestSummary prices a draft basket. GET takes items as repeated or
// ";"-separated query values; POST takes {items, text}.
func (h *Handler) RequestSummary(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}

	var req struct {
		Items []usecases.BasketItem `json:"items"`
		Text  string                `json:"text"`
	}
	if c.Request.Method == http.MethodGet {
		req.Text = strings.ReplaceAll(strings.Join(c.QueryArray("items"), "\n"), ";", "\n")
	} else if !bindJSON(c, &req) {
		return
	}

	summary, err := h.Comparison.Summary(c.Request.Context(), mustActor(c), id, req.Items, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
