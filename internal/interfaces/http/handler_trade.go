package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"project_resident/internal/entities"
	"project_resident/internal/usecases"
)

func (h *Handler) CreateRequest(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	var in usecases.RequestInput
	if !bindJSON(c, &in) {
		return
	}
	in.Comment = SanitizeString(in.Comment)
	req, err := h.Requests.Create(c.Request.Context(), mustActor(c), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) ListRequests(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	direction := c.DefaultQuery("direction", usecases.DirectionOutgoing)
	list, err := h.Requests.List(c.Request.Context(), mustActor(c), id, direction)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetRequest(c *gin.Context) {
	h.requestAction(c, h.Requests.Get)
}

func (h *Handler) AcceptRequest(c *gin.Context) {
	h.requestAction(c, h.Requests.Accept)
}

func (h *Handler) RejectRequest(c *gin.Context) {
	h.requestAction(c, h.Requests.Reject)
}

func (h *Handler) CancelRequest(c *gin.Context) {
	h.requestAction(c, h.Requests.Cancel)
}

func (h *Handler) CompleteRequest(c *gin.Context) {
	h.requestAction(c, h.Requests.Complete)
}

type requestFunc func(ctx context.Context, actor usecases.Actor, businessID, requestID int) (*entities.Request, error)

func (h *Handler) requestAction(c *gin.Context, fn requestFunc) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	requestID, ok := intParam(c, "requestId")
	if !ok {
		return
	}
	req, err := fn(c.Request.Context(), mustActor(c), id, requestID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) AssignPicker(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	requestID, ok := intParam(c, "requestId")
	if !ok {
		return
	}
	var req struct {
		PickerName string `json:"picker_name"`
	}
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Requests.AssignPicker(c.Request.Context(), mustActor(c), id, requestID, SanitizeString(req.PickerName))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) PickerView(c *gin.Context) {
	view, err := h.Requests.PickerView(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) SetPickedQuantity(c *gin.Context) {
	itemID, ok := intParam(c, "itemId")
	if !ok {
		return
	}
	var req struct {
		PickedQuantity *float64 `json:"picked_quantity"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.PickedQuantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "picked_quantity is required"})
		return
	}
	updated, err := h.Requests.SetPickedQuantity(c.Request.Context(), c.Param("token"), itemID, *req.PickedQuantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) CompletePicking(c *gin.Context) {
	req, err := h.Requests.CompletePicking(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	requestID, ok := intParam(c, "requestId")
	if !ok {
		return
	}
	inv, err := h.Invoices.Create(c.Request.Context(), mustActor(c), id, requestID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *Handler) ListInvoices(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	list, err := h.Invoices.List(c.Request.Context(), mustActor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := businessParam(c)
	if !ok {
		return
	}
	invoiceID, ok := intParam(c, "invoiceId")
	if !ok {
		return
	}
	inv, err := h.Invoices.Get(c.Request.Context(), mustActor(c), id, invoiceID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
