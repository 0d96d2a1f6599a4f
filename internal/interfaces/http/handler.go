package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"project_resident/internal/interfaces"
	"project_resident/internal/usecases"
)

// Deps are the usecases the API is served from. WhatsApp may be nil when no
// platform device is configured.
type Deps struct {
	Auth        *usecases.AuthUsecase
	Businesses  *usecases.BusinessUsecase
	Portfolio   *usecases.PortfolioUsecase
	Prices      *usecases.PriceUsecase
	Comparison  *usecases.ComparisonUsecase
	Requests    *usecases.RequestUsecase
	Invoices    *usecases.InvoiceUsecase
	Chat        *usecases.ChatService
	Dashboard   *usecases.DashboardUsecase
	WhatsApp    interfaces.WhatsAppDevice
	TelegramBot string
}

type Handler struct {
	Deps
	log *zap.Logger
}

func NewHandler(deps Deps, log *zap.Logger) *Handler {
	return &Handler{Deps: deps, log: log}
}

// RouteOptions carries the cross-cutting settings of the router.
type RouteOptions struct {
	CORSOrigins  []string
	MaxBodyBytes int64
	Metrics      *Collector
	Registry     *prometheus.Registry
}

func SetupRoutes(r *gin.Engine, h *Handler, m *Middleware, opts RouteOptions) {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}

	r.Use(m.RequestLogger())
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(opts.MaxBodyBytes))
	r.Use(CORS(opts.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Registry != nil {
		r.GET("/metrics", MetricsHandler(opts.Registry))
	}

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", m.AuthRequired(), h.Me)
	}

	public := r.Group("/api/public")
	{
		public.GET("/businesses", h.Directory)
		public.GET("/businesses/:slug", h.Showcase)
		public.POST("/businesses/:slug/chat", h.SendChatMessage)
		public.POST("/businesses/:slug/inquiries", h.CreateInquiry)
	}

	picker := r.Group("/api/picker")
	{
		picker.GET("/:token", h.PickerView)
		picker.PUT("/:token/items/:itemId", h.SetPickedQuantity)
		picker.POST("/:token/complete", h.CompletePicking)
	}

	office := r.Group("/api/office")
	office.Use(m.AuthRequired())
	office.Use(m.RateLimitPerUser())
	{
		office.GET("/businesses", h.ListOwnBusinesses)
		office.POST("/businesses", h.CreateBusiness)
		office.GET("/businesses/:id", h.GetBusiness)
		office.PUT("/businesses/:id", h.UpdateBusiness)

		biz := office.Group("/businesses/:id")

		biz.GET("/portfolio", h.ListPortfolio)
		biz.POST("/portfolio", h.CreatePortfolioItem)
		biz.GET("/portfolio/:itemId", h.GetPortfolioItem)
		biz.PUT("/portfolio/:itemId", h.UpdatePortfolioItem)
		biz.DELETE("/portfolio/:itemId", h.DeletePortfolioItem)
		biz.POST("/portfolio/:itemId/photos", h.AddPhoto)
		biz.DELETE("/photos/:photoId", h.DeletePhoto)

		biz.GET("/prices", h.ListPriceLists)
		biz.GET("/price-lists", h.ListPriceLists)
		biz.POST("/price-lists", h.CreatePriceList)
		biz.GET("/price-lists/:listId", h.GetPriceList)
		biz.PUT("/price-lists/:listId", h.UpdatePriceList)
		biz.DELETE("/price-lists/:listId", h.DeletePriceList)
		biz.PUT("/price-lists/:listId/rows", h.ReplaceRows)
		biz.POST("/price-lists/:listId/import", h.ImportPriceList)
		biz.POST("/price-lists/:listId/assignments", h.SharePriceList)

		biz.GET("/assignments", h.ListAssignments)
		biz.POST("/assignments/:assignmentId/accept", h.AcceptAssignment)
		biz.POST("/assignments/:assignmentId/decline", h.DeclineAssignment)
		biz.DELETE("/assignments/:assignmentId", h.RevokeAssignment)

		biz.GET("/price-comparison", h.PriceComparison)
		biz.GET("/request-summary", h.RequestSummary)
		biz.POST("/request-summary", h.RequestSummary)

		biz.POST("/requests", h.CreateRequest)
		biz.GET("/requests", h.ListRequests)
		biz.GET("/requests/:requestId", h.GetRequest)
		biz.POST("/requests/:requestId/accept", h.AcceptRequest)
		biz.POST("/requests/:requestId/reject", h.RejectRequest)
		biz.POST("/requests/:requestId/cancel", h.CancelRequest)
		biz.POST("/requests/:requestId/complete", h.CompleteRequest)
		biz.POST("/requests/:requestId/picker", h.AssignPicker)
		biz.POST("/requests/:requestId/invoice", h.CreateInvoice)

		biz.GET("/invoices", h.ListInvoices)
		biz.GET("/invoices/:invoiceId", h.GetInvoice)

		biz.GET("/conversations", h.ListConversations)
		biz.GET("/conversations/:conversationId/messages", h.ListMessages)
		biz.GET("/inquiries", h.ListInquiries)
		biz.PUT("/inquiries/:inquiryId", h.UpdateInquiry)

		biz.GET("/telegram", h.TelegramStatus)
		biz.PUT("/telegram", h.LinkTelegram)
		biz.DELETE("/telegram", h.UnlinkTelegram)
	}

	admin := r.Group("/api/admin")
	admin.Use(m.AuthRequired())
	admin.Use(m.AdminRequired())
	{
		admin.GET("/businesses", h.AdminListBusinesses)
		admin.PUT("/businesses/:id/status", h.AdminSetBusinessStatus)
		admin.GET("/stats", h.AdminStats)
		admin.GET("/whatsapp/status", h.WhatsAppStatus)
		admin.GET("/whatsapp/qr", h.WhatsAppQR)
		admin.POST("/whatsapp/logout", h.WhatsAppLogout)
	}
}

// respondError maps usecase errors onto HTTP statuses. Anything unexpected is
// logged and answered with a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, usecases.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, usecases.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, usecases.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, usecases.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	case errors.Is(err, usecases.ErrConflict), errors.Is(err, usecases.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, usecases.ErrRateLimited), errors.Is(err, usecases.ErrBusy):
		status = http.StatusTooManyRequests
	default:
		_ = c.Error(err)
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON decodes the body into dst, answering 400 (or 413) on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return false
	}
	return true
}

// intParam reads a positive integer path parameter, answering 400 otherwise.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return v, true
}

// businessParam is intParam for the :id segment shared by office routes.
func businessParam(c *gin.Context) (int, bool) {
	return intParam(c, "id")
}
