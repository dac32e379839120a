package handler

import (
	"errors"
	"strconv"
	"time"

	"siteledger/internal/config"
	"siteledger/internal/infrastructure/lock"
	"siteledger/internal/ledger"
	"siteledger/internal/model"
	"siteledger/internal/repository"
	"siteledger/internal/service"
	"siteledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Handler bundles all service dependencies behind the HTTP surface.
type Handler struct {
	supplierService *service.SupplierService
	projectService  *service.ProjectService
	purchaseService *service.PurchaseService
	paymentService  *service.PaymentService
}

func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		supplierService: service.NewSupplierService(db),
		projectService:  service.NewProjectService(db),
		purchaseService: service.NewPurchaseService(db, cfg),
		paymentService:  service.NewPaymentService(db, lock.RedisFactory(rdb), cfg),
	}
}

// writeError maps the ledger error taxonomy onto business codes.
// Store-write and timeout failures are kept distinct from validation:
// they can leave a half-linked payment that needs manual follow-up.
func writeError(c *gin.Context, err error) {
	var validationErr *ledger.ValidationError
	var storeErr *ledger.StoreWriteError
	var timeoutErr *ledger.TimeoutError
	var concurrentErr *ledger.ConcurrentModificationError
	var notFoundErr *ledger.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		response.BusinessError(c, response.CodeValidationError, validationErr.Error())
	case errors.As(err, &timeoutErr):
		response.BusinessError(c, response.CodeWriteTimeout, timeoutErr.Error())
	case errors.As(err, &storeErr):
		response.BusinessError(c, response.CodeStoreWriteError, storeErr.Error())
	case errors.As(err, &concurrentErr):
		response.BusinessError(c, response.CodeConcurrentModification, concurrentErr.Error())
	case errors.As(err, &notFoundErr):
		response.BusinessError(c, response.CodeEntityNotFound, notFoundErr.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

func enteredBy(c *gin.Context) string {
	if user := c.GetHeader("X-User"); user != "" {
		return user
	}
	return "system"
}

// ============================================================
// Supplier registry
// ============================================================

type createSupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Notes   string `json:"notes"`
}

// CreateSupplier registers a supplier.
// POST /api/v1/supplier/create
func (h *Handler) CreateSupplier(c *gin.Context) {
	var req createSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "bad request: "+err.Error())
		return
	}

	supplier := &model.Supplier{Name: req.Name, Contact: req.Contact, Notes: req.Notes}
	if err := h.supplierService.CreateSupplier(c.Request.Context(), supplier); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, supplier)
}

// GetSupplier returns one supplier.
// GET /api/v1/supplier/detail?supplier_id=xxx
func (h *Handler) GetSupplier(c *gin.Context) {
	supplierID, err := strconv.ParseInt(c.Query("supplier_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid supplier_id")
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), supplierID)
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			response.BusinessError(c, response.CodeEntityNotFound, "supplier not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, supplier)
}

// ListSuppliers returns the registry.
// GET /api/v1/supplier/list
func (h *Handler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, suppliers)
}

// ============================================================
// Project registry
// ============================================================

type createProjectRequest struct {
	Name     string `json:"name" binding:"required"`
	Status   string `json:"status"`
	Location string `json:"location"`
}

// CreateProject registers a project.
// POST /api/v1/project/create
func (h *Handler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "bad request: "+err.Error())
		return
	}

	project := &model.Project{Name: req.Name, Status: req.Status, Location: req.Location}
	if err := h.projectService.CreateProject(c.Request.Context(), project); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, project)
}

// ListProjects returns the registry.
// GET /api/v1/project/list
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, projects)
}

// ============================================================
// Ledger reads
// ============================================================

// GetBalance returns the supplier balance, optionally project-scoped.
// GET /api/v1/ledger/balance?supplier_id=xxx&project_id=yyy
func (h *Handler) GetBalance(c *gin.Context) {
	supplierID, err := strconv.ParseInt(c.Query("supplier_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid supplier_id")
		return
	}
	// project_id is optional, but when present it must be numeric; a
	// typo must not silently widen the balance to all projects.
	var projectID int64
	if raw := c.Query("project_id"); raw != "" {
		projectID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.ParamError(c, "invalid project_id")
			return
		}
	}

	balance, err := h.supplierService.GetBalance(c.Request.Context(), supplierID, projectID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, balance)
}

// GetStatement returns the running-balance history, newest-first.
// GET /api/v1/ledger/statement?supplier_id=xxx
func (h *Handler) GetStatement(c *gin.Context) {
	supplierID, err := strconv.ParseInt(c.Query("supplier_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid supplier_id")
		return
	}

	lines, err := h.supplierService.GetStatement(c.Request.Context(), supplierID)
	if err != nil {
		writeError(c, err)
		return
	}

	result := gin.H{"lines": lines}
	if current, ok := ledger.CurrentBalance(lines); ok {
		result["current_balance"] = current
	}
	response.Success(c, result)
}

// GetBreakdown returns per-project balances, settled projects omitted.
// GET /api/v1/ledger/breakdown?supplier_id=xxx
func (h *Handler) GetBreakdown(c *gin.Context) {
	supplierID, err := strconv.ParseInt(c.Query("supplier_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid supplier_id")
		return
	}

	entries, err := h.supplierService.GetProjectBreakdown(c.Request.Context(), supplierID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, entries)
}

// ListTransactions pages through raw ledger rows.
// GET /api/v1/ledger/transactions?supplier_id=xxx&page=1&page_size=10
func (h *Handler) ListTransactions(c *gin.Context) {
	supplierID, err := strconv.ParseInt(c.Query("supplier_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid supplier_id")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	txns, total, err := h.supplierService.ListTransactions(c.Request.Context(), supplierID, page, pageSize)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"list":      txns,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ============================================================
// Ledger writes
// ============================================================

type recordPurchaseRequest struct {
	SupplierID  int64  `json:"supplier_id" binding:"required"`
	ProjectID   int64  `json:"project_id" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date" binding:"required"` // yyyy-mm-dd business date
	Description string `json:"description" binding:"required"`
}

// RecordPurchase appends a purchase to the ledger.
// POST /api/v1/ledger/purchase
func (h *Handler) RecordPurchase(c *gin.Context) {
	var req recordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "bad request: "+err.Error())
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		response.ParamError(c, "invalid date, expected yyyy-mm-dd")
		return
	}

	result, err := h.purchaseService.RecordPurchase(c.Request.Context(), &service.RecordPurchaseRequest{
		SupplierID:  req.SupplierID,
		ProjectID:   req.ProjectID,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		EnteredBy:   enteredBy(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

type recordPaymentRequest struct {
	SupplierID  int64  `json:"supplier_id" binding:"required"`
	ProjectID   int64  `json:"project_id" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date" binding:"required"` // yyyy-mm-dd business date
	PaymentMode string `json:"payment_mode" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// RecordPayment runs the payment reconciliation sequence: ledger
// transaction, payment-out approval entry, bidirectional link.
// POST /api/v1/ledger/payment
func (h *Handler) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "bad request: "+err.Error())
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		response.ParamError(c, "invalid date, expected yyyy-mm-dd")
		return
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), &service.RecordPaymentRequest{
		SupplierID:  req.SupplierID,
		ProjectID:   req.ProjectID,
		Amount:      req.Amount,
		Date:        date,
		PaymentMode: req.PaymentMode,
		Description: req.Description,
		EnteredBy:   enteredBy(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}
