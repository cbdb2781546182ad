package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	leaseapp "github.com/wellfield/backend/internal/application/lease"
)

// LeaseHandler handles lease operating statement API endpoints
type LeaseHandler struct {
	BaseHandler
	leaseService *leaseapp.LeaseService
}

// NewLeaseHandler creates a new LeaseHandler
func NewLeaseHandler(leaseService *leaseapp.LeaseService) *LeaseHandler {
	return &LeaseHandler{
		leaseService: leaseService,
	}
}

// Create godoc
// @Summary      Create a lease operating statement
// @Description  Create a new draft operating statement for a lease and period
// @Tags         lease-statements
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        request body leaseapp.CreateStatementRequest true "Statement creation request"
// @Success      201 {object} dto.Response{data=leaseapp.StatementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /lease-statements [post]
func (h *LeaseHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req leaseapp.CreateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	statement, err := h.leaseService.CreateStatement(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, statement)
}

// GetByID godoc
// @Summary      Get statement by ID
// @Description  Retrieve a lease operating statement with its expense lines
// @Tags         lease-statements
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Statement ID" format(uuid)
// @Success      200 {object} dto.Response{data=leaseapp.StatementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /lease-statements/{id} [get]
func (h *LeaseHandler) GetByID(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	statementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid statement ID format")
		return
	}

	statement, err := h.leaseService.GetStatement(c.Request.Context(), organizationID, statementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// List godoc
// @Summary      List lease operating statements
// @Description  Retrieve a paginated list of statements with optional filtering
// @Tags         lease-statements
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        search query string false "Search term (lease name)"
// @Param        status query string false "Statement status" Enums(draft, in_review, finalized, distributed)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]leaseapp.StatementResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /lease-statements [get]
func (h *LeaseHandler) List(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	statements, total, err := h.leaseService.ListStatements(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, statements, total, filter.Page, filter.PageSize)
}

// AddExpenseLine godoc
// @Summary      Add an expense line
// @Description  Add an operating expense line to a draft statement
// @Tags         lease-statements
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Statement ID" format(uuid)
// @Param        request body leaseapp.AddExpenseLineRequest true "Expense line request"
// @Success      200 {object} dto.Response{data=leaseapp.StatementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /lease-statements/{id}/lines [post]
func (h *LeaseHandler) AddExpenseLine(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	statementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid statement ID format")
		return
	}

	var req leaseapp.AddExpenseLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	statement, err := h.leaseService.AddExpenseLine(c.Request.Context(), organizationID, statementID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// RemoveExpenseLine godoc
// @Summary      Remove an expense line
// @Description  Remove an expense line from a draft statement
// @Tags         lease-statements
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Statement ID" format(uuid)
// @Param        line_id path string true "Expense Line ID" format(uuid)
// @Success      200 {object} dto.Response{data=leaseapp.StatementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /lease-statements/{id}/lines/{line_id} [delete]
func (h *LeaseHandler) RemoveExpenseLine(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	statementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid statement ID format")
		return
	}

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	statement, err := h.leaseService.RemoveExpenseLine(c.Request.Context(), organizationID, statementID, lineID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// SubmitForReview godoc
// @Summary      Submit a statement for review
// @Description  Move a draft statement with at least one expense line into review
// @Tags         lease-statements
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Statement ID" format(uuid)
// @Success      200 {object} dto.Response{data=leaseapp.StatementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /lease-statements/{id}/submit [post]
func (h *LeaseHandler) SubmitForReview(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	statementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid statement ID format")
		return
	}

	statement, err := h.leaseService.SubmitForReview(c.Request.Context(), organizationID, statementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// Finalize godoc
// @Summary      Finalize a statement
// @Description  Lock a reviewed statement so its expenses become immutable
// @Tags         lease-statements
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Statement ID" format(uuid)
// @Success      200 {object} dto.Response{data=leaseapp.StatementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /lease-statements/{id}/finalize [post]
func (h *LeaseHandler) Finalize(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	statementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid statement ID format")
		return
	}

	statement, err := h.leaseService.FinalizeStatement(c.Request.Context(), organizationID, statementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// Distribute godoc
// @Summary      Distribute a statement
// @Description  Mark a finalized statement as billed out to the working interest partners
// @Tags         lease-statements
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Statement ID" format(uuid)
// @Success      200 {object} dto.Response{data=leaseapp.StatementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /lease-statements/{id}/distribute [post]
func (h *LeaseHandler) Distribute(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	statementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid statement ID format")
		return
	}

	statement, err := h.leaseService.DistributeStatement(c.Request.Context(), organizationID, statementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}
