package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	revenueapp "github.com/wellfield/backend/internal/application/revenue"
)

// RevenueHandler handles revenue distribution API endpoints
type RevenueHandler struct {
	BaseHandler
	revenueService *revenueapp.RevenueService
}

// NewRevenueHandler creates a new RevenueHandler
func NewRevenueHandler(revenueService *revenueapp.RevenueService) *RevenueHandler {
	return &RevenueHandler{
		revenueService: revenueService,
	}
}

// Create godoc
// @Summary      Create a revenue distribution
// @Description  Create a pending revenue distribution for a well's production month
// @Tags         revenue-distributions
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        request body revenueapp.CreateDistributionRequest true "Distribution creation request"
// @Success      201 {object} dto.Response{data=revenueapp.DistributionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue-distributions [post]
func (h *RevenueHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req revenueapp.CreateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	d, err := h.revenueService.CreateDistribution(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, d)
}

// GetByID godoc
// @Summary      Get distribution by ID
// @Description  Retrieve a revenue distribution with its per-partner lines
// @Tags         revenue-distributions
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} dto.Response{data=revenueapp.DistributionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue-distributions/{id} [get]
func (h *RevenueHandler) GetByID(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	distributionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	d, err := h.revenueService.GetDistribution(c.Request.Context(), organizationID, distributionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, d)
}

// List godoc
// @Summary      List revenue distributions
// @Description  Retrieve a paginated list of revenue distributions with optional filtering
// @Tags         revenue-distributions
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        search query string false "Search term (well name)"
// @Param        status query string false "Distribution status" Enums(pending, calculated, distributed, voided)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]revenueapp.DistributionResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue-distributions [get]
func (h *RevenueHandler) List(c *gin.Context) {
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

	distributions, total, err := h.revenueService.ListDistributions(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, distributions, total, filter.Page, filter.PageSize)
}

// Calculate godoc
// @Summary      Calculate a distribution
// @Description  Split the net revenue across the well's active roster by working interest
// @Tags         revenue-distributions
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} dto.Response{data=revenueapp.DistributionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue-distributions/{id}/calculate [post]
func (h *RevenueHandler) Calculate(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	distributionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	d, err := h.revenueService.CalculateDistribution(c.Request.Context(), organizationID, distributionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, d)
}

// Distribute godoc
// @Summary      Mark a distribution as paid out
// @Description  Transition a calculated distribution to distributed
// @Tags         revenue-distributions
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} dto.Response{data=revenueapp.DistributionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue-distributions/{id}/distribute [post]
func (h *RevenueHandler) Distribute(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	distributionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	d, err := h.revenueService.DistributeRevenue(c.Request.Context(), organizationID, distributionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, d)
}

// Void godoc
// @Summary      Void a distribution
// @Description  Void a distribution that has not yet been distributed
// @Tags         revenue-distributions
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Distribution ID" format(uuid)
// @Param        request body revenueapp.VoidDistributionRequest true "Void reason"
// @Success      200 {object} dto.Response{data=revenueapp.DistributionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /revenue-distributions/{id}/void [post]
func (h *RevenueHandler) Void(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	distributionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	var req revenueapp.VoidDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	d, err := h.revenueService.VoidDistribution(c.Request.Context(), organizationID, distributionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, d)
}
