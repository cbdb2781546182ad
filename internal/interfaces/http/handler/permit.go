package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	permitapp "github.com/wellfield/backend/internal/application/permit"
)

// PermitHandler handles regulatory permit API endpoints
type PermitHandler struct {
	BaseHandler
	permitService *permitapp.PermitService
}

// NewPermitHandler creates a new PermitHandler
func NewPermitHandler(permitService *permitapp.PermitService) *PermitHandler {
	return &PermitHandler{
		permitService: permitService,
	}
}

// Create godoc
// @Summary      Create a permit application
// @Description  Create a new draft regulatory permit application for a well
// @Tags         permits
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        request body permitapp.CreatePermitRequest true "Permit creation request"
// @Success      201 {object} dto.Response{data=permitapp.PermitResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /permits [post]
func (h *PermitHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req permitapp.CreatePermitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.permitService.CreatePermit(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, p)
}

// GetByID godoc
// @Summary      Get permit by ID
// @Description  Retrieve a permit by its ID
// @Tags         permits
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Permit ID" format(uuid)
// @Success      200 {object} dto.Response{data=permitapp.PermitResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /permits/{id} [get]
func (h *PermitHandler) GetByID(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	permitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid permit ID format")
		return
	}

	p, err := h.permitService.GetPermit(c.Request.Context(), organizationID, permitID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// List godoc
// @Summary      List permits
// @Description  Retrieve a paginated list of permits with optional filtering
// @Tags         permits
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        search query string false "Search term (well name, permit number)"
// @Param        status query string false "Permit status" Enums(draft, filed, approved, denied, expired)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]permitapp.PermitResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /permits [get]
func (h *PermitHandler) List(c *gin.Context) {
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

	permits, total, err := h.permitService.ListPermits(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, permits, total, filter.Page, filter.PageSize)
}

// File godoc
// @Summary      File a permit application
// @Description  Record that the application was filed with the regulatory agency
// @Tags         permits
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Permit ID" format(uuid)
// @Param        request body permitapp.FilePermitRequest true "Filing request"
// @Success      200 {object} dto.Response{data=permitapp.PermitResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /permits/{id}/file [post]
func (h *PermitHandler) File(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	permitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid permit ID format")
		return
	}

	var req permitapp.FilePermitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.permitService.FilePermit(c.Request.Context(), organizationID, permitID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// Approve godoc
// @Summary      Approve a permit
// @Description  Record agency approval with the permit's expiration date
// @Tags         permits
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Permit ID" format(uuid)
// @Param        request body permitapp.ApprovePermitRequest true "Approval request"
// @Success      200 {object} dto.Response{data=permitapp.PermitResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /permits/{id}/approve [post]
func (h *PermitHandler) Approve(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	permitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid permit ID format")
		return
	}

	var req permitapp.ApprovePermitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.permitService.ApprovePermit(c.Request.Context(), organizationID, permitID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// Deny godoc
// @Summary      Deny a permit
// @Description  Record agency denial with the stated reason
// @Tags         permits
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Permit ID" format(uuid)
// @Param        request body permitapp.DenyPermitRequest true "Denial request"
// @Success      200 {object} dto.Response{data=permitapp.PermitResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /permits/{id}/deny [post]
func (h *PermitHandler) Deny(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	permitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid permit ID format")
		return
	}

	var req permitapp.DenyPermitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.permitService.DenyPermit(c.Request.Context(), organizationID, permitID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// ExpireOverdue godoc
// @Summary      Expire overdue permits
// @Description  Mark approved permits whose expiration date has passed as expired
// @Tags         permits
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Success      200 {object} dto.Response{data=CountData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /permits/expire-overdue [post]
func (h *PermitHandler) ExpireOverdue(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	count, err := h.permitService.ExpireOverduePermits(c.Request.Context(), organizationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, CountData{Count: int64(count)})
}
