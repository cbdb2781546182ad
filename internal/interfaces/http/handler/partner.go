package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/wellfield/backend/internal/application/partner"
)

// PartnerHandler handles partner and well interest API endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partnerapp.PartnerService) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
	}
}

// TerminateInterestRequest represents a request to end an interest assignment
// @Description Request body for terminating a well interest
type TerminateInterestRequest struct {
	EndDate time.Time `json:"end_date" binding:"required"`
}

// Create godoc
// @Summary      Create a new partner
// @Description  Register a new working interest partner
// @Tags         partners
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        request body partnerapp.CreatePartnerRequest true "Partner creation request"
// @Success      201 {object} dto.Response{data=partnerapp.PartnerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners [post]
func (h *PartnerHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req partnerapp.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.partnerService.CreatePartner(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, p)
}

// GetByID godoc
// @Summary      Get partner by ID
// @Description  Retrieve a partner by its ID
// @Tags         partners
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Partner ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.PartnerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/{id} [get]
func (h *PartnerHandler) GetByID(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	p, err := h.partnerService.GetPartner(c.Request.Context(), organizationID, partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// List godoc
// @Summary      List partners
// @Description  Retrieve a paginated list of partners with optional filtering
// @Tags         partners
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        search query string false "Search term (name, code)"
// @Param        status query string false "Partner status" Enums(active, inactive)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]partnerapp.PartnerResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners [get]
func (h *PartnerHandler) List(c *gin.Context) {
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

	partners, total, err := h.partnerService.ListPartners(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, partners, total, filter.Page, filter.PageSize)
}

// UpdateContact godoc
// @Summary      Update partner contact
// @Description  Update a partner's contact name and email
// @Tags         partners
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Partner ID" format(uuid)
// @Param        request body partnerapp.UpdateContactRequest true "Contact update request"
// @Success      200 {object} dto.Response{data=partnerapp.PartnerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/{id}/contact [put]
func (h *PartnerHandler) UpdateContact(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	var req partnerapp.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.partnerService.UpdateContact(c.Request.Context(), organizationID, partnerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// Deactivate godoc
// @Summary      Deactivate a partner
// @Description  Mark a partner inactive so no new interests can be assigned
// @Tags         partners
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Partner ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.PartnerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/{id}/deactivate [post]
func (h *PartnerHandler) Deactivate(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	p, err := h.partnerService.DeactivatePartner(c.Request.Context(), organizationID, partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// AssignInterest godoc
// @Summary      Assign a well interest
// @Description  Assign a working interest in a well to a partner. The active roster may not exceed 100%.
// @Tags         well-interests
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        request body partnerapp.AssignInterestRequest true "Interest assignment request"
// @Success      201 {object} dto.Response{data=partnerapp.WellInterestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /well-interests [post]
func (h *PartnerHandler) AssignInterest(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req partnerapp.AssignInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	wi, err := h.partnerService.AssignInterest(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, wi)
}

// TerminateInterest godoc
// @Summary      Terminate a well interest
// @Description  End a partner's working interest assignment on a given date
// @Tags         well-interests
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Well Interest ID" format(uuid)
// @Param        request body TerminateInterestRequest true "Termination request"
// @Success      200 {object} dto.Response{data=partnerapp.WellInterestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /well-interests/{id}/terminate [post]
func (h *PartnerHandler) TerminateInterest(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	interestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid interest ID format")
		return
	}

	var req TerminateInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	wi, err := h.partnerService.TerminateInterest(c.Request.Context(), organizationID, interestID, req.EndDate)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wi)
}

// GetWellRoster godoc
// @Summary      Get the active roster for a well
// @Description  Retrieve the currently active working interest assignments for a well
// @Tags         well-interests
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        well_id path string true "Well ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]partnerapp.WellInterestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wells/{well_id}/roster [get]
func (h *PartnerHandler) GetWellRoster(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	wellID, err := uuid.Parse(c.Param("well_id"))
	if err != nil {
		h.BadRequest(c, "Invalid well ID format")
		return
	}

	roster, err := h.partnerService.GetWellRoster(c.Request.Context(), organizationID, wellID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, roster)
}
