package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	afeapp "github.com/wellfield/backend/internal/application/afe"
)

// AfeHandler handles AFE-related API endpoints
type AfeHandler struct {
	BaseHandler
	afeService *afeapp.AfeService
}

// NewAfeHandler creates a new AfeHandler
func NewAfeHandler(afeService *afeapp.AfeService) *AfeHandler {
	return &AfeHandler{
		afeService: afeService,
	}
}

// Create godoc
// @Summary      Create a new AFE
// @Description  Create a new Authorization for Expenditure in draft status
// @Tags         afes
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        request body afeapp.CreateAfeRequest true "AFE creation request"
// @Success      201 {object} dto.Response{data=afeapp.AfeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes [post]
func (h *AfeHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req afeapp.CreateAfeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	afe, err := h.afeService.CreateAfe(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, afe)
}

// GetByID godoc
// @Summary      Get AFE by ID
// @Description  Retrieve an AFE by its ID
// @Tags         afes
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "AFE ID" format(uuid)
// @Success      200 {object} dto.Response{data=afeapp.AfeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes/{id} [get]
func (h *AfeHandler) GetByID(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	afeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid AFE ID format")
		return
	}

	afe, err := h.afeService.GetAfe(c.Request.Context(), organizationID, afeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, afe)
}

// List godoc
// @Summary      List AFEs
// @Description  Retrieve a paginated list of AFEs with optional filtering
// @Tags         afes
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        search query string false "Search term (AFE number, well name)"
// @Param        status query string false "AFE status" Enums(draft, submitted, approved, rejected, closed)
// @Param        well_id query string false "Well ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]afeapp.AfeResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes [get]
func (h *AfeHandler) List(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var filter afeapp.AfeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	afes, total, err := h.afeService.ListAfes(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	h.SuccessWithMeta(c, afes, total, page, filter.PageSize)
}

// UpdateEstimate godoc
// @Summary      Update AFE estimate
// @Description  Revise the estimated cost and description of a draft AFE
// @Tags         afes
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "AFE ID" format(uuid)
// @Param        request body afeapp.UpdateEstimateRequest true "Estimate update request"
// @Success      200 {object} dto.Response{data=afeapp.AfeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes/{id}/estimate [put]
func (h *AfeHandler) UpdateEstimate(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	afeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid AFE ID format")
		return
	}

	var req afeapp.UpdateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	afe, err := h.afeService.UpdateEstimate(c.Request.Context(), organizationID, afeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, afe)
}

// Submit godoc
// @Summary      Submit an AFE
// @Description  Submit a draft AFE for partner approval, opening the approval window
// @Tags         afes
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "AFE ID" format(uuid)
// @Success      200 {object} dto.Response{data=afeapp.AfeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes/{id}/submit [post]
func (h *AfeHandler) Submit(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	afeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid AFE ID format")
		return
	}

	afe, err := h.afeService.SubmitAfe(c.Request.Context(), organizationID, afeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, afe)
}

// RecordApproval godoc
// @Summary      Record a partner approval decision
// @Description  Record one partner's approval or rejection of a submitted AFE and re-evaluate the workflow
// @Tags         afes
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "AFE ID" format(uuid)
// @Param        request body afeapp.RecordApprovalRequest true "Partner approval decision"
// @Success      200 {object} dto.Response{data=afeapp.WorkflowResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes/{id}/approvals [post]
func (h *AfeHandler) RecordApproval(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	afeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid AFE ID format")
		return
	}

	var req afeapp.RecordApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	workflow, err := h.afeService.RecordPartnerApproval(c.Request.Context(), organizationID, afeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, workflow)
}

// ListApprovals godoc
// @Summary      List partner approvals for an AFE
// @Description  Retrieve all recorded partner approval decisions for an AFE
// @Tags         afes
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "AFE ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]afeapp.PartnerApprovalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes/{id}/approvals [get]
func (h *AfeHandler) ListApprovals(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	afeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid AFE ID format")
		return
	}

	approvals, err := h.afeService.ListApprovals(c.Request.Context(), organizationID, afeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, approvals)
}

// EvaluateWorkflow godoc
// @Summary      Evaluate the approval workflow
// @Description  Compute the current workflow verdict for a submitted AFE without recording a new decision
// @Tags         afes
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "AFE ID" format(uuid)
// @Success      200 {object} dto.Response{data=afeapp.WorkflowResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes/{id}/workflow [get]
func (h *AfeHandler) EvaluateWorkflow(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	afeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid AFE ID format")
		return
	}

	workflow, err := h.afeService.EvaluateApproval(c.Request.Context(), organizationID, afeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, workflow)
}

// Reject godoc
// @Summary      Reject an AFE
// @Description  Reject a submitted AFE outside the weighted workflow, e.g. an operator withdrawal
// @Tags         afes
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "AFE ID" format(uuid)
// @Param        request body afeapp.RejectAfeRequest true "Rejection reason"
// @Success      200 {object} dto.Response{data=afeapp.AfeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes/{id}/reject [post]
func (h *AfeHandler) Reject(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	afeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid AFE ID format")
		return
	}

	var req afeapp.RejectAfeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	afe, err := h.afeService.RejectAfe(c.Request.Context(), organizationID, afeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, afe)
}

// Close godoc
// @Summary      Close an AFE
// @Description  Close an approved AFE once the authorized work is complete
// @Tags         afes
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "AFE ID" format(uuid)
// @Success      200 {object} dto.Response{data=afeapp.AfeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes/{id}/close [post]
func (h *AfeHandler) Close(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	afeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid AFE ID format")
		return
	}

	afe, err := h.afeService.CloseAfe(c.Request.Context(), organizationID, afeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, afe)
}

// ListOverdue godoc
// @Summary      List overdue AFEs
// @Description  Retrieve submitted AFEs whose 30-day approval window has elapsed
// @Tags         afes
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Success      200 {object} dto.Response{data=[]afeapp.AfeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /afes/overdue [get]
func (h *AfeHandler) ListOverdue(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	afes, err := h.afeService.ListOverdue(c.Request.Context(), organizationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, afes)
}
