package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	titleapp "github.com/wellfield/backend/internal/application/title"
)

// TitleHandler handles title curative tracking API endpoints
type TitleHandler struct {
	BaseHandler
	titleService *titleapp.TitleService
}

// NewTitleHandler creates a new TitleHandler
func NewTitleHandler(titleService *titleapp.TitleService) *TitleHandler {
	return &TitleHandler{
		titleService: titleService,
	}
}

// Create godoc
// @Summary      Log a title defect
// @Description  Create a new curative item for a defect found during title examination
// @Tags         curative-items
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        request body titleapp.CreateCurativeItemRequest true "Curative item creation request"
// @Success      201 {object} dto.Response{data=titleapp.CurativeItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curative-items [post]
func (h *TitleHandler) Create(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req titleapp.CreateCurativeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.titleService.CreateCurativeItem(c.Request.Context(), organizationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, item)
}

// GetByID godoc
// @Summary      Get curative item by ID
// @Description  Retrieve a curative item by its ID
// @Tags         curative-items
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Curative Item ID" format(uuid)
// @Success      200 {object} dto.Response{data=titleapp.CurativeItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curative-items/{id} [get]
func (h *TitleHandler) GetByID(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	item, err := h.titleService.GetCurativeItem(c.Request.Context(), organizationID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// List godoc
// @Summary      List curative items
// @Description  Retrieve a paginated list of curative items with optional filtering
// @Tags         curative-items
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        search query string false "Search term (lease name, description)"
// @Param        status query string false "Item status" Enums(open, in_progress, resolved, waived)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]titleapp.CurativeItemResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curative-items [get]
func (h *TitleHandler) List(c *gin.Context) {
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

	items, total, err := h.titleService.ListCurativeItems(c.Request.Context(), organizationID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// StartWork godoc
// @Summary      Start curative work
// @Description  Assign an examiner and move the item into progress
// @Tags         curative-items
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Curative Item ID" format(uuid)
// @Param        request body titleapp.StartWorkRequest true "Work assignment request"
// @Success      200 {object} dto.Response{data=titleapp.CurativeItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curative-items/{id}/start [post]
func (h *TitleHandler) StartWork(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req titleapp.StartWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.titleService.StartWork(c.Request.Context(), organizationID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// Resolve godoc
// @Summary      Resolve a curative item
// @Description  Record that the title defect has been cured
// @Tags         curative-items
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Curative Item ID" format(uuid)
// @Param        request body titleapp.ResolveRequest true "Resolution notes"
// @Success      200 {object} dto.Response{data=titleapp.CurativeItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curative-items/{id}/resolve [post]
func (h *TitleHandler) Resolve(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req titleapp.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.titleService.ResolveItem(c.Request.Context(), organizationID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// Waive godoc
// @Summary      Waive a curative item
// @Description  Accept the title risk and waive the defect with a documented reason
// @Tags         curative-items
// @Accept       json
// @Produce      json
// @Param        X-Organization-ID header string false "Organization ID (optional for dev)"
// @Param        id path string true "Curative Item ID" format(uuid)
// @Param        request body titleapp.WaiveRequest true "Waiver reason"
// @Success      200 {object} dto.Response{data=titleapp.CurativeItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curative-items/{id}/waive [post]
func (h *TitleHandler) Waive(c *gin.Context) {
	organizationID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req titleapp.WaiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.titleService.WaiveItem(c.Request.Context(), organizationID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}
