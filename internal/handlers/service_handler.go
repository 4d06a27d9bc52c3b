package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httpresp"
	"github.com/guirofeoli/livegenda-app-sub001/internal/middleware"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,gt=0"`
	Price       float64 `json:"price"`

	// IDs dos profissionais habilitados a executar o serviço
	StaffIDs []uint `json:"staff_ids"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`

	StaffIDs *[]uint `json:"staff_ids,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var services []models.Service
	if err := h.db.
		Where("company_id = ?", companyID).
		Preload("Staff", "company_id = ?", companyID).
		Order("name ASC").
		Find(&services).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	svc := models.Service{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Erro ao cadastrar serviço.")
		return
	}

	if len(req.StaffIDs) > 0 {
		if err := h.linkStaff(c, &svc, req.StaffIDs, companyID); err != nil {
			return
		}
	}

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)
	id := c.Param("id")

	var svc models.Service
	if err := h.db.
		Where("id = ? AND company_id = ?", id, companyID).
		First(&svc).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Erro ao buscar serviço.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.DurationMin != nil && *req.DurationMin <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Duração deve ser positiva.")
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao salvar serviço.")
		return
	}

	if req.StaffIDs != nil {
		if err := h.linkStaff(c, &svc, *req.StaffIDs, companyID); err != nil {
			return
		}
	}

	c.JSON(http.StatusOK, svc)
}

// linkStaff substitui o vínculo many2many pelo conjunto informado,
// aceitando apenas profissionais da própria empresa.
func (h *ServiceHandler) linkStaff(
	c *gin.Context,
	svc *models.Service,
	staffIDs []uint,
	companyID uint,
) error {

	var staff []models.Staff
	if len(staffIDs) > 0 {
		if err := h.db.
			Where("id IN ? AND company_id = ?", staffIDs, companyID).
			Find(&staff).Error; err != nil {

			httperr.Internal(c, "failed_to_load_staff", "Erro ao vincular profissionais.")
			return err
		}
	}

	if err := h.db.Model(svc).Association("Staff").Replace(staff); err != nil {
		httperr.Internal(c, "failed_to_link_staff", "Erro ao vincular profissionais.")
		return err
	}

	svc.Staff = staff
	return nil
}
