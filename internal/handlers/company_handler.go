package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/middleware"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	"github.com/guirofeoli/livegenda-app-sub001/internal/timezone"
)

type CompanyHandler struct {
	db *gorm.DB
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{db: db}
}

type UpdateCompanyRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`

	Timezone        *string `json:"timezone,omitempty"`
	OpeningTime     *string `json:"opening_time,omitempty"`
	ClosingTime     *string `json:"closing_time,omitempty"`
	WorkingWeekdays *string `json:"working_weekdays,omitempty"`
}

func (h *CompanyHandler) GetMe(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var company models.Company
	if err := h.db.First(&company, companyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "company_not_found", "Empresa não encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_company", "Erro ao buscar empresa.")
		return
	}

	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) UpdateMe(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var company models.Company
	if err := h.db.First(&company, companyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "company_not_found", "Empresa não encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_company", "Erro ao buscar empresa.")
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Timezone != nil && !timezone.IsValid(*req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Timezone inválido.")
		return
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Email != nil {
		company.Email = *req.Email
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.Timezone != nil {
		company.Timezone = *req.Timezone
	}
	if req.OpeningTime != nil {
		company.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		company.ClosingTime = *req.ClosingTime
	}
	if req.WorkingWeekdays != nil {
		company.WorkingWeekdays = *req.WorkingWeekdays
	}

	if err := h.db.Save(&company).Error; err != nil {
		httperr.Internal(c, "failed_to_update_company", "Erro ao salvar empresa.")
		return
	}

	c.JSON(http.StatusOK, company)
}
