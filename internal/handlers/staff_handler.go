package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httpresp"
	"github.com/guirofeoli/livegenda-app-sub001/internal/middleware"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	"github.com/guirofeoli/livegenda-app-sub001/internal/validators"
	ucStaff "github.com/guirofeoli/livegenda-app-sub001/internal/usecase/staff"
)

type StaffHandler struct {
	db       *gorm.DB
	store    scheduling.Store
	createUC *ucStaff.CreateStaff
}

func NewStaffHandler(db *gorm.DB, store scheduling.Store, createUC *ucStaff.CreateStaff) *StaffHandler {
	return &StaffHandler{
		db:       db,
		store:    store,
		createUC: createUC,
	}
}

// --------- Requests ---------

type CreateStaffRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Color string `json:"color"`

	WorkingWeekdays string `json:"working_weekdays"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
}

type UpdateStaffRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Color *string `json:"color,omitempty"`

	WorkingWeekdays *string `json:"working_weekdays,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	EndTime         *string `json:"end_time,omitempty"`

	Active *bool `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *StaffHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	activeStr := strings.TrimSpace(c.Query("active"))

	q := h.db.Where("company_id = ?", companyID)
	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	var staff []models.Staff
	if err := q.
		Order("name ASC").
		Find(&staff).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_staff"})
		return
	}

	httpresp.List(c, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Email != "" && !validators.IsEmailDomainValid(req.Email) {
		httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), ucStaff.CreateStaffInput{
		CompanyID:       companyID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Color:           req.Color,
		WorkingWeekdays: req.WorkingWeekdays,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	})
	if err != nil {
		if code, ok := httperr.BusinessCode(err); ok {
			switch code {
			case "email_in_use", "phone_in_use":
				httperr.Conflict(c, code, "Contato já cadastrado para outra pessoa.")
			case "company_not_found":
				httperr.NotFound(c, code, "Empresa não encontrada.")
			default:
				httperr.Internal(c, code, "Erro ao cadastrar profissional.")
			}
			return
		}
		httperr.Internal(c, "failed_to_create_staff", "Erro ao cadastrar profissional.")
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *StaffHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)
	id := c.Param("id")

	var st models.Staff
	if err := h.db.
		Where("id = ? AND company_id = ?", id, companyID).
		First(&st).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "staff_not_found", "Profissional não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_staff", "Erro ao buscar profissional.")
		return
	}

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	// Unicidade global com exclusão do próprio registro
	exclude := &scheduling.OwnerRef{Kind: scheduling.OwnerStaff, ID: st.ID}

	if req.Email != nil && *req.Email != "" && *req.Email != st.Email {
		exists, err := h.store.EmailExists(c.Request.Context(), *req.Email, exclude)
		if err != nil {
			httperr.Internal(c, "failed_to_check_email", "Erro ao validar e-mail.")
			return
		}
		if exists {
			httperr.Conflict(c, "email_in_use", "E-mail já cadastrado para outra pessoa.")
			return
		}
	}

	if req.Phone != nil && *req.Phone != "" && *req.Phone != st.Phone {
		exists, err := h.store.PhoneExists(c.Request.Context(), *req.Phone, exclude)
		if err != nil {
			httperr.Internal(c, "failed_to_check_phone", "Erro ao validar telefone.")
			return
		}
		if exists {
			httperr.Conflict(c, "phone_in_use", "Telefone já cadastrado para outra pessoa.")
			return
		}
	}

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.Email != nil {
		st.Email = *req.Email
	}
	if req.Phone != nil {
		st.Phone = *req.Phone
	}
	if req.Color != nil {
		st.Color = *req.Color
	}
	if req.WorkingWeekdays != nil {
		st.WorkingWeekdays = *req.WorkingWeekdays
	}
	if req.StartTime != nil {
		st.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		st.EndTime = *req.EndTime
	}
	if req.Active != nil {
		st.Active = *req.Active
	}

	if err := h.db.Save(&st).Error; err != nil {
		httperr.Internal(c, "failed_to_update_staff", "Erro ao salvar profissional.")
		return
	}

	c.JSON(http.StatusOK, st)
}
