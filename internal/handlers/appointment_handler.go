package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/dto"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httpresp"
	"github.com/guirofeoli/livegenda-app-sub001/internal/middleware"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	ucAppointment "github.com/guirofeoli/livegenda-app-sub001/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC       *ucAppointment.CreateAppointment
	updateUC       *ucAppointment.UpdateAppointment
	cancelUC       *ucAppointment.CancelAppointment
	confirmUC      *ucAppointment.ConfirmAppointment
	getUC          *ucAppointment.GetAppointment
	listUC         *ucAppointment.ListAppointments
	listRelUC      *ucAppointment.ListAppointmentsWithRelations
	availabilityUC *ucAppointment.GetAvailability
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucAppointment.CreateAppointment,
	updateUC *ucAppointment.UpdateAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	confirmUC *ucAppointment.ConfirmAppointment,
	getUC *ucAppointment.GetAppointment,
	listUC *ucAppointment.ListAppointments,
	listRelUC *ucAppointment.ListAppointmentsWithRelations,
	availabilityUC *ucAppointment.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:             db,
		createUC:       createUC,
		updateUC:       updateUC,
		cancelUC:       cancelUC,
		confirmUC:      confirmUC,
		getUC:          getUC,
		listUC:         listUC,
		listRelUC:      listRelUC,
		availabilityUC: availabilityUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID  uint `json:"client_id" binding:"required"`
	StaffID   uint `json:"staff_id" binding:"required"`
	ServiceID uint `json:"service_id" binding:"required"`

	StartTime string `json:"start_time" binding:"required"`
	// Opcional: vazio = derivado da duração do serviço
	EndTime string `json:"end_time"`

	Notes      string   `json:"notes"`
	FinalPrice *float64 `json:"final_price"`
}

type UpdateAppointmentRequest struct {
	ServiceID  *uint    `json:"service_id,omitempty"`
	StaffID    *uint    `json:"staff_id,omitempty"`
	StartTime  *string  `json:"start_time,omitempty"`
	EndTime    *string  `json:"end_time,omitempty"`
	Status     *string  `json:"status,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	FinalPrice *float64 `json:"final_price,omitempty"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *AppointmentHandler) company(c *gin.Context) (*models.Company, bool) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var company models.Company
	if err := h.db.First(&company, companyID).Error; err != nil {
		httperr.Internal(c, "company_not_found", "Empresa não encontrada.")
		return nil, false
	}
	return &company, true
}

func writeBusiness(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, httperr.CodeInternal, "Erro interno.")
		return
	}

	switch code {
	case httperr.CodeSchedulingConflict:
		httperr.Conflict(c, code, "Conflito de horário.")
	case httperr.CodeNotFound:
		httperr.NotFound(c, code, "Agendamento não encontrado.")
	case httperr.CodeUpdateFailure:
		httperr.Conflict(c, code, "Agendamento mudou durante a operação; tente novamente.")
	case "invalid_state":
		httperr.BadRequest(c, code, "Transição de status inválida.")
	case "company_not_found", "staff_not_found", "service_not_found":
		httperr.NotFound(c, code, "Registro não encontrado.")
	default:
		httperr.Internal(c, code, "Erro interno.")
	}
}

func validStatus(s string) bool {
	switch scheduling.Status(s) {
	case scheduling.StatusScheduled, scheduling.StatusConfirmed, scheduling.StatusCancelled:
		return true
	}
	return false
}

func parseFilter(c *gin.Context, company *models.Company) (scheduling.Filter, bool) {
	var f scheduling.Filter

	if v := c.Query("client_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_client_id", "Cliente inválido.")
			return f, false
		}
		cid := uint(id)
		f.ClientID = &cid
	}

	if v := c.Query("staff_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_staff_id", "Profissional inválido.")
			return f, false
		}
		sid := uint(id)
		f.StaffID = &sid
	}

	if v := c.Query("status"); v != "" {
		if !validStatus(v) {
			httperr.BadRequest(c, "invalid_status", "Status inválido.")
			return f, false
		}
		f.Status = &v
	}

	if v := c.Query("from"); v != "" {
		t, err := parseTimestampInCompany(company, v)
		if err != nil {
			if t, err = parseDateInCompany(company, v); err != nil {
				httperr.BadRequest(c, "invalid_from", "Data inicial inválida.")
				return f, false
			}
		}
		f.From = &t
	}

	if v := c.Query("to"); v != "" {
		t, err := parseTimestampInCompany(company, v)
		if err != nil {
			if t, err = parseDateInCompany(company, v); err != nil {
				httperr.BadRequest(c, "invalid_to", "Data final inválida.")
				return f, false
			}
		}
		f.To = &t
	}

	return f, true
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	company, ok := h.company(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseTimestampInCompany(company, req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_time", "Data ou hora inválida.")
		return
	}

	var end time.Time
	if req.EndTime != "" {
		end, err = parseTimestampInCompany(company, req.EndTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_end_time", "Data ou hora inválida.")
			return
		}
	} else {
		var service models.Service
		if err := h.db.
			Where("id = ? AND company_id = ?", req.ServiceID, companyID).
			First(&service).Error; err != nil {
			httperr.BadRequest(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		end = start.Add(time.Duration(service.DurationMin) * time.Minute)
	}

	if !end.After(start) {
		httperr.BadRequest(c, "invalid_interval", "Término deve ser depois do início.")
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		CompanyID:  companyID,
		ClientID:   req.ClientID,
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		StartTime:  start,
		EndTime:    end,
		Notes:      req.Notes,
		FinalPrice: req.FinalPrice,
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	company, ok := h.company(c)
	if !ok {
		return
	}

	if !h.belongsToCompany(c, id, companyID) {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := ucAppointment.UpdateAppointmentInput{
		ServiceID:  req.ServiceID,
		StaffID:    req.StaffID,
		Notes:      req.Notes,
		FinalPrice: req.FinalPrice,
	}

	if req.StartTime != nil {
		t, err := parseTimestampInCompany(company, *req.StartTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_start_time", "Data ou hora inválida.")
			return
		}
		in.StartTime = &t
	}

	if req.EndTime != nil {
		t, err := parseTimestampInCompany(company, *req.EndTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_end_time", "Data ou hora inválida.")
			return
		}
		in.EndTime = &t
	}

	if req.Status != nil {
		if !validStatus(*req.Status) {
			httperr.BadRequest(c, "invalid_status", "Status inválido.")
			return
		}
		in.Status = req.Status
	}

	result, err := h.updateUC.Execute(c.Request.Context(), id, in)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ======================================================
// CANCEL / CONFIRM
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	if !h.belongsToCompany(c, id, companyID) {
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req) // corpo opcional

	result, err := h.cancelUC.Execute(c.Request.Context(), id, req.Reason)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	if !h.belongsToCompany(c, id, companyID) {
		return
	}

	result, err := h.confirmUC.Execute(c.Request.Context(), id)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	// escopo de tenant: agendamento de outra empresa é invisível
	if ap.CompanyID != companyID {
		httperr.NotFound(c, httperr.CodeNotFound, "Agendamento não encontrado.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	company, ok := h.company(c)
	if !ok {
		return
	}

	filter, ok := parseFilter(c, company)
	if !ok {
		return
	}

	aps, err := h.listUC.Execute(c.Request.Context(), companyID, filter)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListWithRelations(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	company, ok := h.company(c)
	if !ok {
		return
	}

	filter, ok := parseFilter(c, company)
	if !ok {
		return
	}

	aps, err := h.listRelUC.Execute(c.Request.Context(), companyID, filter)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		price := ap.Service.Price
		if ap.FinalPrice != nil {
			price = *ap.FinalPrice
		}
		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			ClientName:  ap.Client.Name,
			StaffName:   ap.Staff.Name,
			StaffColor:  ap.Staff.Color,
			ServiceName: ap.Service.Name,
			Price:       price,
		})
	}

	httpresp.List(c, out)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	company, ok := h.company(c)
	if !ok {
		return
	}

	staffID, err := strconv.ParseUint(c.Query("staff_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "Profissional inválido.")
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return
	}

	date, err := parseDateInCompany(company, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.availabilityUC.Execute(c.Request.Context(), scheduling.AvailabilityInput{
		CompanyID: companyID,
		StaffID:   uint(staffID),
		ServiceID: uint(serviceID),
		Date:      date,
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// ======================================================
// SCOPING
// ======================================================

func (h *AppointmentHandler) appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

func (h *AppointmentHandler) belongsToCompany(c *gin.Context, id, companyID uint) bool {
	var ap models.Appointment
	if err := h.db.
		Select("id", "company_id").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&ap).Error; err != nil {

		httperr.NotFound(c, httperr.CodeNotFound, "Agendamento não encontrado.")
		return false
	}
	return true
}
