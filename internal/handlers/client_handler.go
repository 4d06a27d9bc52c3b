package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httpresp"
	"github.com/guirofeoli/livegenda-app-sub001/internal/middleware"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	"github.com/guirofeoli/livegenda-app-sub001/internal/validators"
)

type ClientHandler struct {
	db    *gorm.DB
	store scheduling.Store
}

func NewClientHandler(db *gorm.DB, store scheduling.Store) *ClientHandler {
	return &ClientHandler{db: db, store: store}
}

// --------- Requests ---------

type CreateClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

type UpdateClientRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Email  *string `json:"email,omitempty"`
	Notes  *string `json:"notes,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ClientHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	q := h.db.Where("company_id = ?", companyID)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var clients []models.Client
	if err := q.
		Order("name ASC").
		Find(&clients).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_clients"})
		return
	}

	httpresp.List(c, clients)
}

func (h *ClientHandler) Get(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)
	id := c.Param("id")

	clientID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	client, err := h.store.GetClient(c.Request.Context(), companyID, uint(clientID))
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_client", "Erro ao buscar cliente.")
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Email != "" && !validators.IsEmailDomainValid(req.Email) {
		httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
		return
	}

	ctx := c.Request.Context()

	if req.Email != "" {
		exists, err := h.store.EmailExists(ctx, req.Email, nil)
		if err != nil {
			httperr.Internal(c, "failed_to_check_email", "Erro ao validar e-mail.")
			return
		}
		if exists {
			httperr.Conflict(c, "email_in_use", "E-mail já cadastrado para outra pessoa.")
			return
		}
	}

	if req.Phone != "" {
		exists, err := h.store.PhoneExists(ctx, req.Phone, nil)
		if err != nil {
			httperr.Internal(c, "failed_to_check_phone", "Erro ao validar telefone.")
			return
		}
		if exists {
			httperr.Conflict(c, "phone_in_use", "Telefone já cadastrado para outra pessoa.")
			return
		}
	}

	client := models.Client{
		CompanyID: companyID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Notes:     req.Notes,
		Active:    true,
	}

	if err := h.store.CreateClient(ctx, &client); err != nil {
		httperr.Internal(c, "failed_to_create_client", "Erro ao cadastrar cliente.")
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)
	id := c.Param("id")

	var client models.Client
	if err := h.db.
		Where("id = ? AND company_id = ?", id, companyID).
		First(&client).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_client", "Erro ao buscar cliente.")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ctx := c.Request.Context()
	exclude := &scheduling.OwnerRef{Kind: scheduling.OwnerClient, ID: client.ID}

	if req.Email != nil && *req.Email != "" && *req.Email != client.Email {
		exists, err := h.store.EmailExists(ctx, *req.Email, exclude)
		if err != nil {
			httperr.Internal(c, "failed_to_check_email", "Erro ao validar e-mail.")
			return
		}
		if exists {
			httperr.Conflict(c, "email_in_use", "E-mail já cadastrado para outra pessoa.")
			return
		}
	}

	if req.Phone != nil && *req.Phone != "" && *req.Phone != client.Phone {
		exists, err := h.store.PhoneExists(ctx, *req.Phone, exclude)
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
		client.Name = *req.Name
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	if req.Active != nil {
		client.Active = *req.Active
	}

	if err := h.db.Save(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_update_client", "Erro ao salvar cliente.")
		return
	}

	c.JSON(http.StatusOK, client)
}
