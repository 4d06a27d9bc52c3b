package staff

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/audit"
	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	"github.com/guirofeoli/livegenda-app-sub001/internal/notification"
)

// ======================================================
// INPUT
// ======================================================

type CreateStaffInput struct {
	CompanyID uint

	Name  string
	Email string
	Phone string
	Color string

	WorkingWeekdays string
	StartTime       string
	EndTime         string
}

type CreateStaffResult struct {
	Staff         *models.Staff        `json:"staff"`
	Notifications notification.Outcome `json:"notificacoes"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateStaff struct {
	store    scheduling.Store
	notifier notification.Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewCreateStaff(
	store scheduling.Store,
	notifier notification.Notifier,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *CreateStaff {
	return &CreateStaff{
		store:    store,
		notifier: notifier,
		audit:    auditd,
		log:      log,
	}
}

// Execute cadastra o profissional. E-mail e telefone são únicos no sistema
// inteiro, entre profissionais e clientes — a checagem é feita aqui, não por
// constraint de banco, porque atravessa duas tabelas.
func (uc *CreateStaff) Execute(
	ctx context.Context,
	in CreateStaffInput,
) (*CreateStaffResult, error) {

	company, err := uc.store.GetCompanyByID(ctx, in.CompanyID)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness("company_not_found")
		}
		return nil, uc.internal("failed to load company", err)
	}

	if in.Email != "" {
		exists, err := uc.store.EmailExists(ctx, in.Email, nil)
		if err != nil {
			return nil, uc.internal("email uniqueness check failed", err)
		}
		if exists {
			return nil, httperr.ErrBusiness("email_in_use")
		}
	}

	if in.Phone != "" {
		exists, err := uc.store.PhoneExists(ctx, in.Phone, nil)
		if err != nil {
			return nil, uc.internal("phone uniqueness check failed", err)
		}
		if exists {
			return nil, httperr.ErrBusiness("phone_in_use")
		}
	}

	st := &models.Staff{
		CompanyID:       in.CompanyID,
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		Color:           in.Color,
		WorkingWeekdays: in.WorkingWeekdays,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Active:          true,
	}

	if err := uc.store.CreateStaff(ctx, st); err != nil {
		return nil, uc.internal("failed to create staff", err)
	}

	// Boas-vindas best-effort: falha de envio não desfaz o cadastro
	out := uc.notifyWelcome(ctx, st, company)

	uc.audit.Dispatch(audit.Event{
		CompanyID: in.CompanyID,
		Action:    "staff_created",
		Entity:    "staff",
		EntityID:  &st.ID,
	})

	return &CreateStaffResult{
		Staff:         st,
		Notifications: out,
	}, nil
}

func (uc *CreateStaff) notifyWelcome(
	ctx context.Context,
	st *models.Staff,
	company *models.Company,
) notification.Outcome {

	var out notification.Outcome

	data := notification.WelcomeData{
		StaffName:   st.Name,
		CompanyName: company.Name,
	}

	if st.Email != "" {
		if err := uc.notifier.SendWelcomeEmail(ctx, st.Email, data); err != nil {
			uc.log.Warn("welcome email failed", zap.Error(err), zap.Uint("staff_id", st.ID))
		} else {
			out.Email = true
		}
	}

	if st.Phone != "" {
		if err := uc.notifier.SendWelcomeSMS(ctx, st.Phone, data); err != nil {
			uc.log.Warn("welcome sms failed", zap.Error(err), zap.Uint("staff_id", st.ID))
		} else {
			out.SMS = true
		}
	}

	return out
}

func (uc *CreateStaff) internal(msg string, err error) error {
	uc.log.Error(msg, zap.Error(err))
	return httperr.ErrBusiness(httperr.CodeInternal)
}
