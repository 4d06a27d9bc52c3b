package appointment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/audit"
	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/timezone"
)

type ConfirmAppointment struct {
	store scheduling.Store
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewConfirmAppointment(
	store scheduling.Store,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		store: store,
		audit: auditd,
		log:   log,
	}
}

// Execute faz a transição agendado → confirmado. Ao contrário do
// cancelamento, confirmação tem guarda de estado.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	id uint,
) (*Result, error) {

	current, err := uc.store.GetAppointmentWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, internalError(uc.log, "failed to load appointment", err,
			zap.Uint("appointment_id", id))
	}

	if err := scheduling.CanConfirm(scheduling.Status(current.Status)); err != nil {
		return nil, err
	}

	now := timezone.NowIn(current.Company.Timezone)
	status := string(scheduling.StatusConfirmed)

	updated, err := uc.store.UpdateAppointment(ctx, id, scheduling.Patch{
		Status:      &status,
		ConfirmedAt: &now,
	})
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeUpdateFailure)
		}
		return nil, internalError(uc.log, "failed to confirm appointment", err,
			zap.Uint("appointment_id", id))
	}

	uc.audit.Dispatch(audit.Event{
		CompanyID: current.CompanyID,
		Action:    "appointment_confirmed",
		Entity:    "appointment",
		EntityID:  &updated.ID,
	})

	return &Result{Appointment: updated}, nil
}
