package appointment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/audit"
	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	"github.com/guirofeoli/livegenda-app-sub001/internal/notification"
	"github.com/guirofeoli/livegenda-app-sub001/internal/timezone"
)

type CancelAppointment struct {
	store    scheduling.Store
	notifier notification.Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewCancelAppointment(
	store scheduling.Store,
	notifier notification.Notifier,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		store:    store,
		notifier: notifier,
		audit:    auditd,
		log:      log,
	}
}

// Execute marca o agendamento como cancelado e dispara os avisos.
// Não há guarda de estado: cancelar um agendamento já cancelado apenas
// regrava o estado terminal. O registro nunca é apagado fisicamente.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	id uint,
	reason string,
) (*Result, error) {

	current, err := uc.store.GetAppointmentWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, internalError(uc.log, "failed to load appointment", err,
			zap.Uint("appointment_id", id))
	}

	now := timezone.NowIn(current.Company.Timezone)
	status := string(scheduling.StatusCancelled)

	updated, err := uc.store.UpdateAppointment(ctx, id, scheduling.Patch{
		Status:      &status,
		CancelledAt: &now,
	})
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeUpdateFailure)
		}
		return nil, internalError(uc.log, "failed to cancel appointment", err,
			zap.Uint("appointment_id", id))
	}

	var out notification.Outcome
	if hasRelations(current) {
		out = uc.notifyCancellation(ctx, current, reason)
	}

	uc.audit.Dispatch(audit.Event{
		CompanyID: current.CompanyID,
		Action:    "appointment_cancelled",
		Entity:    "appointment",
		EntityID:  &updated.ID,
	})

	return &Result{
		Appointment:   updated,
		Notifications: out,
	}, nil
}

func (uc *CancelAppointment) notifyCancellation(
	ctx context.Context,
	ap *models.Appointment,
	reason string,
) notification.Outcome {

	var out notification.Outcome

	data := notification.CancellationData{
		AppointmentData: payload(ap),
		Reason:          reason,
	}

	if ap.Client.Email != "" {
		if err := uc.notifier.SendCancellationEmail(ctx, ap.Client.Email, data); err != nil {
			uc.log.Warn("cancellation email failed",
				zap.Error(err),
				zap.Uint("appointment_id", ap.ID),
			)
		} else {
			out.Email = true
		}
	}

	if ap.Client.Phone != "" {
		if err := uc.notifier.SendCancellationSMS(ctx, ap.Client.Phone, data); err != nil {
			uc.log.Warn("cancellation sms failed",
				zap.Error(err),
				zap.Uint("appointment_id", ap.ID),
			)
		} else {
			out.SMS = true
		}
	}

	return out
}
