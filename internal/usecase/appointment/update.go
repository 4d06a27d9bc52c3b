package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/audit"
	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/lock"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	"github.com/guirofeoli/livegenda-app-sub001/internal/notification"
)

// ======================================================
// INPUT
// ======================================================

// Campos nil mantêm o valor atual (patch parcial).
type UpdateAppointmentInput struct {
	ServiceID  *uint
	StaffID    *uint
	StartTime  *time.Time
	EndTime    *time.Time
	Status     *string
	Notes      *string
	FinalPrice *float64
}

func (in UpdateAppointmentInput) touchesSchedule() bool {
	return in.StartTime != nil || in.EndTime != nil || in.StaffID != nil
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	store    scheduling.Store
	notifier notification.Notifier
	locker   lock.Locker
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewUpdateAppointment(
	store scheduling.Store,
	notifier notification.Notifier,
	locker lock.Locker,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *UpdateAppointment {
	return &UpdateAppointment{
		store:    store,
		notifier: notifier,
		locker:   locker,
		audit:    auditd,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	id uint,
	in UpdateAppointmentInput,
) (*UpdateResult, error) {

	// --------------------------------------------------
	// 1️⃣ Snapshot atual (com relações, para a notificação)
	// --------------------------------------------------
	current, err := uc.store.GetAppointmentWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, internalError(uc.log, "failed to load appointment", err,
			zap.Uint("appointment_id", id))
	}

	// --------------------------------------------------
	// 2️⃣ Rechecagem de conflito se a grade mudou
	// --------------------------------------------------
	rescheduled := false

	if in.touchesSchedule() {
		newStart := current.StartTime
		newEnd := current.EndTime
		newStaff := current.StaffID

		if in.StartTime != nil {
			newStart = *in.StartTime
		}
		if in.EndTime != nil {
			newEnd = *in.EndTime
		}
		if in.StaffID != nil {
			newStaff = *in.StaffID
		}

		release, lockErr := uc.locker.Acquire(ctx, slotLockKey(newStaff), slotLockTTL)
		if lockErr != nil {
			uc.log.Warn("slot lock unavailable, proceeding without it",
				zap.Error(lockErr),
				zap.Uint("staff_id", newStaff),
			)
		} else {
			defer release()
		}

		conflict, err := uc.store.CheckConflict(ctx, newStaff, newStart, newEnd, &id)
		if err != nil {
			return nil, internalError(uc.log, "conflict check failed", err,
				zap.Uint("appointment_id", id))
		}
		if conflict {
			return nil, httperr.ErrBusiness(httperr.CodeSchedulingConflict)
		}

		// Só o início conta para o aviso de remarcação; mudar apenas a
		// duração não dispara notificação.
		rescheduled = !newStart.Equal(current.StartTime)
	}

	// --------------------------------------------------
	// 3️⃣ Patch parcial
	// --------------------------------------------------
	updated, err := uc.store.UpdateAppointment(ctx, id, scheduling.Patch{
		ServiceID:  in.ServiceID,
		StaffID:    in.StaffID,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Status:     in.Status,
		Notes:      in.Notes,
		FinalPrice: in.FinalPrice,
	})
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			// sumiu entre a leitura e a escrita
			return nil, httperr.ErrBusiness(httperr.CodeUpdateFailure)
		}
		if httperr.IsBusiness(err, httperr.CodeSchedulingConflict) {
			return nil, err
		}
		return nil, internalError(uc.log, "failed to update appointment", err,
			zap.Uint("appointment_id", id))
	}

	// --------------------------------------------------
	// 4️⃣ Aviso de remarcação (valores antigos do snapshot)
	// --------------------------------------------------
	var out notification.Outcome
	if rescheduled && hasRelations(current) {
		out = uc.notifyReschedule(ctx, current, updated)
	}

	uc.audit.Dispatch(audit.Event{
		CompanyID: current.CompanyID,
		Action:    "appointment_updated",
		Entity:    "appointment",
		EntityID:  &updated.ID,
		Metadata: map[string]any{
			"rescheduled": rescheduled,
		},
	})

	return &UpdateResult{
		Appointment:   updated,
		Rescheduled:   rescheduled,
		Notifications: out,
	}, nil
}

func (uc *UpdateAppointment) notifyReschedule(
	ctx context.Context,
	before *models.Appointment,
	after *models.Appointment,
) notification.Outcome {

	var out notification.Outcome

	data := notification.RescheduleData{
		AppointmentData: payload(before),
		PreviousStart:   before.StartTime,
		PreviousEnd:     before.EndTime,
	}
	data.Start = after.StartTime
	data.End = after.EndTime

	if before.Client.Email != "" {
		if err := uc.notifier.SendRescheduleEmail(ctx, before.Client.Email, data); err != nil {
			uc.log.Warn("reschedule email failed",
				zap.Error(err),
				zap.Uint("appointment_id", after.ID),
			)
		} else {
			out.Email = true
		}
	}

	if before.Client.Phone != "" {
		if err := uc.notifier.SendRescheduleSMS(ctx, before.Client.Phone, data); err != nil {
			uc.log.Warn("reschedule sms failed",
				zap.Error(err),
				zap.Uint("appointment_id", after.ID),
			)
		} else {
			out.SMS = true
		}
	}

	return out
}
