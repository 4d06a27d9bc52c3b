package appointment

import (
	"context"
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

type CreateAppointmentInput struct {
	CompanyID uint
	ClientID  uint
	StaffID   uint
	ServiceID uint

	StartTime time.Time
	EndTime   time.Time

	Notes      string
	FinalPrice *float64
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	store    scheduling.Store
	notifier notification.Notifier
	locker   lock.Locker
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewCreateAppointment(
	store scheduling.Store,
	notifier notification.Notifier,
	locker lock.Locker,
	auditd *audit.Dispatcher,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
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

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*Result, error) {

	// --------------------------------------------------
	// 1️⃣ Lock por profissional (best-effort)
	// --------------------------------------------------
	// Sem o lock duas requisições simultâneas podem passar pela checagem
	// antes de qualquer escrita; a constraint de exclusão no banco segura
	// esse caso, então indisponibilidade do redis não bloqueia a operação.
	release, err := uc.locker.Acquire(ctx, slotLockKey(in.StaffID), slotLockTTL)
	if err != nil {
		uc.log.Warn("slot lock unavailable, proceeding without it",
			zap.Error(err),
			zap.Uint("staff_id", in.StaffID),
		)
	} else {
		defer release()
	}

	// --------------------------------------------------
	// 2️⃣ Conflito de horário
	// --------------------------------------------------
	conflict, err := uc.store.CheckConflict(ctx, in.StaffID, in.StartTime, in.EndTime, nil)
	if err != nil {
		return nil, internalError(uc.log, "conflict check failed", err,
			zap.Uint("staff_id", in.StaffID))
	}
	if conflict {
		uc.audit.Dispatch(audit.Event{
			CompanyID: in.CompanyID,
			Action:    "appointment_conflict",
			Entity:    "appointment",
			Metadata: map[string]any{
				"staff_id": in.StaffID,
				"start":    in.StartTime,
				"end":      in.EndTime,
			},
		})
		return nil, httperr.ErrBusiness(httperr.CodeSchedulingConflict)
	}

	// --------------------------------------------------
	// 3️⃣ Criação (status centralizado)
	// --------------------------------------------------
	ap := &models.Appointment{
		CompanyID:  in.CompanyID,
		ClientID:   in.ClientID,
		StaffID:    in.StaffID,
		ServiceID:  in.ServiceID,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Status:     string(scheduling.InitialStatus()),
		Notes:      in.Notes,
		FinalPrice: in.FinalPrice,
	}

	if err := uc.store.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsBusiness(err, httperr.CodeSchedulingConflict) {
			return nil, err
		}
		return nil, internalError(uc.log, "failed to create appointment", err,
			zap.Uint("company_id", in.CompanyID))
	}

	// --------------------------------------------------
	// 4️⃣ Releitura denormalizada para as notificações
	// --------------------------------------------------
	full, err := uc.store.GetAppointmentWithRelations(ctx, ap.ID)
	if err != nil {
		return nil, internalError(uc.log, "failed to reload appointment", err,
			zap.Uint("appointment_id", ap.ID))
	}

	// --------------------------------------------------
	// 5️⃣ Notificações best-effort (canal ausente = pulado)
	// --------------------------------------------------
	out := uc.notifyConfirmation(ctx, full)

	uc.audit.Dispatch(audit.Event{
		CompanyID: in.CompanyID,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &full.ID,
	})

	return &Result{
		Appointment:   full,
		Notifications: out,
	}, nil
}

func (uc *CreateAppointment) notifyConfirmation(
	ctx context.Context,
	ap *models.Appointment,
) notification.Outcome {

	var out notification.Outcome
	data := payload(ap)

	if ap.Client.Email != "" {
		if err := uc.notifier.SendConfirmationEmail(ctx, ap.Client.Email, data); err != nil {
			uc.log.Warn("confirmation email failed",
				zap.Error(err),
				zap.Uint("appointment_id", ap.ID),
			)
		} else {
			out.Email = true
		}
	}

	if ap.Client.Phone != "" {
		if err := uc.notifier.SendConfirmationSMS(ctx, ap.Client.Phone, data); err != nil {
			uc.log.Warn("confirmation sms failed",
				zap.Error(err),
				zap.Uint("appointment_id", ap.ID),
			)
		} else {
			out.SMS = true
		}
	}

	return out
}
