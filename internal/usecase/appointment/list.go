package appointment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
)

// Consultas são repasses diretos ao Store; só a tradução de erro mora aqui.

type GetAppointment struct {
	store scheduling.Store
	log   *zap.Logger
}

func NewGetAppointment(store scheduling.Store, log *zap.Logger) *GetAppointment {
	return &GetAppointment{store: store, log: log}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	ap, err := uc.store.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, internalError(uc.log, "failed to load appointment", err,
			zap.Uint("appointment_id", id))
	}
	return ap, nil
}

type ListAppointments struct {
	store scheduling.Store
	log   *zap.Logger
}

func NewListAppointments(store scheduling.Store, log *zap.Logger) *ListAppointments {
	return &ListAppointments{store: store, log: log}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	companyID uint,
	f scheduling.Filter,
) ([]models.Appointment, error) {

	aps, err := uc.store.ListAppointments(ctx, companyID, f)
	if err != nil {
		return nil, internalError(uc.log, "failed to list appointments", err,
			zap.Uint("company_id", companyID))
	}
	return aps, nil
}

type ListAppointmentsWithRelations struct {
	store scheduling.Store
	log   *zap.Logger
}

func NewListAppointmentsWithRelations(store scheduling.Store, log *zap.Logger) *ListAppointmentsWithRelations {
	return &ListAppointmentsWithRelations{store: store, log: log}
}

func (uc *ListAppointmentsWithRelations) Execute(
	ctx context.Context,
	companyID uint,
	f scheduling.Filter,
) ([]models.Appointment, error) {

	aps, err := uc.store.ListAppointmentsWithRelations(ctx, companyID, f)
	if err != nil {
		return nil, internalError(uc.log, "failed to list appointments", err,
			zap.Uint("company_id", companyID))
	}
	return aps, nil
}
