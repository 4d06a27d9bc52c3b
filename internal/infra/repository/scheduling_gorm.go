package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
)

// Listagens denormalizadas são limitadas; a tela pagina por data.
const relationsPageSize = 100

// Espelho SQL do predicado scheduling.Overlaps: três cláusulas com
// comparações fechadas (encostar no limite conflita).
const overlapCondition = `
	(start_time <= ? AND end_time >= ?)
	OR (start_time <= ? AND end_time >= ?)
	OR (start_time >= ? AND end_time <= ?)`

type SchedulingGormStore struct {
	db *gorm.DB
}

func NewSchedulingGormStore(db *gorm.DB) *SchedulingGormStore {
	return &SchedulingGormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return scheduling.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Company
// --------------------------------------------------

func (s *SchedulingGormStore) GetCompanyByID(
	ctx context.Context,
	id uint,
) (*models.Company, error) {

	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (s *SchedulingGormStore) GetStaff(
	ctx context.Context,
	companyID uint,
	staffID uint,
) (*models.Staff, error) {

	var st models.Staff
	if err := s.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", staffID, companyID).
		First(&st).Error; err != nil {
		return nil, translate(err)
	}
	return &st, nil
}

func (s *SchedulingGormStore) CreateStaff(
	ctx context.Context,
	st *models.Staff,
) error {
	return s.db.WithContext(ctx).Create(st).Error
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (s *SchedulingGormStore) GetClient(
	ctx context.Context,
	companyID uint,
	clientID uint,
) (*models.Client, error) {

	var cl models.Client
	if err := s.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", clientID, companyID).
		First(&cl).Error; err != nil {
		return nil, translate(err)
	}
	return &cl, nil
}

func (s *SchedulingGormStore) CreateClient(
	ctx context.Context,
	cl *models.Client,
) error {
	return s.db.WithContext(ctx).Create(cl).Error
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (s *SchedulingGormStore) GetService(
	ctx context.Context,
	companyID uint,
	serviceID uint,
) (*models.Service, error) {

	var sv models.Service
	if err := s.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", serviceID, companyID).
		First(&sv).Error; err != nil {
		return nil, translate(err)
	}
	return &sv, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (s *SchedulingGormStore) CheckConflict(
	ctx context.Context,
	staffID uint,
	start time.Time,
	end time.Time,
	excludeID *uint,
) (bool, error) {

	q := s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("staff_id = ? AND status <> ?", staffID, string(scheduling.StatusCancelled)).
		Where(overlapCondition, start, start, end, end, start, end)

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// lockedOverlapQuery monta o recheque de conflito da transação de criação:
// lock de linha sobre os agendamentos não cancelados do profissional que
// colidem com a janela. Sem agregação no SELECT, porque o Postgres não
// aceita FOR UPDATE junto de count().
func lockedOverlapQuery(tx *gorm.DB, staffID uint, start, end time.Time) *gorm.DB {
	return tx.
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("staff_id = ? AND status <> ?", staffID, string(scheduling.StatusCancelled)).
		Where(overlapCondition, start, start, end, end, start, end)
}

// CreateAppointment refaz a checagem de conflito dentro da transação com
// lock de linha antes de gravar. A constraint de exclusão do banco é a
// última barreira; violação dela também vira scheduling_conflict.
func (s *SchedulingGormStore) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var ids []uint
		if err := lockedOverlapQuery(tx, ap.StaffID, ap.StartTime, ap.EndTime).
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		if len(ids) > 0 {
			return httperr.ErrBusiness(httperr.CodeSchedulingConflict)
		}

		return tx.Create(ap).Error
	})

	if err != nil && httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness(httperr.CodeSchedulingConflict)
	}
	return err
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (s *SchedulingGormStore) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := s.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ap, nil
}

func (s *SchedulingGormStore) GetAppointmentWithRelations(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Staff").
		Preload("Service").
		Preload("Company").
		First(&ap, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ap, nil
}

func applyFilter(q *gorm.DB, f scheduling.Filter) *gorm.DB {
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.StaffID != nil {
		q = q.Where("staff_id = ?", *f.StaffID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_time < ?", *f.To)
	}
	return q
}

func (s *SchedulingGormStore) ListAppointments(
	ctx context.Context,
	companyID uint,
	f scheduling.Filter,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	q := s.db.WithContext(ctx).
		Where("company_id = ?", companyID)

	if err := applyFilter(q, f).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (s *SchedulingGormStore) ListAppointmentsWithRelations(
	ctx context.Context,
	companyID uint,
	f scheduling.Filter,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	q := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Staff").
		Preload("Service").
		Preload("Company").
		Where("company_id = ?", companyID)

	if err := applyFilter(q, f).
		Order("start_time DESC").
		Limit(relationsPageSize).
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Appointment (update)
// --------------------------------------------------

func (s *SchedulingGormStore) UpdateAppointment(
	ctx context.Context,
	id uint,
	p scheduling.Patch,
) (*models.Appointment, error) {

	fields := map[string]any{}
	if p.ServiceID != nil {
		fields["service_id"] = *p.ServiceID
	}
	if p.StaffID != nil {
		fields["staff_id"] = *p.StaffID
	}
	if p.StartTime != nil {
		fields["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		fields["end_time"] = *p.EndTime
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.Notes != nil {
		fields["notes"] = *p.Notes
	}
	if p.FinalPrice != nil {
		fields["final_price"] = *p.FinalPrice
	}
	if p.CancelledAt != nil {
		fields["cancelled_at"] = *p.CancelledAt
	}
	if p.ConfirmedAt != nil {
		fields["confirmed_at"] = *p.ConfirmedAt
	}

	if len(fields) > 0 {
		res := s.db.WithContext(ctx).
			Model(&models.Appointment{}).
			Where("id = ?", id).
			Updates(fields)

		if res.Error != nil {
			if httperr.IsExclusionConflict(res.Error) {
				return nil, httperr.ErrBusiness(httperr.CodeSchedulingConflict)
			}
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, scheduling.ErrNotFound
		}
	}

	var ap models.Appointment
	if err := s.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ap, nil
}

// --------------------------------------------------
// Unicidade global (staff + clients)
// --------------------------------------------------

func (s *SchedulingGormStore) EmailExists(
	ctx context.Context,
	email string,
	exclude *scheduling.OwnerRef,
) (bool, error) {
	return s.contactExists(ctx, "email", email, exclude)
}

func (s *SchedulingGormStore) PhoneExists(
	ctx context.Context,
	phone string,
	exclude *scheduling.OwnerRef,
) (bool, error) {
	return s.contactExists(ctx, "phone", phone, exclude)
}

func (s *SchedulingGormStore) contactExists(
	ctx context.Context,
	column string,
	value string,
	exclude *scheduling.OwnerRef,
) (bool, error) {

	if value == "" {
		return false, nil
	}

	staffQ := s.db.WithContext(ctx).
		Model(&models.Staff{}).
		Where(column+" = ?", value)
	if exclude != nil && exclude.Kind == scheduling.OwnerStaff {
		staffQ = staffQ.Where("id <> ?", exclude.ID)
	}

	var count int64
	if err := staffQ.Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	clientQ := s.db.WithContext(ctx).
		Model(&models.Client{}).
		Where(column+" = ?", value)
	if exclude != nil && exclude.Kind == scheduling.OwnerClient {
		clientQ = clientQ.Where("id <> ?", exclude.ID)
	}

	if err := clientQ.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Compile-time check
var _ scheduling.Store = (*SchedulingGormStore)(nil)
