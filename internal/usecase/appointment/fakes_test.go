package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/audit"
	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	"github.com/guirofeoli/livegenda-app-sub001/internal/notification"
)

// ======================================================
// FAKE STORE
// ======================================================

type fakeStore struct {
	getCompanyFn    func(ctx context.Context, id uint) (*models.Company, error)
	getStaffFn      func(ctx context.Context, companyID, staffID uint) (*models.Staff, error)
	createStaffFn   func(ctx context.Context, st *models.Staff) error
	getClientFn     func(ctx context.Context, companyID, clientID uint) (*models.Client, error)
	createClientFn  func(ctx context.Context, cl *models.Client) error
	getServiceFn    func(ctx context.Context, companyID, serviceID uint) (*models.Service, error)
	createFn        func(ctx context.Context, ap *models.Appointment) error
	checkConflictFn func(ctx context.Context, staffID uint, start, end time.Time, excludeID *uint) (bool, error)
	getByIDFn       func(ctx context.Context, id uint) (*models.Appointment, error)
	getWithRelFn    func(ctx context.Context, id uint) (*models.Appointment, error)
	listFn          func(ctx context.Context, companyID uint, f scheduling.Filter) ([]models.Appointment, error)
	listWithRelFn   func(ctx context.Context, companyID uint, f scheduling.Filter) ([]models.Appointment, error)
	updateFn        func(ctx context.Context, id uint, p scheduling.Patch) (*models.Appointment, error)
	emailExistsFn   func(ctx context.Context, email string, exclude *scheduling.OwnerRef) (bool, error)
	phoneExistsFn   func(ctx context.Context, phone string, exclude *scheduling.OwnerRef) (bool, error)
}

var _ scheduling.Store = (*fakeStore)(nil)

func (f *fakeStore) GetCompanyByID(ctx context.Context, id uint) (*models.Company, error) {
	if f.getCompanyFn == nil {
		panic("GetCompanyByID not configured")
	}
	return f.getCompanyFn(ctx, id)
}

func (f *fakeStore) GetStaff(ctx context.Context, companyID, staffID uint) (*models.Staff, error) {
	if f.getStaffFn == nil {
		panic("GetStaff not configured")
	}
	return f.getStaffFn(ctx, companyID, staffID)
}

func (f *fakeStore) CreateStaff(ctx context.Context, st *models.Staff) error {
	if f.createStaffFn == nil {
		panic("CreateStaff not configured")
	}
	return f.createStaffFn(ctx, st)
}

func (f *fakeStore) GetClient(ctx context.Context, companyID, clientID uint) (*models.Client, error) {
	if f.getClientFn == nil {
		panic("GetClient not configured")
	}
	return f.getClientFn(ctx, companyID, clientID)
}

func (f *fakeStore) CreateClient(ctx context.Context, cl *models.Client) error {
	if f.createClientFn == nil {
		panic("CreateClient not configured")
	}
	return f.createClientFn(ctx, cl)
}

func (f *fakeStore) GetService(ctx context.Context, companyID, serviceID uint) (*models.Service, error) {
	if f.getServiceFn == nil {
		panic("GetService not configured")
	}
	return f.getServiceFn(ctx, companyID, serviceID)
}

func (f *fakeStore) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if f.createFn == nil {
		panic("CreateAppointment not configured")
	}
	return f.createFn(ctx, ap)
}

func (f *fakeStore) CheckConflict(ctx context.Context, staffID uint, start, end time.Time, excludeID *uint) (bool, error) {
	if f.checkConflictFn == nil {
		panic("CheckConflict not configured")
	}
	return f.checkConflictFn(ctx, staffID, start, end, excludeID)
}

func (f *fakeStore) GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	if f.getByIDFn == nil {
		panic("GetAppointmentByID not configured")
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeStore) GetAppointmentWithRelations(ctx context.Context, id uint) (*models.Appointment, error) {
	if f.getWithRelFn == nil {
		panic("GetAppointmentWithRelations not configured")
	}
	return f.getWithRelFn(ctx, id)
}

func (f *fakeStore) ListAppointments(ctx context.Context, companyID uint, fl scheduling.Filter) ([]models.Appointment, error) {
	if f.listFn == nil {
		panic("ListAppointments not configured")
	}
	return f.listFn(ctx, companyID, fl)
}

func (f *fakeStore) ListAppointmentsWithRelations(ctx context.Context, companyID uint, fl scheduling.Filter) ([]models.Appointment, error) {
	if f.listWithRelFn == nil {
		panic("ListAppointmentsWithRelations not configured")
	}
	return f.listWithRelFn(ctx, companyID, fl)
}

func (f *fakeStore) UpdateAppointment(ctx context.Context, id uint, p scheduling.Patch) (*models.Appointment, error) {
	if f.updateFn == nil {
		panic("UpdateAppointment not configured")
	}
	return f.updateFn(ctx, id, p)
}

func (f *fakeStore) EmailExists(ctx context.Context, email string, exclude *scheduling.OwnerRef) (bool, error) {
	if f.emailExistsFn == nil {
		panic("EmailExists not configured")
	}
	return f.emailExistsFn(ctx, email, exclude)
}

func (f *fakeStore) PhoneExists(ctx context.Context, phone string, exclude *scheduling.OwnerRef) (bool, error) {
	if f.phoneExistsFn == nil {
		panic("PhoneExists not configured")
	}
	return f.phoneExistsFn(ctx, phone, exclude)
}

// ======================================================
// FAKE NOTIFIER
// ======================================================

// fakeNotifier registra cada envio e permite injetar falha por canal.
type fakeNotifier struct {
	emailErr error
	smsErr   error

	confirmationEmails []string
	confirmationSMS    []string
	rescheduleEmails   []string
	rescheduleSMS      []string
	cancellationEmails []string
	cancellationSMS    []string

	lastReschedule   notification.RescheduleData
	lastCancellation notification.CancellationData
}

var _ notification.Notifier = (*fakeNotifier)(nil)

func (f *fakeNotifier) SendWelcomeEmail(ctx context.Context, to string, d notification.WelcomeData) error {
	return f.emailErr
}

func (f *fakeNotifier) SendWelcomeSMS(ctx context.Context, to string, d notification.WelcomeData) error {
	return f.smsErr
}

func (f *fakeNotifier) SendConfirmationEmail(ctx context.Context, to string, d notification.AppointmentData) error {
	if f.emailErr != nil {
		return f.emailErr
	}
	f.confirmationEmails = append(f.confirmationEmails, to)
	return nil
}

func (f *fakeNotifier) SendConfirmationSMS(ctx context.Context, to string, d notification.AppointmentData) error {
	if f.smsErr != nil {
		return f.smsErr
	}
	f.confirmationSMS = append(f.confirmationSMS, to)
	return nil
}

func (f *fakeNotifier) SendRescheduleEmail(ctx context.Context, to string, d notification.RescheduleData) error {
	if f.emailErr != nil {
		return f.emailErr
	}
	f.rescheduleEmails = append(f.rescheduleEmails, to)
	f.lastReschedule = d
	return nil
}

func (f *fakeNotifier) SendRescheduleSMS(ctx context.Context, to string, d notification.RescheduleData) error {
	if f.smsErr != nil {
		return f.smsErr
	}
	f.rescheduleSMS = append(f.rescheduleSMS, to)
	return nil
}

func (f *fakeNotifier) SendCancellationEmail(ctx context.Context, to string, d notification.CancellationData) error {
	if f.emailErr != nil {
		return f.emailErr
	}
	f.cancellationEmails = append(f.cancellationEmails, to)
	f.lastCancellation = d
	return nil
}

func (f *fakeNotifier) SendCancellationSMS(ctx context.Context, to string, d notification.CancellationData) error {
	if f.smsErr != nil {
		return f.smsErr
	}
	f.cancellationSMS = append(f.cancellationSMS, to)
	return nil
}

// ======================================================
// HELPERS
// ======================================================

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nil, zap.NewNop())
}

func slot(hour int) time.Time {
	return time.Date(2025, 6, 2, hour, 0, 0, 0, time.UTC)
}

// fullAppointment devolve um agendamento com todas as relações carregadas,
// como o store faz na leitura denormalizada.
func fullAppointment(id uint) *models.Appointment {
	return &models.Appointment{
		ID:        id,
		CompanyID: 1,
		ClientID:  10,
		StaffID:   20,
		ServiceID: 30,
		StartTime: slot(10),
		EndTime:   slot(11),
		Status:    "agendado",
		Company: models.Company{
			ID:       1,
			Name:     "Livegenda Demo",
			Timezone: "America/Sao_Paulo",
		},
		Client: models.Client{
			ID:    10,
			Name:  "Ana Souza",
			Email: "ana@example.com",
			Phone: "+5511999990000",
		},
		Staff: models.Staff{
			ID:   20,
			Name: "Bruno Lima",
		},
		Service: models.Service{
			ID:          30,
			Name:        "Consulta",
			DurationMin: 60,
			Price:       120,
		},
	}
}
