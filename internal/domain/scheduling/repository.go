package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
)

// ErrNotFound é o sinal neutro de registro inexistente; implementações do
// Store traduzem o erro do driver para este valor.
var ErrNotFound = errors.New("record not found")

// OwnerKind identifica quem é o dono de um e-mail/telefone nas checagens de
// unicidade global (profissionais e clientes compartilham o mesmo espaço).
type OwnerKind string

const (
	OwnerStaff  OwnerKind = "staff"
	OwnerClient OwnerKind = "client"
)

// OwnerRef exclui o próprio registro nas checagens feitas durante update.
type OwnerRef struct {
	Kind OwnerKind
	ID   uint
}

// Filter compõe os filtros opcionais de listagem de agendamentos.
// Todos são combinados com AND; nil = sem filtro.
type Filter struct {
	ClientID *uint
	StaffID  *uint
	Status   *string
	From     *time.Time
	To       *time.Time
}

// Patch aplica atualização parcial: campo nil mantém o valor anterior.
type Patch struct {
	ServiceID   *uint
	StaffID     *uint
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *string
	Notes       *string
	FinalPrice  *float64
	CancelledAt *time.Time
	ConfirmedAt *time.Time
}

type Store interface {
	// -------- Company --------
	GetCompanyByID(
		ctx context.Context,
		id uint,
	) (*models.Company, error)

	// -------- Staff --------
	GetStaff(
		ctx context.Context,
		companyID uint,
		staffID uint,
	) (*models.Staff, error)

	CreateStaff(
		ctx context.Context,
		st *models.Staff,
	) error

	// -------- Client --------
	GetClient(
		ctx context.Context,
		companyID uint,
		clientID uint,
	) (*models.Client, error)

	CreateClient(
		ctx context.Context,
		cl *models.Client,
	) error

	// -------- Service --------
	GetService(
		ctx context.Context,
		companyID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// CheckConflict implementa o predicado de sobreposição (Overlaps) sobre
	// os agendamentos não cancelados do profissional. excludeID, quando
	// informado, tira o próprio agendamento da conta.
	CheckConflict(
		ctx context.Context,
		staffID uint,
		start time.Time,
		end time.Time,
		excludeID *uint,
	) (bool, error)

	// -------- Appointment (read) --------
	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	GetAppointmentWithRelations(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		companyID uint,
		f Filter,
	) ([]models.Appointment, error)

	ListAppointmentsWithRelations(
		ctx context.Context,
		companyID uint,
		f Filter,
	) ([]models.Appointment, error)

	// -------- Appointment (update) --------
	// UpdateAppointment aplica o patch e devolve a entidade pós-escrita.
	UpdateAppointment(
		ctx context.Context,
		id uint,
		p Patch,
	) (*models.Appointment, error)

	// -------- Unicidade global (staff + clients) --------
	EmailExists(
		ctx context.Context,
		email string,
		exclude *OwnerRef,
	) (bool, error)

	PhoneExists(
		ctx context.Context,
		phone string,
		exclude *OwnerRef,
	) (bool, error)
}
