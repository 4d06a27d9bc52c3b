package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/lock"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
)

func newCreateUC(store *fakeStore, notifier *fakeNotifier) *CreateAppointment {
	return NewCreateAppointment(store, notifier, lock.NewNoop(), testDispatcher(), zap.NewNop())
}

func createInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		CompanyID: 1,
		ClientID:  10,
		StaffID:   20,
		ServiceID: 30,
		StartTime: slot(10),
		EndTime:   slot(11),
	}
}

func TestCreateAppointment_Success(t *testing.T) {
	created := false

	store := &fakeStore{
		checkConflictFn: func(ctx context.Context, staffID uint, start, end time.Time, excludeID *uint) (bool, error) {
			assert.Equal(t, uint(20), staffID)
			assert.Nil(t, excludeID)
			return false, nil
		},
		createFn: func(ctx context.Context, ap *models.Appointment) error {
			created = true
			assert.Equal(t, "agendado", ap.Status)
			ap.ID = 42
			return nil
		},
		getWithRelFn: func(ctx context.Context, id uint) (*models.Appointment, error) {
			assert.Equal(t, uint(42), id)
			return fullAppointment(id), nil
		},
	}
	notifier := &fakeNotifier{}

	result, err := newCreateUC(store, notifier).Execute(context.Background(), createInput())

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(42), result.Appointment.ID)
	assert.True(t, result.Notifications.Email)
	assert.True(t, result.Notifications.SMS)
	assert.Equal(t, []string{"ana@example.com"}, notifier.confirmationEmails)
	assert.Equal(t, []string{"+5511999990000"}, notifier.confirmationSMS)
}

func TestCreateAppointment_ConflictRejectsWithoutWrite(t *testing.T) {
	store := &fakeStore{
		checkConflictFn: func(ctx context.Context, staffID uint, start, end time.Time, excludeID *uint) (bool, error) {
			return true, nil
		},
		createFn: func(ctx context.Context, ap *models.Appointment) error {
			t.Fatal("must not write on conflict")
			return nil
		},
	}

	result, err := newCreateUC(store, &fakeNotifier{}).Execute(context.Background(), createInput())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSchedulingConflict))
}

func TestCreateAppointment_EmailOnlyClientSkipsSMS(t *testing.T) {
	store := &fakeStore{
		checkConflictFn: func(ctx context.Context, staffID uint, start, end time.Time, excludeID *uint) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, ap *models.Appointment) error {
			ap.ID = 7
			return nil
		},
		getWithRelFn: func(ctx context.Context, id uint) (*models.Appointment, error) {
			ap := fullAppointment(id)
			ap.Client.Phone = ""
			return ap, nil
		},
	}
	notifier := &fakeNotifier{}

	result, err := newCreateUC(store, notifier).Execute(context.Background(), createInput())

	require.NoError(t, err)
	assert.True(t, result.Notifications.Email)
	assert.False(t, result.Notifications.SMS)
	assert.Empty(t, notifier.confirmationSMS, "no phone, no SMS attempt")
}

func TestCreateAppointment_NotifierFailureDoesNotFailCreate(t *testing.T) {
	store := &fakeStore{
		checkConflictFn: func(ctx context.Context, staffID uint, start, end time.Time, excludeID *uint) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, ap *models.Appointment) error {
			ap.ID = 7
			return nil
		},
		getWithRelFn: func(ctx context.Context, id uint) (*models.Appointment, error) {
			return fullAppointment(id), nil
		},
	}
	notifier := &fakeNotifier{
		emailErr: errors.New("brevo down"),
		smsErr:   errors.New("brevo down"),
	}

	result, err := newCreateUC(store, notifier).Execute(context.Background(), createInput())

	require.NoError(t, err, "notification failure never rolls back the booking")
	assert.False(t, result.Notifications.Email)
	assert.False(t, result.Notifications.SMS)
}

func TestCreateAppointment_StoreFaultIsMasked(t *testing.T) {
	store := &fakeStore{
		checkConflictFn: func(ctx context.Context, staffID uint, start, end time.Time, excludeID *uint) (bool, error) {
			return false, errors.New("connection refused")
		},
	}

	_, err := newCreateUC(store, &fakeNotifier{}).Execute(context.Background(), createInput())

	require.Error(t, err)
	code, ok := httperr.BusinessCode(err)
	require.True(t, ok)
	assert.Equal(t, httperr.CodeInternal, code, "driver errors never leak")
}

func TestCreateAppointment_ConstraintConflictPassesThrough(t *testing.T) {
	store := &fakeStore{
		checkConflictFn: func(ctx context.Context, staffID uint, start, end time.Time, excludeID *uint) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, ap *models.Appointment) error {
			// corrida perdida: a constraint do banco barrou a escrita
			return httperr.ErrBusiness(httperr.CodeSchedulingConflict)
		},
	}

	_, err := newCreateUC(store, &fakeNotifier{}).Execute(context.Background(), createInput())

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSchedulingConflict))
}

func TestCreateAppointment_ReloadFailureIsInternal(t *testing.T) {
	store := &fakeStore{
		checkConflictFn: func(ctx context.Context, staffID uint, start, end time.Time, excludeID *uint) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, ap *models.Appointment) error {
			ap.ID = 7
			return nil
		},
		getWithRelFn: func(ctx context.Context, id uint) (*models.Appointment, error) {
			return nil, errors.New("read replica lag")
		},
	}

	_, err := newCreateUC(store, &fakeNotifier{}).Execute(context.Background(), createInput())

	require.Error(t, err)
	code, _ := httperr.BusinessCode(err)
	assert.Equal(t, httperr.CodeInternal, code)
}
