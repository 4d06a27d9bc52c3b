package staff

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/audit"
	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	"github.com/guirofeoli/livegenda-app-sub001/internal/notification"
)

// fakeStore embute a interface e sobrescreve só o que o use case toca;
// método não configurado estoura com nil panic, apontando o buraco do teste.
type fakeStore struct {
	scheduling.Store

	getCompanyFn  func(ctx context.Context, id uint) (*models.Company, error)
	createStaffFn func(ctx context.Context, st *models.Staff) error
	emailExistsFn func(ctx context.Context, email string, exclude *scheduling.OwnerRef) (bool, error)
	phoneExistsFn func(ctx context.Context, phone string, exclude *scheduling.OwnerRef) (bool, error)
}

func (f *fakeStore) GetCompanyByID(ctx context.Context, id uint) (*models.Company, error) {
	return f.getCompanyFn(ctx, id)
}

func (f *fakeStore) CreateStaff(ctx context.Context, st *models.Staff) error {
	return f.createStaffFn(ctx, st)
}

func (f *fakeStore) EmailExists(ctx context.Context, email string, exclude *scheduling.OwnerRef) (bool, error) {
	return f.emailExistsFn(ctx, email, exclude)
}

func (f *fakeStore) PhoneExists(ctx context.Context, phone string, exclude *scheduling.OwnerRef) (bool, error) {
	return f.phoneExistsFn(ctx, phone, exclude)
}

type fakeNotifier struct {
	notification.Notifier

	emailErr error
	smsErr   error

	welcomeEmails []string
	welcomeSMS    []string
}

func (f *fakeNotifier) SendWelcomeEmail(ctx context.Context, to string, d notification.WelcomeData) error {
	if f.emailErr != nil {
		return f.emailErr
	}
	f.welcomeEmails = append(f.welcomeEmails, to)
	return nil
}

func (f *fakeNotifier) SendWelcomeSMS(ctx context.Context, to string, d notification.WelcomeData) error {
	if f.smsErr != nil {
		return f.smsErr
	}
	f.welcomeSMS = append(f.welcomeSMS, to)
	return nil
}

func newUC(store *fakeStore, notifier *fakeNotifier) *CreateStaff {
	return NewCreateStaff(store, notifier, audit.NewDispatcher(nil, zap.NewNop()), zap.NewNop())
}

func baseStore() *fakeStore {
	return &fakeStore{
		getCompanyFn: func(ctx context.Context, id uint) (*models.Company, error) {
			return &models.Company{ID: id, Name: "Livegenda Demo"}, nil
		},
		createStaffFn: func(ctx context.Context, st *models.Staff) error {
			st.ID = 5
			return nil
		},
		emailExistsFn: func(ctx context.Context, email string, exclude *scheduling.OwnerRef) (bool, error) {
			return false, nil
		},
		phoneExistsFn: func(ctx context.Context, phone string, exclude *scheduling.OwnerRef) (bool, error) {
			return false, nil
		},
	}
}

func baseInput() CreateStaffInput {
	return CreateStaffInput{
		CompanyID: 1,
		Name:      "Bruno Lima",
		Email:     "bruno@example.com",
		Phone:     "+5511988880000",
	}
}

func TestCreateStaff_Success(t *testing.T) {
	store := baseStore()
	notifier := &fakeNotifier{}

	result, err := newUC(store, notifier).Execute(context.Background(), baseInput())

	require.NoError(t, err)
	assert.Equal(t, uint(5), result.Staff.ID)
	assert.True(t, result.Staff.Active)
	assert.True(t, result.Notifications.Email)
	assert.True(t, result.Notifications.SMS)
	assert.Equal(t, []string{"bruno@example.com"}, notifier.welcomeEmails)
}

func TestCreateStaff_DuplicateEmail(t *testing.T) {
	store := baseStore()
	store.emailExistsFn = func(ctx context.Context, email string, exclude *scheduling.OwnerRef) (bool, error) {
		return true, nil
	}
	store.createStaffFn = func(ctx context.Context, st *models.Staff) error {
		t.Fatal("must not insert on duplicate email")
		return nil
	}

	_, err := newUC(store, &fakeNotifier{}).Execute(context.Background(), baseInput())

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "email_in_use"))
}

func TestCreateStaff_DuplicatePhone(t *testing.T) {
	store := baseStore()
	store.phoneExistsFn = func(ctx context.Context, phone string, exclude *scheduling.OwnerRef) (bool, error) {
		return true, nil
	}

	_, err := newUC(store, &fakeNotifier{}).Execute(context.Background(), baseInput())

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "phone_in_use"))
}

func TestCreateStaff_NoContactSkipsWelcome(t *testing.T) {
	store := baseStore()
	notifier := &fakeNotifier{}

	in := baseInput()
	in.Email = ""
	in.Phone = ""

	result, err := newUC(store, notifier).Execute(context.Background(), in)

	require.NoError(t, err)
	assert.False(t, result.Notifications.Email)
	assert.False(t, result.Notifications.SMS)
	assert.Empty(t, notifier.welcomeEmails)
	assert.Empty(t, notifier.welcomeSMS)
}

func TestCreateStaff_WelcomeFailureDoesNotFailCreate(t *testing.T) {
	store := baseStore()
	notifier := &fakeNotifier{emailErr: errors.New("brevo down")}

	result, err := newUC(store, notifier).Execute(context.Background(), baseInput())

	require.NoError(t, err)
	assert.False(t, result.Notifications.Email)
	assert.True(t, result.Notifications.SMS)
}

func TestCreateStaff_UnknownCompany(t *testing.T) {
	store := baseStore()
	store.getCompanyFn = func(ctx context.Context, id uint) (*models.Company, error) {
		return nil, scheduling.ErrNotFound
	}

	_, err := newUC(store, &fakeNotifier{}).Execute(context.Background(), baseInput())

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "company_not_found"))
}
