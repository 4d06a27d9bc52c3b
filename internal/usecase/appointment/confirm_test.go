package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/domain/scheduling"
	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
)

func newConfirmUC(store *fakeStore) *ConfirmAppointment {
	return NewConfirmAppointment(store, testDispatcher(), zap.NewNop())
}

func TestConfirmAppointment_Success(t *testing.T) {
	store := &fakeStore{
		getWithRelFn: func(ctx context.Context, id uint) (*models.Appointment, error) {
			return fullAppointment(id), nil
		},
		updateFn: func(ctx context.Context, id uint, p scheduling.Patch) (*models.Appointment, error) {
			require.NotNil(t, p.Status)
			assert.Equal(t, "confirmado", *p.Status)
			require.NotNil(t, p.ConfirmedAt)

			ap := fullAppointment(id)
			ap.Status = string(scheduling.StatusConfirmed)
			return ap, nil
		},
	}

	result, err := newConfirmUC(store).Execute(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "confirmado", result.Appointment.Status)
}

func TestConfirmAppointment_GuardRejectsCancelled(t *testing.T) {
	store := &fakeStore{
		getWithRelFn: func(ctx context.Context, id uint) (*models.Appointment, error) {
			ap := fullAppointment(id)
			ap.Status = string(scheduling.StatusCancelled)
			return ap, nil
		},
		updateFn: func(ctx context.Context, id uint, p scheduling.Patch) (*models.Appointment, error) {
			t.Fatal("guard must block the write")
			return nil, nil
		},
	}

	_, err := newConfirmUC(store).Execute(context.Background(), 42)

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestConfirmAppointment_GuardRejectsDoubleConfirm(t *testing.T) {
	store := &fakeStore{
		getWithRelFn: func(ctx context.Context, id uint) (*models.Appointment, error) {
			ap := fullAppointment(id)
			ap.Status = string(scheduling.StatusConfirmed)
			return ap, nil
		},
	}

	_, err := newConfirmUC(store).Execute(context.Background(), 42)

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}
