package appointment

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/guirofeoli/livegenda-app-sub001/internal/httperr"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
	"github.com/guirofeoli/livegenda-app-sub001/internal/notification"
)

// ======================================================
// RESULTS
// ======================================================

type Result struct {
	Appointment   *models.Appointment  `json:"appointment"`
	Notifications notification.Outcome `json:"notificacoes"`
}

type UpdateResult struct {
	Appointment   *models.Appointment  `json:"appointment"`
	Rescheduled   bool                 `json:"rescheduled"`
	Notifications notification.Outcome `json:"notificacoes"`
}

// ======================================================
// HELPERS
// ======================================================

const slotLockTTL = 5 * time.Second

func slotLockKey(staffID uint) string {
	return fmt.Sprintf("lock:staff-slot:%d", staffID)
}

// internalError registra a causa real e devolve o código genérico; nada
// além dos códigos de negócio atravessa a fronteira do use case.
func internalError(log *zap.Logger, msg string, err error, fields ...zap.Field) error {
	log.Error(msg, append(fields, zap.Error(err))...)
	return httperr.ErrBusiness(httperr.CodeInternal)
}

// payload monta os dados de notificação a partir da leitura denormalizada.
func payload(ap *models.Appointment) notification.AppointmentData {
	price := ap.Service.Price
	if ap.FinalPrice != nil {
		price = *ap.FinalPrice
	}

	return notification.AppointmentData{
		AppointmentID: ap.ID,
		ClientName:    ap.Client.Name,
		StaffName:     ap.Staff.Name,
		ServiceName:   ap.Service.Name,
		CompanyName:   ap.Company.Name,
		Start:         ap.StartTime,
		End:           ap.EndTime,
		Timezone:      ap.Company.Timezone,
		Price:         price,
	}
}

func hasRelations(ap *models.Appointment) bool {
	return ap.Client.ID != 0 &&
		ap.Staff.ID != 0 &&
		ap.Service.ID != 0 &&
		ap.Company.ID != 0
}
