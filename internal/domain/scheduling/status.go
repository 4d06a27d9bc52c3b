package scheduling

import "github.com/guirofeoli/livegenda-app-sub001/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "agendado"
	StatusConfirmed Status = "confirmado"
	StatusCancelled Status = "cancelado"
)

// ===============================
// Validations
// ===============================

// CanConfirm define se um agendamento pode ser confirmado
func CanConfirm(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// Cancelamento não tem guarda de estado: cancelar um agendamento já
// cancelado apenas regrava o estado terminal. O registro nunca é apagado.

func InitialStatus() Status {
	return StatusScheduled
}
