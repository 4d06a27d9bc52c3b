package httperr

import "errors"

// Códigos de negócio usados pelo orquestrador de agendamentos.
const (
	CodeSchedulingConflict = "scheduling_conflict"
	CodeNotFound           = "appointment_not_found"
	CodeUpdateFailure      = "update_failure"
	CodeInternal           = "internal_error"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode devolve o código de negócio do erro, se houver.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
