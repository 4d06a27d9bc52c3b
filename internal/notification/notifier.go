package notification

import (
	"context"
	"time"
)

// Outcome resume o resultado best-effort dos dois canais de um evento.
// Falha de envio nunca derruba a operação principal; ela só aparece aqui.
type Outcome struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

type WelcomeData struct {
	StaffName   string
	CompanyName string
}

type AppointmentData struct {
	AppointmentID uint
	ClientName    string
	StaffName     string
	ServiceName   string
	CompanyName   string
	Start         time.Time
	End           time.Time
	Timezone      string
	Price         float64
}

type RescheduleData struct {
	AppointmentData

	PreviousStart time.Time
	PreviousEnd   time.Time
}

type CancellationData struct {
	AppointmentData

	Reason string
}

// Notifier cobre os quatro eventos do ciclo de vida, cada um com variante
// de e-mail e de SMS. Implementações nunca entram em pânico: qualquer falha
// vira erro de retorno e é contabilizada pelo chamador como Outcome=false.
type Notifier interface {
	SendWelcomeEmail(ctx context.Context, to string, d WelcomeData) error
	SendWelcomeSMS(ctx context.Context, to string, d WelcomeData) error

	SendConfirmationEmail(ctx context.Context, to string, d AppointmentData) error
	SendConfirmationSMS(ctx context.Context, to string, d AppointmentData) error

	SendRescheduleEmail(ctx context.Context, to string, d RescheduleData) error
	SendRescheduleSMS(ctx context.Context, to string, d RescheduleData) error

	SendCancellationEmail(ctx context.Context, to string, d CancellationData) error
	SendCancellationSMS(ctx context.Context, to string, d CancellationData) error
}
