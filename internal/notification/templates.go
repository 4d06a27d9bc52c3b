package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/guirofeoli/livegenda-app-sub001/internal/timezone"
)

const dateTimeLayout = "02/01/2006 15:04"

func formatInTZ(t time.Time, tz string) string {
	return t.In(timezone.Location(tz)).Format(dateTimeLayout)
}

// ======================================================
// E-mail
// ======================================================

const welcomeTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Olá {{.StaffName}},</p>
  <p>Seu cadastro na agenda de <strong>{{.CompanyName}}</strong> foi criado.</p>
  <p>A partir de agora os seus agendamentos aparecem na sua agenda e você
  recebe os avisos de confirmação, remarcação e cancelamento por aqui.</p>
  <p>Bom trabalho!</p>
</body>
</html>`

const confirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Olá {{.ClientName}},</p>
  <p>Seu agendamento foi confirmado. Detalhes:</p>
  <ul>
    <li>Serviço: {{.ServiceName}}</li>
    <li>Profissional: {{.StaffName}}</li>
    <li>Início: {{.StartLabel}}</li>
    <li>Término: {{.EndLabel}}</li>
    <li>Valor: R$ {{.PriceLabel}}</li>
    <li>Número do agendamento: {{.AppointmentID}}</li>
  </ul>
  <p>Até breve,<br>{{.CompanyName}}</p>
</body>
</html>`

const rescheduleTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Olá {{.ClientName}},</p>
  <p>Seu agendamento de {{.ServiceName}} foi remarcado:</p>
  <ul>
    <li>Horário anterior: {{.PreviousStartLabel}}</li>
    <li>Novo horário: {{.StartLabel}} até {{.EndLabel}}</li>
    <li>Profissional: {{.StaffName}}</li>
  </ul>
  <p>{{.CompanyName}}</p>
</body>
</html>`

const cancellationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Olá {{.ClientName}},</p>
  <p>Seu agendamento de {{.ServiceName}} em {{.StartLabel}} foi cancelado.</p>
  {{if .Reason}}<p>Motivo: {{.Reason}}</p>{{end}}
  <p>{{.CompanyName}}</p>
</body>
</html>`

var (
	welcomeTmpl      = template.Must(template.New("welcome").Parse(welcomeTemplate))
	confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationTemplate))
	rescheduleTmpl   = template.Must(template.New("reschedule").Parse(rescheduleTemplate))
	cancellationTmpl = template.Must(template.New("cancellation").Parse(cancellationTemplate))
)

type appointmentTemplateData struct {
	ClientName    string
	StaffName     string
	ServiceName   string
	CompanyName   string
	StartLabel    string
	EndLabel      string
	PriceLabel    string
	AppointmentID uint

	PreviousStartLabel string
	Reason             string
}

func appointmentData(d AppointmentData) appointmentTemplateData {
	return appointmentTemplateData{
		ClientName:    d.ClientName,
		StaffName:     d.StaffName,
		ServiceName:   d.ServiceName,
		CompanyName:   d.CompanyName,
		StartLabel:    formatInTZ(d.Start, d.Timezone),
		EndLabel:      formatInTZ(d.End, d.Timezone),
		PriceLabel:    fmt.Sprintf("%.2f", d.Price),
		AppointmentID: d.AppointmentID,
	}
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildWelcomeHTML(d WelcomeData) (string, error) {
	return render(welcomeTmpl, d)
}

func buildConfirmationHTML(d AppointmentData) (string, error) {
	return render(confirmationTmpl, appointmentData(d))
}

func buildRescheduleHTML(d RescheduleData) (string, error) {
	data := appointmentData(d.AppointmentData)
	data.PreviousStartLabel = formatInTZ(d.PreviousStart, d.Timezone)
	return render(rescheduleTmpl, data)
}

func buildCancellationHTML(d CancellationData) (string, error) {
	data := appointmentData(d.AppointmentData)
	data.Reason = d.Reason
	return render(cancellationTmpl, data)
}

// ======================================================
// SMS
// ======================================================

func welcomeSMSText(d WelcomeData) string {
	return fmt.Sprintf("%s: seu cadastro na agenda foi criado. Bem-vindo!", d.CompanyName)
}

func confirmationSMSText(d AppointmentData) string {
	return fmt.Sprintf(
		"%s: agendamento de %s confirmado para %s com %s.",
		d.CompanyName,
		d.ServiceName,
		formatInTZ(d.Start, d.Timezone),
		d.StaffName,
	)
}

func rescheduleSMSText(d RescheduleData) string {
	return fmt.Sprintf(
		"%s: seu %s foi remarcado de %s para %s.",
		d.CompanyName,
		d.ServiceName,
		formatInTZ(d.PreviousStart, d.Timezone),
		formatInTZ(d.Start, d.Timezone),
	)
}

func cancellationSMSText(d CancellationData) string {
	msg := fmt.Sprintf(
		"%s: seu %s de %s foi cancelado.",
		d.CompanyName,
		d.ServiceName,
		formatInTZ(d.Start, d.Timezone),
	)
	if d.Reason != "" {
		msg += " Motivo: " + d.Reason
	}
	return msg
}
