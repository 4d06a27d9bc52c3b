package scheduling

import "time"

// Overlaps diz se o intervalo candidato [candStart, candEnd] conflita com um
// agendamento existente [exStart, exEnd] do mesmo profissional.
//
// As três cláusulas são verificadas com comparações fechadas: um horário que
// apenas encosta no limite do outro (exEnd == candStart) também conta como
// conflito. Agendamentos consecutivos sem folga são, portanto, rejeitados.
func Overlaps(exStart, exEnd, candStart, candEnd time.Time) bool {
	// existente cobre o início do candidato
	if !exStart.After(candStart) && !exEnd.Before(candStart) {
		return true
	}

	// existente cobre o fim do candidato
	if !exStart.After(candEnd) && !exEnd.Before(candEnd) {
		return true
	}

	// candidato contém o existente por inteiro
	if !candStart.After(exStart) && !candEnd.Before(exEnd) {
		return true
	}

	return false
}
