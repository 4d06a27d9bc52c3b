package lock

import (
	"context"
	"time"
)

// Locker serializa a janela entre a checagem de conflito e a escrita do
// agendamento de um mesmo profissional. É deliberadamente injetado (nunca
// estado global de processo) para que os testes usem o Noop.
type Locker interface {
	// Acquire devolve a função de release. Erro aqui é avisado, não fatal:
	// a constraint de exclusão no banco continua protegendo a escrita.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

type NoopLocker struct{}

func NewNoop() *NoopLocker {
	return &NoopLocker{}
}

func (n *NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	return func() {}, nil
}
