package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string

		exStart, exEnd     time.Time
		candStart, candEnd time.Time

		want bool
	}{
		{
			name:    "disjoint before",
			exStart: at(10, 0), exEnd: at(11, 0),
			candStart: at(8, 0), candEnd: at(9, 0),
			want: false,
		},
		{
			name:    "disjoint after",
			exStart: at(10, 0), exEnd: at(11, 0),
			candStart: at(12, 0), candEnd: at(13, 0),
			want: false,
		},
		{
			name:    "partial overlap at start",
			exStart: at(10, 0), exEnd: at(11, 0),
			candStart: at(9, 30), candEnd: at(10, 30),
			want: true,
		},
		{
			name:    "partial overlap at end",
			exStart: at(10, 0), exEnd: at(11, 0),
			candStart: at(10, 30), candEnd: at(11, 30),
			want: true,
		},
		{
			name:    "candidate inside existing",
			exStart: at(10, 0), exEnd: at(12, 0),
			candStart: at(10, 30), candEnd: at(11, 0),
			want: true,
		},
		{
			name:    "candidate envelops existing",
			exStart: at(10, 0), exEnd: at(11, 0),
			candStart: at(9, 0), candEnd: at(12, 0),
			want: true,
		},
		{
			name:    "identical intervals",
			exStart: at(10, 0), exEnd: at(11, 0),
			candStart: at(10, 0), candEnd: at(11, 0),
			want: true,
		},
		{
			// Intervalos fechados: encostar no fim do anterior já conflita.
			name:    "touching at existing end",
			exStart: at(10, 0), exEnd: at(11, 0),
			candStart: at(11, 0), candEnd: at(12, 0),
			want: true,
		},
		{
			name:    "touching at existing start",
			exStart: at(10, 0), exEnd: at(11, 0),
			candStart: at(9, 0), candEnd: at(10, 0),
			want: true,
		},
		{
			name:    "one minute apart",
			exStart: at(10, 0), exEnd: at(11, 0),
			candStart: at(11, 1), candEnd: at(12, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.exStart, tt.exEnd, tt.candStart, tt.candEnd)
			assert.Equal(t, tt.want, got)

			// O predicado é simétrico: tanto faz quem é o existente
			sym := Overlaps(tt.candStart, tt.candEnd, tt.exStart, tt.exEnd)
			assert.Equal(t, tt.want, sym, "predicate should be symmetric")
		})
	}
}
