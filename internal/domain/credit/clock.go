package credit

import "time"

// Clock fuente de "ahora" inyectable; el puntaje depende de la fecha actual
// (meses transcurridos, año en curso).
type Clock interface {
	Now() time.Time
}

// SystemClock usa la hora del sistema.
type SystemClock struct{}

// Now devuelve time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock devuelve siempre el mismo instante (tests, reprocesos).
type FixedClock struct {
	T time.Time
}

// Now devuelve el instante fijo.
func (c FixedClock) Now() time.Time { return c.T }
