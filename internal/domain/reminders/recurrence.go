package reminders

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidDate      = errors.New("invalid date")
)

// ParseUnit normaliza la unidad; acepta alias en inglés.
func ParseUnit(raw string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "minutos", "minuto", "minutes", "minute":
		return UnitMinute, nil
	case "horas", "hora", "hours", "hour":
		return UnitHour, nil
	case "dias", "dia", "days", "day":
		return UnitDay, nil
	default:
		return "", ErrInvalidFrequency
	}
}

// Step devuelve la duración de un paso. "dias" son múltiplos fijos de 24h (no calendario).
func (f Frequency) Step() (time.Duration, error) {
	if f.Value <= 0 {
		return 0, ErrInvalidFrequency
	}

	var unit time.Duration
	switch f.Unit {
	case UnitMinute:
		unit = time.Minute
	case UnitHour:
		unit = time.Hour
	case UnitDay:
		unit = 24 * time.Hour
	default:
		return 0, ErrInvalidFrequency
	}
	if int64(f.Value) > math.MaxInt64/int64(unit) {
		return 0, ErrInvalidFrequency
	}
	return time.Duration(f.Value) * unit, nil
}

// NextOccurrence devuelve start si todavía no ocurrió; si no, el menor
// start + k*step estrictamente posterior a now.
func NextOccurrence(start time.Time, f Frequency, now time.Time) (time.Time, error) {
	step, err := f.Step()
	if err != nil {
		return time.Time{}, err
	}
	if start.IsZero() {
		return time.Time{}, ErrInvalidDate
	}

	if start.After(now) {
		return start, nil
	}

	// Equivale a avanzar de a un paso hasta pasar now, sin iterar.
	k := now.Sub(start)/step + 1
	if k > math.MaxInt64/step {
		return time.Time{}, ErrInvalidFrequency
	}
	next := start.Add(k * step)
	if !next.After(now) {
		return time.Time{}, ErrInvalidFrequency
	}
	return next, nil
}

// WithinWindow: now <= end (inclusivo).
func WithinWindow(end, now time.Time) (bool, error) {
	if end.IsZero() {
		return false, ErrInvalidDate
	}
	return !now.After(end), nil
}

// InWindow es el atajo sobre WithinWindow; una fecha inválida cuenta como fuera de ventana.
func (m Medication) InWindow(now time.Time) bool {
	ok, err := WithinWindow(m.EndsAt, now)
	return err == nil && ok
}
