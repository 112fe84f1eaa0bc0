package reminders

import "time"

// DueTolerance absorbe el jitter del procesamiento y agrupa medicamentos
// cuyas ocurrencias caen casi en el mismo horario.
const DueTolerance = 60 * time.Second

// Due es un par (reminder, medicamento) listo para disparar.
type Due struct {
	Reminder   Reminder
	Medication Medication

	// Slot es el proximoEnvio del reminder que se está disparando.
	Slot time.Time
	// Occurrence es la ocurrencia propia del medicamento (|Occurrence-Slot| <= DueTolerance).
	Occurrence time.Time
}

// SelectDue recorre los reminders en el orden recibido y devuelve los pares vencidos.
// Es pura: misma entrada y mismo now => mismo resultado.
func SelectDue(items []Reminder, now time.Time) []Due {
	out := make([]Due, 0)
	for _, r := range items {
		out = append(out, DueIn(r, now)...)
	}
	return out
}

// DueIn devuelve los medicamentos vencidos de un reminder, en orden de inserción.
func DueIn(r Reminder, now time.Time) []Due {
	if !r.Active || r.NextOccurrence == nil {
		return nil
	}
	slot := *r.NextOccurrence
	if slot.After(now) {
		return nil
	}

	var out []Due
	for _, m := range r.Medications {
		if !m.InWindow(now) {
			continue
		}
		// Ocurrencia del medicamento alrededor del slot (primera posterior a slot-tolerancia).
		occ, err := NextOccurrence(m.StartsAt, m.Frequency, slot.Add(-DueTolerance))
		if err != nil {
			continue
		}
		if absDuration(occ.Sub(slot)) > DueTolerance {
			continue
		}
		out = append(out, Due{
			Reminder:   r,
			Medication: m,
			Slot:       slot,
			Occurrence: occ,
		})
	}
	return out
}

// Schedule calcula proximoEnvio y ativo para un set de medicamentos:
// proximoEnvio = mínimo de las ocurrencias de los medicamentos en ventana;
// ativo = algún medicamento en ventana y existe proximoEnvio.
func Schedule(meds []Medication, now time.Time) (*time.Time, bool) {
	return schedule(meds, now, func(Medication) time.Time { return now })
}

// Advance recalcula el reminder después de un disparo. Solo se consumen las
// ocurrencias que DueIn disparó: cada medicamento disparado sigue desde su
// ocurrencia (o desde now si es posterior); el resto, desde now.
func Advance(r Reminder, now time.Time) Reminder {
	fired := make(map[string]time.Time)
	for _, d := range DueIn(r, now) {
		fired[d.Medication.ID] = d.Occurrence
	}

	next, active := schedule(r.Medications, now, func(m Medication) time.Time {
		if occ, ok := fired[m.ID]; ok && occ.After(now) {
			return occ
		}
		return now
	})
	r.NextOccurrence = next
	r.Active = active
	r.UpdatedAt = now
	return r
}

func schedule(meds []Medication, now time.Time, from func(Medication) time.Time) (*time.Time, bool) {
	var next *time.Time
	inWindow := false

	for _, m := range meds {
		if !m.InWindow(now) {
			continue
		}
		inWindow = true

		occ, err := NextOccurrence(m.StartsAt, m.Frequency, from(m))
		if err != nil {
			continue
		}
		if next == nil || occ.Before(*next) {
			t := occ
			next = &t
		}
	}

	return next, inWindow && next != nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
