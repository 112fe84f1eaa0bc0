package clients

import "time"

// Client es un contacto del CRM. Es el directorio de destinatarios de los lembretes.
type Client struct {
	ID string

	Name  string
	Email string
	Phone string

	Notes string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
