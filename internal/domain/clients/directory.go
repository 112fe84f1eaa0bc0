package clients

import "context"

// ContactOf expone nombre y teléfono de un cliente.
// Lo usa lembretes para resolver el destinatario sin importar este paquete.
func (s *Service) ContactOf(ctx context.Context, clientID string) (string, string, error) {
	c, err := s.GetByID(ctx, clientID)
	if err != nil {
		return "", "", err
	}
	return c.Name, c.Phone, nil
}
