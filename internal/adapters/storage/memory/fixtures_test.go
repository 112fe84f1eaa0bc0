package memory

import "backoffice-api/internal/domain/webhooks"

func webhookFixture(id string) webhooks.Webhook {
	return webhooks.Webhook{
		ID:     id,
		Name:   id,
		URL:    "https://" + id + ".example.com/hook",
		Events: []webhooks.EventType{webhooks.EventReminderFired},
		Status: webhooks.StatusActive,
	}
}
