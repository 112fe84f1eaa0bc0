package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"backoffice-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Pinger envía un evento webhook.teste a un endpoint (lo implementa el notifier).
type Pinger interface {
	SendTest(ctx context.Context, w Webhook) Attempt
}

func RegisterRoutes(r chi.Router, svc *Service, pinger Pinger) {
	r.Route("/webhooks", func(wr chi.Router) {
		wr.Get("/", listWebhooksHandler(svc))
		wr.Post("/", createWebhookHandler(svc))
		wr.Get("/{id}", getWebhookHandler(svc))
		wr.Put("/{id}", updateWebhookHandler(svc))
		wr.Patch("/{id}/status", setWebhookStatusHandler(svc))
		wr.Delete("/{id}", deleteWebhookHandler(svc))
		wr.Post("/{id}/test", testWebhookHandler(svc, pinger))
	})
}

type webhookRequest struct {
	Name   string      `json:"nome"`
	URL    string      `json:"url"`
	Secret *string     `json:"segredo,omitempty"`
	Events []EventType `json:"eventos"`
	Status Status      `json:"status,omitempty"`
}

type statusRequest struct {
	Status Status `json:"status"`
}

type webhookResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"nome"`
	URL         string      `json:"url"`
	HasSecret   bool        `json:"temSegredo"`
	Events      []EventType `json:"eventos"`
	Status      Status      `json:"status"`
	CreatedBy   string      `json:"criadoPor"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	LastFiredAt *time.Time  `json:"ultimoDisparo"`
	LastStatus  int         `json:"ultimoStatus"`
}

type attemptResponse struct {
	WebhookID  string    `json:"webhookId,omitempty"`
	URL        string    `json:"url"`
	Event      EventType `json:"evento"`
	StatusCode int       `json:"status"`
	Success    bool      `json:"sucesso"`
	Error      string    `json:"erro,omitempty"`
	StartedAt  time.Time `json:"em"`
	DurationMs int64     `json:"duracaoMs"`
}

// createWebhookHandler godoc
// @Summary Registrar webhook
// @Description Registra un endpoint externo. eventos vacío => [lembrete.disparado]. El segredo nunca se devuelve (ver temSegredo).
// @Tags webhooks
// @Accept json
// @Produce json
// @Param payload body webhookRequest true "Endpoint"
// @Success 201 {object} webhookResponse
// @Failure 400 {string} string "invalid json / url / eventos"
// @Failure 401 {string} string "unauthorized"
// @Router /webhooks [post]
func createWebhookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req webhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		wh, err := svc.Create(r.Context(), claims.UserID, Input(req))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toWebhookResponse(wh))
	}
}

// listWebhooksHandler godoc
// @Summary Listar webhooks
// @Tags webhooks
// @Produce json
// @Param evento query string false "Filtra por evento suscrito"
// @Param status query string false "ativo / inativo"
// @Success 200 {array} webhookResponse
// @Router /webhooks [get]
func listWebhooksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			Event:  EventType(strings.TrimSpace(q.Get("evento"))),
			Status: Status(strings.TrimSpace(q.Get("status"))),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]webhookResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toWebhookResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getWebhookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		wh, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWebhookResponse(wh))
	}
}

func updateWebhookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req webhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		wh, err := svc.Update(r.Context(), chi.URLParam(r, "id"), Input(req))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWebhookResponse(wh))
	}
}

func setWebhookStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		wh, err := svc.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWebhookResponse(wh))
	}
}

func deleteWebhookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// testWebhookHandler godoc
// @Summary Probar webhook
// @Description Envía un evento webhook.teste al endpoint y devuelve el resultado del intento (aunque el endpoint falle, la respuesta es 200).
// @Tags webhooks
// @Produce json
// @Param id path string true "ID del webhook"
// @Success 200 {object} attemptResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "not found"
// @Router /webhooks/{id}/test [post]
func testWebhookHandler(svc *Service, pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if pinger == nil {
			http.Error(w, "notifier not configured", http.StatusServiceUnavailable)
			return
		}

		wh, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAttemptResponse(pinger.SendTest(r.Context(), wh)))
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toWebhookResponse(w Webhook) webhookResponse {
	events := w.Events
	if events == nil {
		events = []EventType{}
	}
	return webhookResponse{
		ID:          w.ID,
		Name:        w.Name,
		URL:         w.URL,
		HasSecret:   w.Secret != "",
		Events:      events,
		Status:      w.Status,
		CreatedBy:   w.CreatedBy,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		LastFiredAt: w.LastFiredAt,
		LastStatus:  w.LastStatus,
	}
}

func toAttemptResponse(a Attempt) attemptResponse {
	out := attemptResponse{
		WebhookID:  a.WebhookID,
		URL:        a.URL,
		Event:      a.Event,
		StatusCode: a.StatusCode,
		Success:    a.Success(),
		StartedAt:  a.StartedAt,
		DurationMs: a.Duration.Milliseconds(),
	}
	if a.Err != nil {
		out.Error = a.Err.Error()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
