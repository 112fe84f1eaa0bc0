package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"backoffice-api/internal/middleware"
	"backoffice-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /lembretes. trigger protege POST /lembretes/webhook
// (nil = abierto cuando no hay token configurado).
func RegisterRoutes(r chi.Router, svc *Service, proc *Processor, trigger auth.AuthVerifier) {
	r.Route("/lembretes", func(lr chi.Router) {
		lr.Get("/", listRemindersHandler(svc))
		lr.Post("/", createReminderHandler(svc))

		// Pasada de procesamiento (llamador periódico externo)
		lr.With(middleware.RequireBearer(trigger)).Post("/webhook", processHandler(proc))

		lr.Get("/{id}", getReminderHandler(svc))
		lr.Put("/{id}", updateReminderHandler(svc))
		lr.Patch("/{id}/status", setStatusHandler(svc))
		lr.Delete("/{id}", deleteReminderHandler(svc))
	})
}

type frequencyDTO struct {
	Value int    `json:"valor"`
	Unit  string `json:"unidade"`
}

type recipientDTO struct {
	ClientID string `json:"clienteId,omitempty"`
	Name     string `json:"nome"`
	Phone    string `json:"telefone,omitempty"`
}

type medicationRequest struct {
	// ID se ignora: el servidor asigna ids nuevos en cada create/update.
	ID        string       `json:"id,omitempty"`
	Name      string       `json:"nome"`
	Dosage    string       `json:"dosagem"`
	Frequency frequencyDTO `json:"frequencia"`
	StartsAt  string       `json:"dataInicio"` // RFC3339
	EndsAt    string       `json:"dataFim"`    // RFC3339
	Message   string       `json:"mensagem,omitempty"`
}

type reminderRequest struct {
	Recipient   recipientDTO        `json:"destinatario"`
	Medications []medicationRequest `json:"medicamentos"`
	Notes       string              `json:"observacoes"`
	Active      *bool               `json:"ativo,omitempty"`
}

type statusRequest struct {
	Active *bool `json:"ativo"`
}

type medicationResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"nome"`
	Dosage    string       `json:"dosagem"`
	Frequency frequencyDTO `json:"frequencia"`
	StartsAt  time.Time    `json:"dataInicio"`
	EndsAt    time.Time    `json:"dataFim"`
	Message   string       `json:"mensagem,omitempty"`
}

type reminderResponse struct {
	ID             string               `json:"id"`
	Recipient      recipientDTO         `json:"destinatario"`
	Medications    []medicationResponse `json:"medicamentos"`
	Active         bool                 `json:"ativo"`
	NextOccurrence *time.Time           `json:"proximoEnvio"`
	Notes          string               `json:"observacoes"`
	CreatedBy      string               `json:"criadoPor"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Version        int                  `json:"versao"`
}

// createReminderHandler godoc
// @Summary Crear lembrete de medicación
// @Description Crea un recordatorio con uno o más medicamentos. Los ids de medicamentos se asignan en el servidor. proximoEnvio y ativo se calculan a partir de las ventanas de cada medicamento.
// @Tags lembretes
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body reminderRequest true "Datos del lembrete; fechas en RFC3339"
// @Success 201 {object} reminderResponse
// @Failure 400 {string} string "invalid json / campos requeridos"
// @Failure 401 {string} string "unauthorized"
// @Router /lembretes [post]
func createReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		in, err := decodeReminderRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rem, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeReminder(w, http.StatusCreated, rem)
	}
}

// listRemindersHandler godoc
// @Summary Listar lembretes
// @Tags lembretes
// @Produce json
// @Param ativo query bool false "Filtra por estado"
// @Param clienteId query string false "Filtra por cliente destinatario"
// @Success 200 {array} reminderResponse
// @Failure 400 {string} string "ativo inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /lembretes [get]
func listRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var filter ListFilter
		if raw := strings.TrimSpace(r.URL.Query().Get("ativo")); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				http.Error(w, "ativo must be true or false", http.StatusBadRequest)
				return
			}
			filter.Active = &v
		}
		filter.ClientID = strings.TrimSpace(r.URL.Query().Get("clienteId"))

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]reminderResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toReminderResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getReminderHandler godoc
// @Summary Obtener lembrete
// @Tags lembretes
// @Produce json
// @Param id path string true "ID del lembrete"
// @Success 200 {object} reminderResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "not found"
// @Router /lembretes/{id} [get]
func getReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rem, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeReminder(w, http.StatusOK, rem)
	}
}

// updateReminderHandler godoc
// @Summary Reemplazar lembrete
// @Description Reemplazo completo. Preserva id, criadoPor y createdAt; los medicamentos reciben ids nuevos. Acepta If-Match con la versao esperada.
// @Tags lembretes
// @Accept json
// @Produce json
// @Param id path string true "ID del lembrete"
// @Param If-Match header string false "versao esperada"
// @Param payload body reminderRequest true "Datos del lembrete"
// @Success 200 {object} reminderResponse
// @Failure 400 {string} string "invalid json / campos requeridos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "not found"
// @Failure 409 {string} string "version conflict"
// @Router /lembretes/{id} [put]
func updateReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		expected, err := parseIfMatch(r.Header.Get("If-Match"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		in, err := decodeReminderRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rem, err := svc.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
			CreateInput:     in,
			ExpectedVersion: expected,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeReminder(w, http.StatusOK, rem)
	}
}

// setStatusHandler godoc
// @Summary Activar / desactivar lembrete
// @Description Reactivar requiere al menos un medicamento dentro de su ventana (409 si no).
// @Tags lembretes
// @Accept json
// @Produce json
// @Param id path string true "ID del lembrete"
// @Param payload body statusRequest true "{\"ativo\": true|false}"
// @Success 200 {object} reminderResponse
// @Failure 400 {string} string "ativo required"
// @Failure 404 {string} string "not found"
// @Failure 409 {string} string "invalid state"
// @Router /lembretes/{id}/status [patch]
func setStatusHandler(svc *Service) http.HandlerFunc {
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
		if req.Active == nil {
			http.Error(w, "ativo required", http.StatusBadRequest)
			return
		}

		rem, err := svc.SetStatus(r.Context(), chi.URLParam(r, "id"), *req.Active)
		if err != nil {
			writeError(w, err)
			return
		}
		writeReminder(w, http.StatusOK, rem)
	}
}

// deleteReminderHandler godoc
// @Summary Eliminar lembrete
// @Tags lembretes
// @Param id path string true "ID del lembrete"
// @Success 204
// @Failure 404 {string} string "not found"
// @Router /lembretes/{id} [delete]
func deleteReminderHandler(svc *Service) http.HandlerFunc {
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

const processTimeout = 5 * time.Minute

// processHandler godoc
// @Summary Ejecutar una pasada de procesamiento
// @Description Selecciona los lembretes vencidos, avanza su proximoEnvio y notifica a los webhooks suscritos a lembrete.disparado. Protegido por bearer token cuando está configurado.
// @Tags lembretes
// @Produce json
// @Param Authorization header string false "Bearer <token de procesamiento>"
// @Success 200 {object} PassSummary
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /lembretes/webhook [post]
func processHandler(proc *Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// La pasada no se corta si el llamador corta la conexión.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), processTimeout)
		defer cancel()

		sum, err := proc.Run(ctx)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

func decodeReminderRequest(r *http.Request) (CreateInput, error) {
	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return CreateInput{}, errors.New("invalid json")
	}

	meds := make([]MedicationInput, 0, len(req.Medications))
	for i, m := range req.Medications {
		start, err := parseTimestamp(m.StartsAt)
		if err != nil {
			return CreateInput{}, fmt.Errorf("medicamentos[%d].dataInicio must be RFC3339", i)
		}
		end, err := parseTimestamp(m.EndsAt)
		if err != nil {
			return CreateInput{}, fmt.Errorf("medicamentos[%d].dataFim must be RFC3339", i)
		}
		meds = append(meds, MedicationInput{
			Name:           m.Name,
			Dosage:         m.Dosage,
			FrequencyValue: m.Frequency.Value,
			FrequencyUnit:  m.Frequency.Unit,
			StartsAt:       start,
			EndsAt:         end,
			Message:        m.Message,
		})
	}

	return CreateInput{
		Recipient: Recipient{
			ClientID: req.Recipient.ClientID,
			Name:     req.Recipient.Name,
			Phone:    req.Recipient.Phone,
		},
		Medications: meds,
		Notes:       req.Notes,
		Active:      req.Active,
	}, nil
}

// parseTimestamp: vacío => zero (el service lo reporta como requerido).
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// parseIfMatch acepta `3`, `"3"` y `W/"3"`.
func parseIfMatch(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil, errors.New("If-Match must be a positive version number")
	}
	return &v, nil
}

func writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, "version conflict", http.StatusConflict)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeReminder(w http.ResponseWriter, status int, rem Reminder) {
	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(rem.Version)))
	writeJSON(w, status, toReminderResponse(rem))
}

func toReminderResponse(r Reminder) reminderResponse {
	meds := make([]medicationResponse, 0, len(r.Medications))
	for _, m := range r.Medications {
		meds = append(meds, medicationResponse{
			ID:     m.ID,
			Name:   m.Name,
			Dosage: m.Dosage,
			Frequency: frequencyDTO{
				Value: m.Frequency.Value,
				Unit:  string(m.Frequency.Unit),
			},
			StartsAt: m.StartsAt,
			EndsAt:   m.EndsAt,
			Message:  m.Message,
		})
	}

	return reminderResponse{
		ID: r.ID,
		Recipient: recipientDTO{
			ClientID: r.Recipient.ClientID,
			Name:     r.Recipient.Name,
			Phone:    r.Recipient.Phone,
		},
		Medications:    meds,
		Active:         r.Active,
		NextOccurrence: r.NextOccurrence,
		Notes:          r.Notes,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Version:        r.Version,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
