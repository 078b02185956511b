package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/noahform/intake/internal/auth"
	"github.com/noahform/intake/internal/email"
	"github.com/noahform/intake/internal/intake"
	"github.com/noahform/intake/internal/metrics"
	"github.com/noahform/intake/internal/model"
	"github.com/noahform/intake/internal/store"
)

const (
	msgValidationFailed = "Validatie fouten"
	msgSaveFailed       = "Er is iets fout gegaan, probeer het later opnieuw"
	msgSaved            = "Intake succesvol opgeslagen"
)

type IntakeHandler struct {
	intakeStore   *store.IntakeStore
	notifier      *email.Notifier
	schedulingURL string
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

func NewIntakeHandler(is *store.IntakeStore, n *email.Notifier, schedulingURL string, m *metrics.Metrics, logger *slog.Logger) *IntakeHandler {
	return &IntakeHandler{
		intakeStore:   is,
		notifier:      n,
		schedulingURL: schedulingURL,
		metrics:       m,
		logger:        logger,
	}
}

type SaveIntakeResponse struct {
	Success     bool   `json:"success" example:"true"`
	Message     string `json:"message" example:"Intake succesvol opgeslagen"`
	RedirectURL string `json:"redirect_url" example:"https://calendly.com/its-noahcpt/1-1-intake?email=noah%40example.com&name=Noah+Peeters&phone="`
}

type IntakeListResponse struct {
	Success bool           `json:"success" example:"true"`
	Intakes []model.Intake `json:"intakes"`
}

type IntakeResponse struct {
	Success bool          `json:"success" example:"true"`
	Intake  *model.Intake `json:"intake"`
}

type DeleteResponse struct {
	Success bool `json:"success" example:"true"`
}

// SaveIntake validates, stores and announces a submitted intake form.
//
//	@Summary		Submit intake
//	@Description	Validate and store an intake questionnaire, then mail the admin and the client
//	@Tags			intake
//	@Accept			json
//	@Produce		json
//	@Param			intake	body		model.Intake	true	"Intake form (id and created_at are ignored)"
//	@Success		200		{object}	SaveIntakeResponse
//	@Failure		400		{object}	MessageResponse	"Malformed JSON or validation errors"
//	@Failure		405		{object}	MessageResponse
//	@Failure		429		{object}	ErrorResponse
//	@Failure		500		{object}	MessageResponse
//	@Router			/save-intake [post]
func (h *IntakeHandler) SaveIntake(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST, OPTIONS")
		return
	}

	var sub intake.Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := decodeBody(dec, &sub); err != nil {
		h.metrics.Submission(metrics.ResultInvalid)
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	if errs := intake.Validate(sub); len(errs) > 0 {
		h.metrics.Submission(metrics.ResultInvalid)
		writeJSON(w, http.StatusBadRequest, MessageResponse{
			Success: false,
			Message: msgValidationFailed,
			Errors:  errs,
		})
		return
	}

	rec := intake.ToRecord(intake.Sanitize(sub))
	saved, err := h.intakeStore.Create(r.Context(), rec)
	if err != nil {
		h.logger.Error("save intake", "error", err)
		h.metrics.Submission(metrics.ResultError)
		writeMessage(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}
	h.logger.Info("intake saved", "intake_id", saved.ID)

	redirectURL := intake.SchedulingURL(h.schedulingURL, saved)

	// Mail is best effort: the row is stored either way.
	err = h.notifier.SendAdminNotice(r.Context(), saved)
	h.metrics.Notification(metrics.KindAdmin, err)
	if err != nil {
		h.logger.Warn("admin notice failed", "error", err, "intake_id", saved.ID)
	}
	err = h.notifier.SendClientConfirmation(r.Context(), saved, redirectURL)
	h.metrics.Notification(metrics.KindClient, err)
	if err != nil {
		h.logger.Warn("client confirmation failed", "error", err, "intake_id", saved.ID)
	}

	h.metrics.Submission(metrics.ResultOK)
	writeJSON(w, http.StatusOK, SaveIntakeResponse{
		Success:     true,
		Message:     msgSaved,
		RedirectURL: redirectURL,
	})
}

// List returns every stored intake, newest first.
//
//	@Summary	List intakes
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	IntakeListResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/intakes [get]
func (h *IntakeHandler) List(w http.ResponseWriter, r *http.Request) {
	intakes, err := h.intakeStore.List(r.Context())
	if err != nil {
		h.logger.Error("list intakes", "error", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	if intakes == nil {
		intakes = []model.Intake{}
	}
	writeJSON(w, http.StatusOK, IntakeListResponse{Success: true, Intakes: intakes})
}

// Get returns one intake.
//
//	@Summary	Get intake
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Intake ID"
//	@Success	200	{object}	IntakeResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/intakes/{id} [get]
func (h *IntakeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	in, err := h.intakeStore.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get intake", "error", err, "intake_id", id)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	if in == nil {
		writeError(w, http.StatusNotFound, msgIntakeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, IntakeResponse{Success: true, Intake: in})
}

// Delete removes one intake. Admin role required.
//
//	@Summary	Delete intake
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Intake ID"
//	@Success	200	{object}	DeleteResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/intakes/{id} [delete]
func (h *IntakeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	deleted, err := h.intakeStore.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("delete intake", "error", err, "intake_id", id)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, msgIntakeNotFound)
		return
	}
	h.logger.Info("intake deleted", "intake_id", id, "deleted_by", auth.UserID(r.Context()))
	writeJSON(w, http.StatusOK, DeleteResponse{Success: true})
}
