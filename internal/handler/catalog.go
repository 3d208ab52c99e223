package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/astrostore/internal/catalog"
	"github.com/mmeshcher/astrostore/internal/model"
	"github.com/mmeshcher/astrostore/internal/validation"
)

// GetServiceSummaries возвращает сокращённые описания услуг для карусели.
func (h *Handler) GetServiceSummaries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Summaries())
}

// ListServices возвращает полные описания всех услуг.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.List())
}

// GetService возвращает описание услуги по идентификатору.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			writeMessage(w, http.StatusNotFound, "Service not found")
			return
		}
		h.logger.Error("get service error", zap.Error(err), zap.String("serviceID", id))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// RegisterService добавляет услугу в каталог. Доступно только администратору.
func (h *Handler) RegisterService(w http.ResponseWriter, r *http.Request) {
	var s model.ServiceDescriptor
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed service descriptor")
		return
	}

	if err := h.catalog.Register(s); err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalid):
			writeMessage(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, catalog.ErrServiceExists):
			writeMessage(w, http.StatusConflict, "Service already exists")
		default:
			h.logger.Error("register service error", zap.Error(err), zap.String("serviceID", s.ID))
			writeMessage(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	h.logger.Info("service registered", zap.String("serviceID", s.ID))
	writeJSON(w, http.StatusCreated, s)
}
