// Package handler содержит HTTP-обработчики API магазина astrostore.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/astrostore/internal/middleware"
	"github.com/mmeshcher/astrostore/internal/model"
	"github.com/mmeshcher/astrostore/internal/repository"
	"github.com/mmeshcher/astrostore/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterUser(ctx context.Context, login, password string) (*model.User, error)
	AuthenticateUser(ctx context.Context, login, password string) (*model.User, error)
	CreatePost(ctx context.Context, authorID int64, in service.BlogPostInput) (*model.BlogPost, error)
	PublishPost(ctx context.Context, slug string) (*model.BlogPost, error)
	ListPosts(ctx context.Context) ([]model.BlogPost, error)
	ViewPost(ctx context.Context, slug string) (*model.BlogPost, error)
	PreviewPost(ctx context.Context, slug string) (*model.BlogPost, error)
	ToggleLike(ctx context.Context, slug string, userID int64) (bool, int, error)
	AddComment(ctx context.Context, slug string, userID int64, name, text string) (*model.Comment, error)
}

// Catalog определяет контракт каталога услуг.
type Catalog interface {
	List() []model.ServiceDescriptor
	Summaries() []model.ServiceSummary
	Get(id string) (model.ServiceDescriptor, error)
	Register(s model.ServiceDescriptor) error
}

// Handler реализует HTTP-обработчики API магазина.
type Handler struct {
	service        Service
	catalog        Catalog
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, c Catalog, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		catalog:        c,
		logger:         logger,
		authMiddleware: auth,
	}
}

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type userResponse struct {
	ID      int64  `json:"id"`
	Login   string `json:"login"`
	IsAdmin bool   `json:"isAdmin"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeCredentials(r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, false
	}
	return req, req.Login != "" && req.Password != ""
}

// Register обрабатывает регистрацию нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	u, err := h.service.RegisterUser(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
			return
		}
		h.logger.Error("register user error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.startSession(w, u)
}

// Login выполняет аутентификацию пользователя и выдаёт токен сессии.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	u, err := h.service.AuthenticateUser(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.logger.Error("login user error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.startSession(w, u)
}

func (h *Handler) startSession(w http.ResponseWriter, u *model.User) {
	token, err := h.authMiddleware.IssueToken(u.ID, u.IsAdmin)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err), zap.Int64("userID", u.ID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.authMiddleware.SetAuthCookie(w, token)
	writeJSON(w, http.StatusOK, authResponse{
		Token: token,
		User:  userResponse{ID: u.ID, Login: u.Login, IsAdmin: u.IsAdmin},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}
