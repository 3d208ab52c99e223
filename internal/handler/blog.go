package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/astrostore/internal/middleware"
	"github.com/mmeshcher/astrostore/internal/model"
	"github.com/mmeshcher/astrostore/internal/repository"
	"github.com/mmeshcher/astrostore/internal/service"
	"github.com/mmeshcher/astrostore/internal/validation"
)

type likeResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type commentRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

// blogError переводит ошибки блога в HTTP-ответ.
func (h *Handler) blogError(w http.ResponseWriter, err error, slug string) {
	switch {
	case errors.Is(err, validation.ErrInvalid):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrPostExists):
		writeMessage(w, http.StatusConflict, "Post already exists")
	case errors.Is(err, repository.ErrPostNotFound), errors.Is(err, service.ErrPostNotPublished):
		writeMessage(w, http.StatusNotFound, "Post not found")
	default:
		h.logger.Error("blog error", zap.Error(err), zap.String("slug", slug))
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}

// ListPosts возвращает опубликованные записи блога.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		h.blogError(w, err, "")
		return
	}
	if posts == nil {
		posts = []model.BlogPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetPost возвращает опубликованную запись и учитывает просмотр.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := h.service.ViewPost(r.Context(), slug)
	if err != nil {
		h.blogError(w, err, slug)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PreviewPost возвращает запись администратору, включая неопубликованные.
func (h *Handler) PreviewPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := h.service.PreviewPost(r.Context(), slug)
	if err != nil {
		h.blogError(w, err, slug)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePost создаёт черновик записи блога от имени администратора.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var in service.BlogPostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed blog post")
		return
	}

	p, err := h.service.CreatePost(r.Context(), userID, in)
	if err != nil {
		h.blogError(w, err, in.Slug)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// PublishPost публикует запись блога.
func (h *Handler) PublishPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := h.service.PublishPost(r.Context(), slug)
	if err != nil {
		h.blogError(w, err, slug)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// LikePost ставит или снимает отметку текущего пользователя.
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	slug := chi.URLParam(r, "slug")

	liked, likes, err := h.service.ToggleLike(r.Context(), slug, userID)
	if err != nil {
		h.blogError(w, err, slug)
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{Liked: liked, Likes: likes})
}

// CommentPost добавляет комментарий текущего пользователя.
func (h *Handler) CommentPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	slug := chi.URLParam(r, "slug")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed comment")
		return
	}

	c, err := h.service.AddComment(r.Context(), slug, userID, req.Name, req.Comment)
	if err != nil {
		h.blogError(w, err, slug)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
