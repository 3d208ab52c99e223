// Package service реализует бизнес-логику магазина: пользователей и блог.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/astrostore/internal/model"
	"github.com/mmeshcher/astrostore/internal/repository"
	"github.com/mmeshcher/astrostore/internal/validation"
)

const publishedPostsLimit = 100

var (
	// ErrInvalidCredentials возвращается при неверном логине или пароле.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPostNotPublished возвращается при обращении к неопубликованной записи.
	ErrPostNotPublished = errors.New("blog post is not published")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateUser(ctx context.Context, login string, passwordHash []byte, isAdmin bool) (int64, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	CreateBlogPost(ctx context.Context, p *model.BlogPost) error
	GetBlogPost(ctx context.Context, slug string) (*model.BlogPost, error)
	ListPublishedPosts(ctx context.Context, limit int) ([]model.BlogPost, error)
	UpdateBlogPost(ctx context.Context, slug string, fn func(p *model.BlogPost) error) (*model.BlogPost, error)
}

// Service содержит бизнес-логику магазина.
type Service struct {
	repo   Repository
	admins map[string]struct{}
	now    func() time.Time
}

// NewService создаёт новый сервис. Пользователи с логинами из adminLogins регистрируются администраторами.
func NewService(repo Repository, adminLogins []string) *Service {
	admins := make(map[string]struct{}, len(adminLogins))
	for _, l := range adminLogins {
		if l = strings.TrimSpace(l); l != "" {
			admins[l] = struct{}{}
		}
	}

	return &Service{
		repo:   repo,
		admins: admins,
		now:    time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// RegisterUser регистрирует нового пользователя.
func (s *Service) RegisterUser(ctx context.Context, login, password string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	_, isAdmin := s.admins[login]

	id, err := s.repo.CreateUser(ctx, login, hashed, isAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, repository.ErrUserExists
		}
		return nil, err
	}

	return &model.User{
		ID:           id,
		Login:        login,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
		CreatedAt:    s.now(),
	}, nil
}

// AuthenticateUser проверяет логин и пароль пользователя.
func (s *Service) AuthenticateUser(ctx context.Context, login, password string) (*model.User, error) {
	u, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// BlogPostInput содержит поля новой записи блога.
type BlogPostInput struct {
	Title    string             `json:"title"`
	Slug     string             `json:"slug"`
	Content  string             `json:"content"`
	Excerpt  string             `json:"excerpt"`
	Category model.BlogCategory `json:"category"`
	Tags     []string           `json:"tags"`
}

// CreatePost создаёт неопубликованную запись блога.
func (s *Service) CreatePost(ctx context.Context, authorID int64, in BlogPostInput) (*model.BlogPost, error) {
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = validation.Slugify(in.Title)
	}

	excerpt := strings.TrimSpace(in.Excerpt)
	if excerpt == "" {
		excerpt = validation.Excerpt(in.Content)
	}

	p := &model.BlogPost{
		Title:     strings.TrimSpace(in.Title),
		Slug:      slug,
		Content:   in.Content,
		Excerpt:   excerpt,
		AuthorID:  authorID,
		Category:  in.Category,
		Tags:      validation.NormalizeTags(in.Tags),
		Likes:     []int64{},
		Comments:  []model.Comment{},
		ReadTime:  validation.ReadTime(in.Content),
		CreatedAt: s.now().UTC(),
	}

	if err := validation.BlogPost(p); err != nil {
		return nil, err
	}

	if err := s.repo.CreateBlogPost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// PublishPost публикует запись блога.
func (s *Service) PublishPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	return s.repo.UpdateBlogPost(ctx, slug, func(p *model.BlogPost) error {
		p.Publish(s.now())
		return nil
	})
}

// ListPosts возвращает опубликованные записи блога.
func (s *Service) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	return s.repo.ListPublishedPosts(ctx, publishedPostsLimit)
}

// ViewPost возвращает опубликованную запись и увеличивает счётчик просмотров.
func (s *Service) ViewPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	return s.repo.UpdateBlogPost(ctx, slug, func(p *model.BlogPost) error {
		if !p.IsPublished {
			return ErrPostNotPublished
		}
		p.CountView()
		return nil
	})
}

// PreviewPost возвращает запись вместе с черновиками. Просмотр не учитывается.
func (s *Service) PreviewPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	return s.repo.GetBlogPost(ctx, slug)
}

// ToggleLike ставит или снимает отметку пользователя на записи.
func (s *Service) ToggleLike(ctx context.Context, slug string, userID int64) (bool, int, error) {
	var liked bool
	p, err := s.repo.UpdateBlogPost(ctx, slug, func(p *model.BlogPost) error {
		if !p.IsPublished {
			return ErrPostNotPublished
		}
		liked = p.ToggleLike(userID)
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, len(p.Likes), nil
}

// AddComment добавляет комментарий к опубликованной записи.
func (s *Service) AddComment(ctx context.Context, slug string, userID int64, name, text string) (*model.Comment, error) {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)
	if name == "" || text == "" {
		return nil, fmt.Errorf("%w: name and comment are required", validation.ErrInvalid)
	}

	c := model.Comment{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		Comment:    text,
		IsApproved: true,
		CreatedAt:  s.now().UTC(),
	}

	_, err := s.repo.UpdateBlogPost(ctx, slug, func(p *model.BlogPost) error {
		if !p.IsPublished {
			return ErrPostNotPublished
		}
		p.AddComment(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}
