package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/astrostore/internal/model"
	"github.com/mmeshcher/astrostore/internal/repository"
	"github.com/mmeshcher/astrostore/internal/validation"
)

type stubRepo struct {
	createUserID    int64
	createUserErr   error
	createdAdmin    bool
	createdPassword []byte

	getUser    *model.User
	getUserErr error

	posts map[string]*model.BlogPost
}

func newStubRepo() *stubRepo {
	return &stubRepo{posts: make(map[string]*model.BlogPost)}
}

func (s *stubRepo) Close() error { return nil }

func (s *stubRepo) CreateUser(ctx context.Context, login string, passwordHash []byte, isAdmin bool) (int64, error) {
	s.createdAdmin = isAdmin
	s.createdPassword = passwordHash
	return s.createUserID, s.createUserErr
}

func (s *stubRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	return s.getUser, s.getUserErr
}

func (s *stubRepo) CreateBlogPost(ctx context.Context, p *model.BlogPost) error {
	if _, ok := s.posts[p.Slug]; ok {
		return repository.ErrPostExists
	}
	cp := *p
	s.posts[p.Slug] = &cp
	return nil
}

func (s *stubRepo) GetBlogPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	p, ok := s.posts[slug]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubRepo) ListPublishedPosts(ctx context.Context, limit int) ([]model.BlogPost, error) {
	var res []model.BlogPost
	for _, p := range s.posts {
		if p.IsPublished {
			res = append(res, *p)
		}
	}
	return res, nil
}

func (s *stubRepo) UpdateBlogPost(ctx context.Context, slug string, fn func(p *model.BlogPost) error) (*model.BlogPost, error) {
	p, ok := s.posts[slug]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	cp := *p
	if err := fn(&cp); err != nil {
		return nil, err
	}
	s.posts[slug] = &cp
	return &cp, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
}

func newTestService(repo *stubRepo, admins ...string) *Service {
	svc := NewService(repo, admins)
	svc.now = fixedNow
	return svc
}

func TestRegisterUser_PropagatesDuplicateError(t *testing.T) {
	repo := newStubRepo()
	repo.createUserErr = repository.ErrUserExists
	svc := newTestService(repo)

	_, err := svc.RegisterUser(context.Background(), "login", "pass")
	if !errors.Is(err, repository.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterUser_AdminLogin(t *testing.T) {
	repo := newStubRepo()
	repo.createUserID = 7
	svc := newTestService(repo, "guru", " ")

	u, err := svc.RegisterUser(context.Background(), "guru", "pass")
	if err != nil {
		t.Fatalf("RegisterUser error: %v", err)
	}
	if !u.IsAdmin || !repo.createdAdmin {
		t.Fatalf("guru must be registered as admin")
	}
	if u.ID != 7 {
		t.Fatalf("ID = %d, want 7", u.ID)
	}
	if err := bcrypt.CompareHashAndPassword(repo.createdPassword, []byte("pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	if _, err := svc.RegisterUser(context.Background(), "seeker", "pass"); err != nil {
		t.Fatalf("RegisterUser error: %v", err)
	}
	if repo.createdAdmin {
		t.Fatalf("seeker must not be admin")
	}
}

func TestAuthenticateUser(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := newStubRepo()
	repo.getUser = &model.User{ID: 1, Login: "user", PasswordHash: hashed}
	svc := newTestService(repo)

	if _, err := svc.AuthenticateUser(context.Background(), "user", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	u, err := svc.AuthenticateUser(context.Background(), "user", "correct")
	if err != nil {
		t.Fatalf("AuthenticateUser error: %v", err)
	}
	if u.ID != 1 {
		t.Fatalf("ID = %d, want 1", u.ID)
	}
}

func TestAuthenticateUser_UnknownLogin(t *testing.T) {
	repo := newStubRepo()
	repo.getUserErr = repository.ErrUserNotFound
	svc := newTestService(repo)

	_, err := svc.AuthenticateUser(context.Background(), "ghost", "pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreatePost_Defaults(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	p, err := svc.CreatePost(context.Background(), 3, BlogPostInput{
		Title:    "Vastu for the Kitchen",
		Content:  "Cook facing east.",
		Category: model.BlogCategoryVastu,
		Tags:     []string{"Home", "home", "kitchen"},
	})
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}

	if p.Slug != "vastu-for-the-kitchen" {
		t.Fatalf("slug = %q", p.Slug)
	}
	if p.IsPublished || p.PublishedAt != nil {
		t.Fatalf("new post must be unpublished")
	}
	if p.Excerpt != "Cook facing east." {
		t.Fatalf("excerpt = %q", p.Excerpt)
	}
	if p.ReadTime != 1 {
		t.Fatalf("readTime = %d, want 1", p.ReadTime)
	}
	if len(p.Tags) != 2 {
		t.Fatalf("tags = %v, want [home kitchen]", p.Tags)
	}
}

func TestCreatePost_Invalid(t *testing.T) {
	svc := newTestService(newStubRepo())

	_, err := svc.CreatePost(context.Background(), 1, BlogPostInput{
		Title:    "Palmistry",
		Content:  "Lines on palms.",
		Category: "palmistry",
	})
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestPostLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc := newTestService(repo)

	_, err := svc.CreatePost(ctx, 1, BlogPostInput{
		Title:    "Saturn Return",
		Content:  "Every 29 years.",
		Category: model.BlogCategoryAstrology,
	})
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}

	if _, err := svc.ViewPost(ctx, "saturn-return"); !errors.Is(err, ErrPostNotPublished) {
		t.Fatalf("expected ErrPostNotPublished, got %v", err)
	}
	draft, err := svc.PreviewPost(ctx, "saturn-return")
	if err != nil {
		t.Fatalf("PreviewPost error: %v", err)
	}
	if draft.IsPublished || draft.Views != 0 {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if _, _, err := svc.ToggleLike(ctx, "saturn-return", 5); !errors.Is(err, ErrPostNotPublished) {
		t.Fatalf("expected ErrPostNotPublished, got %v", err)
	}

	p, err := svc.PublishPost(ctx, "saturn-return")
	if err != nil {
		t.Fatalf("PublishPost error: %v", err)
	}
	if !p.IsPublished || p.PublishedAt == nil || !p.PublishedAt.Equal(fixedNow()) {
		t.Fatalf("unexpected publish state: %+v", p)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.ViewPost(ctx, "saturn-return"); err != nil {
			t.Fatalf("ViewPost error: %v", err)
		}
	}

	liked, likes, err := svc.ToggleLike(ctx, "saturn-return", 5)
	if err != nil || !liked || likes != 1 {
		t.Fatalf("ToggleLike = %v, %d, %v", liked, likes, err)
	}
	liked, likes, err = svc.ToggleLike(ctx, "saturn-return", 5)
	if err != nil || liked || likes != 0 {
		t.Fatalf("second ToggleLike = %v, %d, %v", liked, likes, err)
	}

	c, err := svc.AddComment(ctx, "saturn-return", 5, "Asha", "Very helpful")
	if err != nil {
		t.Fatalf("AddComment error: %v", err)
	}
	if !c.IsApproved || c.ID == "" {
		t.Fatalf("unexpected comment: %+v", c)
	}

	got, err := repo.GetBlogPost(ctx, "saturn-return")
	if err != nil {
		t.Fatalf("GetBlogPost error: %v", err)
	}
	if got.Views != 2 {
		t.Fatalf("views = %d, want 2", got.Views)
	}
	if len(got.Comments) != 1 || got.Comments[0].Name != "Asha" {
		t.Fatalf("comments = %+v", got.Comments)
	}

	posts, err := svc.ListPosts(ctx)
	if err != nil || len(posts) != 1 {
		t.Fatalf("ListPosts = %v, %v", posts, err)
	}
}

func TestAddComment_RequiresText(t *testing.T) {
	svc := newTestService(newStubRepo())

	_, err := svc.AddComment(context.Background(), "any", 1, "Asha", "  ")
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
