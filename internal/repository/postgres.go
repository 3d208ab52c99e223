// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/astrostore/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrUserExists возвращается при попытке создать пользователя с уже существующим логином.
var (
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostExists возвращается при попытке создать запись блога с занятым slug.
	ErrPostExists = errors.New("blog post already exists")
	// ErrPostNotFound возвращается, если запись блога не найдена.
	ErrPostNotFound = errors.New("blog post not found")
)

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		delays: []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 500 * time.Millisecond},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет fn при конфликтах сериализации, взаимных блокировках и обрывах соединения.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(r.delays); i++ {
		err = fn()
		if err == nil || !isRetryable(err) || i == len(r.delays) {
			return err
		}

		timer := time.NewTimer(r.delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}

	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateUser создаёт нового пользователя.
func (r *PostgresRepository) CreateUser(ctx context.Context, login string, passwordHash []byte, isAdmin bool) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (login, password_hash, is_admin) VALUES ($1, $2, $3) RETURNING id`,
		login, passwordHash, isAdmin,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrUserExists, login)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// GetUserByLogin возвращает пользователя по логину.
func (r *PostgresRepository) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, login, password_hash, is_admin, created_at FROM users WHERE login = $1`,
		login,
	)

	var u model.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// CreateBlogPost сохраняет новую запись блога.
func (r *PostgresRepository) CreateBlogPost(ctx context.Context, p *model.BlogPost) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode post: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO blog_posts (slug, author_id, is_published, published_at, created_at, document)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.Slug, p.AuthorID, p.IsPublished, p.PublishedAt, p.CreatedAt, doc,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrPostExists, p.Slug)
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetBlogPost возвращает запись блога по slug.
func (r *PostgresRepository) GetBlogPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT document FROM blog_posts WHERE slug = $1`, slug).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return decodePost(doc)
}

// ListPublishedPosts возвращает опубликованные записи, начиная с самых новых.
func (r *PostgresRepository) ListPublishedPosts(ctx context.Context, limit int) ([]model.BlogPost, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT document
		 FROM blog_posts
		 WHERE is_published
		 ORDER BY published_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	var res []model.BlogPost
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p, err := decodePost(doc)
		if err != nil {
			return nil, err
		}
		res = append(res, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateBlogPost применяет fn к записи под блокировкой строки и сохраняет результат.
func (r *PostgresRepository) UpdateBlogPost(ctx context.Context, slug string, fn func(p *model.BlogPost) error) (*model.BlogPost, error) {
	var updated *model.BlogPost

	err := r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		var doc []byte
		err = tx.QueryRow(ctx, `SELECT document FROM blog_posts WHERE slug = $1 FOR UPDATE`, slug).Scan(&doc)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPostNotFound
			}
			return fmt.Errorf("lock post: %w", err)
		}

		p, err := decodePost(doc)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}

		doc, err = json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode post: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE blog_posts SET is_published = $2, published_at = $3, document = $4 WHERE slug = $1`,
			slug, p.IsPublished, p.PublishedAt, doc,
		)
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func decodePost(doc []byte) (*model.BlogPost, error) {
	var p model.BlogPost
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return &p, nil
}
