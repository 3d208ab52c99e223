// Package apiclient предоставляет HTTP-клиент витрины для API магазина astrostore.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmeshcher/astrostore/internal/model"
	"github.com/mmeshcher/astrostore/internal/session"
)

var (
	// ErrNotFound возвращается, если запрошенная услуга отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized возвращается при неверных учётных данных.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict возвращается при регистрации занятого логина.
	ErrConflict = errors.New("conflict")
)

// Client инкапсулирует HTTP-взаимодействие с API магазина.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт HTTP-клиент для обращения к API магазина по указанному адресу.
func NewClient(baseURL string) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// ListServiceSummaries запрашивает сокращённые описания услуг для карусели.
func (c *Client) ListServiceSummaries(ctx context.Context) ([]model.ServiceSummary, error) {
	var res []model.ServiceSummary
	if err := c.do(ctx, http.MethodGet, "/api/cart/getService", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListServices запрашивает полный каталог услуг.
func (c *Client) ListServices(ctx context.Context) ([]model.ServiceDescriptor, error) {
	var res []model.ServiceDescriptor
	if err := c.do(ctx, http.MethodGet, "/services", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetService запрашивает описание услуги по идентификатору.
func (c *Client) GetService(ctx context.Context, id string) (*model.ServiceDescriptor, error) {
	var res model.ServiceDescriptor
	if err := c.do(ctx, http.MethodGet, "/services/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Prices возвращает актуальные цены каталога для расчёта итогов корзины.
func (c *Client) Prices(ctx context.Context) (map[string]model.Money, error) {
	services, err := c.ListServiceSummaries(ctx)
	if err != nil {
		return nil, err
	}

	res := make(map[string]model.Money, len(services))
	for _, s := range services {
		res[s.ID] = s.Price
	}
	return res, nil
}

// Login выполняет вход и возвращает токен сессии и пользователя.
func (c *Client) Login(ctx context.Context, creds session.Credentials) (string, session.User, error) {
	return c.authenticate(ctx, "/api/user/login", creds)
}

// Register регистрирует пользователя и сразу открывает для него сессию.
func (c *Client) Register(ctx context.Context, creds session.Credentials) (string, session.User, error) {
	return c.authenticate(ctx, "/api/user/register", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds session.Credentials) (string, session.User, error) {
	var res authResponse
	if err := c.do(ctx, http.MethodPost, path, creds, &res); err != nil {
		return "", session.User{}, err
	}
	if res.Token == "" {
		return "", session.User{}, fmt.Errorf("empty token in response")
	}
	return res.Token, res.User, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("api client not configured")
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
