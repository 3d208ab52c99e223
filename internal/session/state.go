// Package session содержит клиентское состояние витрины: корзину и сессию пользователя.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/astrostore/internal/model"
	"github.com/mmeshcher/astrostore/internal/storage"
)

// RootKey — ключ, под которым хранится общий конверт корзины и сессии.
const RootKey = "persist:root"

type envelope struct {
	Auth Session `json:"auth"`
	Cart *Cart   `json:"cart"`
}

// State объединяет корзину и сессию и сохраняет их одним конвертом после каждого изменения.
type State struct {
	mu      sync.Mutex
	storage storage.Storage
	logger  *zap.Logger
	cart    *Cart
	auth    Auth
}

// NewState создаёт пустое состояние поверх указанного хранилища.
func NewState(st storage.Storage, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		storage: st,
		logger:  logger,
		cart:    NewCart(),
	}
}

// Load восстанавливает корзину и сессию из хранилища. Отсутствие сохранённой копии не ошибка.
func (s *State) Load(ctx context.Context) error {
	data, err := s.storage.Load(ctx, RootKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load state: %w", err)
	}

	env := envelope{Cart: NewCart()}
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	if env.Cart == nil {
		env.Cart = NewCart()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = env.Cart
	if env.Auth.Valid() {
		s.auth.session = env.Auth
	} else {
		s.logger.Warn("discarding inconsistent persisted session")
		s.auth.reset()
	}

	s.logger.Debug("state restored",
		zap.Int("cartLines", s.cart.Len()),
		zap.Bool("authenticated", s.auth.session.IsAuthenticated),
	)
	return nil
}

// Save записывает текущий конверт в хранилище.
func (s *State) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *State) saveLocked(ctx context.Context) error {
	data, err := json.Marshal(envelope{Auth: s.auth.session, Cart: s.cart})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.storage.Save(ctx, RootKey, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// mutateCart применяет fn к корзине и сохраняет конверт. Если сохранить не удалось, корзина возвращается в прежнее состояние.
func (s *State) mutateCart(ctx context.Context, fn func(c *Cart) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := maps.Clone(s.cart.items)
	if !fn(s.cart) {
		return false, nil
	}
	if err := s.saveLocked(ctx); err != nil {
		s.cart.items = prev
		return false, err
	}
	return true, nil
}

// AddItem добавляет товар в корзину и сохраняет состояние.
func (s *State) AddItem(ctx context.Context, productID string, quantity int) (bool, error) {
	return s.mutateCart(ctx, func(c *Cart) bool { return c.AddItem(productID, quantity) })
}

// RemoveItem удаляет позицию из корзины и сохраняет состояние.
func (s *State) RemoveItem(ctx context.Context, productID string) (bool, error) {
	return s.mutateCart(ctx, func(c *Cart) bool { return c.RemoveItem(productID) })
}

// SetQuantity перезаписывает количество позиции и сохраняет состояние.
func (s *State) SetQuantity(ctx context.Context, productID string, quantity int) (bool, error) {
	return s.mutateCart(ctx, func(c *Cart) bool { return c.SetQuantity(productID, quantity) })
}

// ClearCart очищает корзину и сохраняет состояние.
func (s *State) ClearCart(ctx context.Context) error {
	_, err := s.mutateCart(ctx, func(c *Cart) bool {
		if c.Len() == 0 {
			return false
		}
		c.Clear()
		return true
	})
	return err
}

// Lines возвращает позиции корзины.
func (s *State) Lines() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// Count возвращает суммарное количество товаров в корзине.
func (s *State) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

// Quantity возвращает количество товара в корзине.
func (s *State) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Quantity(productID)
}

// Totals рассчитывает итоги корзины по ценам каталога.
func (s *State) Totals(prices map[string]model.Money, taxRate float64) Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ComputeTotals(prices, taxRate)
}

// Session возвращает текущую сессию.
func (s *State) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.Session()
}

// Login выполняет вход через внешнюю систему. При ошибке состояние не меняется.
func (s *State) Login(ctx context.Context, authn Authenticator, creds Credentials) error {
	token, user, err := authn.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrAuth)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.auth.session
	s.auth.set(token, user)
	if err := s.saveLocked(ctx); err != nil {
		s.auth.session = prev
		return err
	}

	s.logger.Info("logged in", zap.Int64("userID", user.ID), zap.Bool("admin", user.IsAdmin))
	return nil
}

// Logout сбрасывает сессию и удаляет её сохранённую копию.
// Корзина остаётся в хранилище; если она пуста, конверт удаляется целиком.
func (s *State) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.reset()

	if s.cart.Len() == 0 {
		if err := s.storage.Delete(ctx, RootKey); err != nil {
			return fmt.Errorf("clear state: %w", err)
		}
		return nil
	}
	return s.saveLocked(ctx)
}
