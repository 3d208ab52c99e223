// Package carousel показывает каталог услуг группами и листает их по таймеру.
package carousel

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/astrostore/internal/model"
)

// GroupSize — количество услуг в одной группе карусели.
const GroupSize = 3

// Fetcher загружает список услуг.
type Fetcher interface {
	ListServiceSummaries(ctx context.Context) ([]model.ServiceSummary, error)
}

// ViewState описывает состояние отображения карусели.
type ViewState int

const (
	// StateLoading — услуги ещё загружаются.
	StateLoading ViewState = iota
	// StateReady — услуги загружены и разбиты на группы.
	StateReady
	// StateError — загрузка завершилась ошибкой.
	StateError
)

// String возвращает название состояния.
func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// TickFunc вызывается после каждого перелистывания.
type TickFunc func(cursor int, group []model.ServiceSummary)

// Carousel хранит группы услуг и курсор текущей группы.
type Carousel struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu     sync.Mutex
	groups [][]model.ServiceSummary
	cursor int
	state  ViewState
	err    error

	cancel context.CancelFunc
	done   chan struct{}
	// inTick — done таймера, чей onTick выполняется прямо сейчас.
	inTick chan struct{}
}

// New создаёт карусель, которая загрузит услуги через f.
func New(f Fetcher, logger *zap.Logger) *Carousel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Carousel{
		fetcher: f,
		logger:  logger,
		state:   StateLoading,
	}
}

// Partition делит список на группы по size элементов с сохранением порядка. Последняя группа может быть короче.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}

	groups := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		groups = append(groups, items[start:end:end])
	}
	return groups
}

// Load однократно загружает услуги. При ошибке карусель переходит в StateError; повторных попыток нет.
func (c *Carousel) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateLoading
	c.err = nil
	c.mu.Unlock()

	services, err := c.fetcher.ListServiceSummaries(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Error("fetch services error", zap.Error(err))
		c.state = StateError
		c.err = err
		c.groups = nil
		c.cursor = 0
		return err
	}

	c.groups = Partition(services, GroupSize)
	c.cursor = 0
	c.state = StateReady
	return nil
}

// State возвращает состояние отображения и ошибку загрузки, если она была.
func (c *Carousel) State() (ViewState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.err
}

// Groups возвращает все группы.
func (c *Carousel) Groups() [][]model.ServiceSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.groups
}

// Cursor возвращает номер текущей группы.
func (c *Carousel) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Current возвращает текущую группу или nil, если услуг нет.
func (c *Carousel) Current() []model.ServiceSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.groups) == 0 {
		return nil
	}
	return c.groups[c.cursor]
}

// Advance перелистывает на следующую группу по кругу и возвращает новый курсор.
func (c *Carousel) Advance() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceLocked()
}

func (c *Carousel) advanceLocked() int {
	if len(c.groups) == 0 {
		c.cursor = 0
		return 0
	}
	c.cursor = (c.cursor + 1) % len(c.groups)
	return c.cursor
}

// Start запускает автоматическое перелистывание с интервалом interval.
// Повторный вызов перезапускает таймер. Остановка — Stop или отмена ctx.
func (c *Carousel) Start(ctx context.Context, interval time.Duration, onTick TickFunc) error {
	if interval <= 0 {
		return fmt.Errorf("carousel interval must be positive, got %s", interval)
	}

	c.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				c.mu.Lock()
				cursor := c.advanceLocked()
				var group []model.ServiceSummary
				if len(c.groups) > 0 {
					group = c.groups[cursor]
				}
				c.inTick = done
				c.mu.Unlock()

				if onTick != nil {
					onTick(cursor, group)
				}

				c.mu.Lock()
				if c.inTick == done {
					c.inTick = nil
				}
				c.mu.Unlock()
			}
		}
	}()

	return nil
}

// Stop останавливает автоматическое перелистывание и дожидается завершения таймера.
// Пока выполняется onTick, Stop только отменяет таймер и не ждёт: так его можно вызвать из самого onTick.
func (c *Carousel) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	inTick := done != nil && c.inTick == done
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if inTick {
		return
	}
	<-done
}

// DetailPath возвращает путь представления с подробным описанием услуги.
func DetailPath(id string) string {
	return "/services/" + url.PathEscape(id)
}

// Select возвращает путь к описанию услуги, если она есть в карусели.
func (c *Carousel) Select(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, g := range c.groups {
		for _, s := range g {
			if s.ID == id {
				return DetailPath(id), true
			}
		}
	}
	return "", false
}
