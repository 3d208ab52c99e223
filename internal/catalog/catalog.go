// Package catalog содержит каталог услуг магазина, хранимый в памяти.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/astrostore/internal/model"
	"github.com/mmeshcher/astrostore/internal/validation"
)

//go:embed catalog.yaml
var defaultSeed []byte

var (
	// ErrServiceNotFound возвращается, если услуга с указанным идентификатором отсутствует.
	ErrServiceNotFound = errors.New("service not found")
	// ErrServiceExists возвращается при повторной регистрации услуги с тем же идентификатором.
	ErrServiceExists = errors.New("service already exists")
)

// Catalog хранит описания услуг в порядке регистрации.
type Catalog struct {
	mu    sync.RWMutex
	order []string
	items map[string]model.ServiceDescriptor
}

// New создаёт каталог с указанными услугами.
func New(services ...model.ServiceDescriptor) (*Catalog, error) {
	c := &Catalog{
		items: make(map[string]model.ServiceDescriptor, len(services)),
	}
	for _, s := range services {
		if err := c.Register(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Default создаёт каталог из встроенного файла с услугами.
func Default() (*Catalog, error) {
	services, err := decodeSeed(defaultSeed)
	if err != nil {
		return nil, err
	}
	return New(services...)
}

// LoadFile создаёт каталог из YAML-файла.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	services, err := decodeSeed(data)
	if err != nil {
		return nil, err
	}
	return New(services...)
}

// List возвращает все услуги в порядке регистрации. Для пустого каталога возвращается пустой срез.
func (c *Catalog) List() []model.ServiceDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]model.ServiceDescriptor, 0, len(c.order))
	for _, id := range c.order {
		res = append(res, cloneDescriptor(c.items[id]))
	}
	return res
}

// Summaries возвращает сокращённые описания услуг для карусели.
func (c *Catalog) Summaries() []model.ServiceSummary {
	services := c.List()
	res := make([]model.ServiceSummary, 0, len(services))
	for _, s := range services {
		res = append(res, s.Summary())
	}
	return res
}

// Get возвращает услугу по идентификатору.
func (c *Catalog) Get(id string) (model.ServiceDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.items[id]
	if !ok {
		return model.ServiceDescriptor{}, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
	}
	return cloneDescriptor(s), nil
}

// Register добавляет новую услугу. Зарегистрированные услуги не изменяются.
func (c *Catalog) Register(s model.ServiceDescriptor) error {
	if err := validation.ServiceDescriptor(&s); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[s.ID]; ok {
		return fmt.Errorf("%w: %s", ErrServiceExists, s.ID)
	}

	c.items[s.ID] = cloneDescriptor(s)
	c.order = append(c.order, s.ID)
	return nil
}

// cloneDescriptor копирует описание вместе со списком особенностей.
func cloneDescriptor(s model.ServiceDescriptor) model.ServiceDescriptor {
	s.Features = slices.Clone(s.Features)
	return s
}

type seedFile struct {
	Services []seedService `yaml:"services"`
}

type seedFeature struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type seedService struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	Price         float64       `yaml:"price"`
	OriginalPrice float64       `yaml:"originalPrice"`
	Discount      int           `yaml:"discount"`
	Rating        float64       `yaml:"rating"`
	ReviewCount   int           `yaml:"reviewCount"`
	Image         string        `yaml:"image"`
	Features      []seedFeature `yaml:"features"`
}

func decodeSeed(data []byte) ([]model.ServiceDescriptor, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	res := make([]model.ServiceDescriptor, 0, len(f.Services))
	for _, s := range f.Services {
		features := make([]model.Feature, 0, len(s.Features))
		for _, ft := range s.Features {
			features = append(features, model.Feature{
				Icon:        ft.Icon,
				Title:       ft.Title,
				Description: ft.Description,
			})
		}

		res = append(res, model.ServiceDescriptor{
			ID:            s.ID,
			Name:          s.Name,
			Description:   s.Description,
			Price:         model.MoneyFromRupees(s.Price),
			OriginalPrice: model.MoneyFromRupees(s.OriginalPrice),
			Discount:      s.Discount,
			Rating:        s.Rating,
			ReviewCount:   s.ReviewCount,
			Image:         s.Image,
			Features:      features,
		})
	}
	return res, nil
}
