// Package model содержит доменные сущности магазина консультаций astrostore.
package model

import (
	"math"
	"slices"
	"strconv"
	"time"
)

// User представляет зарегистрированного пользователя магазина.
type User struct {
	ID           int64
	Login        string
	PasswordHash []byte
	IsAdmin      bool
	CreatedAt    time.Time
}

// Money хранит денежную сумму в пайсах (сотых долях рупии).
type Money int64

// MoneyFromRupees переводит сумму в рупиях в пайсы с округлением.
func MoneyFromRupees(v float64) Money {
	return Money(math.Round(v * 100))
}

// Rupees возвращает сумму в рупиях.
func (m Money) Rupees() float64 {
	return float64(m) / 100
}

// MulRate умножает сумму на дробную ставку с округлением до пайсы.
func (m Money) MulRate(rate float64) Money {
	return Money(math.Round(float64(m) * rate))
}

// MarshalJSON сериализует сумму как десятичное число рупий.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Rupees(), 'f', -1, 64)), nil
}

// UnmarshalJSON разбирает десятичное число рупий.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*m = MoneyFromRupees(v)
	return nil
}

// String форматирует сумму с двумя знаками после запятой.
func (m Money) String() string {
	return strconv.FormatFloat(m.Rupees(), 'f', 2, 64)
}

// Feature описывает одну особенность услуги для карточки товара.
type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ServiceDescriptor описывает услугу или отчёт из каталога. После регистрации не изменяется.
type ServiceDescriptor struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         Money     `json:"price"`
	OriginalPrice Money     `json:"originalPrice"`
	Discount      int       `json:"discount"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"reviewCount"`
	Features      []Feature `json:"features"`
	Image         string    `json:"image"`
}

// ServiceSummary — сокращённое представление услуги для карусели.
type ServiceSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       Money  `json:"price"`
}

// Summary возвращает сокращённое представление услуги.
func (d ServiceDescriptor) Summary() ServiceSummary {
	return ServiceSummary{
		ID:          d.ID,
		Title:       d.Name,
		Description: d.Description,
		Price:       d.Price,
	}
}

// BlogCategory описывает рубрику записи блога.
type BlogCategory string

const (
	BlogCategoryAstrology  BlogCategory = "astrology"
	BlogCategoryNumerology BlogCategory = "numerology"
	BlogCategoryVastu      BlogCategory = "vastu"
	BlogCategoryTarot      BlogCategory = "tarot"
	BlogCategoryHoroscope  BlogCategory = "horoscope"
	BlogCategoryGeneral    BlogCategory = "general"
)

// Valid сообщает, входит ли рубрика в допустимый список.
func (c BlogCategory) Valid() bool {
	switch c {
	case BlogCategoryAstrology, BlogCategoryNumerology, BlogCategoryVastu,
		BlogCategoryTarot, BlogCategoryHoroscope, BlogCategoryGeneral:
		return true
	}
	return false
}

// Comment описывает комментарий к записи блога.
type Comment struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"userId"`
	Name       string    `json:"name"`
	Comment    string    `json:"comment"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BlogPost описывает запись блога.
type BlogPost struct {
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Content     string       `json:"content"`
	Excerpt     string       `json:"excerpt"`
	AuthorID    int64        `json:"author"`
	Category    BlogCategory `json:"category"`
	Tags        []string     `json:"tags"`
	IsPublished bool         `json:"isPublished"`
	PublishedAt *time.Time   `json:"publishedAt,omitempty"`
	Likes       []int64      `json:"likes"`
	Views       int64        `json:"views"`
	Comments    []Comment    `json:"comments"`
	ReadTime    int          `json:"readTime"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Publish переводит запись в опубликованное состояние. Повторная публикация не меняет дату.
func (p *BlogPost) Publish(at time.Time) {
	p.IsPublished = true
	if p.PublishedAt == nil {
		at = at.UTC()
		p.PublishedAt = &at
	}
}

// ToggleLike ставит или снимает отметку пользователя и возвращает итоговое состояние.
func (p *BlogPost) ToggleLike(userID int64) bool {
	i, found := slices.BinarySearch(p.Likes, userID)
	if found {
		p.Likes = slices.Delete(p.Likes, i, i+1)
		return false
	}
	p.Likes = slices.Insert(p.Likes, i, userID)
	return true
}

// AddComment добавляет комментарий в конец списка.
func (p *BlogPost) AddComment(c Comment) {
	p.Comments = append(p.Comments, c)
}

// CountView увеличивает счётчик просмотров.
func (p *BlogPost) CountView() {
	p.Views++
}
