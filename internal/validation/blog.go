// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/mmeshcher/astrostore/internal/model"
)

// ErrInvalid возвращается, если данные не прошли валидацию.
var ErrInvalid = errors.New("invalid input")

const (
	wordsPerMinute = 200
	excerptLength  = 160
)

// IsValidSlug проверяет, что slug состоит из строчных латинских букв и цифр, разделённых одиночными дефисами.
func IsValidSlug(slug string) bool {
	if slug == "" {
		return false
	}

	prevDash := true
	for _, ch := range slug {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			prevDash = false
		case ch == '-':
			if prevDash {
				return false
			}
			prevDash = true
		default:
			return false
		}
	}

	return !prevDash
}

// Slugify строит slug из заголовка записи.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, ch := range strings.ToLower(title) {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ReadTime оценивает время чтения текста в минутах, не меньше одной.
func ReadTime(content string) int {
	words := len(strings.FieldsFunc(content, unicode.IsSpace))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt возвращает начало текста для анонса.
func Excerpt(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "…"
}

// NormalizeTags приводит теги к нижнему регистру, убирает пустые и повторы.
func NormalizeTags(tags []string) []string {
	res := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		res = append(res, t)
	}
	slices.Sort(res)
	return slices.Compact(res)
}

// BlogPost проверяет обязательные поля записи блога.
func BlogPost(p *model.BlogPost) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if !IsValidSlug(p.Slug) {
		return fmt.Errorf("%w: malformed slug %q", ErrInvalid, p.Slug)
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalid)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalid, p.Category)
	}
	return nil
}

// ServiceDescriptor проверяет описание услуги перед регистрацией в каталоге.
func ServiceDescriptor(d *model.ServiceDescriptor) error {
	if !IsValidSlug(d.ID) {
		return fmt.Errorf("%w: malformed service id %q", ErrInvalid, d.ID)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if d.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalid)
	}
	if d.OriginalPrice != 0 && d.OriginalPrice < d.Price {
		return fmt.Errorf("%w: original price below price", ErrInvalid)
	}
	if d.Discount < 0 || d.Discount > 100 {
		return fmt.Errorf("%w: discount out of range", ErrInvalid)
	}
	if d.Rating < 0 || d.Rating > 5 {
		return fmt.Errorf("%w: rating out of range", ErrInvalid)
	}
	return nil
}
