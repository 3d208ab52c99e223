package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmeshcher/astrostore/internal/model"
)

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		valid bool
	}{
		{name: "simple", slug: "vastu-tips", valid: true},
		{name: "digits", slug: "horoscope-2026", valid: true},
		{name: "leading dash", slug: "-vastu", valid: false},
		{name: "trailing dash", slug: "vastu-", valid: false},
		{name: "double dash", slug: "vastu--tips", valid: false},
		{name: "uppercase", slug: "Vastu", valid: false},
		{name: "empty string", slug: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidSlug(tt.slug)
			if got != tt.valid {
				t.Fatalf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.valid)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Vastu Tips: Home Entrance!", want: "vastu-tips-home-entrance"},
		{title: "  Life Path 7  ", want: "life-path-7"},
		{title: "Saturn's Return", want: "saturn-s-return"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Slugify(tt.title)
			if got != tt.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if !IsValidSlug(got) {
				t.Fatalf("Slugify(%q) produced invalid slug %q", tt.title, got)
			}
		})
	}
}

func TestReadTime(t *testing.T) {
	if got := ReadTime(""); got != 1 {
		t.Fatalf("ReadTime(empty) = %d, want 1", got)
	}
	if got := ReadTime(strings.Repeat("word ", 200)); got != 1 {
		t.Fatalf("ReadTime(200 words) = %d, want 1", got)
	}
	if got := ReadTime(strings.Repeat("word ", 201)); got != 2 {
		t.Fatalf("ReadTime(201 words) = %d, want 2", got)
	}
}

func TestExcerpt(t *testing.T) {
	short := "Mercury goes retrograde."
	if got := Excerpt(short); got != short {
		t.Fatalf("Excerpt(%q) = %q", short, got)
	}

	long := strings.Repeat("a", 300)
	got := Excerpt(long)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("long excerpt must end with ellipsis, got %q", got)
	}
	if n := len([]rune(got)); n != excerptLength+1 {
		t.Fatalf("excerpt length = %d, want %d", n, excerptLength+1)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Vastu", " home ", "", "vastu"})
	want := []string{"home", "vastu"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("NormalizeTags = %v, want %v", got, want)
	}
}

func TestBlogPost(t *testing.T) {
	valid := model.BlogPost{
		Title:    "Vastu for kitchens",
		Slug:     "vastu-for-kitchens",
		Content:  "Face east while cooking.",
		Category: model.BlogCategoryVastu,
	}
	if err := BlogPost(&valid); err != nil {
		t.Fatalf("BlogPost(valid) error: %v", err)
	}

	badCategory := valid
	badCategory.Category = "palmistry"
	if err := BlogPost(&badCategory); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for unknown category, got %v", err)
	}

	noTitle := valid
	noTitle.Title = " "
	if err := BlogPost(&noTitle); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty title, got %v", err)
	}
}

func TestServiceDescriptor(t *testing.T) {
	d := model.ServiceDescriptor{
		ID:            "kundli-report",
		Name:          "Kundli Report",
		Price:         199900,
		OriginalPrice: 299900,
		Discount:      33,
		Rating:        4.8,
	}
	if err := ServiceDescriptor(&d); err != nil {
		t.Fatalf("ServiceDescriptor(valid) error: %v", err)
	}

	d.Price = 0
	if err := ServiceDescriptor(&d); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for zero price, got %v", err)
	}
}
