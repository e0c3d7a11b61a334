package normalize_test

import (
	"testing"

	"github.com/hack24/api/internal/app/system/normalize"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Best Hack", "best-hack"},
		{"The  Crashers", "the-crashers"},
		{"Hello, World", "hello-world"},
		{"UPPER CASE", "upper-case"},
	}

	for _, tt := range tests {
		if got := normalize.Slug(tt.name); got != tt.want {
			t.Errorf("Slug(%q): got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestEmail(t *testing.T) {
	if got := normalize.Email("  Joe.Bloggs@Example.COM "); got != "joe.bloggs@example.com" {
		t.Errorf("Email: got %q", got)
	}
}

func TestName(t *testing.T) {
	if got := normalize.Name("  John Who  "); got != "John Who" {
		t.Errorf("Name: got %q", got)
	}
}
