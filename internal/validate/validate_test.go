package validate

import (
	"errors"
	"strings"
	"testing"

	"dbfrontend/internal/config"
	"dbfrontend/internal/errs"
)

func TestConfig(t *testing.T) {
	valid := func() *config.DatabaseConfig {
		c := config.DefaultDatabaseConfig()
		c.Database = "app"
		return c
	}

	if err := Config(valid()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*config.DatabaseConfig)
	}{
		{"empty host", func(c *config.DatabaseConfig) { c.Host = "" }},
		{"zero port", func(c *config.DatabaseConfig) { c.Port = 0 }},
		{"port too large", func(c *config.DatabaseConfig) { c.Port = 65536 }},
		{"empty database", func(c *config.DatabaseConfig) { c.Database = "" }},
		{"zero max connections", func(c *config.DatabaseConfig) { c.MaxConnections = 0 }},
		{"negative idle", func(c *config.DatabaseConfig) { c.MaxIdleConns = -1 }},
		{"plaintext ssl", func(c *config.DatabaseConfig) { c.SSLMode = "disable" }},
		{"prefer ssl", func(c *config.DatabaseConfig) { c.SSLMode = "prefer" }},
		{"unknown driver", func(c *config.DatabaseConfig) { c.Driver = "mysql" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := Config(c); !errors.Is(err, errs.ErrInvalidInput) {
				t.Fatalf("wanted: ErrInvalidInput\ngot: %v", err)
			}
		})
	}

	if err := Config(nil); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("nil config: wanted ErrInvalidInput, got %v", err)
	}
}

func TestUsername(t *testing.T) {
	good := []string{"abc", "alice_01", "john-doe", strings.Repeat("a", 50)}
	for _, u := range good {
		if err := Username(u); err != nil {
			t.Errorf("Username(%q) = %v, want nil", u, err)
		}
	}

	bad := []string{
		"",
		"ab",
		strings.Repeat("a", 51),
		"user@name",
		"user name",
		"user;DROP TABLE",
		"../../../etc/passwd",
		"héllo",
	}
	for _, u := range bad {
		if err := Username(u); !errors.Is(err, errs.ErrInvalidInput) {
			t.Errorf("Username(%q) = %v, want ErrInvalidInput", u, err)
		}
	}
}

func TestEmail(t *testing.T) {
	good := []string{"alice@example.com", "a.b+tag@sub.example.org", "x_y%z@d-1.io"}
	for _, e := range good {
		if err := Email(e); err != nil {
			t.Errorf("Email(%q) = %v, want nil", e, err)
		}
	}

	bad := []string{
		"",
		"notanemail",
		"@example.com",
		"user@",
		"user @example.com",
		"user@exa mple.com",
		"user@domain@com",
		"user@localhost",
		strings.Repeat("a", 250) + "@example.com",
	}
	for _, e := range bad {
		if err := Email(e); !errors.Is(err, errs.ErrInvalidInput) {
			t.Errorf("Email(%q) = %v, want ErrInvalidInput", e, err)
		}
	}
}

func TestID(t *testing.T) {
	if err := ID(1); err != nil {
		t.Fatalf("ID(1) = %v", err)
	}
	for _, id := range []int64{0, -1} {
		if err := ID(id); !errors.Is(err, errs.ErrInvalidInput) {
			t.Fatalf("ID(%d) = %v, want ErrInvalidInput", id, err)
		}
	}
}

func TestSanitizeSearchTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john", "john"},
		{"  john  ", "john"},
		{"john'; DROP TABLE users; --", "john' DROP TABLE users"},
		{"a/*b*/c", "abc"},
		{"xp_cmdshell", "cmdshell"},
		{"sp_who", "who"},
		{"-;-", ""},
		{"x-;-p_y", "y"},
	}
	for _, tt := range tests {
		got := SanitizeSearchTerm(tt.in)
		if got != tt.want {
			t.Errorf("SanitizeSearchTerm(%q)\nwanted: %q\ngot: %q", tt.in, tt.want, got)
		}
		if again := SanitizeSearchTerm(got); again != got {
			t.Errorf("not idempotent for %q: %q then %q", tt.in, got, again)
		}
	}
}

func TestSearchTerm(t *testing.T) {
	if _, err := SearchTerm(""); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("empty term: %v", err)
	}
	if _, err := SearchTerm(strings.Repeat("a", 101)); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("long term: %v", err)
	}
	if got, err := SearchTerm(" ;; "); err != nil || got != "" {
		t.Fatalf("term empty after sanitization: %q %v", got, err)
	}
	got, err := SearchTerm(" alice; ")
	if err != nil || got != "alice" {
		t.Fatalf("SearchTerm: %q %v", got, err)
	}
}

func TestSearchLimit(t *testing.T) {
	tests := map[int]int{-5: 10, 0: 10, 1: 1, 50: 50, 100: 100, 101: 10}
	for in, want := range tests {
		if got := SearchLimit(in); got != want {
			t.Errorf("SearchLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
