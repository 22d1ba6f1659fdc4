// Package validate holds the pure input checks run before any I/O.
// Every failure is an errs.KindInvalidInput error.
package validate

import (
	"regexp"
	"strings"

	"dbfrontend/internal/config"
	"dbfrontend/internal/errs"
)

const (
	MinUsernameLen    = 3
	MaxUsernameLen    = 50
	MaxEmailLen       = 255
	MaxSearchTermLen  = 100
	MaxSearchLimit    = 100
	DefaultSearchSize = 10
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// sslModes lists the accepted Postgres SSL modes; anything weaker than require is refused.
var sslModes = map[string]bool{
	"":            true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// searchStrip is removed from search terms on top of parameter binding.
var searchStrip = []string{";", "--", "/*", "*/", "xp_", "sp_"}

func invalid(msg string) error {
	return errs.New(errs.KindInvalidInput, msg)
}

// Config validates database configuration.
func Config(cfg *config.DatabaseConfig) error {
	if cfg == nil {
		return invalid("invalid configuration: config is required")
	}
	switch cfg.Driver {
	case "", config.DriverPostgres, config.DriverSQLite:
	default:
		return invalid("invalid configuration: unsupported driver")
	}
	if cfg.Host == "" {
		return invalid("invalid configuration: host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return invalid("invalid configuration: invalid port number")
	}
	if cfg.Database == "" {
		return invalid("invalid configuration: database name is required")
	}
	if cfg.MaxConnections <= 0 {
		return invalid("invalid configuration: max connections must be positive")
	}
	if cfg.MaxIdleConns < 0 {
		return invalid("invalid configuration: max idle connections must not be negative")
	}
	if !sslModes[cfg.SSLMode] {
		return invalid("invalid configuration: ssl mode must be require, verify-ca or verify-full")
	}
	return nil
}

// ID validates a user id.
func ID(id int64) error {
	if id <= 0 {
		return invalid("user id must be positive")
	}
	return nil
}

// Username validates username format.
func Username(username string) error {
	if username == "" {
		return invalid("username is required")
	}
	if len(username) < MinUsernameLen || len(username) > MaxUsernameLen {
		return invalid("username must be 3-50 characters")
	}
	if !usernameRe.MatchString(username) {
		return invalid("username contains invalid characters")
	}
	return nil
}

// Email validates email format.
func Email(email string) error {
	if email == "" {
		return invalid("email is required")
	}
	if len(email) > MaxEmailLen {
		return invalid("email too long")
	}
	if !emailRe.MatchString(email) {
		return invalid("invalid email format")
	}
	return nil
}

// SearchTerm checks the raw term and returns its sanitized form. The
// sanitized form may be empty, which matches every row.
func SearchTerm(term string) (string, error) {
	if term == "" {
		return "", invalid("search term is required")
	}
	if len(term) > MaxSearchTermLen {
		return "", invalid("search term too long")
	}
	return SanitizeSearchTerm(term), nil
}

// SanitizeSearchTerm strips statement separators, comment markers and
// stored-procedure prefixes, then trims whitespace. Removal repeats until
// nothing changes so the result is stable under a second application.
func SanitizeSearchTerm(term string) string {
	for {
		prev := term
		for _, s := range searchStrip {
			term = strings.ReplaceAll(term, s, "")
		}
		term = strings.TrimSpace(term)
		if term == prev {
			return term
		}
	}
}

// SearchLimit returns limit when it is within (0, MaxSearchLimit], otherwise the default.
func SearchLimit(limit int) int {
	if limit <= 0 || limit > MaxSearchLimit {
		return DefaultSearchSize
	}
	return limit
}
