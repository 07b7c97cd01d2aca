package storage

import (
	"net/url"
	"strings"
)

// IsPostgres reports whether config is a PostgreSQL connection string rather than a file path
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL URL carries a password
func HasEmbeddedCredentials(config string) bool {
	if !IsPostgres(config) {
		return false
	}
	u, err := url.Parse(config)
	if err != nil {
		return false
	}
	_, set := u.User.Password()
	return set
}
