package database

import (
	"fmt"
	"net/url"
)

// ConstructDatabaseURL points baseURL at databaseName, keeping its query
// parameters and defaulting sslmode to disable. An empty name returns the
// base URL unchanged.
func ConstructDatabaseURL(baseURL, databaseName string) (string, error) {
	if databaseName == "" {
		return baseURL, nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid database URL: missing scheme or host")
	}

	u.Path = "/" + databaseName
	u.RawPath = ""

	query := u.Query()
	if !query.Has("sslmode") {
		query.Set("sslmode", "disable")
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}
