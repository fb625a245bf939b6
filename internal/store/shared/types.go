package shared

import (
	"errors"
	"fmt"
)

// DbType names a storage backend.
type DbType string

const (
	DbTypePostgres DbType = "postgres"
	DbTypeMemory   DbType = "memory"
)

func (t DbType) String() string {
	return string(t)
}

// IsValid reports whether the type has a provider implementation.
func (t DbType) IsValid() bool {
	switch t {
	case DbTypePostgres, DbTypeMemory:
		return true
	}
	return false
}

// DbProviderConfig is the JSON document that selects and configures a provider.
type DbProviderConfig struct {
	DbType       DbType                 `json:"db_type"`
	ExtraDetails map[string]interface{} `json:"extra_details"`
}

// String returns a detail value, failing when it is missing or not a string.
func (c DbProviderConfig) String(key string) (string, error) {
	v, ok := c.ExtraDetails[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required for %s provider", key, c.DbType)
	}
	return v, nil
}

// Bool returns a detail flag, false when absent.
func (c DbProviderConfig) Bool(key string) bool {
	v, _ := c.ExtraDetails[key].(bool)
	return v
}

var ErrNotFound = errors.New("not found")
