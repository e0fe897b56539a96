package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appconfig "github.com/DamianKursa/hvyt-ecom-sub000/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&appconfig.DatabaseConfig{
		Host: "db", Port: "5432", User: "shop", Password: "p@ss word", Name: "storefront", SSLMode: "disable",
	})
	assert.Equal(t, "postgres://shop:p%40ss+word@db:5432/storefront?sslmode=disable", dsn)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, backoff(1))
	assert.Equal(t, time.Second, backoff(2))
	assert.Equal(t, 4*time.Second, backoff(4))
	assert.Equal(t, 5*time.Second, backoff(5))
}
