package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "shop")
	t.Setenv("DB_NAME", "storefront")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("WOO_BASE_URL", "https://shop.example.com/")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", cfg.WooCommerce.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.WooCommerce.Timeout)
	assert.Equal(t, "300", cfg.Store.FreeShippingThreshold.String())
	assert.Equal(t, "0.23", cfg.Store.VATRate.String())
	assert.Equal(t, []string{"pobranie", "cash on delivery"}, cfg.Store.CODTitleMarkers)
	assert.Equal(t, time.Hour, cfg.Cache.CatalogStaticTTL)
	assert.Equal(t, time.Minute, cfg.Cache.CatalogDynamicTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.CatalogStaleTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Worker.CartRetention)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("STORE_FREE_SHIPPING_THRESHOLD", "250.50")
	t.Setenv("STORE_COD_TITLE_MARKERS", " pobranie , ,COD")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("SHIPPING_SYNC_INTERVAL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "250.5", cfg.Store.FreeShippingThreshold.String())
	assert.Equal(t, []string{"pobranie", "COD"}, cfg.Store.CODTitleMarkers)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Worker.ShippingSyncInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing db host", "DB_HOST", ""},
		{"missing upstream", "WOO_BASE_URL", ""},
		{"missing jwt secret", "JWT_SECRET", ""},
		{"bad threshold", "STORE_FREE_SHIPPING_THRESHOLD", "abc"},
		{"negative vat", "STORE_VAT_RATE", "-0.1"},
		{"bad ttl", "CATALOG_DYNAMIC_TTL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
