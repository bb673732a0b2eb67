package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := load(viper.New())

	assert.Equal(t, "investify-pos", cfg.App.Name)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3*time.Second, cfg.Terminal.BannerTTL)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.Equal(t, "backend", cfg.Printer.Mode)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Nil(t, cfg.Backend.Scopes)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("TERMINAL_BANNER_TTL", "5s")
	v.Set("BACKEND_SCOPES", "pos.read, pos.write")
	v.Set("DB_DRIVER", "Postgres")
	v.Set("CORS_ALLOWED_ORIGINS", "http://till-1.local,http://till-2.local")

	cfg := load(v)

	assert.Equal(t, 5*time.Second, cfg.Terminal.BannerTTL)
	assert.Equal(t, []string{"pos.read", "pos.write"}, cfg.Backend.Scopes)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Len(t, cfg.CORS.AllowedOrigins, 2)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := &DatabaseConfig{Host: "db", User: "pos", Password: "pw", Name: "journal", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=pos password=pw dbname=journal port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
