package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")

	cfg := Load()
	if cfg.JWTSecret != "change-me" {
		t.Errorf("JWTSecret = %q, want the default", cfg.JWTSecret)
	}
	if cfg.JWTExpiryHours != 24 {
		t.Errorf("JWTExpiryHours = %d, want 24", cfg.JWTExpiryHours)
	}

	// The accessors and the loaded config must agree
	if string(JWTSecret()) != cfg.JWTSecret {
		t.Errorf("JWTSecret() = %q, config has %q", JWTSecret(), cfg.JWTSecret)
	}
	if JWTExpiry() != time.Duration(cfg.JWTExpiryHours)*time.Hour {
		t.Errorf("JWTExpiry() = %v, config has %dh", JWTExpiry(), cfg.JWTExpiryHours)
	}
}

func TestDSN(t *testing.T) {
	t.Run("DATABASE_URL wins", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop")
		if got := Load().DSN(); got != "postgres://u:p@db:5432/shop" {
			t.Errorf("DSN = %q", got)
		}
	})

	t.Run("assembled from parts", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("DB_HOST", "dbhost")
		t.Setenv("DB_PORT", "")
		t.Setenv("DB_USER", "")
		t.Setenv("DB_PASSWORD", "")
		t.Setenv("DB_NAME", "shop")
		got := Load().DSN()
		want := "host=dbhost user=postgres password=postgres dbname=shop port=5432 sslmode=disable"
		if got != want {
			t.Errorf("DSN = %q, want %q", got, want)
		}
	})
}
