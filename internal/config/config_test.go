package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Clear environment variables
	os.Clearenv()

	cfg := config.LoadConfig()

	if cfg.Server.StatsAddr != ":8081" {
		t.Errorf("Expected default stats addr ':8081', got '%s'", cfg.Server.StatsAddr)
	}
	if cfg.Server.DashboardAddr != ":8080" {
		t.Errorf("Expected default dashboard addr ':8080', got '%s'", cfg.Server.DashboardAddr)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Expected default driver 'postgres', got '%s'", cfg.Database.Driver)
	}
	if cfg.Redis.URL != "" {
		t.Errorf("Expected caching disabled by default, got redis URL '%s'", cfg.Redis.URL)
	}
	if cfg.Redis.CacheTTL != 10*time.Minute {
		t.Errorf("Expected default cache TTL 10m, got %v", cfg.Redis.CacheTTL)
	}
	if cfg.Query.Retries != 3 {
		t.Errorf("Expected 3 retries, got %d", cfg.Query.Retries)
	}
	if cfg.Dataset.StartYear != 2007 || cfg.Dataset.EndYear != 2024 {
		t.Errorf("Expected dataset range 2007-2024, got %d-%d", cfg.Dataset.StartYear, cfg.Dataset.EndYear)
	}
	if cfg.Dataset.DefaultPoints != 50 {
		t.Errorf("Expected 50 default points, got %d", cfg.Dataset.DefaultPoints)
	}
}

func TestLoadConfig_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("DATABASE_DRIVER", "SQLite")
	os.Setenv("DATABASE_URL", "file::memory:")
	os.Setenv("STATS_API_URL", "http://stats:9000/")
	os.Setenv("QUERY_TIMEOUT", "3s")
	os.Setenv("CORS_ORIGINS", "http://a.example, ,http://b.example")
	os.Setenv("DATASET_END_YEAR", "2023")
	defer os.Clearenv()

	cfg := config.LoadConfig()

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Expected driver 'sqlite', got '%s'", cfg.Database.Driver)
	}
	if cfg.Database.URL != "file::memory:" {
		t.Errorf("Expected database URL 'file::memory:', got '%s'", cfg.Database.URL)
	}
	if cfg.Query.BaseURL != "http://stats:9000" {
		t.Errorf("Expected trailing slash trimmed, got '%s'", cfg.Query.BaseURL)
	}
	if cfg.Query.Timeout != 3*time.Second {
		t.Errorf("Expected 3s timeout, got %v", cfg.Query.Timeout)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Fatalf("Expected 2 CORS origins, got %d", len(cfg.Server.CORSOrigins))
	}
	if cfg.Server.CORSOrigins[1] != "http://b.example" {
		t.Errorf("Expected second origin 'http://b.example', got '%s'", cfg.Server.CORSOrigins[1])
	}
	if cfg.Dataset.EndYear != 2023 {
		t.Errorf("Expected end year 2023, got %d", cfg.Dataset.EndYear)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("QUERY_RETRIES", "many")
	os.Setenv("CACHE_TTL", "forever")
	defer os.Clearenv()

	cfg := config.LoadConfig()

	if cfg.Query.Retries != 3 {
		t.Errorf("Expected fallback retries 3, got %d", cfg.Query.Retries)
	}
	if cfg.Redis.CacheTTL != 10*time.Minute {
		t.Errorf("Expected fallback TTL 10m, got %v", cfg.Redis.CacheTTL)
	}
}

func TestLoadConfig_SQLiteDefaultURL(t *testing.T) {
	os.Clearenv()
	os.Setenv("DATABASE_DRIVER", "sqlite")
	defer os.Clearenv()

	cfg := config.LoadConfig()

	if cfg.Database.URL == "" || cfg.Database.URL[:5] != "file:" {
		t.Errorf("Expected sqlite file DSN by default, got '%s'", cfg.Database.URL)
	}
}
