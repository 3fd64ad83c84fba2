package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"PORT", "DB_DRIVER", "DATA_DIR", "DB_PATH", "DATABASE_URL", "JWT_SECRET",
	"ADMIN_PASSWORD", "TOKEN_TTL", "STATIC_PATH", "KAFKA_BROKERS", "KAFKA_TOPIC",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every variable Load reads. t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.DBDriver != DriverSQLite {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.DBPath != filepath.Join("data", "data.db") {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.JWTSecret == "" || cfg.AdminPassword == "" {
		t.Error("expected development secrets")
	}
	if cfg.KafkaBrokers != nil {
		t.Errorf("KafkaBrokers = %v, want none", cfg.KafkaBrokers)
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("DATA_DIR", "/var/lib/tabungan")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 8081 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.DBPath != filepath.Join("/var/lib/tabungan", "data.db") {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}

	t.Setenv("DB_PATH", "/tmp/explicit.db")
	cfg, err = Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/tmp/explicit.db" {
		t.Errorf("DB_PATH override ignored: %q", cfg.DBPath)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even to
	// the empty string, so these must be absent.
	os.Unsetenv("ADMIN_PASSWORD")
	os.Unsetenv("PORT")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ADMIN_PASSWORD=from-file\nPORT=4000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("ADMIN_PASSWORD")
		os.Unsetenv("PORT")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AdminPassword != "from-file" || cfg.Port != 4000 {
		t.Errorf("env file not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ttl", map[string]string{"TOKEN_TTL": "twelve hours"}},
		{"negative ttl", map[string]string{"TOKEN_TTL": "-1h"}},
		{"bad port", map[string]string{"PORT": "http"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(missingEnvFile(t)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
