package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithMemoryDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", DriverMemory)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.Server.Port)
	}
	if cfg.Query.OrdersDefaultLimit != 100 {
		t.Fatalf("expected orders default limit 100, got %d", cfg.Query.OrdersDefaultLimit)
	}
	if cfg.Query.UsersDefaultLimit != 10 {
		t.Fatalf("expected users default limit 10, got %d", cfg.Query.UsersDefaultLimit)
	}
	if cfg.Query.Timeout != 10*time.Second {
		t.Fatalf("expected query timeout 10s, got %v", cfg.Query.Timeout)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("expected session cache disabled by default, got %q", cfg.Redis.Addr)
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "DB_DRIVER=memory\nSERVER_PORT=9090\nORDERS_DEFAULT_LIMIT=25\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port from .env, got %q", cfg.Server.Port)
	}
	if cfg.Query.OrdersDefaultLimit != 25 {
		t.Fatalf("expected orders limit from .env, got %d", cfg.Query.OrdersDefaultLimit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "memory_needs_no_host",
			cfg:  Config{Database: DatabaseConfig{Driver: DriverMemory}},
		},
		{
			name:    "postgres_requires_host_and_name",
			cfg:     Config{Database: DatabaseConfig{Driver: DriverPostgres}},
			wantErr: true,
		},
		{
			name: "postgres_complete",
			cfg:  Config{Database: DatabaseConfig{Driver: DriverPostgres, Host: "db", DBName: "help"}},
		},
		{
			name:    "unknown_driver",
			cfg:     Config{Database: DatabaseConfig{Driver: "mongo"}},
			wantErr: true,
		},
		{
			name: "negative_limit",
			cfg: Config{
				Database: DatabaseConfig{Driver: DriverMemory},
				Query:    QueryConfig{OrdersDefaultLimit: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "localhost", Port: "5432", User: "app", Password: "secret", DBName: "help", SSLMode: "disable"}
	want := "host=localhost port=5432 user=app password=secret dbname=help sslmode=disable"
	if got := db.DSN(); got != want {
		t.Fatalf("unexpected dsn: %q", got)
	}
}
