package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
log:
  level: "debug"
  format: "json"
minio:
  endpoint: "minio.fuel.internal:9000"
  access_key: "fuel-backend"
  secret_key: "fuel-backend-secret"
  bucket: "procurement-contracts"
  use_ssl: true
  expire_days: 14
extract:
  api_url: "https://extract.fuel.internal/api/v1"
  api_token: "extract-token"
  callback_url: "https://contracts.fuel.internal/api/extract/callback"
  seed: "callback-seed"
auth:
  jwt_secret: "contracts-jwt-secret"
  token_expire_hours: 48
store:
  max_contracts: 500
users:
  - username: "procurement"
    password: "procurement-pass"
    tenant: "eastern-air"
  - username: "auditor"
    password: "auditor-pass"
    tenant: "southern-air"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Expected debug/json logging, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Minio.Bucket != "procurement-contracts" {
		t.Errorf("Expected bucket procurement-contracts, got %s", cfg.Minio.Bucket)
	}
	if !cfg.Minio.UseSSL {
		t.Error("Expected use_ssl true")
	}
	if cfg.Minio.ExpireDays != 14 {
		t.Errorf("Expected expire_days 14, got %d", cfg.Minio.ExpireDays)
	}
	if cfg.Extract.APIURL != "https://extract.fuel.internal/api/v1" {
		t.Errorf("Expected extract api_url, got %s", cfg.Extract.APIURL)
	}
	if cfg.Extract.Seed != "callback-seed" {
		t.Errorf("Expected extract seed, got %s", cfg.Extract.Seed)
	}
	if cfg.Auth.TokenExpireHours != 48 {
		t.Errorf("Expected token_expire_hours 48, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Store.MaxContracts != 500 {
		t.Errorf("Expected max_contracts 500, got %d", cfg.Store.MaxContracts)
	}
	if len(cfg.Users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(cfg.Users))
	}
	if cfg.Users[1].Tenant != "southern-air" {
		t.Errorf("Expected tenant southern-air, got %s", cfg.Users[1].Tenant)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Only the storage credentials set: everything else falls back.
	path := writeConfigFile(t, `
minio:
  endpoint: "localhost:9000"
  access_key: "minioadmin"
  secret_key: "minioadmin"
  bucket: "contracts"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Expected default log format text, got %s", cfg.Log.Format)
	}
	if cfg.Minio.ExpireDays != 7 {
		t.Errorf("Expected default expire_days 7, got %d", cfg.Minio.ExpireDays)
	}
	if cfg.Auth.TokenExpireHours != 24 {
		t.Errorf("Expected default token_expire_hours 24, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Store.MaxContracts != 100 {
		t.Errorf("Expected default max_contracts 100, got %d", cfg.Store.MaxContracts)
	}
}

func TestLoadNonExistent(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [port: 8080")

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestFindUser(t *testing.T) {
	cfg := &Config{
		Users: []User{
			{Username: "procurement", Password: "procurement-pass", Tenant: "eastern-air"},
			{Username: "auditor", Password: "auditor-pass", Tenant: "southern-air"},
		},
	}

	user := cfg.FindUser("auditor")
	if user == nil {
		t.Fatal("Expected to find auditor")
	}
	if user.Tenant != "southern-air" {
		t.Errorf("Expected tenant southern-air, got %s", user.Tenant)
	}

	if cfg.FindUser("stranger") != nil {
		t.Error("Expected nil for unknown username")
	}
}
