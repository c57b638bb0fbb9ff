package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"JWT_SECRET", "DB_HOST", "DB_PORT", "DB_PASSWORD", "API_PORT",
		"UPLOAD_DIR", "MAX_UPLOAD_MB", "MIRROR_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.DBHost != "localhost" {
		t.Errorf("expected default DB host localhost, got %q", cfg.DBHost)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("expected default DB port 5432, got %d", cfg.DBPort)
	}
	if cfg.APIPort != 8080 {
		t.Errorf("expected default API port 8080, got %d", cfg.APIPort)
	}
	if cfg.UploadDir != "/app/uploads" {
		t.Errorf("expected default upload dir, got %q", cfg.UploadDir)
	}
	if cfg.MaxUploadMB != 50 {
		t.Errorf("expected default upload limit 50, got %d", cfg.MaxUploadMB)
	}
	if cfg.JWTExpireHours != 168 {
		t.Errorf("expected default JWT expiry 168h, got %d", cfg.JWTExpireHours)
	}
	if cfg.MirrorEnabled {
		t.Error("mirror should be disabled by default")
	}
	if cfg.JWTSecret == "" {
		t.Error("expected generated JWT secret when unset")
	}
	if len(cfg.JWTSecret) != 64 {
		t.Errorf("expected 64-char generated secret, got %d", len(cfg.JWTSecret))
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("API_PORT", "9000")
	t.Setenv("MAX_UPLOAD_MB", "25")
	t.Setenv("MIRROR_ENABLED", "true")
	t.Setenv("MIRROR_FTP_HOST", "mirror.internal")

	cfg := Load()

	if cfg.JWTSecret != "test-secret" {
		t.Errorf("expected explicit JWT secret, got %q", cfg.JWTSecret)
	}
	if cfg.DBHost != "db.internal" || cfg.DBPort != 6543 {
		t.Errorf("unexpected DB config %s:%d", cfg.DBHost, cfg.DBPort)
	}
	if cfg.APIPort != 9000 {
		t.Errorf("expected API port 9000, got %d", cfg.APIPort)
	}
	if cfg.MaxUploadMB != 25 {
		t.Errorf("expected upload limit 25, got %d", cfg.MaxUploadMB)
	}
	if !cfg.MirrorEnabled || cfg.MirrorHost != "mirror.internal" {
		t.Errorf("unexpected mirror config %+v", cfg)
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	cfg := Load()
	if cfg.DBPort != 5432 {
		t.Errorf("expected fallback to default port, got %d", cfg.DBPort)
	}
}
