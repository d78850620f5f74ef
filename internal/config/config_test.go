package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FirstExistingPathWins(t *testing.T) {
	path := writeConfig(t, `
[mainConfig]
appName = "blog"
port = 9001

[databaseConfig]
driver = "sqlite"
path = "blog.db"

[adminConfig]
bootstrapEmails = ["root@example.com"]
`)
	conf, err := Load(filepath.Join(t.TempDir(), "missing.toml"), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conf.MainConfig.AppName != "blog" || conf.MainConfig.Port != 9001 {
		t.Fatalf("main config not decoded: %+v", conf.MainConfig)
	}
	if conf.DatabaseConfig.Driver != "sqlite" || conf.DatabaseConfig.Path != "blog.db" {
		t.Fatalf("database config not decoded: %+v", conf.DatabaseConfig)
	}
	if len(conf.AdminConfig.BootstrapEmails) != 1 || conf.AdminConfig.BootstrapEmails[0] != "root@example.com" {
		t.Fatalf("admin config not decoded: %+v", conf.AdminConfig)
	}
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error when no config file exists")
	}
	if conf.DatabaseConfig.Driver != "postgres" {
		t.Errorf("driver default = %q, want postgres", conf.DatabaseConfig.Driver)
	}
	if conf.KafkaConfig.MessageMode != "channel" {
		t.Errorf("message mode default = %q, want channel", conf.KafkaConfig.MessageMode)
	}
	if conf.JWTConfig.AccessTokenExpiry != 15 || conf.JWTConfig.RefreshTokenExpiry != 168 {
		t.Errorf("jwt defaults = %+v", conf.JWTConfig)
	}
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	path := writeConfig(t, `
[jwtConfig]
secret = "from-file"

[databaseConfig]
password = "file-password"
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PASSWORD", "env-password")
	t.Setenv("PORT", "7070")

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conf.JWTConfig.Secret != "from-env" {
		t.Errorf("jwt secret = %q, want from-env", conf.JWTConfig.Secret)
	}
	if conf.DatabaseConfig.Password != "env-password" {
		t.Errorf("db password = %q, want env-password", conf.DatabaseConfig.Password)
	}
	if conf.MainConfig.Port != 7070 {
		t.Errorf("port = %d, want 7070", conf.MainConfig.Port)
	}
}
