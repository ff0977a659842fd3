package modelsync

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sync.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
app_name: xprim
base_url: https://models.example.com/v1
token: secret-token
data_dir: /var/lib/xprim
artifact_name: weights.onnx
cache_policy: reuse-compiled
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}

	if cfg.AppName != "xprim" {
		t.Errorf("AppName = %q, want xprim", cfg.AppName)
	}
	if cfg.BaseURL != "https://models.example.com/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Token != "secret-token" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.DataDir != "/var/lib/xprim" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.ArtifactName != "weights.onnx" {
		t.Errorf("ArtifactName = %q", cfg.ArtifactName)
	}
	if cfg.CachePolicy != ReuseCompiled {
		t.Errorf("CachePolicy = %v, want ReuseCompiled", cfg.CachePolicy)
	}
}

func TestLoadConfigFileExplicitEndpoints(t *testing.T) {
	path := writeConfigFile(t, `
app_name: xprim
digest_url: https://a.example.com/digest
download_url: https://b.example.com/blob
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.DigestURL != "https://a.example.com/digest" {
		t.Errorf("DigestURL = %q", cfg.DigestURL)
	}
	if cfg.DownloadURL != "https://b.example.com/blob" {
		t.Errorf("DownloadURL = %q", cfg.DownloadURL)
	}
	if cfg.CachePolicy != RecompileAfterDownload {
		t.Errorf("CachePolicy = %v, want default RecompileAfterDownload", cfg.CachePolicy)
	}
}

func TestLoadConfigFileTokenFile(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenPath, []byte("  file-token\n"), 0600); err != nil {
		t.Fatal(err)
	}

	path := writeConfigFile(t, `
app_name: xprim
base_url: https://models.example.com
token_file: `+tokenPath+`
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.Token != "file-token" {
		t.Errorf("Token = %q, want whitespace-trimmed file contents", cfg.Token)
	}
}

func TestLoadConfigFileTokenWinsOverTokenFile(t *testing.T) {
	path := writeConfigFile(t, `
app_name: xprim
base_url: https://models.example.com
token: direct-token
token_file: /nonexistent/token
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.Token != "direct-token" {
		t.Errorf("Token = %q, want direct token", cfg.Token)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, ErrStorage) {
			t.Errorf("error = %v, want ErrStorage", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfigFile(t, "app_name: [broken")
		_, err := LoadConfigFile(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("unknown cache policy", func(t *testing.T) {
		path := writeConfigFile(t, "cache_policy: never-ever")
		_, err := LoadConfigFile(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("missing token file", func(t *testing.T) {
		path := writeConfigFile(t, "token_file: /nonexistent/token")
		_, err := LoadConfigFile(path)
		if !errors.Is(err, ErrStorage) {
			t.Errorf("error = %v, want ErrStorage", err)
		}
	})
}
