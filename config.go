package modelsync

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of a synchronizer config file.
type fileConfig struct {
	AppName      string `yaml:"app_name"`
	BaseURL      string `yaml:"base_url"`
	DigestURL    string `yaml:"digest_url"`
	DownloadURL  string `yaml:"download_url"`
	Token        string `yaml:"token"`
	TokenFile    string `yaml:"token_file"`
	DataDir      string `yaml:"data_dir"`
	ArtifactName string `yaml:"artifact_name"`
	CachePolicy  string `yaml:"cache_policy"`
}

// LoadConfigFile reads a YAML config file into a Config.
//
// Recognized keys: app_name, base_url, digest_url, download_url, token,
// token_file, data_dir, artifact_name, cache_policy. token_file names a file
// whose whitespace-trimmed contents become the bearer token; it is ignored
// when token is set directly. cache_policy accepts
// "recompile-after-download" (default) or "reuse-compiled".
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: reading config file: %v", ErrStorage, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("%w: parsing config file %s: %v", ErrInvalidConfig, path, err)
	}

	policy, err := ParseCachePolicy(fc.CachePolicy)
	if err != nil {
		return Config{}, err
	}

	token := fc.Token
	if token == "" && fc.TokenFile != "" {
		raw, err := os.ReadFile(fc.TokenFile)
		if err != nil {
			return Config{}, fmt.Errorf("%w: reading token file: %v", ErrStorage, err)
		}
		token = strings.TrimSpace(string(raw))
	}

	return Config{
		AppName:      fc.AppName,
		BaseURL:      fc.BaseURL,
		DigestURL:    fc.DigestURL,
		DownloadURL:  fc.DownloadURL,
		Token:        token,
		DataDir:      fc.DataDir,
		ArtifactName: fc.ArtifactName,
		CachePolicy:  policy,
	}, nil
}
