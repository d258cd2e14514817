package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileBody    string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5000, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "uploads", cfg.Storage.Root)
				assert.Equal(t, []string{"csv", "xls", "xlsx"}, cfg.Storage.AllowedTypes)
				assert.Equal(t, DefaultAnalytics(), cfg.Analytics)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"TABINSIGHT_SERVER_PORT":                  "9000",
				"TABINSIGHT_STORAGE_ROOT":                 "/tmp/tabinsight",
				"TABINSIGHT_ANALYTICS_SEED":               "7",
				"TABINSIGHT_ANALYTICS_SENSITIVE_KEYWORDS": "name,phone",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, "/tmp/tabinsight", cfg.Storage.Root)
				assert.Equal(t, int64(7), cfg.Analytics.Seed)
				assert.Equal(t, []string{"name", "phone"}, cfg.Analytics.SensitiveKeywords)
			},
		},
		{
			name:     "yaml file overlays its keys",
			fileBody: "server:\n  port: 7000\nanalytics:\n  trees: 10\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Server.Port)
				assert.Equal(t, 10, cfg.Analytics.Trees)
				assert.Equal(t, 0.2, cfg.Analytics.TestRatio)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"TABINSIGHT_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "invalid test ratio",
			env:     map[string]string{"TABINSIGHT_ANALYTICS_TEST_RATIO": "1.5"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.fileBody != "" {
				path := filepath.Join(t.TempDir(), "tabinsight.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.fileBody), 0644))
				t.Setenv(EnvPrefix+"_CONFIG_FILE", path)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestStorageConfig(t *testing.T) {
	s := Default().Storage

	assert.Equal(t, filepath.Join("uploads", "primary"), s.PrimaryDir())
	assert.Equal(t, filepath.Join("uploads", "derived"), s.DerivedDir())
	assert.True(t, s.Allows("CSV"))
	assert.True(t, s.Allows(".xlsx"))
	assert.False(t, s.Allows("exe"))
}

func TestDefaultAnalyticsContract(t *testing.T) {
	a := DefaultAnalytics()

	assert.Equal(t, 30, a.SmallSampleRows)
	assert.Equal(t, 0.15, a.MissingRatioThreshold)
	assert.Equal(t, 1.5, a.SkewThreshold)
	assert.Equal(t, 15, a.CategoricalMaxDistinct)
	assert.Equal(t, 1000, a.OptionsLimit)
	assert.Equal(t, 0.3, a.ConfidenceCorrMin)
	assert.Equal(t, 45.0, a.DegenerateScale)
	assert.Equal(t, 98.75, a.ConfidenceClamp)
	assert.NoError(t, a.Validate())
}
