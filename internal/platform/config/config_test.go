// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bahari/internal/platform/config"
)

/*
TestLoadDefaults verifies the storefront defaults with an empty environment.
*/
func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.APIBaseURL)
	assert.Equal(t, config.StorageSQLite, cfg.StorageDriver)
	assert.Zero(t, cfg.APIRateLimitRPS)
	assert.Nil(t, cfg.GeoFixedLat)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoadValidation checks driver and coordinate combinations.
*/
func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"memory", map[string]string{"STORAGE_DRIVER": "memory"}, false},
		{"redis_with_url", map[string]string{"STORAGE_DRIVER": "redis", "REDIS_URL": "redis://localhost:6379/0"}, false},
		{"redis_without_url", map[string]string{"STORAGE_DRIVER": "redis"}, true},
		{"unknown_driver", map[string]string{"STORAGE_DRIVER": "etcd"}, true},
		{"fixed_position", map[string]string{"GEO_FIXED_LAT": "-6.79", "GEO_FIXED_LON": "39.21"}, false},
		{"half_position", map[string]string{"GEO_FIXED_LAT": "-6.79"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg, err := config.Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}

/*
TestLoadSandbox verifies sandbox settings.
*/
func TestLoadSandbox(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SANDBOX_FIXED_OTP", "123456")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := config.LoadSandbox()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "123456", cfg.FixedOTP)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "bahari.co.tz", cfg.OriginSuffix())
}
