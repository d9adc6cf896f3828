package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.ServerAddress)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "", cfg.GRPCAddress)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.EqualValues(t, 5*1024*1024, cfg.MaxBodyBytes)
	assert.Equal(t, "Yale", cfg.SourceTerm)
	assert.Equal(t, "Fale", cfg.TargetTerm)
	assert.False(t, cfg.RewriteMeta)
	assert.False(t, cfg.RewriteDataAttrs)
	assert.False(t, cfg.RewriteComments)
	assert.False(t, cfg.RewriteScripts)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("SOURCE_TERM", "Harvard")
	t.Setenv("TARGET_TERM", "Barvard")
	t.Setenv("REWRITE_META", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.ServerAddress)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "Harvard", cfg.SourceTerm)
	assert.Equal(t, "Barvard", cfg.TargetTerm)
	assert.True(t, cfg.RewriteMeta)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "localhost:9000")
	t.Setenv("FETCH_TIMEOUT", "3s")

	cfg, err := Load([]string{"-a", "127.0.0.1:7000", "-timeout", "1s", "-from", "Cornell", "-g", ":50051"})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.ServerAddress)
	assert.Equal(t, time.Second, cfg.FetchTimeout)
	assert.Equal(t, "Cornell", cfg.SourceTerm)
	assert.Equal(t, ":50051", cfg.GRPCAddress)
}

func TestLoad_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"port":"4000","fetch_timeout":"20s","rewrite_comments":true,"max_body_bytes":1024,"target_term":"Gale"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("TARGET_TERM", "Male")

	cfg, err := Load([]string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.ServerAddress)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.RewriteComments)
	assert.EqualValues(t, 1024, cfg.MaxBodyBytes)
	// переменная окружения важнее файла
	assert.Equal(t, "Male", cfg.TargetTerm)
}

func TestLoad_MissingJSONFile(t *testing.T) {
	_, err := Load([]string{"-config", filepath.Join(t.TempDir(), "nope.json")})
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("MAX_BODY_BYTES", "0")

	_, err := Load(nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{ServerAddress: ":3001", SourceTerm: "Yale", MaxBodyBytes: 1}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty address", mutate: func(c *Config) { c.ServerAddress = "" }},
		{name: "empty source", mutate: func(c *Config) { c.SourceTerm = "" }},
		{name: "zero body cap", mutate: func(c *Config) { c.MaxBodyBytes = 0 }},
		{name: "negative timeout", mutate: func(c *Config) { c.FetchTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
