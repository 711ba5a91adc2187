package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_HOST", "redis.internal")
	os.Unsetenv("TEST_MISSING")

	cases := []struct {
		in   string
		want string
	}{
		{"host: ${TEST_HOST}", "host: redis.internal"},
		{"host: ${TEST_HOST:fallback}", "host: redis.internal"},
		{"host: ${TEST_MISSING:localhost}", "host: localhost"},
		{"port: ${TEST_MISSING:}", "port: "},
		// 未定义且无默认值时原样保留
		{"host: ${TEST_MISSING}", "host: ${TEST_MISSING}"},
		{"plain value", "plain value"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, expandEnv(tc.in), "input %q", tc.in)
	}
}

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", name), []byte(content), 0o644))
}

func TestLoadAppliesFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
app:
  name: emb-project-gen-api
llm:
  dashscope:
    model: ${DASHSCOPE_MODEL:qwen-plus}
    temperature: 0.3
`)
	t.Chdir(dir)
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "emb-project-gen-api", cfg.App.Name)
	assert.Equal(t, "qwen-plus", cfg.LLM.DashScope.Model)
	assert.InDelta(t, 0.3, cfg.LLM.DashScope.Temperature, 1e-9)
	// 文件未覆盖的字段取默认值
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, "rich", cfg.Features.Prompt.DefaultVariant)
	assert.Equal(t, 64, cfg.Features.Prompt.MaxThemeRunes)
	assert.Equal(t, 2000, cfg.Features.Prompt.MaxFunctionDescRunes)
}

func TestLoadEnvSpecificOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
server:
  http:
    port: 8080
`)
	writeConfig(t, dir, "config.production.yaml", `
server:
  http:
    port: 9090
`)
	t.Chdir(dir)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
}

func TestLoadMissingBaseConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configs/config.yaml")
}

func TestLoadPlaceholderDefaultUsed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
cache:
  redis:
    host: ${REDIS_HOST:cache.local}
`)
	t.Chdir(dir)
	t.Setenv("APP_ENV", "development")
	os.Unsetenv("REDIS_HOST")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cache.local", cfg.Cache.Redis.Host)
}
