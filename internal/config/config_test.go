package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvDefault(t *testing.T) {
	t.Setenv("CFG_TEST_SET", "value")

	assert.Equal(t, "value", EnvDefault("CFG_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", EnvDefault("CFG_TEST_UNSET", "fallback"))
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "42")
	t.Setenv("CFG_TEST_BAD_INT", "forty-two")

	assert.Equal(t, 42, EnvIntDefault("CFG_TEST_INT", 7))
	assert.Equal(t, 7, EnvIntDefault("CFG_TEST_BAD_INT", 7))
	assert.Equal(t, 7, EnvIntDefault("CFG_TEST_UNSET", 7))
}

func TestEnvDurationDefault(t *testing.T) {
	t.Setenv("CFG_TEST_TTL", "45m")
	t.Setenv("CFG_TEST_BAD_TTL", "soon")

	assert.Equal(t, 45*time.Minute, EnvDurationDefault("CFG_TEST_TTL", time.Hour))
	assert.Equal(t, time.Hour, EnvDurationDefault("CFG_TEST_BAD_TTL", time.Hour))
	assert.Equal(t, time.Hour, EnvDurationDefault("CFG_TEST_UNSET", time.Hour))
}

func TestCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "localhost:9092", want: []string{"localhost:9092"}},
		{name: "spaced", in: " a:9092 , b:9092 ", want: []string{"a:9092", "b:9092"}},
		{name: "trailing comma", in: "a:9092,", want: []string{"a:9092"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, CSV(tt.in))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ALLOWED_ORIGIN", "")
	t.Setenv("JWT_TTL", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.Development())
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("JWT_SECRET", "sekret")
	t.Setenv("KAFKA_BROKERS", "kafka1:9092,kafka2:9092")

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.Development())
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, []byte("sekret"), cfg.JWTSecret)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, cfg.KafkaBrokers)
}
