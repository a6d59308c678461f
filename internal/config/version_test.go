package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionFromEnv(t *testing.T) {
	t.Setenv("APP_VERSION", " 1.4.2 ")
	assert.Equal(t, "1.4.2", GetVersion())
}

func TestGetVersionFallback(t *testing.T) {
	t.Setenv("APP_VERSION", "")
	// test binaries carry no module version
	assert.Equal(t, fallbackVersion, GetVersion())
}
