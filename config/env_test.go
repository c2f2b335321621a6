package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvironment(t *testing.T) {
	tests := []struct {
		ci, env string
		want    Environment
	}{
		{ci: "true", env: "production", want: CI},
		{env: "production", want: Production},
		{env: "test", want: Test},
		{env: "development", want: Development},
		{env: "PROD", want: Production},
		{env: "staging", want: Development},
	}

	for _, tt := range tests {
		t.Run(string(tt.want)+"/"+tt.env, func(t *testing.T) {
			t.Setenv("CI", tt.ci)
			t.Setenv("ENV", tt.env)
			assert.Equal(t, tt.want, GetEnvironment())
		})
	}
}

func TestGinMode(t *testing.T) {
	assert.Equal(t, "release", Production.GinMode())
	assert.Equal(t, "test", CI.GinMode())
	assert.Equal(t, "debug", Development.GinMode())
}
