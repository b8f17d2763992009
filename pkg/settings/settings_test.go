package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCliParams(t *testing.T) {
	p := NewCliParams()
	assert.Equal(t, int8(0), p.MinLogLevel)
	assert.False(t, p.Debug)
	assert.Equal(t, []string{"-"}, p.Inputs)
}

func TestVersionInformationDefaults(t *testing.T) {
	assert.Equal(t, "atable", CliBinaryName)
	assert.NotEmpty(t, VersionInformation.BuildVersion)
	assert.NotEmpty(t, VersionInformation.Commit)
}
