package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "debbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "ros_distro: jazzy\nos_release: noble\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.SourceDir)
	assert.Equal(t, ".*", cfg.Whitelist)
	assert.Empty(t, cfg.Blacklist)
	assert.Equal(t, "package.xml", cfg.Descriptor)
	assert.Equal(t, []string{"*.deb", "*.ddeb"}, cfg.ArtifactGlobs)
	assert.Equal(t, []string{"bloom-generate", "rosdebian"}, cfg.Commands.Generator)
	assert.Equal(t, []string{"rosdep", "update"}, cfg.Commands.DepUpdate)
}

func TestLoadMissingRequiredValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no distro", "os_release: noble\n"},
		{"no release", "ros_distro: jazzy\n"},
		{"empty", "{}\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "configuration error")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("DEBBUILDER_TEST_DISTRO", "noetic")
	path := writeConfig(t, "ros_distro: ${DEBBUILDER_TEST_DISTRO}\nos_release: focal\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "noetic", cfg.RosDistro)
}

func TestIsLegacyDistro(t *testing.T) {
	legacy := Config{RosDistro: "noetic"}
	assert.True(t, legacy.IsLegacyDistro())

	modern := Config{RosDistro: "jazzy"}
	assert.False(t, modern.IsLegacyDistro())
}

func TestCommandOverridesSurvive(t *testing.T) {
	path := writeConfig(t, `
ros_distro: jazzy
os_release: noble
commands:
  generator: ["true"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"true"}, cfg.Commands.Generator)
	// Untouched commands still get defaults.
	assert.Equal(t, []string{"fakeroot", "debian/rules", "binary"}, cfg.Commands.NativeBuild)
}
