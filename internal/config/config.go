package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents one packaging run's configuration. It is built once at
// startup and treated as read-only by every component afterwards.
type Config struct {
	// RosDistro is the ROS distribution the packages are released for
	// (e.g. "noetic", "jazzy"). Required.
	RosDistro string `yaml:"ros_distro"`
	// OsRelease is the target OS release codename (e.g. "focal", "noble").
	// Required.
	OsRelease string `yaml:"os_release"`

	// SourceDir is the directory searched for packages, relative to the
	// working directory unless absolute.
	SourceDir string `yaml:"source_dir,omitempty"`
	// Whitelist selects packages whose directory path matches this regex.
	Whitelist string `yaml:"whitelist,omitempty"`
	// Blacklist drops packages whose directory path matches this regex.
	// Empty means nothing is blacklisted.
	Blacklist string `yaml:"blacklist,omitempty"`

	// Descriptor is the marker file identifying a package directory.
	Descriptor string `yaml:"descriptor,omitempty"`

	// WorkDir holds the per-package staging workspaces.
	WorkDir string `yaml:"work_dir,omitempty"`
	// OutputDir collects every produced binary package.
	OutputDir string `yaml:"output_dir,omitempty"`

	// WorkspaceMode builds all selected packages together (catkin/colcon)
	// before per-package deb generation, so cross-package build
	// dependencies resolve.
	WorkspaceMode bool `yaml:"workspace_mode,omitempty"`

	// ArtifactGlobs are the filename patterns harvested from a package
	// workspace after a successful build.
	ArtifactGlobs []string `yaml:"artifact_globs,omitempty"`

	Commands CommandsConfig `yaml:"commands,omitempty"`
	History  HistoryConfig  `yaml:"history,omitempty"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
}

// CommandsConfig names the external tools the run drives. Defaults cover the
// standard ROS release toolchain; overrides exist mainly for tests and
// non-standard CI images.
type CommandsConfig struct {
	Generator    []string `yaml:"generator,omitempty"`     // packaging metadata generator
	DepInstall   []string `yaml:"dep_install,omitempty"`   // build dependency resolver
	DepUpdate    []string `yaml:"dep_update,omitempty"`    // dependency source updater (once per run)
	NativeBuild  []string `yaml:"native_build,omitempty"`  // binary package builder
	LegacyBuild  []string `yaml:"legacy_build,omitempty"`  // combined build, ROS 1 distros
	ModernBuild  []string `yaml:"modern_build,omitempty"`  // combined build, everything else
}

// HistoryConfig enables sqlite run-history recording when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig enables prometheus textfile output when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads configuration from the specified file, expanding environment
// variables in the YAML content. A .env file next to the process is loaded
// first so config files can reference CI-provided values.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just note it.
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return err
	}
	return godotenv.Load()
}

// ApplyDefaults fills every optional field that was left empty.
func (c *Config) ApplyDefaults() {
	if c.SourceDir == "" {
		c.SourceDir = "."
	}
	if c.Whitelist == "" {
		c.Whitelist = ".*"
	}
	if c.Descriptor == "" {
		c.Descriptor = "package.xml"
	}
	if c.WorkDir == "" {
		c.WorkDir = filepath.Join(os.TempDir(), "debbuilder")
	}
	if c.OutputDir == "" {
		c.OutputDir = "./packages"
	}
	if len(c.ArtifactGlobs) == 0 {
		c.ArtifactGlobs = []string{"*.deb", "*.ddeb"}
	}
	c.Commands.applyDefaults()
}

func (cc *CommandsConfig) applyDefaults() {
	if len(cc.Generator) == 0 {
		cc.Generator = []string{"bloom-generate", "rosdebian"}
	}
	if len(cc.DepInstall) == 0 {
		cc.DepInstall = []string{"rosdep", "install", "--from-paths", ".", "--ignore-src", "-y"}
	}
	if len(cc.DepUpdate) == 0 {
		cc.DepUpdate = []string{"rosdep", "update"}
	}
	if len(cc.NativeBuild) == 0 {
		cc.NativeBuild = []string{"fakeroot", "debian/rules", "binary"}
	}
	if len(cc.LegacyBuild) == 0 {
		cc.LegacyBuild = []string{"catkin_make_isolated", "--install"}
	}
	if len(cc.ModernBuild) == 0 {
		cc.ModernBuild = []string{"colcon", "build"}
	}
}

// Validate checks the required values. It runs before any filesystem work so
// a misconfigured run fails without touching the source tree.
func (c *Config) Validate() error {
	if c.RosDistro == "" {
		return fmt.Errorf("configuration error: ros_distro is required")
	}
	if c.OsRelease == "" {
		return fmt.Errorf("configuration error: os_release is required")
	}
	return nil
}

// legacyDistros are the ROS 1 distributions still built with catkin. Anything
// not listed here gets the colcon profile.
var legacyDistros = map[string]bool{
	"indigo":  true,
	"kinetic": true,
	"lunar":   true,
	"melodic": true,
	"noetic":  true,
}

// IsLegacyDistro reports whether the configured distro uses the legacy
// combined build tool.
func (c *Config) IsLegacyDistro() bool {
	return legacyDistros[c.RosDistro]
}
