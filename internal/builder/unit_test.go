package builder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/debbuilder/internal/config"
	"git.home.luguber.info/inful/debbuilder/internal/discovery"
	"git.home.luguber.info/inful/debbuilder/internal/executor"
	"git.home.luguber.info/inful/debbuilder/internal/report"
	"git.home.luguber.info/inful/debbuilder/internal/workspace"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		RosDistro: "jazzy",
		OsRelease: "noble",
		WorkDir:   filepath.Join(t.TempDir(), "work"),
		OutputDir: filepath.Join(t.TempDir(), "out"),
	}
	cfg.ApplyDefaults()
	return cfg
}

func sourceUnit(t *testing.T, name string) discovery.Unit {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.xml"), []byte("<package/>\n"), 0o600))
	return discovery.Unit{Path: dir, Name: name}
}

// toolchainFake simulates the external tools' filesystem side effects:
// the generator leaves a debian/ directory, the native builder drops a .deb.
func toolchainFake(produceDeb bool) *executor.Fake {
	fake := executor.NewFake()
	fake.OnRun = func(c executor.Call) error {
		switch c.Argv[0] {
		case "bloom-generate":
			return os.MkdirAll(filepath.Join(c.Dir, "debian"), 0o750)
		case "fakeroot":
			if produceDeb {
				name := filepath.Base(c.Dir) + "_1.0.0.deb"
				return os.WriteFile(filepath.Join(c.Dir, name), []byte("deb"), 0o640)
			}
		}
		return nil
	}
	return fake
}

func newUnitBuilder(cfg *config.Config, fake *executor.Fake) *UnitBuilder {
	return NewUnitBuilder(cfg, fake, workspace.NewStager(cfg.WorkDir))
}

func TestBuildSuccessCollectsArtifacts(t *testing.T) {
	cfg := testConfig(t)
	fake := toolchainFake(true)
	ub := newUnitBuilder(cfg, fake)

	res := ub.Build(sourceUnit(t, "proj_core"), "")
	require.NoError(t, res.Err)

	require.Len(t, res.Artifacts, 1)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "proj_core_1.0.0.deb"))
}

func TestBuildPassesPlatformIdentifiersToGenerator(t *testing.T) {
	cfg := testConfig(t)
	fake := toolchainFake(true)
	ub := newUnitBuilder(cfg, fake)

	_ = ub.Build(sourceUnit(t, "proj_core"), "")

	var generatorCall *executor.Call
	for _, c := range fake.Calls() {
		if c.Argv[0] == "bloom-generate" {
			call := c
			generatorCall = &call
		}
	}
	require.NotNil(t, generatorCall)
	line := generatorCall.CommandLine()
	assert.Contains(t, line, "--os-version noble")
	assert.Contains(t, line, "--ros-distro jazzy")
}

func TestBuildGenerationFailure(t *testing.T) {
	cfg := testConfig(t)
	fake := executor.NewFake()
	fake.Fail("bloom-generate", errors.New("exit status 1"))
	ub := newUnitBuilder(cfg, fake)

	res := ub.Build(sourceUnit(t, "proj_core"), "")

	assert.Equal(t, report.KindGenerationFailed, res.Kind)
	var genErr *GenerationError
	require.ErrorAs(t, res.Err, &genErr)
	assert.Equal(t, "proj_core", genErr.Unit)

	// Nothing past the failed step runs.
	assert.False(t, fake.CalledWith("fakeroot"))
}

func TestBuildMissingInstructionsDirectory(t *testing.T) {
	cfg := testConfig(t)
	// Generator exits zero but writes nothing.
	fake := executor.NewFake()
	ub := newUnitBuilder(cfg, fake)

	res := ub.Build(sourceUnit(t, "proj_core"), "")

	assert.Equal(t, report.KindMissingInstructions, res.Kind)
	var missing *MissingInstructionsError
	require.ErrorAs(t, res.Err, &missing)
	assert.False(t, fake.CalledWith("fakeroot"))
}

func TestBuildDependencyFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	fake := toolchainFake(true)
	fake.Fail("rosdep", errors.New("could not resolve"))
	ub := newUnitBuilder(cfg, fake)

	res := ub.Build(sourceUnit(t, "proj_core"), "")

	require.NoError(t, res.Err, "dependency resolution failure must only warn")
	assert.Len(t, res.Artifacts, 1)
}

func TestBuildNativeBuildFailure(t *testing.T) {
	cfg := testConfig(t)
	fake := toolchainFake(false)
	fake.Fail("fakeroot", errors.New("exit status 2"))
	ub := newUnitBuilder(cfg, fake)

	res := ub.Build(sourceUnit(t, "proj_core"), "")

	assert.Equal(t, report.KindNativeBuildFailed, res.Kind)
	var nbErr *NativeBuildError
	require.ErrorAs(t, res.Err, &nbErr)
}

func TestBuildZeroArtifactsDespiteSuccess(t *testing.T) {
	cfg := testConfig(t)
	// Native build exits zero but places no packages anywhere.
	fake := toolchainFake(false)
	ub := newUnitBuilder(cfg, fake)

	res := ub.Build(sourceUnit(t, "proj_core"), "")

	assert.Equal(t, report.KindNoArtifacts, res.Kind)
	var noArt *NoArtifactsError
	require.ErrorAs(t, res.Err, &noArt)
}

func TestBuildUsesPreStagedDirWhenGiven(t *testing.T) {
	cfg := testConfig(t)
	fake := toolchainFake(true)
	ub := newUnitBuilder(cfg, fake)

	pre := filepath.Join(t.TempDir(), "ws", "src", "proj_core")
	require.NoError(t, os.MkdirAll(pre, 0o750))

	res := ub.Build(discovery.Unit{Path: pre, Name: "proj_core"}, pre)
	require.NoError(t, res.Err)

	for _, c := range fake.Calls() {
		assert.Equal(t, pre, c.Dir, "all steps must run in the pre-staged directory")
	}
}

func TestArtifactCollisionLastWriteWins(t *testing.T) {
	outDir := t.TempDir()
	srcA := filepath.Join(t.TempDir(), "pkg_1.0.deb")
	srcB := filepath.Join(t.TempDir(), "pkg_1.0.deb")
	require.NoError(t, os.WriteFile(srcA, []byte("from-a"), 0o640))
	require.NoError(t, os.WriteFile(srcB, []byte("from-b"), 0o640))

	_, err := copyArtifacts([]string{srcA}, outDir)
	require.NoError(t, err)
	_, err = copyArtifacts([]string{srcB}, outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "pkg_1.0.deb"))
	require.NoError(t, err)
	assert.Equal(t, "from-b", string(data))
}

func TestCollectArtifactsMatchesGlobsRecursively(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "deep", "er"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.deb"), nil, 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(root, "deep", "er", "b.ddeb"), nil, 0o640))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o640))

	found, err := collectArtifacts(root, []string{"*.deb", "*.ddeb"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
}
