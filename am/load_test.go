package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDirPerm  = 0o755
	testFilePerm = 0o644
)

// isolate points HOME and the working directory at fresh temp dirs so only
// the files a test writes are merged.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(project)
	return home, project
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), testDirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), testFilePerm))
}

func TestLoad_Precedence(t *testing.T) {
	home, project := isolate(t)

	writeConfig(t, filepath.Join(home, ConfigDirName, ConfigFileName), `
[layout]
charge = -300
gravity = 0.2

[server]
port = 9001
`)
	writeConfig(t, filepath.Join(project, ConfigFileName), `
[layout]
charge = -120
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, -120.0, cfg.Layout.Charge, "project file wins over user file")
	assert.Equal(t, 0.2, cfg.Layout.Gravity)
	assert.Equal(t, 9001, cfg.GetServerPort())

	charge, err := Lookup("layout.charge")
	require.NoError(t, err)
	assert.Equal(t, SourceProject, charge.Source)
	assert.Contains(t, charge.SourcePath, project)

	gravity, err := Lookup("layout.gravity")
	require.NoError(t, err)
	assert.Equal(t, SourceUser, gravity.Source)

	friction, err := Lookup("layout.friction")
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, friction.Source)
}

func TestLoad_ProjectConfigFoundFromSubdirectory(t *testing.T) {
	_, project := isolate(t)
	writeConfig(t, filepath.Join(project, ConfigFileName), "[palette]\nsize = 5\n")

	sub := filepath.Join(project, "a", "b")
	require.NoError(t, os.MkdirAll(sub, testDirPerm))
	t.Chdir(sub)

	assert.Equal(t, filepath.Join(project, ConfigFileName), FindProjectConfig())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Palette.Size)
}

func TestLoad_EnvironmentOverridesFiles(t *testing.T) {
	_, project := isolate(t)
	writeConfig(t, filepath.Join(project, ConfigFileName), "[layout]\ncharge = -120\n")
	t.Setenv("RESULTVIZ_LAYOUT_CHARGE", "-50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, -50.0, cfg.Layout.Charge)

	info, err := Lookup("layout.charge")
	require.NoError(t, err)
	assert.Equal(t, SourceEnvironment, info.Source)
	assert.Equal(t, "RESULTVIZ_LAYOUT_CHARGE", info.SourcePath)
}

func TestLoad_Cached(t *testing.T) {
	isolate(t)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)

	Reset()
	third, err := Load()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestIntrospection_MasksPassword(t *testing.T) {
	isolate(t)
	t.Setenv("RESULTVIZ_NEO4J_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Neo4j.Password)

	info, err := Lookup("neo4j.password")
	require.NoError(t, err)
	assert.Equal(t, "********", info.Value)
}

func TestLookup_Unknown(t *testing.T) {
	isolate(t)
	_, err := Lookup("layout.nope")
	assert.Error(t, err)
}

func TestGetConfigSummary(t *testing.T) {
	_, project := isolate(t)
	writeConfig(t, filepath.Join(project, ConfigFileName), "[palette]\nsize = 7\n")

	summary := GetConfigSummary()
	sources := summary["sources"].(map[string]int)
	assert.Equal(t, 1, sources[string(SourceProject)])
	assert.Positive(t, sources[string(SourceDefault)])
}

func TestActiveConfigPath(t *testing.T) {
	home, project := isolate(t)
	assert.Empty(t, ActiveConfigPath())

	user := filepath.Join(home, ConfigDirName, ConfigFileName)
	writeConfig(t, user, "")
	assert.Equal(t, user, ActiveConfigPath())

	writeConfig(t, filepath.Join(project, ConfigFileName), "")
	assert.Equal(t, filepath.Join(project, ConfigFileName), ActiveConfigPath())
}
