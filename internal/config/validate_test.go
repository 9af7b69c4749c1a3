package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var c Config
	c.App.Port = 38471
	c.Owner.ID = "local"
	c.Providers.Contacts.BaseURL = "https://api.hunter.io/v2"
	c.Providers.AllowSynthetic = true
	c.Extraction.Departments = []string{"it", "management"}
	return c
}

func TestNormalizeAndValidateOK(t *testing.T) {
	out, vr := NormalizeAndValidate(validConfig())
	assert.True(t, vr.OK())
	assert.Equal(t, []string{"it", "management"}, out.Extraction.Departments)
}

func TestValidateRejects(t *testing.T) {
	c := validConfig()
	c.App.Port = 0
	_, vr := NormalizeAndValidate(c)
	assert.False(t, vr.OK())

	c = validConfig()
	c.Owner.ID = "  "
	_, vr = NormalizeAndValidate(c)
	assert.False(t, vr.OK())

	c = validConfig()
	c.Providers.Contacts.BaseURL = "not a url"
	_, vr = NormalizeAndValidate(c)
	assert.False(t, vr.OK())
}

func TestNormalizeDedupesDepartments(t *testing.T) {
	c := validConfig()
	c.Extraction.Departments = []string{" IT ", "it", "Management", ""}
	out, vr := NormalizeAndValidate(c)
	require.True(t, vr.OK())
	assert.Equal(t, []string{"it", "management"}, out.Extraction.Departments)
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := validConfig()
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.App.Port, loaded.App.Port)
	assert.Equal(t, cfg.Owner.ID, loaded.Owner.ID)

	// A second save keeps a .bak of the previous file.
	cfg.App.Port = 38472
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.App.Port = -1
	err := SaveAtomic(filepath.Join(t.TempDir(), "config.yml"), cfg)
	assert.Error(t, err)
}

func TestLoadDomainOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "domains.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
known_domains:
  "Initech": "initech.io"
  "  Hooli  ": "HOOLI.xyz"
`), 0o644))

	got, err := LoadDomainOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, "initech.io", got["initech"])
	assert.Equal(t, "hooli.xyz", got["hooli"])

	// Missing file is not an error.
	got, err = LoadDomainOverrides(filepath.Join(dir, "absent.yml"))
	require.NoError(t, err)
	assert.Nil(t, got)
}
