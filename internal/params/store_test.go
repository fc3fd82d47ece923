package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parameters.yaml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return NewStore(path)
}

func TestStoreDefaults_MissingFile(t *testing.T) {
	s := newTestStore(t, "")

	v, warnings := s.Defaults()
	assert.Empty(t, warnings)
	assert.Equal(t, Defaults(), v)
}

func TestStoreDefaults_OverridesAndWarnings(t *testing.T) {
	s := newTestStore(t, `
default_parameters:
  ht_initial_temp: 40
  ht_heater_power: "2500"
  ct_final_temp: lukewarm
`)

	v, warnings := s.Defaults()
	assert.Equal(t, 40.0, v["ht_initial_temp"])
	assert.Equal(t, 2500.0, v["ht_heater_power"])
	assert.Equal(t, 50.0, v["ct_final_temp"])
	require.Len(t, warnings, 1)
}

func TestStoreDefaults_MalformedFile(t *testing.T) {
	s := newTestStore(t, "default_parameters: [unterminated\n")

	v, warnings := s.Defaults()
	require.Len(t, warnings, 1)
	assert.Equal(t, Defaults(), v)
}

func TestStoreSaveLoad(t *testing.T) {
	s := newTestStore(t, "")

	v := Defaults()
	v["br_brewing_flow_rate"] = 7.5
	v["not_a_field"] = 1
	require.NoError(t, s.Save("espresso", v))
	require.NoError(t, s.Save("lungo", Defaults()))

	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"espresso", "lungo"}, names)

	got, warnings, err := s.Load("espresso")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 7.5, got["br_brewing_flow_rate"])
	assert.NotContains(t, got, "not_a_field")

	// The first save also writes the default table.
	defaults, warnings := s.Defaults()
	assert.Empty(t, warnings)
	assert.Equal(t, Defaults(), defaults)
}

func TestStoreSave_KeepsExistingDefaults(t *testing.T) {
	s := newTestStore(t, "default_parameters:\n  ht_initial_temp: 33\n")

	require.NoError(t, s.Save("a", Defaults()))

	v, _ := s.Defaults()
	assert.Equal(t, 33.0, v["ht_initial_temp"])
}

func TestStoreLoad_Errors(t *testing.T) {
	s := newTestStore(t, "")

	_, _, err := s.Load("missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, _, err = s.Load("../etc")
	assert.ErrorIs(t, err, ErrInvalidSnapshotName)

	assert.ErrorIs(t, s.Save("has space", Defaults()), ErrInvalidSnapshotName)
}
