package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibelcooper/fccbana/smear"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, smear.Resolution{X: 0.007, Y: 0.007, Z: 0.007}, cfg.SVResolution())
	assert.Equal(t, 25.0, cfg.Cuts.MinBMomentum)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ana.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
smear_pv: false
tv_z_resolution: 0.02
tree_name: Smeared
cuts:
  min_tau_flight: 0.8
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.SmearPV)
	assert.True(t, cfg.SmearSV)
	assert.Equal(t, 0.02, cfg.TVResolution().Z)
	assert.Equal(t, 0.005, cfg.TVResolution().X)
	assert.Equal(t, "Smeared", cfg.TreeName)
	assert.Equal(t, 0.8, cfg.Cuts.MinTauFlight)
	assert.Equal(t, 1.0, cfg.Cuts.MinBFlight)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.MomYResolution = -1
	assert.ErrorContains(t, cfg.Validate(), "momentum_y_resolution")

	cfg = Default()
	cfg.MCTruthTreeName = cfg.TreeName
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.TreeName = ""
	assert.ErrorContains(t, cfg.Validate(), "empty tree name")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cuts: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
