// Package config holds the analyzer configuration: smearing switches and
// resolutions, output tree naming and selection cuts.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/fccbana/smear"
)

type Cuts struct {
	MinBMomentum float64 `yaml:"min_b_momentum"` // GeV
	MinBFlight   float64 `yaml:"min_b_flight"`   // mm, PV to SV
	MinTauFlight float64 `yaml:"min_tau_flight"` // mm, SV to the farthest TV
}

type Config struct {
	SmearPV         bool    `yaml:"smear_pv"`
	PVXResolution   float64 `yaml:"pv_x_resolution"`
	PVYResolution   float64 `yaml:"pv_y_resolution"`
	PVZResolution   float64 `yaml:"pv_z_resolution"`
	SmearSV         bool    `yaml:"smear_sv"`
	SVXResolution   float64 `yaml:"sv_x_resolution"`
	SVYResolution   float64 `yaml:"sv_y_resolution"`
	SVZResolution   float64 `yaml:"sv_z_resolution"`
	SmearTV         bool    `yaml:"smear_tv"`
	TVXResolution   float64 `yaml:"tv_x_resolution"`
	TVYResolution   float64 `yaml:"tv_y_resolution"`
	TVZResolution   float64 `yaml:"tv_z_resolution"`
	SmearMomentum   bool    `yaml:"smear_momentum"`
	MomXResolution  float64 `yaml:"momentum_x_resolution"`
	MomYResolution  float64 `yaml:"momentum_y_resolution"`
	MomZResolution  float64 `yaml:"momentum_z_resolution"`
	TreeName        string  `yaml:"tree_name"`
	TreeTitle       string  `yaml:"tree_title"`
	MCTruthTreeName string  `yaml:"mc_truth_tree_name"`
	MCTruthTitle    string  `yaml:"mc_truth_tree_title"`
	Cuts            Cuts    `yaml:"cuts"`
	ProgressEvery   int     `yaml:"progress_every"`
	Seed            uint64  `yaml:"seed"`
}

// Default returns the reference configuration: every quantity smeared,
// vertex resolutions of a few microns and 10 MeV on each momentum
// component.
func Default() Config {
	return Config{
		SmearPV:         true,
		PVXResolution:   0.0025,
		PVYResolution:   0.0025,
		PVZResolution:   0.0025,
		SmearSV:         true,
		SVXResolution:   0.007,
		SVYResolution:   0.007,
		SVZResolution:   0.007,
		SmearTV:         true,
		TVXResolution:   0.005,
		TVYResolution:   0.005,
		TVZResolution:   0.005,
		SmearMomentum:   true,
		MomXResolution:  0.01,
		MomYResolution:  0.01,
		MomZResolution:  0.01,
		TreeName:        "Events",
		TreeTitle:       "Events",
		MCTruthTreeName: "MCTruth",
		MCTruthTitle:    "MC Truth",
		Cuts: Cuts{
			MinBMomentum: 25,
			MinBFlight:   1,
			MinTauFlight: 0.5,
		},
		ProgressEvery: 100,
		Seed:          1,
	}
}

// Load reads a YAML file on top of the defaults, so a file only needs to
// list what it changes.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	for name, v := range map[string]float64{
		"pv_x_resolution":       c.PVXResolution,
		"pv_y_resolution":       c.PVYResolution,
		"pv_z_resolution":       c.PVZResolution,
		"sv_x_resolution":       c.SVXResolution,
		"sv_y_resolution":       c.SVYResolution,
		"sv_z_resolution":       c.SVZResolution,
		"tv_x_resolution":       c.TVXResolution,
		"tv_y_resolution":       c.TVYResolution,
		"tv_z_resolution":       c.TVZResolution,
		"momentum_x_resolution": c.MomXResolution,
		"momentum_y_resolution": c.MomYResolution,
		"momentum_z_resolution": c.MomZResolution,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("config: negative %s (%v)", name, v))
		}
	}
	if c.TreeName == "" || c.MCTruthTreeName == "" {
		errs = append(errs, errors.New("config: empty tree name"))
	}
	if c.TreeName == c.MCTruthTreeName {
		errs = append(errs, fmt.Errorf("config: smeared and MC truth trees share the name %q", c.TreeName))
	}
	if c.ProgressEvery < 0 {
		errs = append(errs, errors.New("config: negative progress_every"))
	}
	return errors.Join(errs...)
}

func (c Config) PVResolution() smear.Resolution {
	return smear.Resolution{X: c.PVXResolution, Y: c.PVYResolution, Z: c.PVZResolution}
}

func (c Config) SVResolution() smear.Resolution {
	return smear.Resolution{X: c.SVXResolution, Y: c.SVYResolution, Z: c.SVZResolution}
}

func (c Config) TVResolution() smear.Resolution {
	return smear.Resolution{X: c.TVXResolution, Y: c.TVYResolution, Z: c.TVZResolution}
}

func (c Config) MomentumResolution() smear.Resolution {
	return smear.Resolution{X: c.MomXResolution, Y: c.MomYResolution, Z: c.MomZResolution}
}
