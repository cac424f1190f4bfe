package config

import (
	"sort"

	"github.com/san-kum/heatsim/internal/profile"
)

var hotMiddle = InitialConfig{Profile: profile.DefaultName, Peak: profile.DefaultPeak}

var Presets = map[string]*Config{
	"default": {
		Length: 10, Duration: 100, Points: 100, Steps: 2000, Alpha: 0.01,
		SnapshotEvery: 100, Initial: hotMiddle,
	},
	"small": {
		Length: 10, Duration: 100, Points: 5, Steps: 3, Alpha: 0.01,
		SnapshotEvery: 1, Initial: InitialConfig{Values: []float64{0, 100, 100, 100, 0}},
	},
	"fine": {
		Length: 10, Duration: 100, Points: 200, Steps: 10000, Alpha: 0.01,
		SnapshotEvery: 500, Initial: hotMiddle,
	},
	"warm_ends": {
		Length: 10, Duration: 200, Points: 100, Steps: 4000, Alpha: 0.02,
		Left: 50, Right: 25, SnapshotEvery: 400,
		Initial: InitialConfig{Profile: "uniform", Peak: 0},
	},
	"gaussian": {
		Length: 1, Duration: 0.5, Points: 51, Steps: 2500, Alpha: 0.1,
		SnapshotEvery: 250, Initial: InitialConfig{Profile: "gaussian", Peak: 100},
	},
	"unstable": {
		Length: 10, Duration: 100, Points: 100, Steps: 150, Alpha: 0.01,
		SnapshotEvery: 15, Initial: hotMiddle,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.Initial.Values = append([]float64(nil), cfg.Initial.Values...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
