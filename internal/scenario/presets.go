package scenario

// Presets are named what-if scenarios per model. Each is built on top of the
// defaults so only the deviating knobs are listed.
var Presets = map[string]map[string]func(*Config){
	"epidemic": {
		// Reference outbreak: no interventions beyond day-200 vaccination.
		"baseline": func(c *Config) {},
		// Community contact cut to 40% from day one.
		"distancing": func(c *Config) {
			c.Epidemic.SocialDistancing = 0.4
		},
		// Vaccine arrives on day 60 instead of day 200.
		"early-vaccine": func(c *Config) {
			c.Epidemic.VaccineDay = 60
		},
		// Smaller hospital system under a more contagious strain.
		"surge": func(c *Config) {
			c.Epidemic.BetaAUK = 0.5
			c.Epidemic.BetaSNH = 0.2
			c.Epidemic.HealthCapacity = 60
		},
		// No testing ramp-up: asymptomatic cases stay unknown.
		"no-testing": func(c *Config) {
			c.Epidemic.TestGrowth = 0
		},
	},
	"kinetics": {
		"default": func(c *Config) {},
		// Slow first step becomes rate limiting; B barely accumulates.
		"slow-first-step": func(c *Config) {
			c.Kinetics.KAB = 0.5
			c.Kinetics.KBC = 2.0
		},
		"second-order": func(c *Config) {
			c.Kinetics.OrderAB = 2
		},
	},
}

// GetPreset returns a fully populated config for the named preset, or nil
// if the model or preset does not exist.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	apply, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	cfg := Default()
	cfg.Model = model
	apply(cfg)
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
