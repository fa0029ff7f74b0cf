package scenario

import (
	"os"

	"gopkg.in/yaml.v3"

	"outbreaklab/internal/models"
)

const (
	DefaultHorizon = 365.0
	DefaultSamples = 365
)

// Config is the YAML-loadable description of one simulation run.
type Config struct {
	Model      string         `yaml:"model"`
	Integrator string         `yaml:"integrator"`
	Horizon    float64        `yaml:"horizon"`
	Samples    int            `yaml:"samples"`
	Epidemic   EpidemicConfig `yaml:"epidemic"`
	Kinetics   KineticsConfig `yaml:"kinetics"`
}

// EpidemicConfig mirrors models.EpidemicParams plus the seeded compartments.
type EpidemicConfig struct {
	N                float64 `yaml:"population"`
	BetaSH           float64 `yaml:"beta_s_h"`
	BetaSNH          float64 `yaml:"beta_s_nh"`
	BetaAUK          float64 `yaml:"beta_a_uk"`
	BetaAK           float64 `yaml:"beta_a_k"`
	Gamma            float64 `yaml:"gamma"`
	GammaHosp        float64 `yaml:"gamma_hosp"`
	DeathRateS       float64 `yaml:"death_rate_s"`
	DeathRateHosp    float64 `yaml:"death_rate_hosp"`
	NatDeath         float64 `yaml:"nat_death"`
	NatBirth         float64 `yaml:"nat_birth"`
	EToIS            float64 `yaml:"e_to_is"`
	EToIA            float64 `yaml:"e_to_ia"`
	ReturnRate       float64 `yaml:"return_rate"`
	SocialDistancing float64 `yaml:"social_distancing"`
	VaccineDay       float64 `yaml:"vaccine_day"`
	VaccineRate      float64 `yaml:"vaccine_rate"`
	VaccineEff       float64 `yaml:"vaccine_eff"`
	TestGrowth       float64 `yaml:"test_growth"`
	HospRate         float64 `yaml:"hosp_rate"`
	HealthCapacity   float64 `yaml:"health_capacity"`
	OverloadDeath    float64 `yaml:"overload_death"`
	OverloadRecov    float64 `yaml:"overload_recov"`

	InitExposed      float64 `yaml:"init_exposed"`
	InitAsympUnknown float64 `yaml:"init_asymp_unknown"`
	InitAsympKnown   float64 `yaml:"init_asymp_known"`
	InitSymptomatic  float64 `yaml:"init_symptomatic"`
	InitHospitalized float64 `yaml:"init_hospitalized"`
	InitRecovered    float64 `yaml:"init_recovered"`
	InitDead         float64 `yaml:"init_dead"`
}

// KineticsConfig holds the reaction constants of the A -> B -> C demo.
type KineticsConfig struct {
	KAB     float64 `yaml:"k_ab"`
	KBC     float64 `yaml:"k_bc"`
	OrderAB float64 `yaml:"order_ab"`
	OrderBC float64 `yaml:"order_bc"`
	InitA   float64 `yaml:"init_a"`
	Horizon float64 `yaml:"horizon"`
	Samples int     `yaml:"samples"`
}

func Default() *Config {
	p := models.DefaultEpidemicParams()
	return &Config{
		Model:      "epidemic",
		Integrator: "rk4",
		Horizon:    DefaultHorizon,
		Samples:    DefaultSamples,
		Epidemic: EpidemicConfig{
			N:                p.N,
			BetaSH:           p.BetaSH,
			BetaSNH:          p.BetaSNH,
			BetaAUK:          p.BetaAUK,
			BetaAK:           p.BetaAK,
			Gamma:            p.Gamma,
			GammaHosp:        p.GammaHosp,
			DeathRateS:       p.DeathRateS,
			DeathRateHosp:    p.DeathRateHosp,
			NatDeath:         p.NatDeath,
			NatBirth:         p.NatBirth,
			EToIS:            p.EToIS,
			EToIA:            p.EToIA,
			ReturnRate:       p.ReturnRate,
			SocialDistancing: p.SocialDistancing,
			VaccineDay:       p.VaccineDay,
			VaccineRate:      p.VaccineRate,
			VaccineEff:       p.VaccineEff,
			TestGrowth:       p.TestGrowth,
			HospRate:         p.HospRate,
			HealthCapacity:   p.HealthCapacity,
			OverloadDeath:    p.OverloadDeath,
			OverloadRecov:    p.OverloadRecov,
			InitAsympUnknown: 1,
			InitSymptomatic:  1,
		},
		Kinetics: KineticsConfig{
			KAB:     3.0,
			KBC:     1.0,
			OrderAB: 1,
			OrderBC: 1,
			InitA:   1.0,
			Horizon: 8.0,
			Samples: 200,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EpidemicParams converts the config block into the immutable rate bundle.
func (c *Config) EpidemicParams() models.EpidemicParams {
	e := c.Epidemic
	return models.EpidemicParams{
		N:                e.N,
		BetaSH:           e.BetaSH,
		BetaSNH:          e.BetaSNH,
		BetaAUK:          e.BetaAUK,
		BetaAK:           e.BetaAK,
		Gamma:            e.Gamma,
		GammaHosp:        e.GammaHosp,
		DeathRateS:       e.DeathRateS,
		DeathRateHosp:    e.DeathRateHosp,
		NatDeath:         e.NatDeath,
		NatBirth:         e.NatBirth,
		EToIS:            e.EToIS,
		EToIA:            e.EToIA,
		ReturnRate:       e.ReturnRate,
		SocialDistancing: e.SocialDistancing,
		VaccineDay:       e.VaccineDay,
		VaccineRate:      e.VaccineRate,
		VaccineEff:       e.VaccineEff,
		TestGrowth:       e.TestGrowth,
		HospRate:         e.HospRate,
		HealthCapacity:   e.HealthCapacity,
		OverloadDeath:    e.OverloadDeath,
		OverloadRecov:    e.OverloadRecov,
	}
}
