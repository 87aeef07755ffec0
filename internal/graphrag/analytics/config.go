package analytics

import (
	"fmt"
	"strings"
)

// Config holds the tunable weights and thresholds of every computation. The
// weights are heuristics without a calibration method and are exposed as
// configuration rather than constants.
type Config struct {
	Influence InfluenceConfig `yaml:"influence" json:"influence" mapstructure:"influence"`
	Bridge    BridgeConfig    `yaml:"bridge" json:"bridge" mapstructure:"bridge"`
	Hidden    HiddenConfig    `yaml:"hidden" json:"hidden" mapstructure:"hidden"`
	Hotspot   HotspotConfig   `yaml:"hotspot" json:"hotspot" mapstructure:"hotspot"`
	Risk      RiskConfig      `yaml:"risk" json:"risk" mapstructure:"risk"`
}

// InfluenceConfig weights incident activity against network reach.
type InfluenceConfig struct {
	IncidentWeight     float64 `yaml:"incident_weight" json:"incident_weight" mapstructure:"incident_weight"`
	AcquaintanceWeight float64 `yaml:"acquaintance_weight" json:"acquaintance_weight" mapstructure:"acquaintance_weight"`
}

// BridgeConfig sets the minimum number of organizations a bridge must reach.
// Values below 2 are raised to 2.
type BridgeConfig struct {
	MinOrganizations int `yaml:"min_organizations" json:"min_organizations" mapstructure:"min_organizations"`
}

// HiddenConfig sets the minimum number of shared incidents for a pair.
type HiddenConfig struct {
	MinSharedIncidents int `yaml:"min_shared_incidents" json:"min_shared_incidents" mapstructure:"min_shared_incidents"`
}

// HotspotConfig controls density-based clustering of incident coordinates.
type HotspotConfig struct {
	// Radius is the neighbourhood radius in degrees of latitude/longitude.
	Radius float64 `yaml:"radius" json:"radius" mapstructure:"radius"`
	// MinPoints is the neighbourhood size, including the point itself, that
	// makes a point a core point. Clusters smaller than this are dropped.
	MinPoints int `yaml:"min_points" json:"min_points" mapstructure:"min_points"`
	// MinIncidents is the number of located incidents below which no
	// clustering is attempted.
	MinIncidents int `yaml:"min_incidents" json:"min_incidents" mapstructure:"min_incidents"`
}

// RiskConfig weights the components of the 0-100 risk score and sets the
// classification bands.
type RiskConfig struct {
	VolumeWeight   float64  `yaml:"volume_weight" json:"volume_weight" mapstructure:"volume_weight"`
	VolumeCap      float64  `yaml:"volume_cap" json:"volume_cap" mapstructure:"volume_cap"`
	SevereWeight   float64  `yaml:"severe_weight" json:"severe_weight" mapstructure:"severe_weight"`
	UnsolvedWeight float64  `yaml:"unsolved_weight" json:"unsolved_weight" mapstructure:"unsolved_weight"`
	SevereLevels   []string `yaml:"severe_levels" json:"severe_levels" mapstructure:"severe_levels"`
	CriticalAt     float64  `yaml:"critical_at" json:"critical_at" mapstructure:"critical_at"`
	HighAt         float64  `yaml:"high_at" json:"high_at" mapstructure:"high_at"`
	MediumAt       float64  `yaml:"medium_at" json:"medium_at" mapstructure:"medium_at"`
}

// DefaultConfig returns the default weights and thresholds.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields. Weights are only defaulted when every
// weight of a group is zero, so an explicit zero weight survives.
func (c *Config) ApplyDefaults() {
	if c.Influence.IncidentWeight == 0 && c.Influence.AcquaintanceWeight == 0 {
		c.Influence.IncidentWeight = 0.5
		c.Influence.AcquaintanceWeight = 0.5
	}
	if c.Bridge.MinOrganizations < 2 {
		c.Bridge.MinOrganizations = 2
	}
	if c.Hidden.MinSharedIncidents == 0 {
		c.Hidden.MinSharedIncidents = 2
	}
	if c.Hotspot.Radius == 0 {
		c.Hotspot.Radius = 0.005
	}
	if c.Hotspot.MinPoints == 0 {
		c.Hotspot.MinPoints = 5
	}
	if c.Hotspot.MinIncidents == 0 {
		c.Hotspot.MinIncidents = 15
	}
	r := &c.Risk
	if r.VolumeWeight == 0 && r.SevereWeight == 0 && r.UnsolvedWeight == 0 {
		r.VolumeWeight = 5
		r.SevereWeight = 40
		r.UnsolvedWeight = 30
	}
	if r.VolumeCap == 0 {
		r.VolumeCap = 30
	}
	if len(r.SevereLevels) == 0 {
		r.SevereLevels = []string{"severe", "high", "critical"}
	}
	if r.CriticalAt == 0 && r.HighAt == 0 && r.MediumAt == 0 {
		r.CriticalAt = 70
		r.HighAt = 50
		r.MediumAt = 30
	}
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	if c.Influence.IncidentWeight < 0 || c.Influence.AcquaintanceWeight < 0 {
		return fmt.Errorf("influence weights must not be negative")
	}
	if c.Hidden.MinSharedIncidents < 1 {
		return fmt.Errorf("hidden min_shared_incidents must be at least 1, got %d", c.Hidden.MinSharedIncidents)
	}
	if c.Hotspot.Radius <= 0 {
		return fmt.Errorf("hotspot radius must be positive, got %g", c.Hotspot.Radius)
	}
	if c.Hotspot.MinPoints < 1 {
		return fmt.Errorf("hotspot min_points must be at least 1, got %d", c.Hotspot.MinPoints)
	}
	r := c.Risk
	if r.VolumeWeight < 0 || r.SevereWeight < 0 || r.UnsolvedWeight < 0 || r.VolumeCap < 0 {
		return fmt.Errorf("risk weights must not be negative")
	}
	if !(r.CriticalAt >= r.HighAt && r.HighAt >= r.MediumAt) {
		return fmt.Errorf("risk bands must satisfy critical_at >= high_at >= medium_at, got %g/%g/%g",
			r.CriticalAt, r.HighAt, r.MediumAt)
	}
	return nil
}

func (r RiskConfig) isSevere(level string) bool {
	for _, s := range r.SevereLevels {
		if strings.EqualFold(strings.TrimSpace(level), s) {
			return true
		}
	}
	return false
}
