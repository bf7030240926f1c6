package wmediumd

//
// YAML configuration (spec.md §4.7).
//
// Grounded on doismellburning-samoyed/src/deviceid.go's small, flat
// gopkg.in/yaml.v3 structs decoded straight off an *os.File, and on
// internal/optional.Value[T] (copied from the teacher's cmd/internal/
// optional) for the fields a config entry may omit.
//

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/msft-mirror-aosp/platform.external.wmediumd/internal/optional"
)

// StationConfig describes one station entry in the config file.
type StationConfig struct {
	HWAddr string `yaml:"hwaddr"`

	X  optional.Value[float64] `yaml:"x"`
	Y  optional.Value[float64] `yaml:"y"`
	DX optional.Value[float64] `yaml:"dx"`
	DY optional.Value[float64] `yaml:"dy"`

	TxPowerDBm optional.Value[float64] `yaml:"tx_power"`
	Frequency  optional.Value[int]     `yaml:"frequency"`

	LCI   optional.Value[string] `yaml:"lci"`
	Civic optional.Value[string] `yaml:"civic"`
}

// LinkOverrideConfig pins the SNR for one ordered pair of stations
// (spec.md §4.3: "per-link SNR override pinning").
type LinkOverrideConfig struct {
	From  string  `yaml:"from"`
	To    string  `yaml:"to"`
	SNRDB float64 `yaml:"snr"`
}

// MediumConfig selects and parameterizes the active path-loss model
// (spec.md §4.3).
type MediumConfig struct {
	Model string `yaml:"model"`

	FrequencyMHz optional.Value[int] `yaml:"frequency"`

	Exponent           optional.Value[float64] `yaml:"exponent"`
	ReferenceDistanceM optional.Value[float64] `yaml:"reference_distance"`
	ReferenceLossDB    optional.Value[float64] `yaml:"reference_loss"`
	ShadowingStdDevDB  optional.Value[float64] `yaml:"shadowing_stddev"`

	ITUPowerLossCoeff         optional.Value[float64] `yaml:"itu_power_loss_coeff"`
	ITUFloorPenetrationLossDB optional.Value[float64] `yaml:"itu_floor_penetration_loss"`
	NumFloors                 optional.Value[int]     `yaml:"itu_num_floors"`

	// FadingStdDevDB enables an additive zero-mean fading contribution on
	// every link's SNR, independent of Model (spec.md §4.5 step 2).
	FadingStdDevDB optional.Value[float64] `yaml:"fading_stddev"`

	PERFile optional.Value[string] `yaml:"per_file"`
}

// Config is the top-level wmediumd configuration file shape (spec.md
// §4.7).
type Config struct {
	Stations []StationConfig      `yaml:"stations"`
	Medium   MediumConfig         `yaml:"medium"`
	Links    []LinkOverrideConfig `yaml:"links"`
}

// LoadConfig parses a YAML configuration document from r.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("wmediumd: parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadConfigFile opens and parses path as a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wmediumd: opening config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// PathLossModel builds the [PathLossModel] this config's Medium section
// describes, with defaults for every unset parameter. An empty Model name
// selects free space; an unrecognized one is an error.
func (c *Config) PathLossModel() (PathLossModel, error) {
	kind, ok := ParsePathLossKind(c.Medium.Model)
	if !ok {
		return PathLossModel{}, fmt.Errorf("wmediumd: unknown medium model %q", c.Medium.Model)
	}
	m := PathLossModel{Kind: kind}
	m.FrequencyMHz = c.Medium.FrequencyMHz.UnwrapOr(2412)
	m.Exponent = c.Medium.Exponent.UnwrapOr(3.0)
	m.ReferenceDistanceM = c.Medium.ReferenceDistanceM.UnwrapOr(1.0)
	m.ReferenceLossDB = c.Medium.ReferenceLossDB.UnwrapOr(40.0)
	m.ShadowingStdDevDB = c.Medium.ShadowingStdDevDB.UnwrapOr(0)
	m.ITUPowerLossCoeff = c.Medium.ITUPowerLossCoeff.UnwrapOr(28)
	m.ITUFloorPenetrationLossDB = c.Medium.ITUFloorPenetrationLossDB.UnwrapOr(0)
	m.NumFloors = c.Medium.NumFloors.UnwrapOr(0)
	m.FadingStdDevDB = c.Medium.FadingStdDevDB.UnwrapOr(0)
	return m, nil
}

// PERTable loads the PER table this config's Medium section names, or
// [DefaultPERTable] if none is set.
func (c *Config) PERTable() (*PERTable, error) {
	path, ok := c.Medium.PERFile.Get()
	if !ok {
		return DefaultPERTable, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wmediumd: opening per_file: %w", err)
	}
	defer f.Close()
	return LoadPERTable(f)
}

// Apply populates reg with every station this config describes, and
// returns the per-(from,to) SNR overrides to apply once every station has
// been inserted (overrides name stations by hwaddr, which only resolve
// after insertion).
func (c *Config) Apply(reg *Registry) ([]LinkOverrideConfig, error) {
	for _, sc := range c.Stations {
		addr, err := ParseMACAddr(sc.HWAddr)
		if err != nil {
			return nil, err
		}
		st, err := reg.Insert(addr)
		if err != nil {
			return nil, err
		}
		st.Position = Position{X: sc.X.UnwrapOr(0), Y: sc.Y.UnwrapOr(0)}
		st.Dir = Direction{DX: sc.DX.UnwrapOr(0), DY: sc.DY.UnwrapOr(0)}
		st.TxPowerDBm = sc.TxPowerDBm.UnwrapOr(defaultTxPowerDBm)
		st.Frequency = sc.Frequency.UnwrapOr(defaultFrequencyMHz)
		st.RateSet = RateSetForFrequency(st.Frequency)
		if lci, ok := sc.LCI.Get(); ok {
			st.LCI = []byte(lci)
		}
		if civic, ok := sc.Civic.Get(); ok {
			st.Civic = []byte(civic)
		}
	}
	return c.Links, nil
}

// ApplyLinkOverrides resolves each override's station names against reg and
// pins the corresponding [LinkMatrix] entry.
func ApplyLinkOverrides(reg *Registry, overrides []LinkOverrideConfig) error {
	for _, o := range overrides {
		fromAddr, err := ParseMACAddr(o.From)
		if err != nil {
			return err
		}
		toAddr, err := ParseMACAddr(o.To)
		if err != nil {
			return err
		}
		from, ok := reg.FindByHW(fromAddr)
		if !ok {
			return fmt.Errorf("wmediumd: link override references unknown station %s", o.From)
		}
		to, ok := reg.FindByHW(toAddr)
		if !ok {
			return fmt.Errorf("wmediumd: link override references unknown station %s", o.To)
		}
		reg.Links.SetSNROverride(from.Index, to.Index, o.SNRDB)
	}
	return nil
}
