package wmediumd

import (
	"math/rand"
	"strings"
	"testing"
)

const testConfigYAML = `
medium:
  model: log_distance
  exponent: 2.5
  reference_distance: 1.0
  reference_loss: 35.0

stations:
  - hwaddr: "02:00:00:00:00:01"
    x: 0
    y: 0
  - hwaddr: "02:00:00:00:00:02"
    x: 10
    y: 0
    tx_power: 20

links:
  - from: "02:00:00:00:00:01"
    to: "02:00:00:00:00:02"
    snr: 18.5
`

func TestLoadConfigParsesStationsMediumAndLinks(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(cfg.Stations))
	}
	if cfg.Medium.Model != "log_distance" {
		t.Fatalf("Medium.Model = %q, want log_distance", cfg.Medium.Model)
	}
	if len(cfg.Links) != 1 {
		t.Fatalf("got %d link overrides, want 1", len(cfg.Links))
	}
}

func TestConfigApplyPopulatesRegistry(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	links := NewLinkMatrix(DefaultPathLossModel, rng)
	reg := NewRegistry(DefaultAccessCategoryParams, links)

	overrides, err := cfg.Apply(reg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("registry has %d stations, want 2", reg.Len())
	}
	st, ok := reg.FindByHW(MACAddr{0x02, 0, 0, 0, 0, 2})
	if !ok {
		t.Fatal("second station not found")
	}
	if st.TxPowerDBm != 20 {
		t.Fatalf("TxPowerDBm = %f, want 20", st.TxPowerDBm)
	}
	if st.Position.X != 10 {
		t.Fatalf("Position.X = %f, want 10", st.Position.X)
	}

	if err := ApplyLinkOverrides(reg, overrides); err != nil {
		t.Fatalf("ApplyLinkOverrides: %v", err)
	}
	a, _ := reg.FindByHW(MACAddr{0x02, 0, 0, 0, 0, 1})
	b, _ := reg.FindByHW(MACAddr{0x02, 0, 0, 0, 0, 2})
	if got := reg.Links.SNR(reg.Raw(), a.Index, b.Index); got != 18.5 {
		t.Fatalf("overridden SNR = %f, want 18.5", got)
	}
}

func TestConfigPathLossModelUsesDefaultsForOmittedFields(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("medium:\n  model: free_space\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	model, err := cfg.PathLossModel()
	if err != nil {
		t.Fatalf("PathLossModel: %v", err)
	}
	if model.Kind != PathLossFree {
		t.Fatalf("Kind = %v, want PathLossFree", model.Kind)
	}
	if model.FrequencyMHz != 2412 {
		t.Fatalf("FrequencyMHz = %d, want default 2412", model.FrequencyMHz)
	}
}

func TestConfigUnknownMediumModelIsRejected(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("medium:\n  model: warp_drive\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := cfg.PathLossModel(); err == nil {
		t.Fatal("expected an error for an unrecognized medium model")
	}
}
