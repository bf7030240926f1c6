package rpc

//
// Simulator-backed [Server] implementation, bridging gRPC handler
// goroutines into the scheduler goroutine via [Bridge] (spec.md §5, §6).
//

import (
	"context"
	"fmt"

	wmediumd "github.com/msft-mirror-aosp/platform.external.wmediumd"
)

// SimServer implements [Server] against a live simulator, routing every
// call through bridge so no RPC ever touches [wmediumd.Registry] or
// [wmediumd.LinkMatrix] off the scheduler goroutine.
type SimServer struct {
	bridge *Bridge
	reg    *wmediumd.Registry

	// pcap, if non-nil, is the active capture sink; StartCapture/
	// StopCapture replace it under the bridge.
	openPCAP func(path string) (*wmediumd.PCAPDumper, error)
	pcap     *wmediumd.PCAPDumper

	// pipeline, if set, has its jobs canceled for every removed station
	// during a LoadConfig/ReloadConfig swap (spec.md §6: "build new
	// registry, swap in under the scheduler thread, free old").
	pipeline *wmediumd.Pipeline

	// loadConfigFile loads and parses a configuration file, injected so
	// tests can avoid touching the filesystem; defaults to
	// [wmediumd.LoadConfigFile].
	loadConfigFile func(path string) (*wmediumd.Config, error)

	// lastConfigPath is the most recently loaded configuration path, used
	// by ReloadConfig's RELOAD_CURRENT_CONFIG semantics (spec.md §4.9).
	lastConfigPath string
}

// NewSimServer creates a [SimServer] over reg, executing every call through
// bridge. openPCAP is injected so tests can avoid touching the filesystem.
func NewSimServer(bridge *Bridge, reg *wmediumd.Registry, openPCAP func(path string) (*wmediumd.PCAPDumper, error)) *SimServer {
	return &SimServer{bridge: bridge, reg: reg, openPCAP: openPCAP}
}

// SetPipeline wires p so a config reload can drain in-flight frames on
// every station it removes.
func (s *SimServer) SetPipeline(p *wmediumd.Pipeline) {
	s.pipeline = p
}

// SetConfigLoader overrides how LoadConfig/ReloadConfig parse a
// configuration file, for tests.
func (s *SimServer) SetConfigLoader(loader func(path string) (*wmediumd.Config, error)) {
	s.loadConfigFile = loader
}

func parseMAC(s string) (wmediumd.MACAddr, error) {
	return wmediumd.ParseMACAddr(s)
}

// SetPosition implements [Server].
func (s *SimServer) SetPosition(ctx context.Context, req *SetPositionRequest) (*SetPositionResponse, error) {
	addr, err := parseMAC(req.HWAddr)
	if err != nil {
		return nil, err
	}
	_, err = s.bridge.Call(ctx, func() (any, error) {
		st, ok := s.reg.FindByHW(addr)
		if !ok {
			return nil, fmt.Errorf("rpc: unknown station %s", req.HWAddr)
		}
		st.Position = wmediumd.Position{X: req.X, Y: req.Y}
		s.reg.Links.MarkDirty()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &SetPositionResponse{}, nil
}

// SetTxPower implements [Server].
func (s *SimServer) SetTxPower(ctx context.Context, req *SetTxPowerRequest) (*SetTxPowerResponse, error) {
	addr, err := parseMAC(req.HWAddr)
	if err != nil {
		return nil, err
	}
	_, err = s.bridge.Call(ctx, func() (any, error) {
		st, ok := s.reg.FindByHW(addr)
		if !ok {
			return nil, fmt.Errorf("rpc: unknown station %s", req.HWAddr)
		}
		st.TxPowerDBm = req.DBm
		s.reg.Links.MarkDirty()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &SetTxPowerResponse{}, nil
}

// SetSNR implements [Server].
func (s *SimServer) SetSNR(ctx context.Context, req *SetSNRRequest) (*SetSNRResponse, error) {
	fromAddr, err := parseMAC(req.From)
	if err != nil {
		return nil, err
	}
	toAddr, err := parseMAC(req.To)
	if err != nil {
		return nil, err
	}
	_, err = s.bridge.Call(ctx, func() (any, error) {
		from, ok := s.reg.FindByHW(fromAddr)
		if !ok {
			return nil, fmt.Errorf("rpc: unknown station %s", req.From)
		}
		to, ok := s.reg.FindByHW(toAddr)
		if !ok {
			return nil, fmt.Errorf("rpc: unknown station %s", req.To)
		}
		if req.Clear {
			s.reg.Links.ClearSNROverride(from.Index, to.Index)
		} else {
			s.reg.Links.SetSNROverride(from.Index, to.Index, req.SNRDB)
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &SetSNRResponse{}, nil
}

// SetLci implements [Server].
func (s *SimServer) SetLci(ctx context.Context, req *SetLciRequest) (*SetLciResponse, error) {
	addr, err := parseMAC(req.HWAddr)
	if err != nil {
		return nil, err
	}
	_, err = s.bridge.Call(ctx, func() (any, error) {
		st, ok := s.reg.FindByHW(addr)
		if !ok {
			return nil, fmt.Errorf("rpc: unknown station %s", req.HWAddr)
		}
		st.LCI = append([]byte{}, req.LCI...)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &SetLciResponse{}, nil
}

// SetCivicloc implements [Server].
func (s *SimServer) SetCivicloc(ctx context.Context, req *SetCivicRequest) (*SetCivicResponse, error) {
	addr, err := parseMAC(req.HWAddr)
	if err != nil {
		return nil, err
	}
	_, err = s.bridge.Call(ctx, func() (any, error) {
		st, ok := s.reg.FindByHW(addr)
		if !ok {
			return nil, fmt.Errorf("rpc: unknown station %s", req.HWAddr)
		}
		st.Civic = append([]byte{}, req.Civic...)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &SetCivicResponse{}, nil
}

func (s *SimServer) configLoader() func(string) (*wmediumd.Config, error) {
	if s.loadConfigFile != nil {
		return s.loadConfigFile
	}
	return wmediumd.LoadConfigFile
}

// loadConfigAt parses path and swaps it into reg: every current station is
// drained (cancelling its scheduled jobs and failing its in-flight frames)
// and removed before the new station set is applied (spec.md §6: "build
// new registry, swap in under the scheduler thread, free old"; spec.md §8
// scenario 5: "LoadConfig(path2)... old stations' pending frames drained
// with failure status").
func (s *SimServer) loadConfigAt(path string) ([]*wmediumd.Frame, error) {
	cfg, err := s.configLoader()(path)
	if err != nil {
		return nil, fmt.Errorf("rpc: loading config %s: %w", path, err)
	}
	model, err := cfg.PathLossModel()
	if err != nil {
		return nil, fmt.Errorf("rpc: resolving medium model: %w", err)
	}
	perTable, err := cfg.PERTable()
	if err != nil {
		return nil, fmt.Errorf("rpc: loading per_file: %w", err)
	}
	// Apply the station list and link overrides to a scratch registry
	// first, so a config that cannot be applied leaves reg untouched.
	scratch := wmediumd.NewRegistry(wmediumd.DefaultAccessCategoryParams, wmediumd.NewLinkMatrix(model, nil))
	scratchOverrides, err := cfg.Apply(scratch)
	if err != nil {
		return nil, fmt.Errorf("rpc: applying config stations: %w", err)
	}
	if err := wmediumd.ApplyLinkOverrides(scratch, scratchOverrides); err != nil {
		return nil, fmt.Errorf("rpc: applying link overrides: %w", err)
	}

	var abandoned []*wmediumd.Frame
	for _, st := range s.reg.Iter() {
		if s.pipeline != nil {
			abandoned = append(abandoned, s.pipeline.RemoveStation(st)...)
		}
		s.reg.Remove(st.Index)
	}
	s.failAbandoned(abandoned)

	overrides, err := cfg.Apply(s.reg)
	if err != nil {
		return abandoned, fmt.Errorf("rpc: applying config stations: %w", err)
	}
	if err := wmediumd.ApplyLinkOverrides(s.reg, overrides); err != nil {
		return abandoned, fmt.Errorf("rpc: applying link overrides: %w", err)
	}
	s.reg.Links.SetModel(model)
	if s.pipeline != nil {
		s.pipeline.PER = perTable
	}
	s.lastConfigPath = path
	return abandoned, nil
}

// failAbandoned reports a failure TxStatus for every frame a config swap
// abandoned, through the pipeline's own OnTxComplete callback, so each still
// gets exactly the one TX-status the transport layer (netlink or the control
// socket) is waiting to send (spec.md §3 invariant, §8 scenario 5: "old
// stations' pending frames drained with failure status").
func (s *SimServer) failAbandoned(abandoned []*wmediumd.Frame) {
	if s.pipeline == nil || s.pipeline.OnTxComplete == nil {
		return
	}
	for _, frame := range abandoned {
		s.pipeline.OnTxComplete(frame, wmediumd.TxStatus{Acked: false, FinalRateIdx: frame.CurrentRetryStep().RateIndex})
	}
}

// LoadConfig implements [Server]. Frames abandoned by stations the reload
// removed are failed out through [SimServer.failAbandoned] before this
// returns (spec.md §7: "configuration reload failure: keep the prior
// configuration").
func (s *SimServer) LoadConfig(ctx context.Context, req *LoadConfigRequest) (*LoadConfigResponse, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("rpc: LoadConfig requires a path")
	}
	_, err := s.bridge.Call(ctx, func() (any, error) {
		_, err := s.loadConfigAt(req.Path)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return &LoadConfigResponse{}, nil
}

// ReloadConfig implements [Server], re-applying the last successfully
// loaded path. Fails with FAILED_PRECONDITION-equivalent error if no
// configuration has ever been loaded (spec.md §4.10).
func (s *SimServer) ReloadConfig(ctx context.Context, _ *ReloadConfigRequest) (*ReloadConfigResponse, error) {
	_, err := s.bridge.Call(ctx, func() (any, error) {
		if s.lastConfigPath == "" {
			return nil, fmt.Errorf("rpc: no configuration has been loaded yet")
		}
		_, err := s.loadConfigAt(s.lastConfigPath)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return &ReloadConfigResponse{}, nil
}

// LoadConfigDirect runs the same swap as [SimServer.LoadConfig] without
// going through the bridge. Only safe to call from the scheduler goroutine
// itself — at startup before the event loop (and so before anything
// services [Bridge.Pump]) and from the control-socket dispatcher, which
// already runs there (spec.md §5). Calling this from any other goroutine,
// or from an RPC handler, would race the simulator's state; use
// [SimServer.LoadConfig] there instead.
func (s *SimServer) LoadConfigDirect(path string) error {
	if path == "" {
		return fmt.Errorf("rpc: LoadConfig requires a path")
	}
	_, err := s.loadConfigAt(path)
	return err
}

// ReloadConfigDirect is [SimServer.LoadConfigDirect]'s counterpart for
// ReloadConfig: re-applies the last successfully loaded path without the
// bridge, for callers already on the scheduler goroutine.
func (s *SimServer) ReloadConfigDirect() error {
	if s.lastConfigPath == "" {
		return fmt.Errorf("rpc: no configuration has been loaded yet")
	}
	_, err := s.loadConfigAt(s.lastConfigPath)
	return err
}

// ListStations implements [Server].
func (s *SimServer) ListStations(ctx context.Context, _ *ListStationsRequest) (*ListStationsResponse, error) {
	result, err := s.bridge.Call(ctx, func() (any, error) {
		var stations []StationInfo
		for _, st := range s.reg.Iter() {
			stations = append(stations, StationInfo{
				HWAddr:     st.HWAddr.String(),
				X:          st.Position.X,
				Y:          st.Position.Y,
				TxPowerDBm: st.TxPowerDBm,
				LCI:        st.LCI,
				Civic:      st.Civic,
			})
		}
		return stations, nil
	})
	if err != nil {
		return nil, err
	}
	return &ListStationsResponse{Stations: result.([]StationInfo)}, nil
}

// StartCapture implements [Server].
func (s *SimServer) StartCapture(ctx context.Context, req *StartCaptureRequest) (*StartCaptureResponse, error) {
	if s.openPCAP == nil {
		return nil, fmt.Errorf("rpc: capture not supported by this server")
	}
	dumper, err := s.openPCAP(req.Path)
	if err != nil {
		return nil, err
	}
	_, err = s.bridge.Call(ctx, func() (any, error) {
		if s.pcap != nil {
			s.pcap.Close()
		}
		s.pcap = dumper
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &StartCaptureResponse{}, nil
}

// CaptureSink returns the currently active PCAP sink, or a no-op sink if
// StartCapture has not been called. Must only be called from the scheduler
// goroutine, alongside every other read of simulator state (spec.md §5).
func (s *SimServer) CaptureSink() wmediumd.PCAPSink {
	if s.pcap == nil {
		return wmediumd.NullPCAPSink{}
	}
	return s.pcap
}

// StopCapture implements [Server].
func (s *SimServer) StopCapture(ctx context.Context, _ *struct{}) (*StopCaptureResponse, error) {
	_, err := s.bridge.Call(ctx, func() (any, error) {
		if s.pcap != nil {
			err := s.pcap.Close()
			s.pcap = nil
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &StopCaptureResponse{}, nil
}
