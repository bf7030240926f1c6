package rpc

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	wmediumd "github.com/msft-mirror-aosp/platform.external.wmediumd"
)

// runPumpUntil starts a background goroutine that calls bridge.Pump in a
// tight loop until stop is closed, so test calls through the bridge can
// resolve without wiring a full scheduler/IOMux stack.
func runPumpUntil(bridge *Bridge, stop <-chan struct{}) {
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-bridge.Ready():
				bridge.Pump()
			case <-time.After(5 * time.Millisecond):
				bridge.Pump()
			}
		}
	}()
}

func newTestSimServer(t *testing.T) (*SimServer, *wmediumd.Registry) {
	t.Helper()
	rng := rand.New(rand.NewSource(3))
	links := wmediumd.NewLinkMatrix(wmediumd.DefaultPathLossModel, rng)
	reg := wmediumd.NewRegistry(wmediumd.DefaultAccessCategoryParams, links)

	if _, err := reg.Insert(wmediumd.MACAddr{0x02, 0, 0, 0, 0, 1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := reg.Insert(wmediumd.MACAddr{0x02, 0, 0, 0, 0, 2}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	bridge := NewBridge()
	srv := NewSimServer(bridge, reg, nil)
	return srv, reg
}

func TestSimServerSetPositionMovesStation(t *testing.T) {
	srv, reg := newTestSimServer(t)
	stop := make(chan struct{})
	defer close(stop)
	runPumpUntil(srv.bridge, stop)

	_, err := srv.SetPosition(context.Background(), &SetPositionRequest{
		HWAddr: "02:00:00:00:00:01",
		X:      5,
		Y:      7,
	})
	if err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	st, ok := reg.FindByHW(wmediumd.MACAddr{0x02, 0, 0, 0, 0, 1})
	if !ok {
		t.Fatal("station not found")
	}
	if st.Position.X != 5 || st.Position.Y != 7 {
		t.Fatalf("Position = %+v, want {5 7}", st.Position)
	}
}

func TestSimServerSetPositionRejectsUnknownStation(t *testing.T) {
	srv, _ := newTestSimServer(t)
	stop := make(chan struct{})
	defer close(stop)
	runPumpUntil(srv.bridge, stop)

	_, err := srv.SetPosition(context.Background(), &SetPositionRequest{
		HWAddr: "02:00:00:00:00:99",
	})
	if err == nil {
		t.Fatal("expected an error for an unknown station")
	}
}

func TestSimServerSetSNRSetsAndClearsOverride(t *testing.T) {
	srv, reg := newTestSimServer(t)
	stop := make(chan struct{})
	defer close(stop)
	runPumpUntil(srv.bridge, stop)

	_, err := srv.SetSNR(context.Background(), &SetSNRRequest{
		From:  "02:00:00:00:00:01",
		To:    "02:00:00:00:00:02",
		SNRDB: 12.5,
	})
	if err != nil {
		t.Fatalf("SetSNR: %v", err)
	}
	a, _ := reg.FindByHW(wmediumd.MACAddr{0x02, 0, 0, 0, 0, 1})
	b, _ := reg.FindByHW(wmediumd.MACAddr{0x02, 0, 0, 0, 0, 2})
	if got := reg.Links.SNR(reg.Raw(), a.Index, b.Index); got != 12.5 {
		t.Fatalf("SNR = %v, want 12.5", got)
	}

	_, err = srv.SetSNR(context.Background(), &SetSNRRequest{
		From:  "02:00:00:00:00:01",
		To:    "02:00:00:00:00:02",
		Clear: true,
	})
	if err != nil {
		t.Fatalf("SetSNR clear: %v", err)
	}
	if got := reg.Links.SNR(reg.Raw(), a.Index, b.Index); got == 12.5 {
		t.Fatal("expected the override to be cleared")
	}
}

func TestSimServerStartStopCaptureSwapsDumper(t *testing.T) {
	srv, _ := newTestSimServer(t)
	stop := make(chan struct{})
	defer close(stop)
	runPumpUntil(srv.bridge, stop)

	var mu sync.Mutex
	opened := 0
	srv.openPCAP = func(path string) (*wmediumd.PCAPDumper, error) {
		mu.Lock()
		opened++
		mu.Unlock()
		return wmediumd.NewPCAPDumper(path, nil)
	}

	_, err := srv.StartCapture(context.Background(), &StartCaptureRequest{Path: t.TempDir() + "/a.pcap"})
	if err != nil {
		t.Fatalf("StartCapture: %v", err)
	}

	_, err = srv.StopCapture(context.Background(), &struct{}{})
	if err != nil {
		t.Fatalf("StopCapture: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if opened != 1 {
		t.Fatalf("openPCAP called %d times, want 1", opened)
	}
}

func TestSimServerSetLciAndCivicloc(t *testing.T) {
	srv, reg := newTestSimServer(t)
	stop := make(chan struct{})
	defer close(stop)
	runPumpUntil(srv.bridge, stop)

	if _, err := srv.SetLci(context.Background(), &SetLciRequest{HWAddr: "02:00:00:00:00:01", LCI: []byte("lci-data")}); err != nil {
		t.Fatalf("SetLci: %v", err)
	}
	if _, err := srv.SetCivicloc(context.Background(), &SetCivicRequest{HWAddr: "02:00:00:00:00:01", Civic: []byte("civic-data")}); err != nil {
		t.Fatalf("SetCivicloc: %v", err)
	}

	st, _ := reg.FindByHW(wmediumd.MACAddr{0x02, 0, 0, 0, 0, 1})
	if string(st.LCI) != "lci-data" || string(st.Civic) != "civic-data" {
		t.Fatalf("LCI/Civic = %q/%q, want lci-data/civic-data", st.LCI, st.Civic)
	}
}

func TestSimServerListStations(t *testing.T) {
	srv, _ := newTestSimServer(t)
	stop := make(chan struct{})
	defer close(stop)
	runPumpUntil(srv.bridge, stop)

	resp, err := srv.ListStations(context.Background(), &ListStationsRequest{})
	if err != nil {
		t.Fatalf("ListStations: %v", err)
	}
	if len(resp.Stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(resp.Stations))
	}
}

func TestSimServerLoadConfigSwapsStations(t *testing.T) {
	srv, reg := newTestSimServer(t)
	stop := make(chan struct{})
	defer close(stop)
	runPumpUntil(srv.bridge, stop)

	srv.SetConfigLoader(func(path string) (*wmediumd.Config, error) {
		return &wmediumd.Config{
			Stations: []wmediumd.StationConfig{{HWAddr: "02:00:00:00:00:09"}},
		}, nil
	})

	if _, err := srv.LoadConfig(context.Background(), &LoadConfigRequest{Path: "irrelevant.yaml"}); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
	if _, ok := reg.FindByHW(wmediumd.MACAddr{0x02, 0, 0, 0, 0, 9}); !ok {
		t.Fatal("expected the new station to be registered")
	}
	if _, ok := reg.FindByHW(wmediumd.MACAddr{0x02, 0, 0, 0, 0, 1}); ok {
		t.Fatal("expected the old station to be removed")
	}
}

// buildTestDataFrame returns the shortest valid non-QoS 802.11 data frame
// addressed from src to dest, enough for wmediumd.NewFrame to parse.
func buildTestDataFrame(dest, src, bssid wmediumd.MACAddr) []byte {
	raw := make([]byte, 24)
	raw[0] = 0x08 // frame control: type Data, subtype 0000 (non-QoS)
	copy(raw[4:10], dest[:])
	copy(raw[10:16], src[:])
	copy(raw[16:22], bssid[:])
	return raw
}

func TestSimServerLoadConfigFailsAbandonedFrames(t *testing.T) {
	srv, reg := newTestSimServer(t)
	stop := make(chan struct{})
	defer close(stop)
	runPumpUntil(srv.bridge, stop)

	sched := wmediumd.NewScheduler()
	pipeline := wmediumd.NewPipeline(sched, reg, wmediumd.DefaultPERTable, rand.New(rand.NewSource(5)), nil)
	srv.SetPipeline(pipeline)

	var statuses []wmediumd.TxStatus
	pipeline.OnTxComplete = func(frame *wmediumd.Frame, status wmediumd.TxStatus) {
		statuses = append(statuses, status)
	}

	src := wmediumd.MACAddr{0x02, 0, 0, 0, 0, 1}
	dest := wmediumd.MACAddr{0x02, 0, 0, 0, 0, 2}
	raw := buildTestDataFrame(dest, src, dest)
	frame, err := wmediumd.NewFrame(1, 0, raw, 2412, []wmediumd.RetryStep{{RateIndex: 0, Count: 1}})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	if err := pipeline.Admit(frame); err != nil {
		t.Fatalf("Admit: %v", err)
	}

	srv.SetConfigLoader(func(path string) (*wmediumd.Config, error) {
		return &wmediumd.Config{
			Stations: []wmediumd.StationConfig{{HWAddr: "02:00:00:00:00:09"}},
		}, nil
	})

	if _, err := srv.LoadConfig(context.Background(), &LoadConfigRequest{Path: "irrelevant.yaml"}); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if len(statuses) != 1 {
		t.Fatalf("got %d TX-status reports, want exactly 1 for the abandoned frame", len(statuses))
	}
	if statuses[0].Acked {
		t.Fatal("expected the abandoned frame to be reported as failed")
	}
}

func TestSimServerReloadConfigRequiresPriorLoad(t *testing.T) {
	srv, _ := newTestSimServer(t)
	stop := make(chan struct{})
	defer close(stop)
	runPumpUntil(srv.bridge, stop)

	if _, err := srv.ReloadConfig(context.Background(), &ReloadConfigRequest{}); err == nil {
		t.Fatal("expected an error before any config has been loaded")
	}
}

func TestSimServerReloadConfigReappliesLastPath(t *testing.T) {
	srv, reg := newTestSimServer(t)
	stop := make(chan struct{})
	defer close(stop)
	runPumpUntil(srv.bridge, stop)

	calls := 0
	srv.SetConfigLoader(func(path string) (*wmediumd.Config, error) {
		calls++
		return &wmediumd.Config{Stations: []wmediumd.StationConfig{{HWAddr: "02:00:00:00:00:09"}}}, nil
	})

	if _, err := srv.LoadConfig(context.Background(), &LoadConfigRequest{Path: "a.yaml"}); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := srv.ReloadConfig(context.Background(), &ReloadConfigRequest{}); err != nil {
		t.Fatalf("ReloadConfig: %v", err)
	}
	if calls != 2 {
		t.Fatalf("config loader called %d times, want 2", calls)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
}

// TestSimServerLoadConfigDirectDoesNotRequireThePump exercises the
// un-bridged variants a caller already on the scheduler goroutine must use
// instead of LoadConfig/ReloadConfig, which would otherwise deadlock
// waiting on a Bridge.Pump that goroutine itself is supposed to be driving.
func TestSimServerLoadConfigDirectDoesNotRequireThePump(t *testing.T) {
	srv, reg := newTestSimServer(t)

	srv.SetConfigLoader(func(path string) (*wmediumd.Config, error) {
		return &wmediumd.Config{Stations: []wmediumd.StationConfig{{HWAddr: "02:00:00:00:00:09"}}}, nil
	})

	if err := srv.LoadConfigDirect("a.yaml"); err != nil {
		t.Fatalf("LoadConfigDirect: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
	if _, ok := reg.FindByHW(wmediumd.MACAddr{0x02, 0, 0, 0, 0, 9}); !ok {
		t.Fatal("expected the new station to be registered")
	}

	if err := srv.ReloadConfigDirect(); err != nil {
		t.Fatalf("ReloadConfigDirect: %v", err)
	}
}

func TestSimServerLoadConfigDirectRejectsEmptyPath(t *testing.T) {
	srv, _ := newTestSimServer(t)
	if err := srv.LoadConfigDirect(""); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}

func TestSimServerReloadConfigDirectRequiresPriorLoad(t *testing.T) {
	srv, _ := newTestSimServer(t)
	if err := srv.ReloadConfigDirect(); err == nil {
		t.Fatal("expected an error before any config has been loaded")
	}
}
