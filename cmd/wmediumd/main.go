// Command wmediumd runs the wireless medium simulator: it attaches to the
// kernel's mac80211_hwsim driver over generic netlink, optionally exposes a
// control socket and a gRPC control surface, and drives the simulated
// medium from a single-threaded, deterministic event loop (spec.md §1,
// §4, §5).
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"google.golang.org/grpc"

	wmediumd "github.com/msft-mirror-aosp/platform.external.wmediumd"
	"github.com/msft-mirror-aosp/platform.external.wmediumd/controlsocket"
	"github.com/msft-mirror-aosp/platform.external.wmediumd/internal"
	netlinkcodec "github.com/msft-mirror-aosp/platform.external.wmediumd/netlink"
	"github.com/msft-mirror-aosp/platform.external.wmediumd/rpc"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML station/medium configuration file")
	apiSocketPath := flag.String("api", "", "path to create the control-socket Unix domain socket")
	grpcUDSPath := flag.String("grpc_uds_path", "", "path to create the gRPC control Unix domain socket")
	live := flag.Bool("live", true, "pace virtual time to wall-clock time against a real netlink driver")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	log.SetHandler(cli.Default)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	logger := internal.NewApexLogger(log.Log)

	if err := run(*configPath, *apiSocketPath, *grpcUDSPath, *live, logger); err != nil {
		log.WithError(err).Fatal("wmediumd exited with an error")
	}
}

// netlinkClientID is the sentinel SrcClientID on every [wmediumd.Frame] that
// arrived over the kernel netlink connection rather than a control-socket
// client, so [wmediumd.Pipeline]'s completion callback knows which transport
// to reply on (spec.md §4.2: "Netlink (the kernel driver, exactly one)").
const netlinkClientID = -1

// apiClientState pairs an accepted control-socket connection with the
// simulator's bookkeeping [wmediumd.Client] for it (subscription flags and
// the exactly-one-TX-status guard).
type apiClientState struct {
	conn   *controlsocket.Conn
	client *wmediumd.Client
}

func run(configPath, apiSocketPath, grpcUDSPath string, live bool, logger wmediumd.Logger) error {
	rng := rand.New(rand.NewSource(1))
	sched := wmediumd.NewScheduler()
	links := wmediumd.NewLinkMatrix(wmediumd.DefaultPathLossModel, rng)
	reg := wmediumd.NewRegistry(wmediumd.DefaultAccessCategoryParams, links)
	perTable := wmediumd.DefaultPERTable

	pipeline := wmediumd.NewPipeline(sched, reg, perTable, rng, logger)

	bridge := rpc.NewBridge()
	openPCAP := func(path string) (*wmediumd.PCAPDumper, error) {
		return wmediumd.NewPCAPDumper(path, logger)
	}
	simServer := rpc.NewSimServer(bridge, reg, openPCAP)
	simServer.SetPipeline(pipeline)

	if configPath != "" {
		if err := simServer.LoadConfigDirect(configPath); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	mux := wmediumd.NewIOMux()
	apiClients := map[int]*apiClientState{}

	// radioStations maps a kernel-assigned radio id (HWSIM_ATTR_RADIO_ID) to
	// the registry index NEW_RADIO inserted for it, so a later DEL_RADIO or
	// ADD/DEL_MAC_ADDR naming only the radio id can find the right station
	// (spec.md §3: station lifecycle driven by the kernel driver).
	radioStations := map[uint32]int{}

	nlConn, err := netlinkcodec.Dial()
	if err != nil {
		logger.Warnf("netlink: continuing without a kernel driver connection: %v", err)
	} else {
		defer nlConn.Close()
		nlReady := make(chan struct{}, 1)
		nlInbox := make(chan netlinkMsg, 256)
		go netlinkReaderLoop(nlConn, nlInbox, nlReady, logger)
		mux.Register(nlReady, func() {
			drainNetlinkInbox(pipeline, reg, nlConn, apiClients, radioStations, nlInbox, logger)
		})
	}

	wirePipelineOutputs(pipeline, reg, nlConn, simServer, apiClients, logger)

	if apiSocketPath != "" {
		srv, err := controlsocket.Listen(apiSocketPath)
		if err != nil {
			return fmt.Errorf("starting control socket: %w", err)
		}
		defer srv.Close()
		srv.OnAccept = func(c *controlsocket.Conn) {
			apiClients[c.ID] = &apiClientState{conn: c, client: wmediumd.NewClient(c.ID, wmediumd.ClientAPISocket)}
			mux.Register(c.Ready, func() { drainControlInbox(pipeline, reg, simServer, nlConn, apiClients, c, logger) })
		}
		srv.OnDisconnect = func(c *controlsocket.Conn, err error) {
			delete(apiClients, c.ID)
		}
		go func() {
			if err := srv.Serve(); err != nil {
				logger.Warnf("control socket: %v", err)
			}
		}()
	}

	mux.Register(bridge.Ready(), bridge.Pump)

	var grpcServer *grpc.Server
	if grpcUDSPath != "" {
		os.Remove(grpcUDSPath)
		lis, err := net.Listen("unix", grpcUDSPath)
		if err != nil {
			return fmt.Errorf("listening on grpc uds: %w", err)
		}
		grpcServer = grpc.NewServer()
		rpc.RegisterServer(grpcServer, simServer)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				logger.Warnf("grpc server: %v", err)
			}
		}()
		defer grpcServer.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("wmediumd started")
	var driver *wmediumd.WallClockDriver
	if live {
		driver = wmediumd.NewWallClockDriver(sched)
	}
	for ctx.Err() == nil {
		if driver != nil {
			driver.SleepUntilNextDue()
		}
		sched.RunUntilIdle()
		mux.Poll(fastPollInterval)
	}
	logger.Info("wmediumd shutting down")
	return nil
}

// wirePipelineOutputs connects the pipeline's TX-start, delivery, and
// TX-complete callbacks to their two possible destinations: the kernel
// netlink connection and any subscribed control-socket client (spec.md §4:
// "Data flow: ... codec -> frame pipeline -> queue -> scheduler -> medium
// model -> codec -> kernel driver (and to control-socket clients subscribed
// to frames)").
func wirePipelineOutputs(
	pipeline *wmediumd.Pipeline,
	reg *wmediumd.Registry,
	nlConn *netlinkcodec.Conn,
	simServer *rpc.SimServer,
	apiClients map[int]*apiClientState,
	logger wmediumd.Logger,
) {
	pipeline.OnTxStart = func(frame *wmediumd.Frame) {
		simServer.CaptureSink().CaptureFrame(frame.Raw, time.Now())
		for _, st := range apiClients {
			if !st.client.Flags.Has(wmediumd.NotifyTxStart) {
				continue
			}
			body := make([]byte, 8)
			binaryPutUint64(body[0:8], frame.Cookie)
			if err := st.conn.Write(controlsocket.TypeTxStart, body); err != nil {
				logger.Warnf("control socket: TX_START notify to client %d: %v", st.conn.ID, err)
			}
		}
	}

	pipeline.OnDeliver = func(dest *wmediumd.Station, frame *wmediumd.Frame) {
		src, ok := reg.FindByHW(frame.SrcAddr)
		if !ok {
			return
		}
		stations := reg.Raw()
		signal := reg.Links.SignalDBm(stations, src.Index, dest.Index)

		if nlConn != nil {
			payload, err := netlinkcodec.EncodeFrame(netlinkcodec.FrameMessage{
				Receiver:    dest.HWAddr,
				Transmitter: frame.SrcAddr,
				Frame:       frame.Raw,
				Signal:      int32(signal),
				Freq:        uint32(frame.Frequency),
				Cookie:      frame.Cookie,
			})
			if err != nil {
				logger.Warnf("netlink: encoding delivered frame: %v", err)
			} else if _, err := nlConn.Send(netlinkcodec.CmdFrame, payload); err != nil {
				logger.Warnf("netlink: delivering frame to %s: %v", dest.HWAddr, err)
			}
		}

		for _, st := range apiClients {
			if !st.client.Flags.Has(wmediumd.RxAllFrames) {
				continue
			}
			if err := st.conn.Write(controlsocket.TypeAck, frame.Raw); err != nil {
				logger.Warnf("control socket: frame copy to client %d: %v", st.conn.ID, err)
			}
		}
	}

	pipeline.OnTxComplete = func(frame *wmediumd.Frame, status wmediumd.TxStatus) {
		sendTxStatus(frame.SrcClientID, frame.Cookie, frame.SrcAddr, status, nlConn, apiClients, logger)
	}
}

// sendTxStatus reports status back over whichever transport srcClientID
// names: the kernel netlink connection for frames sourced from the driver
// (srcClientID == netlinkClientID), or the originating control-socket
// client otherwise. Shared by the pipeline's own TX-complete notification
// and by every path that fails a frame before the pipeline ever produces a
// status for it — an unadmitted frame (spec.md §4.3, §7) or one abandoned
// by a station the driver or a config reload removed mid-flight (spec.md §3
// invariant: "exactly one TX-status is produced per originating frame").
func sendTxStatus(
	srcClientID int,
	cookie uint64,
	srcAddr wmediumd.MACAddr,
	status wmediumd.TxStatus,
	nlConn *netlinkcodec.Conn,
	apiClients map[int]*apiClientState,
	logger wmediumd.Logger,
) {
	if srcClientID == netlinkClientID {
		if nlConn == nil {
			return
		}
		flags := netlinkcodec.FrameFlag(0)
		if status.Acked {
			flags |= netlinkcodec.FlagTxStatAck
		}
		payload, err := netlinkcodec.EncodeFrame(netlinkcodec.FrameMessage{
			Transmitter: srcAddr,
			Cookie:      cookie,
			Flags:       flags,
			TxRates:     []netlinkcodec.TxRateStep{{Idx: uint8(status.FinalRateIdx), Count: uint8(status.RetryCount + 1)}},
		})
		if err != nil {
			logger.Warnf("netlink: encoding TX status: %v", err)
			return
		}
		if _, err := nlConn.Send(netlinkcodec.CmdTxInfoFrame, payload); err != nil {
			logger.Warnf("netlink: sending TX status: %v", err)
		}
		return
	}

	st, ok := apiClients[srcClientID]
	if !ok {
		return
	}
	if err := st.client.CompleteTxStatus(cookie); err != nil {
		logger.Warnf("control socket: %v", err)
	}
	body := controlsocket.EncodeAckBody(controlsocket.AckBody{Cookie: cookie, Acked: status.Acked})
	if err := st.conn.Write(controlsocket.TypeTxInfo, body); err != nil {
		logger.Warnf("control socket: TX status to client %d: %v", st.conn.ID, err)
	}
}

// netlinkMsg pairs a decoded genetlink command with its attribute payload,
// so the dispatcher below can tell a FRAME from a START_PMSR request
// instead of assuming every inbound message is a frame.
type netlinkMsg struct {
	command netlinkcodec.Command
	data    []byte
}

func netlinkReaderLoop(conn *netlinkcodec.Conn, inbox chan<- netlinkMsg, ready chan<- struct{}, logger wmediumd.Logger) {
	for {
		msgs, err := conn.Receive()
		if err != nil {
			logger.Warnf("netlink: receive failed: %v", err)
			return
		}
		for _, m := range msgs {
			select {
			case inbox <- netlinkMsg{command: netlinkcodec.Command(m.Header.Command), data: m.Data}:
			default:
				logger.Warn("netlink: inbox full, dropping message")
			}
		}
		select {
		case ready <- struct{}{}:
		default:
		}
	}
}

func drainNetlinkInbox(
	pipeline *wmediumd.Pipeline,
	reg *wmediumd.Registry,
	nlConn *netlinkcodec.Conn,
	apiClients map[int]*apiClientState,
	radioStations map[uint32]int,
	inbox <-chan netlinkMsg,
	logger wmediumd.Logger,
) {
	for {
		select {
		case msg := <-inbox:
			dispatchNetlinkMsg(pipeline, reg, nlConn, apiClients, radioStations, msg, logger)
		default:
			return
		}
	}
}

// dispatchNetlinkMsg routes one decoded kernel message to the pipeline (a
// frame), the station registry (a radio/interface lifecycle event), or
// replies directly (a peer-measurement request, always reported as failed
// per SPEC_FULL.md's PMSR decision).
func dispatchNetlinkMsg(
	pipeline *wmediumd.Pipeline,
	reg *wmediumd.Registry,
	nlConn *netlinkcodec.Conn,
	apiClients map[int]*apiClientState,
	radioStations map[uint32]int,
	msg netlinkMsg,
	logger wmediumd.Logger,
) {
	switch msg.command {
	case netlinkcodec.CmdFrame:
		admitNetlinkFrame(pipeline, msg.data, netlinkClientID, nlConn, apiClients, logger)
	case netlinkcodec.CmdNewRadio:
		handleNewRadio(reg, radioStations, msg.data, logger)
	case netlinkcodec.CmdDelRadio:
		handleDelRadio(pipeline, reg, radioStations, msg.data, nlConn, apiClients, logger)
	case netlinkcodec.CmdAddMacAddr:
		handleMacAddr(reg, radioStations, msg.data, true, logger)
	case netlinkcodec.CmdDelMacAddr:
		handleMacAddr(reg, radioStations, msg.data, false, logger)
	case netlinkcodec.CmdStartPMSR:
		req, err := netlinkcodec.DecodePMSRRequest(msg.data)
		if err != nil {
			logger.Warnf("netlink: dropping malformed PMSR request: %v", err)
			return
		}
		payload, err := netlinkcodec.EncodeReportPMSR(0, req)
		if err != nil {
			logger.Warnf("netlink: encoding PMSR report: %v", err)
			return
		}
		if _, err := nlConn.Send(netlinkcodec.CmdReportPMSR, payload); err != nil {
			logger.Warnf("netlink: sending PMSR report: %v", err)
		}
	}
}

// handleNewRadio registers a station for a radio the driver just created,
// keyed by its permanent hardware address, and remembers the radio id so a
// later DEL_RADIO or ADD/DEL_MAC_ADDR naming only that id can find it
// (spec.md §3, §4.2).
func handleNewRadio(reg *wmediumd.Registry, radioStations map[uint32]int, data []byte, logger wmediumd.Logger) {
	m, err := netlinkcodec.DecodeRadioMessage(data)
	if err != nil {
		logger.Warnf("netlink: dropping malformed new_radio: %v", err)
		return
	}
	st, err := reg.Insert(wmediumd.MACAddr(m.Addr))
	if err != nil {
		logger.Warnf("netlink: new_radio %d: %v", m.RadioID, err)
		return
	}
	radioStations[m.RadioID] = st.Index
}

// handleDelRadio removes the station a DEL_RADIO names, draining any
// in-flight or queued frames it owned and reporting each a failure
// TX-status so the exactly-one-status invariant holds even for a station
// removed out from under a transmission (spec.md §3, §8 scenario 4:
// "station removal during TX").
func handleDelRadio(
	pipeline *wmediumd.Pipeline,
	reg *wmediumd.Registry,
	radioStations map[uint32]int,
	data []byte,
	nlConn *netlinkcodec.Conn,
	apiClients map[int]*apiClientState,
	logger wmediumd.Logger,
) {
	m, err := netlinkcodec.DecodeRadioMessage(data)
	if err != nil {
		logger.Warnf("netlink: dropping malformed del_radio: %v", err)
		return
	}
	idx, ok := radioStations[m.RadioID]
	if !ok {
		logger.Warnf("netlink: del_radio for unknown radio id %d", m.RadioID)
		return
	}
	delete(radioStations, m.RadioID)
	st := reg.Raw()[idx]
	if st == nil {
		return
	}
	abandoned := pipeline.RemoveStation(st)
	reg.Remove(idx)
	for _, frame := range abandoned {
		sendTxStatus(frame.SrcClientID, frame.Cookie, frame.SrcAddr, wmediumd.TxStatus{Acked: false}, nlConn, apiClients, logger)
	}
}

// handleMacAddr adds or removes a virtual address on the station the
// driver's radio id names (spec.md §4.2: ADD_MAC_ADDR/DEL_MAC_ADDR register
// and unregister a virtual interface's MAC without creating a new station).
func handleMacAddr(reg *wmediumd.Registry, radioStations map[uint32]int, data []byte, add bool, logger wmediumd.Logger) {
	radioID, addr, err := netlinkcodec.DecodeMacAddr(data)
	if err != nil {
		logger.Warnf("netlink: dropping malformed mac_addr message: %v", err)
		return
	}
	idx, ok := radioStations[radioID]
	if !ok {
		logger.Warnf("netlink: mac_addr for unknown radio id %d", radioID)
		return
	}
	if add {
		if err := reg.AddAddr(idx, wmediumd.MACAddr(addr)); err != nil {
			logger.Warnf("netlink: add_mac_addr: %v", err)
		}
		return
	}
	reg.DelAddr(idx, wmediumd.MACAddr(addr))
}

// admitNetlinkFrame decodes a netlink FRAME attribute payload and admits it
// to the pipeline under srcClientID, the transport-specific sentinel that
// routes its eventual TX-status reply (spec.md §4.4, §4.8). A frame the
// pipeline never admits (unknown source, full queue) still owes its client
// exactly one TX-status, reported here as a failure since the frame never
// went on air (spec.md §3 invariant, §4.3, §7).
func admitNetlinkFrame(
	pipeline *wmediumd.Pipeline,
	data []byte,
	srcClientID int,
	nlConn *netlinkcodec.Conn,
	apiClients map[int]*apiClientState,
	logger wmediumd.Logger,
) {
	fm, err := netlinkcodec.DecodeFrame(data)
	if err != nil {
		logger.Warnf("netlink: dropping malformed frame: %v", err)
		return
	}
	var retry []wmediumd.RetryStep
	for _, r := range fm.TxRates {
		retry = append(retry, wmediumd.RetryStep{RateIndex: int(r.Idx), Count: int(r.Count)})
	}
	if len(retry) == 0 {
		retry = []wmediumd.RetryStep{{RateIndex: 0, Count: 1}}
	}
	frame, err := wmediumd.NewFrame(fm.Cookie, srcClientID, fm.Frame, int(fm.Freq), retry)
	if err != nil {
		logger.Warnf("netlink: dropping unparseable frame: %v", err)
		return
	}
	if st, ok := apiClients[srcClientID]; ok {
		st.client.AwaitTxStatus(frame.Cookie)
	}
	if err := pipeline.Admit(frame); err != nil {
		logger.Warnf("netlink: frame not admitted: %v", err)
		sendTxStatus(srcClientID, frame.Cookie, frame.SrcAddr, wmediumd.TxStatus{Acked: false}, nlConn, apiClients, logger)
	}
}

// drainControlInbox processes every message queued on c.Inbox, dispatching
// each to the simulator and replying with an ACK (or a typed error),
// strictly in arrival order (spec.md §4.9: "every request is acknowledged
// with ACK... strictly ordered within a connection").
func drainControlInbox(
	pipeline *wmediumd.Pipeline,
	reg *wmediumd.Registry,
	simServer *rpc.SimServer,
	nlConn *netlinkcodec.Conn,
	apiClients map[int]*apiClientState,
	conn *controlsocket.Conn,
	logger wmediumd.Logger,
) {
	st, ok := apiClients[conn.ID]
	if !ok {
		return
	}
	for {
		select {
		case msg := <-conn.Inbox:
			handleControlMessage(pipeline, reg, simServer, nlConn, apiClients, st, msg, logger)
		default:
			return
		}
	}
}

func handleControlMessage(
	pipeline *wmediumd.Pipeline,
	reg *wmediumd.Registry,
	simServer *rpc.SimServer,
	nlConn *netlinkcodec.Conn,
	apiClients map[int]*apiClientState,
	st *apiClientState,
	msg controlsocket.Message,
	logger wmediumd.Logger,
) {
	fail := func(err error) {
		logger.Warnf("control socket: client %d: %v", st.conn.ID, err)
		if werr := st.conn.Write(controlsocket.TypeError, controlsocket.EncodeErrorBody(controlsocket.ErrorBody{Message: err.Error()})); werr != nil {
			logger.Warnf("control socket: writing error to client %d: %v", st.conn.ID, werr)
		}
	}
	ack := func() {
		if err := st.conn.Write(controlsocket.TypeAck, nil); err != nil {
			logger.Warnf("control socket: writing ack to client %d: %v", st.conn.ID, err)
		}
	}

	switch msg.Type {
	case controlsocket.TypeRegister:
		body, err := controlsocket.DecodeRegisterBody(msg.Body)
		if err != nil {
			fail(err)
			return
		}
		st.client.Flags = wmediumd.ControlFlags(body.Flags)
		ack()

	case controlsocket.TypeUnregister:
		st.client.Flags = 0
		ack()

	case controlsocket.TypeNetlink:
		admitNetlinkFrame(pipeline, msg.Body, st.conn.ID, nlConn, apiClients, logger)
		ack()

	case controlsocket.TypeSetSNR:
		body, err := controlsocket.DecodeSetSNRBody(msg.Body)
		if err != nil {
			fail(err)
			return
		}
		from, ok := reg.FindByHW(wmediumd.MACAddr(body.MAC1))
		if !ok {
			fail(fmt.Errorf("unknown station %s", wmediumd.MACAddr(body.MAC1)))
			return
		}
		to, ok := reg.FindByHW(wmediumd.MACAddr(body.MAC2))
		if !ok {
			fail(fmt.Errorf("unknown station %s", wmediumd.MACAddr(body.MAC2)))
			return
		}
		reg.Links.SetSNROverride(from.Index, to.Index, float64(body.SNRDB))
		ack()

	case controlsocket.TypeSetPosition:
		body, err := controlsocket.DecodeSetPositionBody(msg.Body)
		if err != nil {
			fail(err)
			return
		}
		target, ok := reg.FindByHW(wmediumd.MACAddr(body.MAC))
		if !ok {
			fail(fmt.Errorf("unknown station %s", wmediumd.MACAddr(body.MAC)))
			return
		}
		target.Position = wmediumd.Position{X: body.X, Y: body.Y}
		reg.Links.MarkDirty()
		ack()

	case controlsocket.TypeSetTxPower:
		body, err := controlsocket.DecodeSetTxPowerBody(msg.Body)
		if err != nil {
			fail(err)
			return
		}
		target, ok := reg.FindByHW(wmediumd.MACAddr(body.MAC))
		if !ok {
			fail(fmt.Errorf("unknown station %s", wmediumd.MACAddr(body.MAC)))
			return
		}
		target.TxPowerDBm = body.DBm
		reg.Links.MarkDirty()
		ack()

	case controlsocket.TypeGetNodes:
		var nodes []controlsocket.NodeInfo
		for _, s := range reg.Iter() {
			nodes = append(nodes, controlsocket.NodeInfo{
				HWAddr:     s.HWAddr,
				X:          s.Position.X,
				Y:          s.Position.Y,
				TxPowerDBm: s.TxPowerDBm,
				LCI:        s.LCI,
				Civic:      s.Civic,
			})
		}
		if err := st.conn.Write(controlsocket.TypeGetNodes, controlsocket.EncodeGetNodesBody(nodes)); err != nil {
			logger.Warnf("control socket: writing get_nodes to client %d: %v", st.conn.ID, err)
		}

	case controlsocket.TypeReloadConfig:
		body := controlsocket.DecodeReloadConfigBody(msg.Body)
		if err := simServer.LoadConfigDirect(body.Path); err != nil {
			fail(err)
			return
		}
		ack()

	case controlsocket.TypeReloadCurrentConfig:
		if err := simServer.ReloadConfigDirect(); err != nil {
			fail(err)
			return
		}
		ack()

	default:
		fail(fmt.Errorf("unrecognized message type %d", msg.Type))
	}
}

// binaryPutUint64 writes v into buf in big-endian order, matching
// controlsocket's wire byte order for the TX_START notification body
// (spec.md §4.9: "{cookie, freq, reserved[3]}"; only the cookie is
// populated here, see SPEC_FULL.md §9's TX-start cookie decision).
func binaryPutUint64(buf []byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[7-i] = byte(v)
		v >>= 8
	}
}

// fastPollInterval bounds how long mux.Poll blocks when no job and no I/O
// source is ready, so the shutdown signal is checked promptly.
const fastPollInterval = 50_000_000 // 50ms, in time.Duration nanoseconds
