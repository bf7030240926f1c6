package wmediumd

//
// PCAP dumper
//
// Adapted from the teacher's pcap.go: same background-writer-goroutine
// shape, but captures raw 802.11 frames pushed by the scheduler thread
// instead of intercepting reads/writes on a wrapped NIC.
//

import (
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// PCAPSink receives captured 802.11 frames. The simulator writes to it only
// from the scheduler thread; the sink itself may buffer and flush from a
// background goroutine.
type PCAPSink interface {
	// CaptureFrame records a single delivered or transmitted frame. The
	// timestamp should match the frame's simulated TX-start time.
	CaptureFrame(payload []byte, timestamp time.Time)

	// Close flushes and closes the sink. Safe to call more than once.
	Close() error
}

// NullPCAPSink discards every frame. Used when no trace is requested.
type NullPCAPSink struct{}

var _ PCAPSink = NullPCAPSink{}

// CaptureFrame implements PCAPSink.
func (NullPCAPSink) CaptureFrame(payload []byte, timestamp time.Time) {}

// Close implements PCAPSink.
func (NullPCAPSink) Close() error { return nil }

// PCAPDumper collects an 802.11 PCAP trace into a file. The zero value is
// invalid; use [NewPCAPDumper] to instantiate. Opened by the RPC
// StartCapture operation and closed by StopCapture (spec.md §4.9, §5).
type PCAPDumper struct {
	// closeOnce provides "once" semantics for Close.
	closeOnce sync.Once

	// done is closed when the background writer has terminated.
	done chan struct{}

	// logger is the logger to use.
	logger Logger

	// pich is the channel where captured frames are queued for writing.
	pich chan *pcapEntry
}

// pcapEntry is a single queued capture record.
type pcapEntry struct {
	timestamp      time.Time
	originalLength int
	snapshot       []byte
}

// NewPCAPDumper creates a new [PCAPDumper] writing to filename. Returns an
// error if the file cannot be created.
func NewPCAPDumper(filename string, logger Logger) (*PCAPDumper, error) {
	filep, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	w := pcapgo.NewWriter(filep)
	const largeSnapLen = 262144
	if err := w.WriteFileHeader(largeSnapLen, layers.LinkTypeIEEE802_11); err != nil {
		filep.Close()
		return nil, err
	}

	const manyFrames = 4096
	pd := &PCAPDumper{
		closeOnce: sync.Once{},
		done:      make(chan struct{}),
		logger:    logger,
		pich:      make(chan *pcapEntry, manyFrames),
	}
	go pd.loop(filep, w)
	return pd, nil
}

var _ PCAPSink = &PCAPDumper{}

// CaptureFrame implements PCAPSink.
func (pd *PCAPDumper) CaptureFrame(payload []byte, timestamp time.Time) {
	const captureLength = 512
	snaplen := len(payload)
	if snaplen > captureLength {
		snaplen = captureLength
	}
	entry := &pcapEntry{
		timestamp:      timestamp,
		originalLength: len(payload),
		snapshot:       append([]byte{}, payload[:snaplen]...), // duplicate
	}
	select {
	case pd.pich <- entry:
	default:
		pd.logger.Warnf("wmediumd: PCAPDumper: capture queue full, dropping frame")
	}
}

// loop is the background goroutine that writes queued frames to disk.
func (pd *PCAPDumper) loop(filep *os.File, w *pcapgo.Writer) {
	defer close(pd.done)
	defer filep.Close()
	for entry := range pd.pich {
		pd.writeEntry(entry, w)
	}
}

// writeEntry writes a single queued entry to the PCAP file.
func (pd *PCAPDumper) writeEntry(entry *pcapEntry, w *pcapgo.Writer) {
	ci := gopacket.CaptureInfo{
		Timestamp:     entry.timestamp,
		CaptureLength: len(entry.snapshot),
		Length:        entry.originalLength,
	}
	if err := w.WritePacket(ci, entry.snapshot); err != nil {
		pd.logger.Warnf("wmediumd: PCAPDumper: WritePacket: %s", err.Error())
	}
}

// Close implements PCAPSink. Drains the queue and closes the file.
func (pd *PCAPDumper) Close() error {
	pd.closeOnce.Do(func() {
		close(pd.pich)
		<-pd.done
	})
	return nil
}
