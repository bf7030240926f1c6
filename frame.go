package wmediumd

//
// 802.11 frame model and lazy header accessors (spec.md §3, §4.4).
//
// Grounded on the teacher's dissect.go, which exposed a raw byte buffer
// through small stateless accessor methods instead of eagerly unmarshaling
// into a struct tree. dissect.go parsed IPv4/TCP/UDP; frameHeader below
// reads just enough of an 802.11 MAC header (frame control, the three
// address fields, and the QoS Control field) to classify a frame by access
// category and to learn its transmitter/receiver addresses, without any
// dependency on gopacket's 802.11 layer (which does not exist in the
// examples' gopacket version).
//

import (
	"encoding/binary"
	"fmt"
)

const (
	dot11FrameControlLen = 2
	dot11DurationLen     = 2
	dot11AddrLen         = 6
	dot11SeqCtrlLen      = 2
	dot11QoSCtrlLen      = 2

	// dot11MinHeaderLen is frame control + duration + addr1 + addr2 + addr3 +
	// seq control, the shortest a data frame header can be without a QoS
	// field or a fourth address.
	dot11MinHeaderLen = dot11FrameControlLen + dot11DurationLen + 3*dot11AddrLen + dot11SeqCtrlLen
)

// dot11FrameType and subtype bits within the frame control field, per the
// 802.11 standard (spec.md §4.4: "Addr1/Addr2 are read from the 802.11
// header; QoS TID maps to an access category").
const (
	dot11TypeMask    = 0x0c
	dot11TypeData    = 0x08
	dot11SubtypeMask = 0xf0
	dot11QoSSubtype  = 0x80 // subtype bit indicating a QoS data frame
	dot11ToDSMask    = 0x01
	dot11FromDSMask  = 0x02
)

// classifyTID maps an 802.11 QoS TID (0-7, as carried in the low 3 bits of
// the QoS Control field) onto one of the four access categories, following
// the standard WMM UP-to-AC mapping (spec.md §4.4).
func classifyTID(tid int) AccessCategory {
	switch tid {
	case 1, 2:
		return ACBackground
	case 0, 3:
		return ACBestEffort
	case 4, 5:
		return ACVideo
	case 6, 7:
		return ACVoice
	default:
		return ACBestEffort
	}
}

// dot11Header is a thin, non-owning view over a raw 802.11 frame's fixed
// header fields.
type dot11Header struct {
	raw []byte
}

func newDot11Header(raw []byte) (dot11Header, error) {
	if len(raw) < dot11MinHeaderLen {
		return dot11Header{}, fmt.Errorf("wmediumd: 802.11 frame too short: %d bytes", len(raw))
	}
	return dot11Header{raw: raw}, nil
}

func (h dot11Header) frameControl() uint16 {
	return binary.LittleEndian.Uint16(h.raw[0:2])
}

func (h dot11Header) isDataFrame() bool {
	return h.frameControl()&dot11TypeMask == dot11TypeData
}

func (h dot11Header) isQoS() bool {
	return h.frameControl()&dot11SubtypeMask&dot11QoSSubtype != 0
}

func (h dot11Header) addr(n int) MACAddr {
	var a MACAddr
	off := dot11FrameControlLen + dot11DurationLen + (n-1)*dot11AddrLen
	copy(a[:], h.raw[off:off+dot11AddrLen])
	return a
}

// Addr1 is the immediate receiver address.
func (h dot11Header) Addr1() MACAddr { return h.addr(1) }

// Addr2 is the transmitter address.
func (h dot11Header) Addr2() MACAddr { return h.addr(2) }

// Addr3 is the BSSID, source, or destination depending on ToDS/FromDS.
func (h dot11Header) Addr3() MACAddr { return h.addr(3) }

// qosTID returns the QoS TID field, or 0 (best-effort) if this is not a QoS
// data frame.
func (h dot11Header) qosTID() int {
	if !h.isQoS() {
		return 0
	}
	off := dot11MinHeaderLen
	if len(h.raw) < off+dot11QoSCtrlLen {
		return 0
	}
	qos := binary.LittleEndian.Uint16(h.raw[off : off+dot11QoSCtrlLen])
	return int(qos & 0x07)
}

// classifyAccessCategory classifies raw as one of the four ACs (spec.md §4.4:
// "non-QoS or unparseable frames default to best-effort").
func classifyAccessCategory(raw []byte) AccessCategory {
	h, err := newDot11Header(raw)
	if err != nil || !h.isDataFrame() {
		return ACBestEffort
	}
	return classifyTID(h.qosTID())
}

// RetryStep is one entry in a frame's rate-fallback retry schedule (spec.md
// §4.6: "up to 4 (rate_index, count) pairs").
type RetryStep struct {
	RateIndex int
	Count     int
}

// maxRetrySteps bounds the rate-fallback schedule length.
const maxRetrySteps = 4

// TxStatus is returned to the transmitting client exactly once per Frame
// (spec.md §3 invariant: "exactly one TX-status is produced per originating
// frame").
type TxStatus struct {
	Acked       bool
	RetryCount  int
	FinalRateIdx int
}

// Frame is one 802.11 transmission attempt flowing through the simulator.
// A Frame is owned by exactly one goroutine at a time: admitted by the I/O
// multiplexer, then handed to the scheduler goroutine for its entire
// lifetime (spec.md §5).
type Frame struct {
	// Cookie is the caller-supplied correlation id echoed back in TX_INFO.
	Cookie uint64

	// SrcClientID identifies the client that originated this frame, for
	// routing the eventual TxStatus back (see client.go).
	SrcClientID int

	// SrcAddr is the transmitter address, read from the 802.11 header.
	SrcAddr MACAddr

	// Raw holds the full 802.11 frame bytes, unmodified.
	Raw []byte

	// Frequency is the channel the frame was transmitted on, in MHz.
	Frequency int

	// AC is the access category this frame was classified into.
	AC AccessCategory

	// NoAck marks a frame that must not be acknowledged: one whose
	// destination is a broadcast or multicast address — spec.md §4.4:
	// "broadcast/multicast frames bypass ACK bookkeeping". The netlink
	// tx_info NO_ACK flag is not consulted.
	NoAck bool

	// RetrySchedule lists the rates this frame falls back across on
	// failure, in order.
	RetrySchedule []RetryStep

	// attempt is the index into RetrySchedule currently in use.
	attempt int

	// attemptsAtStep counts failed transmission attempts already made at
	// RetrySchedule[attempt], so a step's Count > 1 is honored (more than
	// one try at the same rate) before falling back to the next rate
	// (spec.md §3, §4.6: "(rate_index, count) pairs").
	attemptsAtStep int

	// totalAttempts is the number of failed transmission attempts made
	// across the whole retry schedule, reported as TxStatus.RetryCount.
	totalAttempts int

	// txStartJob and completeJob track this frame's scheduled jobs so they
	// can be canceled if the owning station is removed mid-flight.
	txStartJob *Job
	completeJob *Job

	// delivered tracks receivers who have already been handed this frame,
	// so a station present in more than one overlapping job only receives
	// once.
	delivered map[MACAddr]bool
}

// NewFrame builds a Frame from a raw 802.11 payload, classifying its access
// category from the QoS header if present.
func NewFrame(cookie uint64, srcClientID int, raw []byte, freqMHz int, retrySchedule []RetryStep) (*Frame, error) {
	h, err := newDot11Header(raw)
	if err != nil {
		return nil, err
	}
	if len(retrySchedule) == 0 {
		return nil, fmt.Errorf("wmediumd: frame has no retry schedule")
	}
	if len(retrySchedule) > maxRetrySteps {
		retrySchedule = retrySchedule[:maxRetrySteps]
	}
	addr1 := h.Addr1()
	f := &Frame{
		Cookie:        cookie,
		SrcClientID:   srcClientID,
		SrcAddr:       h.Addr2(),
		Raw:           raw,
		Frequency:     freqMHz,
		AC:            classifyAccessCategory(raw),
		NoAck:         addr1.IsBroadcast() || addr1.IsMulticast(),
		RetrySchedule: retrySchedule,
		delivered:     make(map[MACAddr]bool),
	}
	return f, nil
}

// DestAddr returns the frame's immediate-receiver address (Addr1).
func (f *Frame) DestAddr() MACAddr {
	h, err := newDot11Header(f.Raw)
	if err != nil {
		return MACAddr{}
	}
	return h.Addr1()
}

// CurrentRetryStep returns the (rate, count) pair currently in use.
func (f *Frame) CurrentRetryStep() RetryStep {
	if f.attempt >= len(f.RetrySchedule) {
		return f.RetrySchedule[len(f.RetrySchedule)-1]
	}
	return f.RetrySchedule[f.attempt]
}

// Advance records one more failed transmission attempt at the current
// retry step. If the step's Count has not yet been exhausted, it is tried
// again at the same rate; otherwise Advance moves to the next rate-fallback
// step. Returns false once the whole schedule — every Count at every step —
// is exhausted (spec.md §4.6: "retry exhaustion fails the frame").
func (f *Frame) Advance() bool {
	f.totalAttempts++
	f.attemptsAtStep++
	count := f.RetrySchedule[f.attempt].Count
	if count <= 0 {
		count = 1
	}
	if f.attemptsAtStep < count {
		return true
	}
	f.attemptsAtStep = 0
	f.attempt++
	return f.attempt < len(f.RetrySchedule)
}

// MarkDelivered records that addr has received this frame, returning false
// if it had already been delivered (guards against double delivery when a
// station overlaps more than one scheduled job).
func (f *Frame) MarkDelivered(addr MACAddr) bool {
	if f.delivered[addr] {
		return false
	}
	f.delivered[addr] = true
	return true
}
