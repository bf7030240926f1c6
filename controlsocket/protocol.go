// Package controlsocket implements the wmediumd control-socket wire
// protocol: a fixed 8-byte header followed by a variable-length body,
// strictly ordered per connection (spec.md §4.9).
package controlsocket

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// MessageType identifies the kind of control-socket message (spec.md §4.9,
// grounded on original_source/wmediumd/api.h's wmediumd_message_type
// enumeration).
type MessageType uint32

const (
	TypeRegister MessageType = iota
	TypeUnregister
	TypeTxStart
	TypeTxInfo
	TypeAck
	TypeSetSNR
	TypeSetPosition
	TypeSetTxPower
	// TypeNetlink carries an encapsulated netlink message, treated
	// identically to one received from the driver for the purpose of
	// simulation (spec.md §4.9).
	TypeNetlink
	// TypeReloadConfig and TypeReloadCurrentConfig reload a named or
	// last-known configuration path (spec.md §4.9).
	TypeReloadConfig
	TypeReloadCurrentConfig
	// TypeGetNodes lists known stations (spec.md §4.9).
	TypeGetNodes
	// TypeError reports a typed error ACK to a control-socket client
	// (spec.md §7: "control-socket clients receive a typed error ACK").
	TypeError
)

// headerLen is the fixed framing header: a 4-byte type and a 4-byte body
// length (spec.md §4.9: "a fixed 8-byte header {u32 type, u32 data_len} +
// body, strictly ordered per connection").
const headerLen = 8

// maxBodyLen bounds a single message body, guarding against a malformed or
// hostile peer claiming an unbounded length.
const maxBodyLen = 1 << 20

// byteOrder is the wire byte order for header fields and any fixed-width
// body fields this package encodes directly (spec.md is silent on
// endianness; network byte order is the conventional default for a
// host-independent socket protocol).
var byteOrder = binary.BigEndian

// Message is one decoded control-socket frame.
type Message struct {
	Type MessageType
	Body []byte
}

// ReadMessage reads one complete framed message from r, blocking until the
// full header and body have arrived or an error occurs.
func ReadMessage(r io.Reader) (Message, error) {
	var hdr [headerLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Message{}, err
	}
	typ := MessageType(byteOrder.Uint32(hdr[0:4]))
	bodyLen := byteOrder.Uint32(hdr[4:8])
	if bodyLen > maxBodyLen {
		return Message{}, fmt.Errorf("controlsocket: body length %d exceeds maximum %d", bodyLen, maxBodyLen)
	}
	body := make([]byte, bodyLen)
	if bodyLen > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return Message{}, err
		}
	}
	return Message{Type: typ, Body: body}, nil
}

// WriteMessage frames and writes msg's type and body to w as a single
// 8-byte-header message.
func WriteMessage(w io.Writer, typ MessageType, body []byte) error {
	var hdr [headerLen]byte
	byteOrder.PutUint32(hdr[0:4], uint32(typ))
	byteOrder.PutUint32(hdr[4:8], uint32(len(body)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("controlsocket: writing header: %w", err)
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("controlsocket: writing body: %w", err)
		}
	}
	return nil
}

// RegisterBody is the body of a TypeRegister message: the client's
// requested subscription flags.
type RegisterBody struct {
	Flags uint32
}

// EncodeRegisterBody serializes a RegisterBody.
func EncodeRegisterBody(b RegisterBody) []byte {
	buf := make([]byte, 4)
	byteOrder.PutUint32(buf, b.Flags)
	return buf
}

// DecodeRegisterBody parses a TypeRegister message body.
func DecodeRegisterBody(body []byte) (RegisterBody, error) {
	if len(body) < 4 {
		return RegisterBody{}, fmt.Errorf("controlsocket: register body too short")
	}
	return RegisterBody{Flags: byteOrder.Uint32(body[0:4])}, nil
}

// SetSNRBody is the body of a TypeSetSNR message: pin snr[m1][m2] = s for
// the two MACs (spec.md §4.9).
type SetSNRBody struct {
	MAC1  [6]byte
	MAC2  [6]byte
	SNRDB int32
}

// EncodeSetSNRBody serializes a SetSNRBody.
func EncodeSetSNRBody(b SetSNRBody) []byte {
	buf := make([]byte, 16)
	copy(buf[0:6], b.MAC1[:])
	copy(buf[6:12], b.MAC2[:])
	byteOrder.PutUint32(buf[12:16], uint32(b.SNRDB))
	return buf
}

// DecodeSetSNRBody parses a TypeSetSNR message body.
func DecodeSetSNRBody(body []byte) (SetSNRBody, error) {
	if len(body) < 16 {
		return SetSNRBody{}, fmt.Errorf("controlsocket: set_snr body too short")
	}
	var b SetSNRBody
	copy(b.MAC1[:], body[0:6])
	copy(b.MAC2[:], body[6:12])
	b.SNRDB = int32(byteOrder.Uint32(body[12:16]))
	return b, nil
}

// SetPositionBody is the body of a TypeSetPosition message.
type SetPositionBody struct {
	MAC [6]byte
	X   float64
	Y   float64
}

// EncodeSetPositionBody serializes a SetPositionBody.
func EncodeSetPositionBody(b SetPositionBody) []byte {
	buf := make([]byte, 22)
	copy(buf[0:6], b.MAC[:])
	byteOrder.PutUint64(buf[6:14], math.Float64bits(b.X))
	byteOrder.PutUint64(buf[14:22], math.Float64bits(b.Y))
	return buf
}

// DecodeSetPositionBody parses a TypeSetPosition message body.
func DecodeSetPositionBody(body []byte) (SetPositionBody, error) {
	if len(body) < 22 {
		return SetPositionBody{}, fmt.Errorf("controlsocket: set_position body too short")
	}
	var b SetPositionBody
	copy(b.MAC[:], body[0:6])
	b.X = math.Float64frombits(byteOrder.Uint64(body[6:14]))
	b.Y = math.Float64frombits(byteOrder.Uint64(body[14:22]))
	return b, nil
}

// SetTxPowerBody is the body of a TypeSetTxPower message.
type SetTxPowerBody struct {
	MAC [6]byte
	DBm float64
}

// EncodeSetTxPowerBody serializes a SetTxPowerBody.
func EncodeSetTxPowerBody(b SetTxPowerBody) []byte {
	buf := make([]byte, 14)
	copy(buf[0:6], b.MAC[:])
	byteOrder.PutUint64(buf[6:14], math.Float64bits(b.DBm))
	return buf
}

// DecodeSetTxPowerBody parses a TypeSetTxPower message body.
func DecodeSetTxPowerBody(body []byte) (SetTxPowerBody, error) {
	if len(body) < 14 {
		return SetTxPowerBody{}, fmt.Errorf("controlsocket: set_tx_power body too short")
	}
	var b SetTxPowerBody
	copy(b.MAC[:], body[0:6])
	b.DBm = math.Float64frombits(byteOrder.Uint64(body[6:14]))
	return b, nil
}

// ReloadConfigBody is the body of a TypeReloadConfig message: the path to
// reload. TypeReloadCurrentConfig carries no body.
type ReloadConfigBody struct {
	Path string
}

// EncodeReloadConfigBody serializes a ReloadConfigBody.
func EncodeReloadConfigBody(b ReloadConfigBody) []byte {
	return []byte(b.Path)
}

// DecodeReloadConfigBody parses a TypeReloadConfig message body.
func DecodeReloadConfigBody(body []byte) ReloadConfigBody {
	return ReloadConfigBody{Path: string(body)}
}

// NodeInfo is one station as reported by TypeGetNodes (spec.md §4.9:
// "ListStations() -> [{addr, hwaddr, x, y, tx_power, lci, civicloc}]").
type NodeInfo struct {
	HWAddr     [6]byte
	X          float64
	Y          float64
	TxPowerDBm float64
	LCI        []byte
	Civic      []byte
}

// EncodeGetNodesBody serializes the full station list for a TypeGetNodes
// reply.
func EncodeGetNodesBody(nodes []NodeInfo) []byte {
	buf := make([]byte, 4)
	byteOrder.PutUint32(buf, uint32(len(nodes)))
	for _, n := range nodes {
		rec := make([]byte, 6+8+8+8+4+len(n.LCI)+4+len(n.Civic))
		off := 0
		copy(rec[off:off+6], n.HWAddr[:])
		off += 6
		byteOrder.PutUint64(rec[off:off+8], math.Float64bits(n.X))
		off += 8
		byteOrder.PutUint64(rec[off:off+8], math.Float64bits(n.Y))
		off += 8
		byteOrder.PutUint64(rec[off:off+8], math.Float64bits(n.TxPowerDBm))
		off += 8
		byteOrder.PutUint32(rec[off:off+4], uint32(len(n.LCI)))
		off += 4
		copy(rec[off:off+len(n.LCI)], n.LCI)
		off += len(n.LCI)
		byteOrder.PutUint32(rec[off:off+4], uint32(len(n.Civic)))
		off += 4
		copy(rec[off:off+len(n.Civic)], n.Civic)
		buf = append(buf, rec...)
	}
	return buf
}

// DecodeGetNodesBody parses a TypeGetNodes reply body.
func DecodeGetNodesBody(body []byte) ([]NodeInfo, error) {
	if len(body) < 4 {
		return nil, fmt.Errorf("controlsocket: get_nodes body too short")
	}
	count := byteOrder.Uint32(body[0:4])
	body = body[4:]
	nodes := make([]NodeInfo, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(body) < 30 {
			return nil, fmt.Errorf("controlsocket: get_nodes record too short")
		}
		var n NodeInfo
		copy(n.HWAddr[:], body[0:6])
		n.X = math.Float64frombits(byteOrder.Uint64(body[6:14]))
		n.Y = math.Float64frombits(byteOrder.Uint64(body[14:22]))
		n.TxPowerDBm = math.Float64frombits(byteOrder.Uint64(body[22:30]))
		body = body[30:]
		if len(body) < 4 {
			return nil, fmt.Errorf("controlsocket: get_nodes record truncated (lci length)")
		}
		lciLen := byteOrder.Uint32(body[0:4])
		body = body[4:]
		if uint32(len(body)) < lciLen {
			return nil, fmt.Errorf("controlsocket: get_nodes record truncated (lci)")
		}
		n.LCI = append([]byte{}, body[:lciLen]...)
		body = body[lciLen:]
		if len(body) < 4 {
			return nil, fmt.Errorf("controlsocket: get_nodes record truncated (civic length)")
		}
		civicLen := byteOrder.Uint32(body[0:4])
		body = body[4:]
		if uint32(len(body)) < civicLen {
			return nil, fmt.Errorf("controlsocket: get_nodes record truncated (civic)")
		}
		n.Civic = append([]byte{}, body[:civicLen]...)
		body = body[civicLen:]
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// ErrorBody is the body of a TypeError message: a typed error ACK (spec.md
// §7: "control-socket clients receive a typed error ACK").
type ErrorBody struct {
	Message string
}

// EncodeErrorBody serializes an ErrorBody.
func EncodeErrorBody(b ErrorBody) []byte {
	return []byte(b.Message)
}

// DecodeErrorBody parses a TypeError message body.
func DecodeErrorBody(body []byte) ErrorBody {
	return ErrorBody{Message: string(body)}
}

// AckBody is the TX-status body sent in a TypeTxInfo message: the
// originating frame's cookie and whether it was acknowledged. The TypeAck
// replies cmd/wmediumd sends to requests carry no body.
type AckBody struct {
	Cookie uint64
	Acked  bool
}

// EncodeAckBody serializes an AckBody.
func EncodeAckBody(b AckBody) []byte {
	buf := make([]byte, 9)
	byteOrder.PutUint64(buf[0:8], b.Cookie)
	if b.Acked {
		buf[8] = 1
	}
	return buf
}

// DecodeAckBody parses a TypeAck message body.
func DecodeAckBody(body []byte) (AckBody, error) {
	if len(body) < 9 {
		return AckBody{}, fmt.Errorf("controlsocket: ack body too short")
	}
	return AckBody{
		Cookie: byteOrder.Uint64(body[0:8]),
		Acked:  body[8] != 0,
	}, nil
}
