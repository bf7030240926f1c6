package netlink

//
// Generic-netlink message encode/decode (spec.md §4.8).
//

import (
	"fmt"

	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"
)

// FrameMessage is the payload of a CmdFrame (driver -> simulator) or
// CmdTxInfoFrame (simulator -> driver) message.
type FrameMessage struct {
	Receiver    [6]byte
	Transmitter [6]byte
	Frame       []byte
	Flags       FrameFlag
	RxRate      uint32
	Signal      int32
	Cookie      uint64
	Freq        uint32
	TxRates     []TxRateStep
}

// TxRateStep is one (rate index, retry count) pair as carried nested under
// AttrTxInfo (spec.md §4.6).
type TxRateStep struct {
	Idx   uint8
	Count uint8
}

// EncodeFrame builds the attribute payload for a CmdFrame or
// CmdTxInfoFrame message.
func EncodeFrame(m FrameMessage) ([]byte, error) {
	ae := netlink.NewAttributeEncoder()
	ae.Bytes(uint16(AttrAddrReceiver), m.Receiver[:])
	ae.Bytes(uint16(AttrAddrTransmitter), m.Transmitter[:])
	ae.Bytes(uint16(AttrFrame), m.Frame)
	ae.Uint32(uint16(AttrFlags), uint32(m.Flags))
	ae.Uint32(uint16(AttrRxRate), m.RxRate)
	ae.Uint32(uint16(AttrSignal), uint32(m.Signal))
	ae.Uint64(uint16(AttrCookie), m.Cookie)
	ae.Uint32(uint16(AttrFreq), m.Freq)
	if len(m.TxRates) > 0 {
		rates := make([]byte, 0, len(m.TxRates)*2)
		for _, r := range m.TxRates {
			rates = append(rates, r.Idx, r.Count)
		}
		ae.Bytes(uint16(AttrTxInfo), rates)
	}
	return ae.Encode()
}

// DecodeFrame parses the attribute payload of a CmdFrame or
// CmdTxInfoFrame message.
func DecodeFrame(b []byte) (FrameMessage, error) {
	var m FrameMessage
	ad, err := netlink.NewAttributeDecoder(b)
	if err != nil {
		return m, fmt.Errorf("netlink: decoding frame attrs: %w", err)
	}
	for ad.Next() {
		switch Attr(ad.Type()) {
		case AttrAddrReceiver:
			copy(m.Receiver[:], ad.Bytes())
		case AttrAddrTransmitter:
			copy(m.Transmitter[:], ad.Bytes())
		case AttrFrame:
			m.Frame = append([]byte{}, ad.Bytes()...)
		case AttrFlags:
			m.Flags = FrameFlag(ad.Uint32())
		case AttrRxRate:
			m.RxRate = ad.Uint32()
		case AttrSignal:
			m.Signal = int32(ad.Uint32())
		case AttrCookie:
			m.Cookie = ad.Uint64()
		case AttrFreq:
			m.Freq = ad.Uint32()
		case AttrTxInfo:
			raw := ad.Bytes()
			for i := 0; i+1 < len(raw); i += 2 {
				m.TxRates = append(m.TxRates, TxRateStep{Idx: raw[i], Count: raw[i+1]})
			}
		}
	}
	if err := ad.Err(); err != nil {
		return m, fmt.Errorf("netlink: decoding frame attrs: %w", err)
	}
	return m, nil
}

// RadioMessage is the payload of a CmdNewRadio or CmdDelRadio message.
type RadioMessage struct {
	RadioID   uint32
	Name      string
	Addr      [6]byte
	Channels  uint32
	NoVif     bool
	UseChanctx bool
}

// EncodeNewRadio builds the attribute payload for a CmdNewRadio message.
func EncodeNewRadio(m RadioMessage) ([]byte, error) {
	ae := netlink.NewAttributeEncoder()
	ae.Uint32(uint16(AttrRadioID), m.RadioID)
	if m.Name != "" {
		ae.String(uint16(AttrRadioName), m.Name)
	}
	ae.Bytes(uint16(AttrPermanentMacAddr), m.Addr[:])
	if m.Channels > 0 {
		ae.Uint32(uint16(AttrChannels), m.Channels)
	}
	if m.NoVif {
		ae.Flag(uint16(AttrNoVif))
	}
	if m.UseChanctx {
		ae.Flag(uint16(AttrUseChanctx))
	}
	return ae.Encode()
}

// EncodeDelRadio builds the attribute payload for a CmdDelRadio message.
func EncodeDelRadio(radioID uint32) ([]byte, error) {
	ae := netlink.NewAttributeEncoder()
	ae.Uint32(uint16(AttrRadioID), radioID)
	return ae.Encode()
}

// EncodeMacAddr builds the attribute payload for a CmdAddMacAddr or
// CmdDelMacAddr message.
func EncodeMacAddr(radioID uint32, addr [6]byte) ([]byte, error) {
	ae := netlink.NewAttributeEncoder()
	ae.Uint32(uint16(AttrRadioID), radioID)
	ae.Bytes(uint16(AttrAddrTransmitter), addr[:])
	return ae.Encode()
}

// DecodeRadioMessage parses the attribute payload of a CmdNewRadio or
// CmdDelRadio message as sent by the kernel driver on radio/interface
// lifecycle events.
func DecodeRadioMessage(b []byte) (RadioMessage, error) {
	var m RadioMessage
	ad, err := netlink.NewAttributeDecoder(b)
	if err != nil {
		return m, fmt.Errorf("netlink: decoding radio attrs: %w", err)
	}
	for ad.Next() {
		switch Attr(ad.Type()) {
		case AttrRadioID:
			m.RadioID = ad.Uint32()
		case AttrRadioName:
			m.Name = ad.String()
		case AttrPermanentMacAddr:
			copy(m.Addr[:], ad.Bytes())
		case AttrChannels:
			m.Channels = ad.Uint32()
		case AttrNoVif:
			m.NoVif = true
		case AttrUseChanctx:
			m.UseChanctx = true
		}
	}
	if err := ad.Err(); err != nil {
		return m, fmt.Errorf("netlink: decoding radio attrs: %w", err)
	}
	return m, nil
}

// DecodeMacAddr parses the attribute payload of a CmdAddMacAddr or
// CmdDelMacAddr message: the radio whose virtual address set changed, and
// the address being added or removed.
func DecodeMacAddr(b []byte) (radioID uint32, addr [6]byte, err error) {
	ad, derr := netlink.NewAttributeDecoder(b)
	if derr != nil {
		return 0, addr, fmt.Errorf("netlink: decoding mac_addr attrs: %w", derr)
	}
	for ad.Next() {
		switch Attr(ad.Type()) {
		case AttrRadioID:
			radioID = ad.Uint32()
		case AttrAddrTransmitter:
			copy(addr[:], ad.Bytes())
		}
	}
	if err := ad.Err(); err != nil {
		return 0, addr, fmt.Errorf("netlink: decoding mac_addr attrs: %w", err)
	}
	return radioID, addr, nil
}

// NewMessage wraps payload into a genetlink message for command cmd.
func NewMessage(cmd Command, payload []byte) genetlink.Message {
	return genetlink.Message{
		Header: genetlink.Header{
			Command: uint8(cmd),
			Version: 1,
		},
		Data: payload,
	}
}
