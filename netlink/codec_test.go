package netlink

import (
	"testing"

	mlnetlink "github.com/mdlayher/netlink"
)

func newAttrEncoderWithNestedPeers(t *testing.T, peers [][6]byte) []byte {
	t.Helper()
	nested := mlnetlink.NewAttributeEncoder()
	for _, peer := range peers {
		nested.Bytes(uint16(AttrAddrReceiver), peer[:])
	}
	nestedBytes, err := nested.Encode()
	if err != nil {
		t.Fatalf("encoding nested peers: %v", err)
	}

	ae := mlnetlink.NewAttributeEncoder()
	ae.Bytes(uint16(AttrPMSRRequest), nestedBytes)
	encoded, err := ae.Encode()
	if err != nil {
		t.Fatalf("encoding PMSR request: %v", err)
	}
	return encoded
}

func decodePMSRResults(payload []byte) ([]PMSRPeerResult, error) {
	ad, err := mlnetlink.NewAttributeDecoder(payload)
	if err != nil {
		return nil, err
	}
	var results []PMSRPeerResult
	for ad.Next() {
		if Attr(ad.Type()) != AttrPMSRResult {
			continue
		}
		raw := ad.Bytes()
		for i := 0; i+6 < len(raw); i += 7 {
			var r PMSRPeerResult
			copy(r.Addr[:], raw[i:i+6])
			r.Status = PMSRStatus(raw[i+6])
			results = append(results, r)
		}
	}
	return results, ad.Err()
}

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	want := FrameMessage{
		Receiver:    [6]byte{0x02, 0, 0, 0, 0, 1},
		Transmitter: [6]byte{0x02, 0, 0, 0, 0, 2},
		Frame:       []byte{0xde, 0xad, 0xbe, 0xef},
		Flags:       FlagTxStatAck,
		RxRate:      6,
		Signal:      -42,
		Cookie:      0xdeadbeef,
		Freq:        2412,
		TxRates:     []TxRateStep{{Idx: 0, Count: 1}, {Idx: 1, Count: 2}},
	}

	encoded, err := EncodeFrame(want)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	got, err := DecodeFrame(encoded)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	if got.Receiver != want.Receiver || got.Transmitter != want.Transmitter {
		t.Fatalf("addrs = %+v, want %+v", got, want)
	}
	if string(got.Frame) != string(want.Frame) {
		t.Fatalf("Frame = %x, want %x", got.Frame, want.Frame)
	}
	if got.Flags != want.Flags {
		t.Fatalf("Flags = %v, want %v", got.Flags, want.Flags)
	}
	if got.Signal != want.Signal {
		t.Fatalf("Signal = %d, want %d", got.Signal, want.Signal)
	}
	if got.Cookie != want.Cookie {
		t.Fatalf("Cookie = %d, want %d", got.Cookie, want.Cookie)
	}
	if len(got.TxRates) != len(want.TxRates) {
		t.Fatalf("TxRates = %+v, want %+v", got.TxRates, want.TxRates)
	}
	for i := range want.TxRates {
		if got.TxRates[i] != want.TxRates[i] {
			t.Fatalf("TxRates[%d] = %+v, want %+v", i, got.TxRates[i], want.TxRates[i])
		}
	}
}

func TestEncodeNewRadioAndDelRadio(t *testing.T) {
	want := RadioMessage{
		RadioID: 3,
		Name:    "wlan-sim0",
		Addr:    [6]byte{0x02, 0, 0, 0, 0, 9},
	}
	payload, err := EncodeNewRadio(want)
	if err != nil {
		t.Fatalf("EncodeNewRadio: %v", err)
	}
	if len(payload) == 0 {
		t.Fatal("expected a non-empty NewRadio payload")
	}
	got, err := DecodeRadioMessage(payload)
	if err != nil {
		t.Fatalf("DecodeRadioMessage: %v", err)
	}
	if got.RadioID != want.RadioID || got.Name != want.Name || got.Addr != want.Addr {
		t.Fatalf("DecodeRadioMessage = %+v, want %+v", got, want)
	}

	delPayload, err := EncodeDelRadio(3)
	if err != nil {
		t.Fatalf("EncodeDelRadio: %v", err)
	}
	if len(delPayload) == 0 {
		t.Fatal("expected a non-empty DelRadio payload")
	}
	delGot, err := DecodeRadioMessage(delPayload)
	if err != nil {
		t.Fatalf("DecodeRadioMessage(del): %v", err)
	}
	if delGot.RadioID != 3 {
		t.Fatalf("DecodeRadioMessage(del).RadioID = %d, want 3", delGot.RadioID)
	}
}

func TestEncodeMacAddr(t *testing.T) {
	wantAddr := [6]byte{0x02, 0, 0, 0, 0, 7}
	payload, err := EncodeMacAddr(1, wantAddr)
	if err != nil {
		t.Fatalf("EncodeMacAddr: %v", err)
	}
	if len(payload) == 0 {
		t.Fatal("expected a non-empty MacAddr payload")
	}
	radioID, addr, err := DecodeMacAddr(payload)
	if err != nil {
		t.Fatalf("DecodeMacAddr: %v", err)
	}
	if radioID != 1 || addr != wantAddr {
		t.Fatalf("DecodeMacAddr = (%d, %x), want (1, %x)", radioID, addr, wantAddr)
	}
}

func TestNewMessageSetsCommandAndPayload(t *testing.T) {
	msg := NewMessage(CmdFrame, []byte{1, 2, 3})
	if msg.Header.Command != uint8(CmdFrame) {
		t.Fatalf("Command = %d, want %d", msg.Header.Command, CmdFrame)
	}
	if string(msg.Data) != "\x01\x02\x03" {
		t.Fatalf("Data = %x, want 010203", msg.Data)
	}
}

func TestPMSRRequestRoundTripAlwaysReportsFailure(t *testing.T) {
	peers := [][6]byte{{0x02, 0, 0, 0, 0, 1}, {0x02, 0, 0, 0, 0, 2}}

	ae := newAttrEncoderWithNestedPeers(t, peers)
	req, err := DecodePMSRRequest(ae)
	if err != nil {
		t.Fatalf("DecodePMSRRequest: %v", err)
	}
	if len(req.Peers) != len(peers) {
		t.Fatalf("got %d peers, want %d", len(req.Peers), len(peers))
	}

	reportPayload, err := EncodeReportPMSR(1, req)
	if err != nil {
		t.Fatalf("EncodeReportPMSR: %v", err)
	}

	results, err := decodePMSRResults(reportPayload)
	if err != nil {
		t.Fatalf("decodePMSRResults: %v", err)
	}
	if len(results) != len(peers) {
		t.Fatalf("got %d results, want %d", len(results), len(peers))
	}
	for _, r := range results {
		if r.Status != PMSRStatusFailure {
			t.Fatalf("peer %x reported status %v, want PMSRStatusFailure", r.Addr, r.Status)
		}
	}
}
