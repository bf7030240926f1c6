package netlink

//
// Peer measurement (PMSR / FTM ranging) support (spec.md open question,
// resolved in SPEC_FULL.md: "PMSR is stubbed to always fail per peer").
//
// Grounded on original_source/wmediumd/pmsr.c, which the reference
// implementation itself stubs out: it accepts a START_PMSR request and
// immediately reports every requested peer as failed, never performing
// real ranging. We mirror that behavior rather than invent a ranging
// model the spec does not ask for.
//

import "github.com/mdlayher/netlink"

// PMSRRequest is a peer measurement request for one or more peers, as
// carried nested under AttrPMSRRequest.
type PMSRRequest struct {
	Peers [][6]byte
}

// PMSRStatus mirrors the reference implementation's PMSR result status
// codes (original_source/wmediumd/pmsr.c).
type PMSRStatus uint8

const (
	PMSRStatusSuccess PMSRStatus = iota
	PMSRStatusRefused
	PMSRStatusTimeout
	PMSRStatusFailure
)

// PMSRPeerResult is one peer's entry in a CmdReportPMSR result, always
// reported as a failure (see the package doc comment).
type PMSRPeerResult struct {
	Addr   [6]byte
	Status PMSRStatus
}

// DecodePMSRRequest parses the attribute payload of a CmdStartPMSR message,
// extracting only the peer address list; every other ranging parameter the
// kernel sends is ignored, since no real measurement is ever performed.
func DecodePMSRRequest(b []byte) (PMSRRequest, error) {
	var req PMSRRequest
	ad, err := netlink.NewAttributeDecoder(b)
	if err != nil {
		return req, err
	}
	for ad.Next() {
		if Attr(ad.Type()) != AttrPMSRRequest {
			continue
		}
		nested, err := netlink.NewAttributeDecoder(ad.Bytes())
		if err != nil {
			continue
		}
		for nested.Next() {
			if Attr(nested.Type()) != AttrAddrReceiver {
				continue
			}
			var addr [6]byte
			copy(addr[:], nested.Bytes())
			req.Peers = append(req.Peers, addr)
		}
	}
	return req, ad.Err()
}

// EncodeReportPMSR builds a CmdReportPMSR payload reporting every peer in
// req as [PMSRStatusFailure], matching the reference implementation's
// unconditional-failure stub.
func EncodeReportPMSR(radioID uint32, req PMSRRequest) ([]byte, error) {
	ae := netlink.NewAttributeEncoder()
	ae.Uint32(uint16(AttrRadioID), radioID)
	results := make([]byte, 0, len(req.Peers)*7)
	for _, peer := range req.Peers {
		results = append(results, peer[:]...)
		results = append(results, byte(PMSRStatusFailure))
	}
	ae.Bytes(uint16(AttrPMSRResult), results)
	return ae.Encode()
}
