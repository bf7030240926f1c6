package wmediumd

//
// Station data model (spec.md §3)
//

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// MACAddr is a 6-byte IEEE 802 hardware address.
type MACAddr [6]byte

// ParseMACAddr parses a lowercase colon-separated 17-character MAC address
// string, the shape spec.md §6 mandates for the RPC surface
// ("lowercase colon-separated 17-char strings; validation rejects any other
// shape").
func ParseMACAddr(s string) (MACAddr, error) {
	var addr MACAddr
	if len(s) != 17 {
		return addr, fmt.Errorf("wmediumd: invalid MAC address length: %q", s)
	}
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return addr, fmt.Errorf("wmediumd: invalid MAC address: %q", s)
	}
	for i, p := range parts {
		if len(p) != 2 || strings.ToLower(p) != p {
			return addr, fmt.Errorf("wmediumd: invalid MAC address octet: %q", s)
		}
		b, err := hex.DecodeString(p)
		if err != nil {
			return addr, fmt.Errorf("wmediumd: invalid MAC address octet: %q", s)
		}
		addr[i] = b[0]
	}
	return addr, nil
}

// String renders the address in lowercase colon-separated form.
func (a MACAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// IsBroadcast reports whether a is the all-ones broadcast address.
func (a MACAddr) IsBroadcast() bool {
	return a == MACAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
}

// IsMulticast reports whether a has the multicast bit set in its first octet.
func (a MACAddr) IsMulticast() bool {
	return a[0]&0x01 != 0
}

// AccessCategory is one of the four 802.11 QoS priority classes.
type AccessCategory int

const (
	// ACVoice (VO) has the tightest contention parameters.
	ACVoice AccessCategory = iota
	// ACVideo (VI).
	ACVideo
	// ACBestEffort (BE) is the default when a frame carries no QoS header.
	ACBestEffort
	// ACBackground (BK) has the most relaxed contention parameters.
	ACBackground

	// numAccessCategories is the fixed count of ACs (spec.md §3: "four total").
	numAccessCategories = 4
)

// String renders the AC name.
func (ac AccessCategory) String() string {
	switch ac {
	case ACVoice:
		return "VO"
	case ACVideo:
		return "VI"
	case ACBestEffort:
		return "BE"
	case ACBackground:
		return "BK"
	default:
		return "unknown"
	}
}

// Position is a 2-D location in metres.
type Position struct {
	X float64
	Y float64
}

// Direction is a 2-D movement vector in metres per movement tick.
type Direction struct {
	DX float64
	DY float64
}

// macAddrSet tracks additional MAC addresses owned by a station, each with
// an occupancy refcount (spec.md §3: "a set of additional MAC addresses
// (each with an occupancy refcount)").
type macAddrSet struct {
	refcount map[MACAddr]int
}

func newMACAddrSet() *macAddrSet {
	return &macAddrSet{refcount: map[MACAddr]int{}}
}

// add increments addr's refcount, registering it if new. Returns true if
// this is the first reference.
func (s *macAddrSet) add(addr MACAddr) bool {
	s.refcount[addr]++
	return s.refcount[addr] == 1
}

// remove decrements addr's refcount, removing it once it reaches zero.
// Returns true if addr was removed.
func (s *macAddrSet) remove(addr MACAddr) bool {
	n, ok := s.refcount[addr]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(s.refcount, addr)
		return true
	}
	s.refcount[addr] = n - 1
	return false
}

func (s *macAddrSet) has(addr MACAddr) bool {
	_, ok := s.refcount[addr]
	return ok
}

func (s *macAddrSet) addrs() []MACAddr {
	out := make([]MACAddr, 0, len(s.refcount))
	for a := range s.refcount {
		out = append(out, a)
	}
	return out
}

// Station is a simulated radio (spec.md §3).
type Station struct {
	// Index is this station's position in the registry, stable for its
	// lifetime and reused only after removal (spec.md §9: arena + index).
	Index int

	// HWAddr is the station's single hardware address.
	HWAddr MACAddr

	// addrs holds additional registered MAC addresses (virtual interfaces).
	addrs *macAddrSet

	// Position is the station's location in metres.
	Position Position

	// Dir is the station's movement vector, applied by the movement job.
	Dir Direction

	// TxPowerDBm is the station's transmit power in dBm.
	TxPowerDBm float64

	// LCI and Civic are opaque FTM-responder location strings.
	LCI   []byte
	Civic []byte

	// Frequency is the operating frequency in MHz, used to select the
	// station's rate set (2.4 GHz vs 5 GHz) and PER table.
	Frequency int

	// RateSet lists the rates of the station's band in rate-index order;
	// each retry step's rate index is resolved against it (spec.md §4.6).
	RateSet []Rate

	// queues holds one FIFO per access category (spec.md §3: "one queue per
	// access category (VO/VI/BE/BK, four total)").
	queues [numAccessCategories]*Queue

	// ClientID is the id of the owning connection for client-owned
	// (non-netlink) stations; meaningful only when hasClient is set.
	ClientID int

	// hasClient records whether ClientID is meaningful (ClientID 0 is a
	// valid id, so a bool flag avoids an implicit sentinel).
	hasClient bool
}

// Rate describes one entry in a station's rate set.
type Rate struct {
	// Index is the rate index as carried in netlink tx_info attributes.
	Index int
	// Mbps is the nominal bitrate.
	Mbps float64
}

// newStation creates a Station with empty queues allocated. Use
// [Registry.Insert] rather than calling this directly so the index and
// link-matrix invalidation stay consistent.
func newStation(hwAddr MACAddr, params AccessCategoryParamsTable) *Station {
	st := &Station{
		HWAddr:     hwAddr,
		addrs:      newMACAddrSet(),
		TxPowerDBm: defaultTxPowerDBm,
		Frequency:  defaultFrequencyMHz,
	}
	for ac := AccessCategory(0); int(ac) < numAccessCategories; ac++ {
		st.queues[ac] = newQueue(ac, params.For(ac))
	}
	st.RateSet = RateSetForFrequency(st.Frequency)
	return st
}

// defaultTxPowerDBm is used when a config entry omits tx-power.
const defaultTxPowerDBm = 15.0

// defaultFrequencyMHz is the 2.4 GHz channel 1 centre frequency, used when a
// station's frequency is otherwise unknown.
const defaultFrequencyMHz = 2412

// Queue returns the per-AC queue for ac.
func (st *Station) Queue(ac AccessCategory) *Queue {
	return st.queues[ac]
}

// HasAddr reports whether addr is this station's hardware address or one of
// its registered virtual-interface addresses.
func (st *Station) HasAddr(addr MACAddr) bool {
	return st.HWAddr == addr || st.addrs.has(addr)
}

// AddAddr registers an additional MAC address for this station
// (netlink ADD_MAC_ADDR).
func (st *Station) AddAddr(addr MACAddr) {
	st.addrs.add(addr)
}

// DelAddr unregisters addr (netlink DEL_MAC_ADDR). A no-op if addr was never
// added or is the station's primary hardware address.
func (st *Station) DelAddr(addr MACAddr) {
	st.addrs.remove(addr)
}

// Addrs returns the station's additional registered addresses.
func (st *Station) Addrs() []MACAddr {
	return st.addrs.addrs()
}

// Move applies one movement tick, adding Dir to Position. Callers must mark
// the link matrix dirty afterwards (spec.md §3 invariants).
func (st *Station) Move() {
	st.Position.X += st.Dir.DX
	st.Position.Y += st.Dir.DY
}
