package wmediumd

//
// Station registry (spec.md §4.2).
//
// Grounded on the teacher's router.go, whose Router kept a
// map[string]*RouterPort keyed by interface name. Here the registry keys
// instead on a stable arena index (spec.md §9: "index stable for a
// station's lifetime, reused only after removal") with two lookup maps
// layered on top for the two ways a frame's address can resolve to a
// station: its primary hardware address, and any of its registered virtual
// addresses.
//

import "fmt"

// Registry owns every [Station] the simulator knows about, along with the
// [LinkMatrix] whose dimensions track the registry's arena size.
type Registry struct {
	stations []*Station
	free     []int

	byHW     map[MACAddr]int
	byAnyMAC map[MACAddr]int

	acParams AccessCategoryParamsTable

	Links *LinkMatrix
}

// NewRegistry creates an empty registry. acParams supplies the CSMA/CA
// parameters new stations' queues are constructed with, and links is the
// link matrix kept in sync with the registry's arena size.
func NewRegistry(acParams AccessCategoryParamsTable, links *LinkMatrix) *Registry {
	return &Registry{
		byHW:     map[MACAddr]int{},
		byAnyMAC: map[MACAddr]int{},
		acParams: acParams,
		Links:    links,
	}
}

// Insert allocates a new [Station] for hwAddr, reusing a free arena slot if
// one exists, and returns it. Returns an error if hwAddr is already
// registered (spec.md §4.2: "insert rejects a duplicate hardware
// address").
func (r *Registry) Insert(hwAddr MACAddr) (*Station, error) {
	if _, ok := r.byHW[hwAddr]; ok {
		return nil, fmt.Errorf("wmediumd: station %s already registered", hwAddr)
	}
	st := newStation(hwAddr, r.acParams)

	var idx int
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
		st.Index = idx
		r.stations[idx] = st
	} else {
		idx = len(r.stations)
		st.Index = idx
		r.stations = append(r.stations, st)
	}

	r.byHW[hwAddr] = idx
	r.byAnyMAC[hwAddr] = idx
	if r.Links != nil {
		r.Links.Resize(len(r.stations))
		r.Links.MarkDirty()
	}
	return st, nil
}

// Remove deletes the station at index from the registry, freeing its slot
// for reuse and dropping every address mapping that pointed to it. Returns
// the removed station, or nil if index was not occupied.
func (r *Registry) Remove(index int) *Station {
	if index < 0 || index >= len(r.stations) || r.stations[index] == nil {
		return nil
	}
	st := r.stations[index]
	delete(r.byHW, st.HWAddr)
	delete(r.byAnyMAC, st.HWAddr)
	for _, a := range st.Addrs() {
		delete(r.byAnyMAC, a)
	}
	r.stations[index] = nil
	r.free = append(r.free, index)
	if r.Links != nil {
		r.Links.MarkDirty()
	}
	return st
}

// FindByHW looks up a station by its primary hardware address only.
func (r *Registry) FindByHW(addr MACAddr) (*Station, bool) {
	idx, ok := r.byHW[addr]
	if !ok {
		return nil, false
	}
	return r.stations[idx], true
}

// FindByAnyMAC looks up a station by its primary hardware address or any of
// its registered virtual addresses (spec.md §4.2: "find_by_any_mac").
func (r *Registry) FindByAnyMAC(addr MACAddr) (*Station, bool) {
	idx, ok := r.byAnyMAC[addr]
	if !ok {
		return nil, false
	}
	return r.stations[idx], true
}

// AddAddr registers an additional virtual address for the station at
// index, also indexing it for [Registry.FindByAnyMAC].
func (r *Registry) AddAddr(index int, addr MACAddr) error {
	if index < 0 || index >= len(r.stations) || r.stations[index] == nil {
		return fmt.Errorf("wmediumd: no station at index %d", index)
	}
	if owner, ok := r.byAnyMAC[addr]; ok && owner != index {
		return fmt.Errorf("wmediumd: address %s already owned by another station", addr)
	}
	r.stations[index].AddAddr(addr)
	r.byAnyMAC[addr] = index
	return nil
}

// DelAddr unregisters a virtual address from the station at index.
func (r *Registry) DelAddr(index int, addr MACAddr) {
	if index < 0 || index >= len(r.stations) || r.stations[index] == nil {
		return
	}
	r.stations[index].DelAddr(addr)
	delete(r.byAnyMAC, addr)
}

// Iter returns every live station, in arena order. The returned slice must
// not be retained across a mutation of the registry.
func (r *Registry) Iter() []*Station {
	out := make([]*Station, 0, len(r.stations))
	for _, st := range r.stations {
		if st != nil {
			out = append(out, st)
		}
	}
	return out
}

// Raw exposes the dense (possibly sparse-with-nils) backing slice, indexed
// by arena index, for components like [LinkMatrix] that need constant-time
// index access rather than [Registry.Iter]'s compaction.
func (r *Registry) Raw() []*Station {
	return r.stations
}

// Len reports the number of live stations.
func (r *Registry) Len() int {
	return len(r.byHW)
}
