package wmediumd

import "testing"

func TestRegistryInsertRejectsDuplicateHWAddr(t *testing.T) {
	reg := newTestRegistry()
	addr := MACAddr{0x02, 0, 0, 0, 0, 1}
	if _, err := reg.Insert(addr); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if _, err := reg.Insert(addr); err == nil {
		t.Fatal("second Insert with the same address should fail")
	}
}

func TestRegistryFindByHWAndAnyMAC(t *testing.T) {
	reg := newTestRegistry()
	addr := MACAddr{0x02, 0, 0, 0, 0, 1}
	extra := MACAddr{0x02, 0, 0, 0, 0, 2}
	st, _ := reg.Insert(addr)

	if err := reg.AddAddr(st.Index, extra); err != nil {
		t.Fatalf("AddAddr: %v", err)
	}
	if _, ok := reg.FindByHW(extra); ok {
		t.Fatal("FindByHW should not resolve a virtual address")
	}
	found, ok := reg.FindByAnyMAC(extra)
	if !ok || found.Index != st.Index {
		t.Fatal("FindByAnyMAC did not resolve the virtual address to its owning station")
	}
}

func TestRegistryRemoveFreesSlotForReuse(t *testing.T) {
	reg := newTestRegistry()
	addr1 := MACAddr{0x02, 0, 0, 0, 0, 1}
	addr2 := MACAddr{0x02, 0, 0, 0, 0, 2}

	st1, _ := reg.Insert(addr1)
	reg.Remove(st1.Index)

	st2, err := reg.Insert(addr2)
	if err != nil {
		t.Fatalf("Insert after Remove: %v", err)
	}
	if st2.Index != st1.Index {
		t.Fatalf("new station got index %d, want reused index %d", st2.Index, st1.Index)
	}
	if _, ok := reg.FindByHW(addr1); ok {
		t.Fatal("removed station's address is still resolvable")
	}
}

func TestRegistryIterSkipsRemovedSlots(t *testing.T) {
	reg := newTestRegistry()
	a, _ := reg.Insert(MACAddr{0x02, 0, 0, 0, 0, 1})
	_, _ = reg.Insert(MACAddr{0x02, 0, 0, 0, 0, 2})
	reg.Remove(a.Index)

	live := reg.Iter()
	if len(live) != 1 {
		t.Fatalf("Iter returned %d stations, want 1", len(live))
	}
}

func TestRegistryAddAddrRejectsConflictingOwner(t *testing.T) {
	reg := newTestRegistry()
	addr := MACAddr{0x02, 0, 0, 0, 0, 9}
	st1, _ := reg.Insert(MACAddr{0x02, 0, 0, 0, 0, 1})
	st2, _ := reg.Insert(MACAddr{0x02, 0, 0, 0, 0, 2})

	if err := reg.AddAddr(st1.Index, addr); err != nil {
		t.Fatalf("AddAddr on st1: %v", err)
	}
	if err := reg.AddAddr(st2.Index, addr); err == nil {
		t.Fatal("AddAddr on st2 should fail: address already owned by st1")
	}
}
