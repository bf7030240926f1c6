package wmediumd

import "testing"

func TestParseMACAddrRoundTrip(t *testing.T) {
	addr, err := ParseMACAddr("02:00:00:00:00:01")
	if err != nil {
		t.Fatalf("ParseMACAddr: %v", err)
	}
	if got := addr.String(); got != "02:00:00:00:00:01" {
		t.Fatalf("String() = %q, want %q", got, "02:00:00:00:00:01")
	}
}

func TestParseMACAddrRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"02:00:00:00:00",
		"02:00:00:00:00:01:02",
		"AA:00:00:00:00:01", // uppercase must be rejected
		"02-00-00-00-00-01",
	}
	for _, c := range cases {
		if _, err := ParseMACAddr(c); err == nil {
			t.Errorf("ParseMACAddr(%q) succeeded, want error", c)
		}
	}
}

func TestMACAddrIsBroadcastAndMulticast(t *testing.T) {
	bcast := MACAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	if !bcast.IsBroadcast() {
		t.Fatal("broadcast address not detected")
	}
	mcast := MACAddr{0x01, 0x00, 0x5e, 0x00, 0x00, 0x01}
	if !mcast.IsMulticast() {
		t.Fatal("multicast address not detected")
	}
	unicast := MACAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	if unicast.IsBroadcast() || unicast.IsMulticast() {
		t.Fatal("unicast address misclassified")
	}
}

func TestNewStationAllocatesOneQueuePerAC(t *testing.T) {
	addr := MACAddr{0x02, 0, 0, 0, 0, 1}
	st := newStation(addr, DefaultAccessCategoryParams)
	for ac := AccessCategory(0); int(ac) < numAccessCategories; ac++ {
		if st.Queue(ac) == nil {
			t.Fatalf("queue for AC %v is nil", ac)
		}
	}
	if len(st.RateSet) == 0 {
		t.Fatal("station has no rate set")
	}
}

func TestStationAddrSetRefcounting(t *testing.T) {
	addr := MACAddr{0x02, 0, 0, 0, 0, 1}
	st := newStation(addr, DefaultAccessCategoryParams)
	extra := MACAddr{0x02, 0, 0, 0, 0, 2}

	st.AddAddr(extra)
	st.AddAddr(extra)
	if !st.HasAddr(extra) {
		t.Fatal("extra address not registered")
	}
	st.DelAddr(extra)
	if !st.HasAddr(extra) {
		t.Fatal("address removed after only one of two refs dropped")
	}
	st.DelAddr(extra)
	if st.HasAddr(extra) {
		t.Fatal("address still present after refcount reached zero")
	}
}

func TestStationMoveAppliesDirection(t *testing.T) {
	addr := MACAddr{0x02, 0, 0, 0, 0, 1}
	st := newStation(addr, DefaultAccessCategoryParams)
	st.Position = Position{X: 1, Y: 1}
	st.Dir = Direction{DX: 2, DY: -1}
	st.Move()
	if st.Position != (Position{X: 3, Y: 0}) {
		t.Fatalf("Position after Move = %+v, want {3 0}", st.Position)
	}
}
