package wmediumd

import "testing"

func TestControlFlagsHas(t *testing.T) {
	flags := NotifyTxStart | RxAllFrames
	if !flags.Has(NotifyTxStart) {
		t.Fatal("expected NotifyTxStart to be set")
	}
	if !flags.Has(RxAllFrames) {
		t.Fatal("expected RxAllFrames to be set")
	}
	if ClientKind(0).String() != "netlink" {
		t.Fatalf("ClientKind(0).String() = %q, want netlink", ClientKind(0).String())
	}
}

func TestClientStationOwnership(t *testing.T) {
	c := NewClient(1, ClientAPISocket)
	c.AddStation(5)
	c.AddStation(5)
	if !c.OwnsStation(5) {
		t.Fatal("expected client to own station 5")
	}
	if len(c.StationIndices) != 1 {
		t.Fatalf("AddStation duplicated an owned index: %v", c.StationIndices)
	}
	c.RemoveStation(5)
	if c.OwnsStation(5) {
		t.Fatal("station 5 still owned after RemoveStation")
	}
}

func TestClientTxStatusInvariant(t *testing.T) {
	c := NewClient(1, ClientNetlink)
	c.AwaitTxStatus(42)
	if c.PendingCount() != 1 {
		t.Fatalf("PendingCount = %d, want 1", c.PendingCount())
	}
	if err := c.CompleteTxStatus(42); err != nil {
		t.Fatalf("CompleteTxStatus: %v", err)
	}
	if err := c.CompleteTxStatus(42); err == nil {
		t.Fatal("expected an error completing the same cookie twice")
	}
}

func TestClientDeferredFreeReadiness(t *testing.T) {
	c := NewClient(1, ClientAPISocket)
	c.AwaitTxStatus(1)
	c.MarkDeferredFree()
	if c.ReadyToFree() {
		t.Fatal("client should not be ready to free with a frame still pending")
	}
	c.CompleteTxStatus(1)
	if !c.ReadyToFree() {
		t.Fatal("client should be ready to free once no frames are pending")
	}
}
