package wmediumd

//
// Client connections (spec.md §4.2, §6).
//
// Grounded on original_source/wmediumd/wmediumd.h's per-client subscription
// flags and the netlink/api_socket/vhost_user client kinds, reimplemented
// here as a single Client struct tagged by a ClientKind rather than a C
// union, matching the tagged-union style spec.md §9 asks the path-loss
// models to use.
//

import "fmt"

// ClientKind tags which transport a [Client] is attached over.
type ClientKind int

const (
	// ClientNetlink is a kernel hwsim driver instance reached over generic
	// netlink.
	ClientNetlink ClientKind = iota
	// ClientAPISocket is a userspace process connected over the
	// control-socket protocol.
	ClientAPISocket
	// ClientVhostUser is a userspace process connected over a vhost-user
	// virtqueue (spec.md §6 Non-goals: transport itself is out of scope,
	// but the client's subscription/ack semantics are identical across
	// transports).
	ClientVhostUser
)

func (k ClientKind) String() string {
	switch k {
	case ClientNetlink:
		return "netlink"
	case ClientAPISocket:
		return "api_socket"
	case ClientVhostUser:
		return "vhost_user"
	default:
		return "unknown"
	}
}

// ControlFlags is a bitset of per-client subscription options (spec.md §6,
// grounded on original_source/wmediumd/wmediumd.h's per-client flags).
type ControlFlags uint32

const (
	// NotifyTxStart subscribes the client to TX_START notifications for
	// its own frames.
	NotifyTxStart ControlFlags = 1 << iota
	// RxAllFrames subscribes the client to every frame delivered on the
	// medium, not only those addressed to one of its stations (monitor
	// mode).
	RxAllFrames
)

// Has reports whether flags has every bit in want set.
func (flags ControlFlags) Has(want ControlFlags) bool {
	return flags&want == want
}

// Client is one connected controller of the simulated medium: a netlink
// hwsim driver instance, or a userspace process over the control socket or
// vhost-user (spec.md §4.2).
type Client struct {
	// ID is this client's stable identifier, stable for its connection's
	// lifetime.
	ID int

	Kind  ClientKind
	Flags ControlFlags

	// StationIndices lists the registry indices of stations this client
	// owns (a netlink client may own several radios; an api_socket client
	// typically owns exactly one).
	StationIndices []int

	// pendingTxStatus holds cookies awaiting a TX-status reply, used to
	// enforce the "exactly one TX-status per frame" invariant even across
	// a client disconnect (spec.md §3).
	pendingTxStatus map[uint64]bool

	// deferredFree marks a client that disconnected while frames it
	// originated were still in flight: its resources are kept alive until
	// every such frame completes, then released (spec.md §5,
	// grounded on original_source/wmediumd/wmediumd.h's
	// `clients_to_free` deferred-cleanup list).
	deferredFree bool
}

// NewClient creates a Client of the given kind with no subscriptions.
func NewClient(id int, kind ClientKind) *Client {
	return &Client{
		ID:              id,
		Kind:            kind,
		pendingTxStatus: map[uint64]bool{},
	}
}

// OwnsStation reports whether index is one of this client's stations.
func (c *Client) OwnsStation(index int) bool {
	for _, i := range c.StationIndices {
		if i == index {
			return true
		}
	}
	return false
}

// AddStation records that this client owns the station at index.
func (c *Client) AddStation(index int) {
	if !c.OwnsStation(index) {
		c.StationIndices = append(c.StationIndices, index)
	}
}

// RemoveStation drops index from this client's owned stations.
func (c *Client) RemoveStation(index int) {
	out := c.StationIndices[:0]
	for _, i := range c.StationIndices {
		if i != index {
			out = append(out, i)
		}
	}
	c.StationIndices = out
}

// AwaitTxStatus records that cookie's TX-status has not yet been sent,
// guarding the "exactly one" invariant.
func (c *Client) AwaitTxStatus(cookie uint64) {
	c.pendingTxStatus[cookie] = true
}

// CompleteTxStatus marks cookie's TX-status as sent. Returns an error if
// cookie was not pending, which would indicate a double-send bug (spec.md
// §3 invariant).
func (c *Client) CompleteTxStatus(cookie uint64) error {
	if !c.pendingTxStatus[cookie] {
		return fmt.Errorf("wmediumd: TX-status for cookie %d sent more than once", cookie)
	}
	delete(c.pendingTxStatus, cookie)
	return nil
}

// PendingCount reports how many frames this client is still awaiting a
// TX-status for.
func (c *Client) PendingCount() int {
	return len(c.pendingTxStatus)
}

// MarkDeferredFree flags this client for cleanup once its in-flight frames
// complete, rather than being torn down immediately on disconnect.
func (c *Client) MarkDeferredFree() {
	c.deferredFree = true
}

// ReadyToFree reports whether a deferred-free client has no in-flight
// frames left and can now be fully released.
func (c *Client) ReadyToFree() bool {
	return c.deferredFree && len(c.pendingTxStatus) == 0
}
