// Package wmediumd simulates the wireless medium for a kernel-side hwsim
// virtual Wi-Fi driver.
//
// The simulator owns a deterministic, single-threaded event loop (see
// [Scheduler]) that times every step of an 802.11 transmission: contention
// and CSMA/CA backoff on a per-station, per-access-category basis (see
// [Queue]), medium propagation through a path-loss and per-rate packet-error
// model (see [LinkMatrix] and [PERTable]), and deferred delivery to every
// receiver within range, followed by a single TX-status reply to the
// sender (see [Pipeline]).
//
// Stations are tracked by a [Registry] and addressed by hardware MAC
// address. The simulator is driven by [Frame]s arriving over netlink (see
// the netlink package) or injected by control-socket clients (see the
// controlsocket package); its station placement, per-link SNR, transmit
// power, and captured trace are controlled at runtime over an RPC bridge
// (see the rpc package) that crosses from a control-server goroutine into
// the scheduler goroutine.
//
// Nothing outside of a [Scheduler] callback may mutate a [Station], a
// [Queue], a [Frame], or the [LinkMatrix]: the simulator core is
// cooperative and single-threaded by design (see spec.md §5).
package wmediumd
