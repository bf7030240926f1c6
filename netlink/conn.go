package netlink

//
// Generic-netlink connection wrapper (spec.md §4.8).
//
// Grounded on other_examples/e32a5055_jsimonetti-rtnetlink__link.go.go's
// pattern of dialing a genetlink/rtnetlink connection, resolving a family
// by name, and sending/receiving raw genetlink.Message values.
//

import (
	"fmt"

	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"
)

// Conn is a thin wrapper over a generic-netlink socket bound to the
// MAC80211_HWSIM family.
type Conn struct {
	conn     *genetlink.Conn
	familyID uint16
	groupID  uint32
}

// Dial opens a generic-netlink socket and resolves the MAC80211_HWSIM
// family and its "config" multicast group.
func Dial() (*Conn, error) {
	conn, err := genetlink.Dial(nil)
	if err != nil {
		return nil, fmt.Errorf("netlink: dialing generic netlink: %w", err)
	}
	family, err := conn.GetFamily(FamilyName)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("netlink: resolving family %s: %w", FamilyName, err)
	}
	var groupID uint32
	for _, g := range family.Groups {
		if g.Name == MulticastGroupName {
			groupID = g.ID
			break
		}
	}
	if groupID != 0 {
		if err := conn.JoinGroup(groupID); err != nil {
			conn.Close()
			return nil, fmt.Errorf("netlink: joining group %s: %w", MulticastGroupName, err)
		}
	}
	return &Conn{conn: conn, familyID: family.ID, groupID: groupID}, nil
}

// Close releases the underlying socket.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Send transmits a command with the given attribute payload, returning the
// kernel's ack/reply messages.
func (c *Conn) Send(cmd Command, payload []byte) ([]genetlink.Message, error) {
	req := NewMessage(cmd, payload)
	msgs, err := c.conn.Execute(req, c.familyID, netlink.Request|netlink.Acknowledge)
	if err != nil {
		return nil, fmt.Errorf("netlink: sending command %d: %w", cmd, err)
	}
	return msgs, nil
}

// Receive blocks for the next multicast message (a frame, or a radio
// lifecycle notification) from the driver.
func (c *Conn) Receive() ([]genetlink.Message, error) {
	msgs, _, err := c.conn.Receive()
	if err != nil {
		return nil, fmt.Errorf("netlink: receiving: %w", err)
	}
	return msgs, nil
}
