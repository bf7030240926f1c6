// Package netlink implements the generic-netlink wire codec the kernel's
// mac80211_hwsim driver uses to talk to a userspace medium simulator
// (spec.md §4.8).
//
// Grounded on other_examples/e32a5055_jsimonetti-rtnetlink__link.go.go's use
// of mdlayher/netlink's AttributeDecoder/AttributeEncoder over a
// genetlink.Message payload; the MAC80211_HWSIM family's command and
// attribute numbers below are taken from original_source/wmediumd/wmediumd.h.
package netlink

// FamilyName is the generic-netlink family name the kernel driver
// registers (original_source/wmediumd/wmediumd.h: MAC80211_HWSIM).
const FamilyName = "MAC80211_HWSIM"

// MulticastGroupName is the generic-netlink multicast group the driver
// broadcasts frames and radio-lifecycle events on.
const MulticastGroupName = "config"

// Command is a MAC80211_HWSIM generic-netlink command.
type Command uint8

// Commands, grounded on original_source/wmediumd/wmediumd.h's
// HWSIM_CMD_* enumeration.
const (
	CmdUnspec Command = iota
	CmdRegister
	CmdFrame
	CmdTxInfoFrame
	CmdNewRadio
	CmdDelRadio
	CmdGetRadio
	CmdAddMacAddr
	CmdDelMacAddr
	CmdStartPMSR
	CmdAbortPMSR
	CmdReportPMSR
)

// Attr is a MAC80211_HWSIM generic-netlink attribute type.
type Attr uint16

// Attributes, grounded on original_source/wmediumd/wmediumd.h's
// HWSIM_ATTR_* enumeration.
const (
	AttrUnspec Attr = iota
	AttrAddrReceiver
	AttrAddrTransmitter
	AttrFrame
	AttrFlags
	AttrRxRate
	AttrSignal
	AttrTxInfo
	AttrCookie
	AttrChannels
	AttrRadioID
	AttrRegHintAlpha2
	AttrRegCustomReg
	AttrRegStrictReg
	AttrSupportPHdr
	AttrUseChanctx
	AttrDestroyRadioOnClose
	AttrRadioName
	AttrNoVif
	AttrFreq
	AttrPad
	AttrTxInfoFlags
	AttrPermanentMacAddr
	AttrIFTypeSupport
	AttrCipherSupport
	AttrMLO
	AttrPMSRRequest
	AttrPMSRResult
)

// TxRateAttr flags carried within a nested AttrTxInfo attribute: one entry
// per retry step (spec.md §4.6: "up to 4 rate/count pairs").
type TxRateAttr uint16

const (
	TxRateAttrIdx TxRateAttr = iota
	TxRateAttrCount
)

// FrameFlag bits carried in AttrFlags (original_source/wmediumd/wmediumd.h's
// HWSIM_TX_CTL_* and HWSIM_TX_STAT_*).
type FrameFlag uint32

const (
	FlagTxCtlNoAck FrameFlag = 1 << iota
	FlagTxStatAck
)
