package core

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Enum is implemented by every wire discriminant. Raw is the value as read
// off the wire, String its name or unknown(0x..) when the value is not known.
type Enum interface {
	fmt.Stringer
	Raw() uint64
	Known() bool
}

func unknownName(v uint64, width int) string {
	return fmt.Sprintf("unknown(0x%0*X)", width, v)
}

func enumName[T constraints.Integer](names map[T]string, v T, width int) string {
	if s, ok := names[v]; ok {
		return s
	}
	return unknownName(uint64(v), width)
}

func enumKnown[T constraints.Integer](names map[T]string, v T) bool {
	_, ok := names[v]
	return ok
}

// Layer selects the sub-protocol carried by a transport frame.
type Layer uint8

const (
	LayerKernelMessage Layer = 0
	LayerNodeResolver  Layer = 1
	LayerLanResolver   Layer = 2
	LayerSequence      Layer = 3
)

var layerNames = map[Layer]string{
	LayerKernelMessage: "kernel_message",
	LayerNodeResolver:  "node_resolver",
	LayerLanResolver:   "lan_resolver",
	LayerSequence:      "sequence",
}

func (l Layer) String() string { return enumName(layerNames, l, 2) }
func (l Layer) Raw() uint64    { return uint64(l) }
func (l Layer) Known() bool    { return enumKnown(layerNames, l) }

type TransportType uint8

const (
	TransportUserData          TransportType = 0
	TransportSessionInit       TransportType = 1
	TransportSessionRemoteUp   TransportType = 2
	TransportSessionUp         TransportType = 3
	TransportSessionDown       TransportType = 4
	TransportSessionRemoteDown TransportType = 5
	TransportUserFragment      TransportType = 6
	TransportAck               TransportType = 7
	TransportNack              TransportType = 8
	TransportResolverReply     TransportType = 9
)

var transportTypeNames = map[TransportType]string{
	TransportUserData:          "user_data",
	TransportSessionInit:       "session_init",
	TransportSessionRemoteUp:   "session_remote_up",
	TransportSessionUp:         "session_up",
	TransportSessionDown:       "session_down",
	TransportSessionRemoteDown: "session_remote_down",
	TransportUserFragment:      "user_fragment",
	TransportAck:               "ack",
	TransportNack:              "nack",
	TransportResolverReply:     "resolver_reply",
}

func (t TransportType) String() string { return enumName(transportTypeNames, t, 2) }
func (t TransportType) Raw() uint64    { return uint64(t) }
func (t TransportType) Known() bool    { return enumKnown(transportTypeNames, t) }

// IsSession reports whether frames of this type carry a QoS session body.
func (t TransportType) IsSession() bool {
	return t > TransportUserData && t < TransportUserFragment
}

type KernelMessageType uint8

const (
	KernelConnect        KernelMessageType = 0
	KernelConnectSuccess KernelMessageType = 1
	KernelConnectFail    KernelMessageType = 2
	KernelConnectDeath   KernelMessageType = 3
	KernelSend           KernelMessageType = 4
	KernelRead           KernelMessageType = 5
	KernelReadTransfer   KernelMessageType = 6
	KernelReadError      KernelMessageType = 7
	KernelWrite          KernelMessageType = 8
	KernelReply          KernelMessageType = 9
	KernelError          KernelMessageType = 10
	KernelEvent          KernelMessageType = 11
	KernelPulse          KernelMessageType = 12
	KernelSignal         KernelMessageType = 13
	KernelDisconnect     KernelMessageType = 14
	KernelUnblock        KernelMessageType = 15
	KernelConnectAndSend KernelMessageType = 16
)

var kernelMessageTypeNames = map[KernelMessageType]string{
	KernelConnect:        "connect",
	KernelConnectSuccess: "connect_success",
	KernelConnectFail:    "connect_fail",
	KernelConnectDeath:   "connect_death",
	KernelSend:           "send",
	KernelRead:           "read",
	KernelReadTransfer:   "read_transfer",
	KernelReadError:      "read_error",
	KernelWrite:          "write",
	KernelReply:          "reply",
	KernelError:          "error",
	KernelEvent:          "event",
	KernelPulse:          "pulse",
	KernelSignal:         "signal",
	KernelDisconnect:     "disconnect",
	KernelUnblock:        "unblock",
	KernelConnectAndSend: "connect_and_send",
}

func (t KernelMessageType) String() string { return enumName(kernelMessageTypeNames, t, 2) }
func (t KernelMessageType) Raw() uint64    { return uint64(t) }
func (t KernelMessageType) Known() bool    { return enumKnown(kernelMessageTypeNames, t) }

// OperationType identifies the records of a combine chain.
type OperationType uint16

const (
	OperationConnect  OperationType = 0x100
	OperationRead     OperationType = 0x101
	OperationWrite    OperationType = 0x102
	OperationStat     OperationType = 0x104
	OperationNotify   OperationType = 0x105
	OperationDevctl   OperationType = 0x106
	OperationUnblock  OperationType = 0x107
	OperationPathConf OperationType = 0x108
	OperationSeek     OperationType = 0x109
	OperationChmod    OperationType = 0x10A
	OperationChown    OperationType = 0x10B
	OperationUtime    OperationType = 0x10C
	OperationOpenFd   OperationType = 0x10D
	OperationFdInfo   OperationType = 0x10E
	OperationLock     OperationType = 0x10F
	OperationSpace    OperationType = 0x110
	OperationShutdown OperationType = 0x111
	OperationMmap     OperationType = 0x112
	OperationMsg      OperationType = 0x113
	OperationDup      OperationType = 0x115
	OperationClose    OperationType = 0x116
	OperationSync     OperationType = 0x119
)

var operationTypeNames = map[OperationType]string{
	OperationConnect:  "connect",
	OperationRead:     "read",
	OperationWrite:    "write",
	OperationStat:     "stat",
	OperationNotify:   "notify",
	OperationDevctl:   "devctl",
	OperationUnblock:  "unblock",
	OperationPathConf: "pathconf",
	OperationSeek:     "seek",
	OperationChmod:    "chmod",
	OperationChown:    "chown",
	OperationUtime:    "utime",
	OperationOpenFd:   "openfd",
	OperationFdInfo:   "fdinfo",
	OperationLock:     "lock",
	OperationSpace:    "space",
	OperationShutdown: "shutdown",
	OperationMmap:     "mmap",
	OperationMsg:      "msg",
	OperationDup:      "dup",
	OperationClose:    "close",
	OperationSync:     "sync",
}

func (t OperationType) String() string { return enumName(operationTypeNames, t, 4) }
func (t OperationType) Raw() uint64    { return uint64(t) }
func (t OperationType) Known() bool    { return enumKnown(operationTypeNames, t) }

// ConnectSubtype is carried only by the first connect record of a chain.
type ConnectSubtype uint16

const (
	ConnectCombine      ConnectSubtype = 0
	ConnectCombineClose ConnectSubtype = 1
	ConnectOpen         ConnectSubtype = 2
	ConnectUnlink       ConnectSubtype = 3
	ConnectRename       ConnectSubtype = 4
	ConnectMknod        ConnectSubtype = 5
	ConnectReadlink     ConnectSubtype = 6
	ConnectLink         ConnectSubtype = 7
	ConnectMount        ConnectSubtype = 9
)

var connectSubtypeNames = map[ConnectSubtype]string{
	ConnectCombine:      "combine",
	ConnectCombineClose: "combine_close",
	ConnectOpen:         "open",
	ConnectUnlink:       "unlink",
	ConnectRename:       "rename",
	ConnectMknod:        "mknod",
	ConnectReadlink:     "readlink",
	ConnectLink:         "link",
	ConnectMount:        "mount",
}

func (t ConnectSubtype) String() string { return enumName(connectSubtypeNames, t, 4) }
func (t ConnectSubtype) Raw() uint64    { return uint64(t) }
func (t ConnectSubtype) Known() bool    { return enumKnown(connectSubtypeNames, t) }

type NodeResolverType uint8

const (
	NodeResolverPingRequest   NodeResolverType = 0
	NodeResolverPingReply     NodeResolverType = 1
	NodeResolverRemoteRequest NodeResolverType = 2
	NodeResolverRemoteReply   NodeResolverType = 3
	NodeResolverRemoteError   NodeResolverType = 4
)

var nodeResolverTypeNames = map[NodeResolverType]string{
	NodeResolverPingRequest:   "ping_request",
	NodeResolverPingReply:     "ping_reply",
	NodeResolverRemoteRequest: "remote_request",
	NodeResolverRemoteReply:   "remote_reply",
	NodeResolverRemoteError:   "remote_error",
}

func (t NodeResolverType) String() string { return enumName(nodeResolverTypeNames, t, 2) }
func (t NodeResolverType) Raw() uint64    { return uint64(t) }
func (t NodeResolverType) Known() bool    { return enumKnown(nodeResolverTypeNames, t) }

type LanResolverType uint8

const (
	LanResolverRequest LanResolverType = 1
	LanResolverReply   LanResolverType = 2
	LanResolverError   LanResolverType = 3
)

var lanResolverTypeNames = map[LanResolverType]string{
	LanResolverRequest: "request",
	LanResolverReply:   "reply",
	LanResolverError:   "error",
}

func (t LanResolverType) String() string { return enumName(lanResolverTypeNames, t, 2) }
func (t LanResolverType) Raw() uint64    { return uint64(t) }
func (t LanResolverType) Known() bool    { return enumKnown(lanResolverTypeNames, t) }
