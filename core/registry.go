package core

import (
	"strings"
	"sync"
)

// FieldRegistry maps decoded field names to human readable labels. It is
// built once and never mutated, so it can be shared by any number of
// goroutines. Decoding does not need it; only rendering does.
type FieldRegistry struct {
	labels map[string]string
}

var (
	defaultRegistry *FieldRegistry
	registryOnce    sync.Once
)

func DefaultRegistry() *FieldRegistry {
	registryOnce.Do(func() {
		defaultRegistry = NewFieldRegistry(defaultLabels)
	})
	return defaultRegistry
}

func NewFieldRegistry(labels map[string]string) *FieldRegistry {
	r := &FieldRegistry{labels: make(map[string]string, len(labels))}
	for k, v := range labels {
		r.labels[k] = v
	}
	return r
}

// Label returns the label of a field, falling back to the field name with
// underscores replaced by spaces.
func (r *FieldRegistry) Label(name string) string {
	if l, ok := r.labels[name]; ok {
		return l
	}
	return strings.ReplaceAll(name, "_", " ")
}

func (r *FieldRegistry) KindLabel(k Kind) string {
	return r.Label("kind." + k.String())
}

var defaultLabels = map[string]string{
	"kind.transport":      "QNET6 transport",
	"kind.session_info":   "QoS information",
	"kind.session":        "QoS session",
	"kind.node_resolver":  "Node resolver",
	"kind.lan_resolver":   "LAN resolver",
	"kind.sequence":       "Sequence",
	"kind.kernel_message": "Kernel interface message",
	"kind.vtid_info":      "Virtual thread information",
	"kind.pulse":          "Pulse",
	"kind.credential":     "Credentials",
	"kind.operation":      "I/O message",
	"kind.unknown":        "Unknown",

	// transport
	"version":         "Version",
	"big_endian":      "Big endian",
	"type":            "Type",
	"flags":           "Flags",
	"first":           "First fragment",
	"last":            "Last fragment",
	"crc_present":     "Checksum present",
	"layer":           "Layer",
	"offset":          "Offset",
	"stream_offset":   "Stream offset",
	"length":          "Length",
	"checksum":        "Checksum",
	"checksum_status": "Checksum status",
	"computed":        "Computed checksum",
	"fragment":        "Fragment",
	"data":            "Data",
	"raw":             "Raw value",
	"src_nd_for_dst":  "Source node for destination",
	"dst_nd_for_src":  "Destination node for source",
	"src_conn_id":     "Source connection id",
	"dst_conn_id":     "Destination connection id",
	"seq_num":         "Sequence number",
	"qos_type":        "QoS type",
	"qos_index":       "QoS source index",

	// session
	"src_name_offset":   "Source name offset",
	"src_domain_offset": "Source domain offset",
	"dst_name_offset":   "Destination name offset",
	"dst_domain_offset": "Destination domain offset",
	"src_name":          "Source name",
	"src_domain":        "Source domain",
	"dst_name":          "Destination name",
	"dst_domain":        "Destination domain",

	// resolvers
	"total_len":         "Total length",
	"src_addr":          "Source address",
	"dst_addr":          "Destination address",
	"src_name_length":   "Source name length",
	"src_domain_length": "Source domain length",
	"src_addr_offset":   "Source address offset",
	"src_addr_length":   "Source address length",
	"dst_name_length":   "Destination name length",
	"dst_domain_length": "Destination domain length",
	"dst_addr_offset":   "Destination address offset",
	"dst_addr_length":   "Destination address length",
	"name_len":          "Name length",
	"request_id":        "Request id",
	"name":              "Name",
	"node_id":           "Node id",
	"status":            "Status",

	// kernel messages
	"credentials":   "Credentials attached",
	"endian":        "Endian override",
	"size":          "Size",
	"server_pid":    "Server pid",
	"server_chid":   "Server channel id",
	"server_id":     "Server id",
	"client_id":     "Client id",
	"client_pid":    "Client pid",
	"client_handle": "Client handle",
	"scoid":         "Server connection id",
	"nbytes":        "Bytes",
	"msg_id":        "Message id",
	"notify":        "Notify",
	"value":         "Value",
	"priority":      "Priority",
	"pid":           "Process id",
	"tid":           "Thread id",
	"signo":         "Signal number",
	"code":          "Code",
	"coid":          "Connection id",
	"srcmsglen":     "Source message length",
	"dstmsglen":     "Destination message length",
	"keydata":       "Key data",
	"srcnd":         "Source node",
	"subtype":       "Subtype",

	// credentials
	"nd":      "Node descriptor",
	"sid":     "Session id",
	"ruid":    "Real uid",
	"euid":    "Effective uid",
	"suid":    "Saved uid",
	"rgid":    "Real gid",
	"egid":    "Effective gid",
	"sgid":    "Saved gid",
	"ngroups": "Number of groups",
	"groups":  "Groups",

	// operations
	"combine_length": "Combine length",
	"combine":        "Combine follows",
	"extra_data":     "Extra data",
	"path":           "Path",
	"path_len":       "Path length",
	"file_type":      "File type",
	"reply_max":      "Reply max",
	"entry_max":      "Entry max",
	"ioflag":         "I/O flags",
	"mode":           "Mode",
	"sflag":          "Share flags",
	"access":         "Access",
	"eflag":          "Extended flags",
	"extra_type":     "Extra type",
	"extra_len":      "Extra length",
	"xtype":          "Extended type",
	"dcmd":           "Device command",
	"whence":         "Whence",
	"uid":            "Uid",
	"gid":            "Gid",
	"actime":         "Access time",
	"modtime":        "Modification time",
	"prot":           "Protection",
	"mgrid":          "Manager id",
	"chid":           "Channel id",
}
