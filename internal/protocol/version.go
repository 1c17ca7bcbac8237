package protocol

import "fmt"

// Version is a version number as int
type Version uint32

// The version numbers, making grepping easier
const (
	// VersionNegotiation is the reserved version sent in Version Negotiation packets
	VersionNegotiation Version = 0
	// Version1 is RFC 9000
	Version1 Version = 0x1
	// VersionMVFSTOld is the legacy version. Its only on-wire difference is the
	// packed connection ID length byte in the long header.
	VersionMVFSTOld Version = 0xfaceb000
)

// SupportedVersions lists the versions that the server supports,
// in descending order of preference
var SupportedVersions = []Version{Version1, VersionMVFSTOld}

// UsesPackedConnectionIDLengths says if the long header packs both connection ID
// lengths into a single byte for this version.
func (vn Version) UsesPackedConnectionIDLengths() bool {
	return vn == VersionMVFSTOld
}

// IsSupportedVersion returns true if the server supports this version
func IsSupportedVersion(supported []Version, v Version) bool {
	for _, t := range supported {
		if t == v {
			return true
		}
	}
	return false
}

func (vn Version) String() string {
	switch vn {
	case VersionNegotiation:
		return "reserved"
	case Version1:
		return "v1"
	case VersionMVFSTOld:
		return "mvfst-old"
	default:
		return fmt.Sprintf("%#x", uint32(vn))
	}
}
