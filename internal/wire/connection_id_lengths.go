package wire

// The legacy long header form packs both connection ID lengths into a single
// byte: (dcid_code << 4) | scid_code, where a code of 0 means a zero-length
// connection ID and any other code n means a length of n+3 bytes.

// EncodeConnectionIDLengths packs the two lengths for the legacy long header.
func EncodeConnectionIDLengths(dcidLen, scidLen int) uint8 {
	var dstByte, srcByte uint8
	if dcidLen != 0 {
		dstByte = uint8(dcidLen) - 3
	}
	if scidLen != 0 {
		srcByte = uint8(scidLen) - 3
	}
	return dstByte<<4 | srcByte
}

func decodeConnectionIDLengths(b uint8) (dcidLen, scidLen int) {
	dcidLen = int(b >> 4)
	scidLen = int(b & 0x0f)
	if dcidLen != 0 {
		dcidLen += 3
	}
	if scidLen != 0 {
		scidLen += 3
	}
	return dcidLen, scidLen
}
