package protocol

import "hash/crc32"

// ComputeChecksum returns the CRC32(IEEE) digest of payload.
func ComputeChecksum(payload []byte) uint32 {
	return crc32.ChecksumIEEE(payload)
}

// VerifyChecksum reports whether the packet's declared checksum matches
// its payload. Pure; it never touches reassembly state.
func VerifyChecksum(p *Packet) bool {
	return crc32.ChecksumIEEE(p.Payload) == p.Checksum
}
