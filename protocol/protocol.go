package protocol

// ProtocolVersion is encoded as the first field of every serialized packet.
const ProtocolVersion = 1

// Packet is one sequenced datagram handed over by the transport layer.
// Packets are never mutated after creation; the reassembler either
// writes them through, buffers them or drops them.
type Packet struct {
	// global sequence number (ground truth order)
	Sequence uint64 `json:"sequence"`
	// Nanosecond
	Timestamp int64  `json:"timestamp"`
	Payload   []byte `json:"payload"`
	// CRC32(IEEE) digest of Payload
	Checksum uint32 `json:"checksum"`
}

// NewPacket builds a packet with the checksum already computed.
func NewPacket(seq uint64, timestamp int64, payload []byte) *Packet {
	return &Packet{
		Sequence:  seq,
		Timestamp: timestamp,
		Payload:   payload,
		Checksum:  ComputeChecksum(payload),
	}
}
