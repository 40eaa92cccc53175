package protocol

import (
	"encoding/json"
)

const CodecJsonName = "json"

func init() {
	RegisterCodec(CodecJson{})
}

type CodecJson struct{}

func (c CodecJson) Marshal(p *Packet) ([]byte, error) {
	return json.Marshal(p)
}

func (c CodecJson) Unmarshal(data []byte, p *Packet) error {
	return json.Unmarshal(data, p)
}

func (c CodecJson) Name() string {
	return CodecJsonName
}
