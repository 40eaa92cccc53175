package protocol

import "strings"

type Codec interface {
	// Marshal returns the wire format of p.
	Marshal(p *Packet) ([]byte, error)
	// Unmarshal parses the wire format into p.
	Unmarshal(data []byte, p *Packet) error
	// Name returns the name of the Codec implementation. The result must be
	// static; the result cannot change between calls.
	Name() string
}

var registeredCodecs = make(map[string]Codec)

func RegisterCodec(codec Codec) {
	if codec == nil {
		panic("cannot register a nil Codec")
	}
	if codec.Name() == "" {
		panic("cannot register Codec with empty string result for Name()")
	}
	name := strings.ToLower(codec.Name())
	registeredCodecs[name] = codec
}

// The codec name is expected to be lowercase.
func GetCodec(codecType string) Codec {
	return registeredCodecs[codecType]
}
