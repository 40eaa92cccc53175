package protocol

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/vearne/reasm/consts"
)

const CodecSimpleName = "simple"

func init() {
	RegisterCodec(CodecSimple{})
}

type CodecSimple struct{}

func (c CodecSimple) Marshal(p *Packet) ([]byte, error) {
	buff := bytes.NewBuffer(make([]byte, 0))
	// line 1
	//{version} {sequence} {timestamp} {checksum}
	buff.WriteString(strconv.Itoa(ProtocolVersion))
	buff.WriteByte(' ')
	buff.WriteString(strconv.FormatUint(p.Sequence, 10))
	buff.WriteByte(' ')
	buff.WriteString(strconv.FormatInt(p.Timestamp, 10))
	buff.WriteByte(' ')
	buff.WriteString(strconv.FormatUint(uint64(p.Checksum), 10))
	buff.Write([]byte{'\n'})
	// line 2
	// payload, hex encoded
	buff.WriteString(hex.EncodeToString(p.Payload))
	return buff.Bytes(), nil
}

func (c CodecSimple) Unmarshal(data []byte, p *Packet) error {
	lines := bytes.Split(data, []byte{'\n'})
	if len(lines) < 2 {
		return consts.ErrProtocol
	}
	// line 1
	strList := strings.Split(string(lines[0]), " ")
	if len(strList) != 4 {
		return consts.ErrProtocol
	}
	version, err := strconv.Atoi(strList[0])
	if err != nil {
		return err
	}
	if version != ProtocolVersion {
		return consts.ErrProtocol
	}
	p.Sequence, err = strconv.ParseUint(strList[1], 10, 64)
	if err != nil {
		return err
	}
	p.Timestamp, err = strconv.ParseInt(strList[2], 10, 64)
	if err != nil {
		return err
	}
	checksum, err := strconv.ParseUint(strList[3], 10, 32)
	if err != nil {
		return err
	}
	p.Checksum = uint32(checksum)
	// line 2
	p.Payload, err = hex.DecodeString(string(lines[1]))
	return err
}

func (c CodecSimple) Name() string {
	return CodecSimpleName
}
