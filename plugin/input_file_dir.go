package plugin

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vearne/reasm/protocol"
	slog "github.com/vearne/simplelog"
)

// FileDirInput replays packet records captured in a directory, one
// blank-line separated record at a time. Both plain and .gz files are
// understood; files are read in lexical order.
type FileDirInput struct {
	codec     protocol.Codec
	pktChan   chan *protocol.Packet
	path      string
	readDepth int
	reader    *RecordReader
}

func NewFileDirInput(codec string, path string, readDepth int) *FileDirInput {
	var in FileDirInput
	in.codec = protocol.GetCodec(codec)
	if readDepth <= 0 {
		readDepth = 100
	}
	in.pktChan = make(chan *protocol.Packet, readDepth)
	in.path = path
	in.readDepth = readDepth

	files, err := listRecordFiles(path)
	if err != nil {
		slog.Fatal("FileDirInput-scan directory:%v", err)
	}
	in.reader = NewRecordReader(files, in.codec)

	go in.pump()
	return &in
}

func (in *FileDirInput) pump() {
	defer close(in.pktChan)
	for {
		pkt, err := in.reader.ReadPacket()
		if err != nil {
			if err == io.EOF {
				slog.Debug("FileDirInput: all files are read")
			} else {
				slog.Error("RecordReader read:%v", err)
			}
			return
		}
		in.pktChan <- pkt
	}
}

func (in *FileDirInput) PluginRead() (*protocol.Packet, error) {
	pkt, ok := <-in.pktChan
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

func (in *FileDirInput) Close() error {
	return in.reader.Close()
}

func listRecordFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".gz") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// RecordReader walks a sorted list of record files, decoding one
// packet per blank-line separated record.
type RecordReader struct {
	sync.Mutex
	codec     protocol.Codec
	file      *os.File
	reader    *bufio.Reader
	filepaths []string
	index     int
	EOF       bool
}

func NewRecordReader(filepaths []string, codec protocol.Codec) *RecordReader {
	var r RecordReader
	r.index = 0
	r.codec = codec

	sort.Strings(filepaths)
	r.filepaths = filepaths

	slog.Debug("create RecordReader, files:%v", filepaths)
	if len(r.filepaths) <= 0 {
		slog.Fatal("RecordReader: no file to read")
	}

	var err error
	r.file, r.reader, err = createReader(r.filepaths[0])
	if err != nil {
		slog.Fatal("read file [%v]:%v", r.filepaths[0], err)
	}
	return &r
}

func createReader(path string) (file *os.File, reader *bufio.Reader, err error) {
	file, err = os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		var gz *gzip.Reader
		gz, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, nil, err
		}
		return file, bufio.NewReader(gz), nil
	}
	return file, bufio.NewReader(file), nil
}

func (r *RecordReader) Close() error {
	return r.file.Close()
}

func (r *RecordReader) nextFile() error {
	if r.index+1 < len(r.filepaths) {
		if err := r.file.Close(); err != nil {
			return err
		}
		r.index++
		slog.Info("switch to file:%v", r.filepaths[r.index])
		var err error
		r.file, r.reader, err = createReader(r.filepaths[r.index])
		return err
	}
	r.EOF = true
	return io.EOF
}

// ReadPacket returns the next record, crossing file boundaries as needed.
func (r *RecordReader) ReadPacket() (*protocol.Packet, error) {
	r.Lock()
	defer r.Unlock()

	for {
		if r.EOF {
			return nil, io.EOF
		}
		data, err := r.readRecord()
		if err == io.EOF {
			if err = r.nextFile(); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		var pkt protocol.Packet
		if err = r.codec.Unmarshal(data, &pkt); err != nil {
			return nil, err
		}
		return &pkt, nil
	}
}

// readRecord accumulates lines until a blank line or end of file.
// io.EOF with no accumulated data means the current file is exhausted.
func (r *RecordReader) readRecord() ([]byte, error) {
	var buff bytes.Buffer
	for {
		line, err := r.reader.ReadBytes('\n')
		trimmed := bytes.TrimRight(line, "\n")
		if len(trimmed) > 0 {
			if buff.Len() > 0 {
				buff.WriteByte('\n')
			}
			buff.Write(trimmed)
		} else if buff.Len() > 0 {
			// blank line closes the record
			return buff.Bytes(), nil
		}
		if err != nil {
			if err == io.EOF && buff.Len() > 0 {
				return buff.Bytes(), nil
			}
			return nil, err
		}
	}
}
