package baker

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// pngSignature is the fixed 8-byte header every PNG file starts with.
var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Chunk is one structural PNG chunk: a 4-byte type tag and its payload.
// Length and CRC are derived on encode.
type Chunk struct {
	Type string
	Data []byte
}

// DecodeChunks splits a PNG byte stream into its chunk list. The CRC of
// each chunk is verified so a truncated or corrupt file fails early.
func DecodeChunks(data []byte) ([]Chunk, error) {
	if len(data) < len(pngSignature) || !bytes.Equal(data[:len(pngSignature)], pngSignature) {
		return nil, fmt.Errorf("png: missing signature")
	}

	var chunks []Chunk
	offset := len(pngSignature)
	for offset < len(data) {
		if offset+8 > len(data) {
			return nil, fmt.Errorf("png: truncated chunk header at offset %d", offset)
		}
		length := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		typeEnd := offset + 8
		dataEnd := typeEnd + length
		crcEnd := dataEnd + 4
		if crcEnd > len(data) {
			return nil, fmt.Errorf("png: truncated chunk body at offset %d", offset)
		}

		chunkType := string(data[offset+4 : typeEnd])
		chunkData := data[typeEnd:dataEnd]

		want := binary.BigEndian.Uint32(data[dataEnd:crcEnd])
		got := crc32.ChecksumIEEE(data[offset+4 : dataEnd])
		if want != got {
			return nil, fmt.Errorf("png: crc mismatch in %q chunk", chunkType)
		}

		chunks = append(chunks, Chunk{Type: chunkType, Data: chunkData})
		offset = crcEnd

		if chunkType == "IEND" {
			break
		}
	}

	if len(chunks) == 0 || chunks[len(chunks)-1].Type != "IEND" {
		return nil, fmt.Errorf("png: missing IEND chunk")
	}
	return chunks, nil
}

// EncodeChunks serializes a chunk list back into a complete PNG stream,
// recomputing length and CRC for every chunk.
func EncodeChunks(chunks []Chunk) []byte {
	var buf bytes.Buffer
	buf.Write(pngSignature)

	for _, c := range chunks {
		var header [8]byte
		binary.BigEndian.PutUint32(header[:4], uint32(len(c.Data)))
		copy(header[4:], c.Type)
		buf.Write(header[:])
		buf.Write(c.Data)

		crc := crc32.NewIEEE()
		crc.Write([]byte(c.Type))
		crc.Write(c.Data)
		var sum [4]byte
		binary.BigEndian.PutUint32(sum[:], crc.Sum32())
		buf.Write(sum[:])
	}
	return buf.Bytes()
}

// NewTextChunk builds a tEXt chunk with the given keyword and payload.
// The keyword and payload are separated by a single null byte per the
// PNG specification.
func NewTextChunk(keyword, text string) Chunk {
	data := make([]byte, 0, len(keyword)+1+len(text))
	data = append(data, keyword...)
	data = append(data, 0)
	data = append(data, text...)
	return Chunk{Type: "tEXt", Data: data}
}

// TextChunkValue returns the payload of the first tEXt chunk carrying the
// given keyword, or false if no such chunk exists.
func TextChunkValue(chunks []Chunk, keyword string) (string, bool) {
	prefix := append([]byte(keyword), 0)
	for _, c := range chunks {
		if c.Type != "tEXt" {
			continue
		}
		if bytes.HasPrefix(c.Data, prefix) {
			return string(c.Data[len(prefix):]), true
		}
	}
	return "", false
}
