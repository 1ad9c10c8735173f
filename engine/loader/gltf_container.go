package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/qmuntal/gltf"
)

// GLB container constants.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbChunkBIN  = 0x004E4942 // "BIN\0"
)

type glbHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

type glbChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

// gltfContainer is a decoded glTF document plus the GLB binary chunk, if any.
type gltfContainer struct {
	doc *gltf.Document
	bin []byte
}

// isGLB reports whether data should be read as a binary container.
func isGLB(name string, data []byte) bool {
	if strings.EqualFold(path.Ext(name), ".glb") {
		return true
	}
	return len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == glbMagic
}

// parseGLTFContainer decodes a .gltf JSON document or a .glb container.
func parseGLTFContainer(name string, data []byte) (*gltfContainer, error) {
	c := &gltfContainer{}
	jsonData := data
	if isGLB(name, data) {
		var err error
		jsonData, c.bin, err = splitGLB(name, data)
		if err != nil {
			return nil, err
		}
	}

	var doc gltf.Document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, &common.ParseError{File: name, Msg: "decoding glTF JSON", Err: err}
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, &common.ParseError{File: name, Msg: fmt.Sprintf("unsupported glTF version %q, want 2.x", doc.Asset.Version)}
	}

	c.doc = &doc
	return c, nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
func splitGLB(name string, data []byte) ([]byte, []byte, error) {
	r := bytes.NewReader(data)

	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, &common.ParseError{File: name, Msg: "reading GLB header", Err: err}
	}
	if header.Magic != glbMagic {
		return nil, nil, &common.ParseError{File: name, Msg: "invalid GLB magic"}
	}
	if header.Version != glbVersion {
		return nil, nil, &common.ParseError{File: name, Msg: fmt.Sprintf("unsupported GLB version %d", header.Version)}
	}
	if int(header.Length) > len(data) {
		return nil, nil, &common.ParseError{File: name, Msg: fmt.Sprintf("GLB header length %d exceeds %d bytes", header.Length, len(data))}
	}

	var jsonData, binData []byte
	for {
		var chunk glbChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, &common.ParseError{File: name, Msg: "reading GLB chunk header", Err: err}
		}
		if int64(chunk.ChunkLength) > int64(r.Len()) {
			return nil, nil, &common.ParseError{File: name, Msg: "GLB chunk extends past end of file"}
		}

		chunkData := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, nil, &common.ParseError{File: name, Msg: "reading GLB chunk", Err: err}
		}

		switch chunk.ChunkType {
		case glbChunkJSON:
			if jsonData == nil {
				jsonData = chunkData
			}
		case glbChunkBIN:
			if binData == nil {
				binData = chunkData
			}
		}
	}

	if jsonData == nil {
		return nil, nil, &common.ParseError{File: name, Msg: "GLB has no JSON chunk"}
	}
	return jsonData, binData, nil
}
