// Package asset reads the packed asset containers (.pak) the build
// pipeline produces: a base64 wrapped, zlib compressed JSON document
// holding named entries. Illustrations, sprites, dialogue scenes and
// locale bundles all use the same framing.
package asset

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/ugorji/go/codec"
)

var jsonHandle = &codec.JsonHandle{}

// Header describes the pak content.
type Header struct {
	FileType string `codec:"filetype"`
	Count    int    `codec:"count"`
}

// Entry is one packed file. EncodedString carries the raw file bytes
// base64 encoded.
type Entry struct {
	EncodedString string `codec:"encoded_string"`
}

// Pak is one decoded container.
type Pak struct {
	Category string           `codec:"category"`
	BuiltAt  string           `codec:"built_at"`
	Header   Header           `codec:"header"`
	Entries  map[string]Entry `codec:"entries"`
}

// ReadPak decodes a pak container from r.
func ReadPak(r io.Reader) (*Pak, error) {
	var pak Pak
	if err := UnpackJSON(r, &pak); err != nil {
		return nil, fmt.Errorf("asset: broken pak: %w", err)
	}
	if pak.Entries == nil {
		pak.Entries = map[string]Entry{}
	}
	return &pak, nil
}

// Bytes returns the raw file bytes of a packed entry. A missing entry is
// fatal at the point of use; the pak content is build-time authored.
func (p *Pak) Bytes(name string) ([]byte, error) {
	entry, ok := p.Entries[name]
	if !ok {
		return nil, fmt.Errorf("asset: no entry %q in %s pak", name, p.Category)
	}
	data, err := base64.StdEncoding.DecodeString(entry.EncodedString)
	if err != nil {
		return nil, fmt.Errorf("asset: entry %q is not valid base64: %w", name, err)
	}
	return data, nil
}

// Has reports whether the pak holds the named entry.
func (p *Pak) Has(name string) bool {
	_, ok := p.Entries[name]
	return ok
}

// UnpackJSON reverses the pak framing for any JSON document:
// base64 → zlib → JSON into dst. Locale bundles share this framing.
func UnpackJSON(r io.Reader, dst interface{}) error {
	encoded, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	compressed, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(encoded)))
	if err != nil {
		return fmt.Errorf("base64 layer: %w", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("zlib layer: %w", err)
	}
	defer zr.Close()
	if err := codec.NewDecoder(zr, jsonHandle).Decode(dst); err != nil {
		return fmt.Errorf("json layer: %w", err)
	}
	return nil
}

// PackJSON applies the pak framing to any JSON-encodable document.
// The asset build tool and the tests use it.
func PackJSON(w io.Writer, src interface{}) error {
	var jsonBuf bytes.Buffer
	if err := codec.NewEncoder(&jsonBuf, jsonHandle).Encode(src); err != nil {
		return err
	}
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(jsonBuf.Bytes()); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	enc := base64.NewEncoder(base64.StdEncoding, w)
	if _, err := enc.Write(compressed.Bytes()); err != nil {
		return err
	}
	return enc.Close()
}

// BuildPak assembles a container from raw file bytes. Used by the pak
// build tool and the tests.
func BuildPak(category, fileType string, files map[string][]byte) *Pak {
	pak := &Pak{
		Category: category,
		Header:   Header{FileType: fileType, Count: len(files)},
		Entries:  make(map[string]Entry, len(files)),
	}
	for name, content := range files {
		pak.Entries[name] = Entry{EncodedString: base64.StdEncoding.EncodeToString(content)}
	}
	return pak
}
