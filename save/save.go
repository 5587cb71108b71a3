// Package save persists play state: numbered save slots and the global
// read-text flags shared by every slot. A save file is a small binary
// header carrying slot metadata, a msgpack body, and a XOR obfuscation
// layer over the whole so the files do not invite casual editing.
package save

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/ugorji/go/codec"

	"github.com/FoolCoder-code/Nitro-Express/filesystem"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
)

const (
	dir           = "sav"
	readFlagsFile = dir + "/global.sav"

	identifier     = "NXSV"
	CurrentVersion = 1

	// MaxSlot is the highest selectable slot number, slots count from 1.
	MaxSlot = 12
)

var obfuscationKey = []byte("nitro-express")

var msgpackHandle = &codec.MsgpackHandle{}

// Meta is the slot metadata kept in the file header, readable without
// decoding the body.
type Meta struct {
	Version int32
	SavedAt time.Time
	Comment string
}

// Data is the restorable play state.
type Data struct {
	SceneID string            `codec:"scene_id"`
	StepIdx int               `codec:"step_idx"`
	Flags   map[string]string `codec:"flags"`
}

// Repository reads and writes save files through a FileSystem.
type Repository struct {
	fs filesystem.FileSystem
}

func NewRepository(fs filesystem.FileSystem) *Repository {
	return &Repository{fs: fs}
}

// FileOf returns the save file path for a slot number.
func FileOf(slot int) string {
	return fmt.Sprintf("%s/savefile%02d.sav", dir, slot)
}

// Exist reports whether the slot holds a save.
func (r *Repository) Exist(slot int) bool {
	return r.fs.Exist(FileOf(slot))
}

// Save writes the play state into a slot, overwriting any previous one.
func (r *Repository) Save(slot int, comment string, d *Data) error {
	if slot < 1 || slot > MaxSlot {
		return fmt.Errorf("save: slot %d out of range", slot)
	}
	meta := &Meta{Version: CurrentVersion, SavedAt: time.Now(), Comment: comment}
	content, err := encodeFile(meta, d)
	if err != nil {
		return fmt.Errorf("save: encode slot %d: %w", slot, err)
	}
	if err := r.writeFile(FileOf(slot), content); err != nil {
		return fmt.Errorf("save: write slot %d: %w", slot, err)
	}
	log.Debugf("save: wrote slot %d (%s)", slot, comment)
	return nil
}

// Load reads a slot back. Loading an empty slot is an error.
func (r *Repository) Load(slot int) (*Meta, *Data, error) {
	content, err := r.readFile(FileOf(slot))
	if err != nil {
		return nil, nil, fmt.Errorf("save: read slot %d: %w", slot, err)
	}
	meta, body, err := decodeHeader(content)
	if err != nil {
		return nil, nil, fmt.Errorf("save: slot %d: %w", slot, err)
	}
	var d Data
	if err := codec.NewDecoderBytes(body, msgpackHandle).Decode(&d); err != nil {
		return nil, nil, fmt.Errorf("save: slot %d body: %w", slot, err)
	}
	if d.Flags == nil {
		d.Flags = map[string]string{}
	}
	return meta, &d, nil
}

// LoadMeta reads only the slot header. Nil without error for an empty
// slot; the save select screen lists slots this way.
func (r *Repository) LoadMeta(slot int) (*Meta, error) {
	if !r.Exist(slot) {
		return nil, nil
	}
	content, err := r.readFile(FileOf(slot))
	if err != nil {
		return nil, fmt.Errorf("save: read slot %d: %w", slot, err)
	}
	meta, _, err := decodeHeader(content)
	if err != nil {
		return nil, fmt.Errorf("save: slot %d: %w", slot, err)
	}
	return meta, nil
}

// ListMeta returns the headers of slots 1..MaxSlot, nil for empty ones.
// A corrupt slot is listed as empty rather than failing the whole list.
func (r *Repository) ListMeta() []*Meta {
	metas := make([]*Meta, MaxSlot)
	for slot := 1; slot <= MaxSlot; slot++ {
		meta, err := r.LoadMeta(slot)
		if err != nil {
			log.Infof("save: unreadable slot %d: %v", slot, err)
			continue
		}
		metas[slot-1] = meta
	}
	return metas
}

// Delete removes a slot file. An empty slot or a backing store without
// delete support is a no-op.
func (r *Repository) Delete(slot int) error {
	if slot < 1 || slot > MaxSlot {
		return fmt.Errorf("save: slot %d out of range", slot)
	}
	rm, ok := r.fs.(filesystem.Remover)
	if !ok || !r.Exist(slot) {
		return nil
	}
	if err := rm.Remove(FileOf(slot)); err != nil {
		return fmt.Errorf("save: delete slot %d: %w", slot, err)
	}
	log.Debugf("save: deleted slot %d", slot)
	return nil
}

func (r *Repository) writeFile(path string, content []byte) error {
	w, err := r.fs.Store(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(xorBytes(content)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (r *Repository) readFile(path string) ([]byte, error) {
	rc, err := r.fs.Load(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return xorBytes(content), nil
}

// xorBytes is its own inverse.
func xorBytes(content []byte) []byte {
	out := make([]byte, len(content))
	for i, b := range content {
		out[i] = b ^ obfuscationKey[i%len(obfuscationKey)]
	}
	return out
}

func encodeFile(meta *Meta, body interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(identifier)
	if err := binary.Write(&buf, binary.LittleEndian, meta.Version); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, meta.SavedAt.Unix()); err != nil {
		return nil, err
	}
	comment := []byte(meta.Comment)
	if len(comment) > 0xffff {
		comment = comment[:0xffff]
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint16(len(comment))); err != nil {
		return nil, err
	}
	buf.Write(comment)
	if err := codec.NewEncoder(&buf, msgpackHandle).Encode(body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeHeader parses the file header and returns the remaining body.
func decodeHeader(content []byte) (*Meta, []byte, error) {
	r := bytes.NewReader(content)
	id := make([]byte, len(identifier))
	if _, err := io.ReadFull(r, id); err != nil || string(id) != identifier {
		return nil, nil, fmt.Errorf("not a save file")
	}
	var meta Meta
	if err := binary.Read(r, binary.LittleEndian, &meta.Version); err != nil {
		return nil, nil, fmt.Errorf("broken header: %w", err)
	}
	if meta.Version > CurrentVersion {
		return nil, nil, fmt.Errorf("unsupported save version %d", meta.Version)
	}
	var unix int64
	if err := binary.Read(r, binary.LittleEndian, &unix); err != nil {
		return nil, nil, fmt.Errorf("broken header: %w", err)
	}
	meta.SavedAt = time.Unix(unix, 0)
	var commentLen uint16
	if err := binary.Read(r, binary.LittleEndian, &commentLen); err != nil {
		return nil, nil, fmt.Errorf("broken header: %w", err)
	}
	comment := make([]byte, commentLen)
	if _, err := io.ReadFull(r, comment); err != nil {
		return nil, nil, fmt.Errorf("broken header: %w", err)
	}
	meta.Comment = string(comment)
	body := make([]byte, r.Len())
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, nil, fmt.Errorf("broken body: %w", err)
	}
	return &meta, body, nil
}
