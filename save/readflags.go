package save

import (
	"fmt"

	"github.com/ugorji/go/codec"

	"github.com/FoolCoder-code/Nitro-Express/util/log"
)

// ReadFlags records which dialogue steps the player has already seen,
// shared across every save slot. Skip mode consults it when configured
// to fast-forward only read text.
type ReadFlags struct {
	seen map[string]bool
}

func NewReadFlags() *ReadFlags {
	return &ReadFlags{seen: map[string]bool{}}
}

func readKey(sceneID string, stepIdx int) string {
	return fmt.Sprintf("%s:%d", sceneID, stepIdx)
}

// Mark records a step as read.
func (rf *ReadFlags) Mark(sceneID string, stepIdx int) {
	rf.seen[readKey(sceneID, stepIdx)] = true
}

// IsRead reports whether the player has seen a step before.
func (rf *ReadFlags) IsRead(sceneID string, stepIdx int) bool {
	return rf.seen[readKey(sceneID, stepIdx)]
}

// Count returns how many distinct steps are recorded.
func (rf *ReadFlags) Count() int { return len(rf.seen) }

// LoadReadFlags reads the global read-flags file. A missing file means a
// fresh profile and returns an empty set.
func (r *Repository) LoadReadFlags() (*ReadFlags, error) {
	if !r.fs.Exist(readFlagsFile) {
		return NewReadFlags(), nil
	}
	content, err := r.readFile(readFlagsFile)
	if err != nil {
		return nil, fmt.Errorf("save: read flags: %w", err)
	}
	_, body, err := decodeHeader(content)
	if err != nil {
		return nil, fmt.Errorf("save: read flags: %w", err)
	}
	rf := NewReadFlags()
	if err := codec.NewDecoderBytes(body, msgpackHandle).Decode(&rf.seen); err != nil {
		return nil, fmt.Errorf("save: read flags body: %w", err)
	}
	if rf.seen == nil {
		rf.seen = map[string]bool{}
	}
	return rf, nil
}

// StoreReadFlags writes the global read-flags file.
func (r *Repository) StoreReadFlags(rf *ReadFlags) error {
	meta := &Meta{Version: CurrentVersion, Comment: "read flags"}
	content, err := encodeFile(meta, rf.seen)
	if err != nil {
		return fmt.Errorf("save: encode read flags: %w", err)
	}
	if err := r.writeFile(readFlagsFile, content); err != nil {
		return fmt.Errorf("save: write read flags: %w", err)
	}
	log.Debugf("save: wrote read flags, %d steps", rf.Count())
	return nil
}
