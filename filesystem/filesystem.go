// Package filesystem abstracts how the player reaches its on-disk data:
// asset paks, locale paks, configuration and save files. Everything is
// addressed by a path relative to the game base directory.
package filesystem

import (
	"io"

	"github.com/FoolCoder-code/Nitro-Express/util/log"
)

// Loader searches a file path and returns its content as io.Reader.
type Loader interface {
	// Load loads content specified by the relative path from the game
	// base directory. Close() is responsible for the caller.
	Load(filepath string) (reader io.ReadCloser, err error)

	// Exist checks whether given filepath exists under the base directory.
	Exist(filepath string) bool
}

// FileSystem is a Loader which can also create data store entries.
type FileSystem interface {
	Loader

	// Store creates a data store entry, making parent directories as
	// needed.
	Store(filepath string) (io.WriteCloser, error)
}

// Remover is an optional capability: a FileSystem that can also delete
// entries. Save slot deletion probes for it with a type assertion.
type Remover interface {
	Remove(filepath string) error
}

// PathResolver resolves a game-relative path into an absolute one.
type PathResolver interface {
	ResolvePath(path string) (string, error)
}

// Default is the FileSystem used by the exported functions. Replaced in
// tests by an in-memory implementation.
var Default FileSystem = &OSFileSystem{MaxFileSize: DefaultMaxFileSize}

func Load(filepath string) (io.ReadCloser, error) {
	log.Debugf("filesystem.Load: %s", filepath)
	return Default.Load(filepath)
}

func Exist(filepath string) bool {
	return Default.Exist(filepath)
}

func Store(filepath string) (io.WriteCloser, error) {
	log.Debugf("filesystem.Store: %s", filepath)
	return Default.Store(filepath)
}
