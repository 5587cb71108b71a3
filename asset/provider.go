package asset

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/FoolCoder-code/Nitro-Express/filesystem"
	"github.com/FoolCoder-code/Nitro-Express/script"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
)

// Pak file names under the asset directory.
const (
	IllustrationPak = "assets/illustration.pak"
	SpritePak       = "assets/sprite.pak"
	ScenePak        = "assets/scene.pak"
)

// decoded images kept hot; a sprite set plus a few backdrops fit easily.
const defaultImageCacheSize = 32

// Store opens the game's pak containers and serves decoded content.
// Decoded images go through a LRU cache so a scene switch does not
// re-decode the same sprites. Store is safe for concurrent use.
type Store struct {
	illustrations *Pak
	sprites       *Pak
	scenes        *Pak

	mu    sync.Mutex
	cache *lru.Cache
}

// OpenStore reads the three pak containers through fs.
func OpenStore(fs filesystem.Loader) (*Store, error) {
	s := &Store{cache: lru.New(defaultImageCacheSize)}
	for _, p := range []struct {
		file string
		dst  **Pak
	}{
		{IllustrationPak, &s.illustrations},
		{SpritePak, &s.sprites},
		{ScenePak, &s.scenes},
	} {
		r, err := fs.Load(p.file)
		if err != nil {
			return nil, fmt.Errorf("asset: open %s: %w", p.file, err)
		}
		pak, err := ReadPak(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("asset: read %s: %w", p.file, err)
		}
		*p.dst = pak
		log.Debugf("asset: loaded %s, %d entries", p.file, len(pak.Entries))
	}
	return s, nil
}

// Illustration returns the decoded backdrop image of the given name.
func (s *Store) Illustration(name string) (image.Image, error) {
	return s.cachedImage(s.illustrations, "illust:", name)
}

// Sprite returns the decoded character sprite of the given name.
func (s *Store) Sprite(name string) (image.Image, error) {
	return s.cachedImage(s.sprites, "sprite:", name)
}

func (s *Store) cachedImage(pak *Pak, prefix, name string) (image.Image, error) {
	key := lru.Key(prefix + name)
	s.mu.Lock()
	if cached, ok := s.cache.Get(key); ok {
		s.mu.Unlock()
		return cached.(image.Image), nil
	}
	s.mu.Unlock()

	data, err := pak.Bytes(name)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("asset: %s%s: %w", prefix, name, err)
	}

	s.mu.Lock()
	s.cache.Add(key, img)
	s.mu.Unlock()
	return img, nil
}

// Script decodes and validates the dialogue scene of the given id.
func (s *Store) Script(id string) (*script.Script, error) {
	data, err := s.scenes.Bytes(id)
	if err != nil {
		return nil, err
	}
	if err := script.ValidateJSON(data); err != nil {
		return nil, fmt.Errorf("asset: scene %q: %w", id, err)
	}
	scr, err := script.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("asset: scene %q: %w", id, err)
	}
	return scr, nil
}

// SceneIDs lists the packed dialogue scene ids.
func (s *Store) SceneIDs() []string {
	ids := make([]string, 0, len(s.scenes.Entries))
	for id := range s.scenes.Entries {
		ids = append(ids, id)
	}
	return ids
}
