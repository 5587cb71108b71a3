// Package locale serves the UI text bundles. Each language ships as one
// pak-framed JSON document of nested string tables under the locale
// directory, editable while the game runs.
package locale

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/FoolCoder-code/Nitro-Express/asset"
	"github.com/FoolCoder-code/Nitro-Express/filesystem"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
)

// Dir is the bundle directory under the game base directory.
const Dir = "locale"

// FontPathKey is the top-level bundle key naming the font file for the
// language.
const FontPathKey = "font_path"

// Data is one loaded language bundle.
type Data struct {
	code string
	tag  language.Tag
	root map[string]interface{}
}

// Load reads the bundle for a language code, e.g. "en" or "ja".
func Load(fs filesystem.Loader, code string) (*Data, error) {
	r, err := fs.Load(BundleFile(code))
	if err != nil {
		return nil, fmt.Errorf("locale: open %s bundle: %w", code, err)
	}
	defer r.Close()

	var root map[string]interface{}
	if err := asset.UnpackJSON(r, &root); err != nil {
		return nil, fmt.Errorf("locale: broken %s bundle: %w", code, err)
	}
	tag := parseTag(code)
	if tag == language.Und {
		log.Debugf("locale: unparsable language code %q", code)
	}
	return &Data{code: code, tag: tag, root: root}, nil
}

// parseTag maps a bundle code onto its BCP 47 tag, Und when unparsable.
func parseTag(code string) language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}

// BundleFile returns the bundle path for a language code.
func BundleFile(code string) string {
	return Dir + "/" + code + ".pak"
}

// Code returns the language code this bundle was loaded for.
func (d *Data) Code() string { return d.code }

// Tag returns the BCP 47 tag of the bundle language.
func (d *Data) Tag() language.Tag { return d.tag }

// Text walks the nested tables along path and returns the string leaf.
func (d *Data) Text(path ...string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("locale: empty text path")
	}
	node := interface{}(d.root)
	for i, key := range path {
		table, ok := node.(map[string]interface{})
		if !ok {
			return "", fmt.Errorf("locale(%s): %s is not a table", d.code, strings.Join(path[:i], "."))
		}
		node, ok = table[key]
		if !ok {
			return "", fmt.Errorf("locale(%s): no entry %s", d.code, strings.Join(path[:i+1], "."))
		}
	}
	s, ok := node.(string)
	if !ok {
		return "", fmt.Errorf("locale(%s): %s is not a string", d.code, strings.Join(path, "."))
	}
	return s, nil
}

// TextOr returns the leaf at path, or fallback when it does not exist.
// Missing UI text should not take the game down.
func (d *Data) TextOr(fallback string, path ...string) string {
	s, err := d.Text(path...)
	if err != nil {
		log.Debugf("locale: %v", err)
		return fallback
	}
	return s
}

// FontPath returns the game-relative font file for this language, empty
// when the bundle does not name one.
func (d *Data) FontPath() string {
	return d.TextOr("", FontPathKey)
}

// Resolve maps a requested language code onto the installed bundle
// closest to it by BCP 47 matching: "en_US" resolves to an installed
// "en". A code with no plausible match comes back unchanged, so the
// caller's Load fails with the code the user actually asked for.
func Resolve(fs filesystem.Loader, code string, known []string) string {
	if fs.Exist(BundleFile(code)) {
		return code
	}
	installed := Available(fs, known)
	if len(installed) == 0 {
		return code
	}
	want := parseTag(code)
	if want == language.Und {
		return code
	}
	tags := make([]language.Tag, len(installed))
	for i, c := range installed {
		tags[i] = parseTag(c)
	}
	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return code
	}
	log.Debugf("locale: %q resolved to installed bundle %q", code, installed[idx])
	return installed[idx]
}

// Available lists the language codes which have a bundle installed.
func Available(fs filesystem.Loader, codes []string) []string {
	found := make([]string, 0, len(codes))
	for _, code := range codes {
		if fs.Exist(BundleFile(code)) {
			found = append(found, code)
		}
	}
	sort.Strings(found)
	return found
}
