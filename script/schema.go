package script

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// sceneSchema pins the structural shape of authored scene entries before
// the typed decode runs, so a broken pak fails with a field-level report
// instead of a zero value slipping through.
const sceneSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["characters", "steps"],
  "properties": {
    "characters": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "sprite_filename"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "sprite_filename": {"type": "string"},
          "scale": {"type": "number"},
          "default_layer": {"type": "integer"}
        }
      }
    },
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "actions"],
        "properties": {
          "id": {"type": "string"},
          "actions": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["type"],
              "properties": {
                "type": {
                  "type": "string",
                  "enum": [
                    "show_text", "set_background", "play_bgm", "play_sfx",
                    "show_character", "move_character", "hide_character",
                    "set_highlight", "screen_shake", "prompt",
                    "change_dialogue_scene"
                  ]
                },
                "args": {"type": "object"}
              }
            }
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(sceneSchema)

// ValidateJSON checks raw scene bytes against the structural schema.
// It returns a ContentError listing every violation.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Contentf("scene schema check failed: %v", err)
	}
	if result.Valid() {
		return nil
	}
	detail := ""
	for _, desc := range result.Errors() {
		if detail != "" {
			detail += "; "
		}
		detail += fmt.Sprintf("%s", desc)
	}
	return Contentf("scene does not match schema: %s", detail)
}
