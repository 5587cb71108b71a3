package script

import (
	"fmt"
	"io"
	"reflect"

	"github.com/ugorji/go/codec"

	"github.com/FoolCoder-code/Nitro-Express/effect"
)

var jsonHandle = func() *codec.JsonHandle {
	h := &codec.JsonHandle{}
	// nested objects must land as string-keyed maps for the arg helpers.
	h.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return h
}()

// raw* mirror the authored JSON shape of a scene pak entry. Typed
// variants are built from these after structural checks.
type rawScript struct {
	Characters []rawCharacter `codec:"characters"`
	Steps      []rawStep      `codec:"steps"`
}

type rawCharacter struct {
	ID     string  `codec:"id"`
	Sprite string  `codec:"sprite_filename"`
	Scale  float64 `codec:"scale"`
	Layer  int     `codec:"default_layer"`
}

type rawStep struct {
	ID      string      `codec:"id"`
	Actions []rawAction `codec:"actions"`
}

type rawAction struct {
	Type string                 `codec:"type"`
	Args map[string]interface{} `codec:"args"`
}

// Decode reads one scene pak entry and returns the typed script model.
// Malformed content yields a ContentError.
func Decode(r io.Reader) (*Script, error) {
	var raw rawScript
	if err := codec.NewDecoder(r, jsonHandle).Decode(&raw); err != nil {
		return nil, Contentf("invalid scene json: %v", err)
	}
	return build(&raw)
}

// DecodeBytes is Decode over an in-memory pak entry.
func DecodeBytes(data []byte) (*Script, error) {
	var raw rawScript
	if err := codec.NewDecoderBytes(data, jsonHandle).Decode(&raw); err != nil {
		return nil, Contentf("invalid scene json: %v", err)
	}
	return build(&raw)
}

func build(raw *rawScript) (*Script, error) {
	s := &Script{
		Characters: make([]Character, 0, len(raw.Characters)),
		Steps:      make([]Step, 0, len(raw.Steps)),
	}

	roster := map[string]bool{}
	for _, rc := range raw.Characters {
		if rc.ID == "" {
			return nil, Contentf("character with empty id")
		}
		if roster[rc.ID] {
			return nil, Contentf("duplicate character id %q", rc.ID)
		}
		roster[rc.ID] = true
		scale := rc.Scale
		if scale == 0 {
			scale = 1.0
		}
		s.Characters = append(s.Characters, Character{
			ID:     rc.ID,
			Sprite: rc.Sprite,
			Scale:  scale,
			Layer:  rc.Layer,
		})
	}

	for si, rs := range raw.Steps {
		step := Step{ID: rs.ID, Actions: make([]Action, 0, len(rs.Actions))}
		for ai, ra := range rs.Actions {
			pos := fmt.Sprintf("step %d (%s) action %d", si, rs.ID, ai)
			a, err := buildAction(pos, ra, roster)
			if err != nil {
				return nil, err
			}
			step.Actions = append(step.Actions, a)
		}
		s.Steps = append(s.Steps, step)
	}
	return s, nil
}

func buildAction(pos string, ra rawAction, roster map[string]bool) (Action, error) {
	args := argMap{pos: pos, m: ra.Args}

	characterRef := func(key string) (string, error) {
		id, err := args.str(key)
		if err != nil {
			return "", err
		}
		if !roster[id] {
			return "", Contentf("%s: reference to undefined character %q", pos, id)
		}
		return id, nil
	}

	switch Kind(ra.Type) {
	case KindShowText:
		name, err := args.str("speaker_name")
		if err != nil {
			return nil, err
		}
		title := args.strOpt("speaker_title", "")
		text, err := args.str("text")
		if err != nil {
			return nil, err
		}
		return ShowText{SpeakerName: name, SpeakerTitle: title, Text: text}, nil

	case KindSetBackground:
		file, err := args.str("filename")
		if err != nil {
			return nil, err
		}
		bg := SetBackground{File: file, Blur: args.intOpt("blur", 0)}
		if tr, ok := args.sub("transition"); ok {
			typ, err := tr.str("type")
			if err != nil {
				return nil, err
			}
			if typ != "fade" {
				return nil, Contentf("%s: unknown transition type %q", pos, typ)
			}
			dur, err := tr.f64("duration")
			if err != nil {
				return nil, err
			}
			easing := tr.strOpt("easing", effect.EasingLinear)
			if _, err := effect.ParseEasing(easing); err != nil {
				return nil, Contentf("%s: %v", pos, err)
			}
			bg.Transition = &Transition{Type: typ, Duration: dur, Easing: easing}
		}
		return bg, nil

	case KindPlayBGM:
		track, err := args.str("track")
		if err != nil {
			return nil, err
		}
		return PlayBGM{Track: track, Loop: args.boolOpt("loop", true)}, nil

	case KindPlaySFX:
		name, err := args.str("name")
		if err != nil {
			return nil, err
		}
		return PlaySFX{Name: name}, nil

	case KindShowCharacter:
		id, err := characterRef("character_id")
		if err != nil {
			return nil, err
		}
		x, err := args.f64("x")
		if err != nil {
			return nil, err
		}
		y, err := args.f64("y")
		if err != nil {
			return nil, err
		}
		return ShowCharacter{CharacterID: id, X: x, Y: y}, nil

	case KindMoveCharacter:
		id, err := characterRef("character_id")
		if err != nil {
			return nil, err
		}
		fromX, err := args.f64("from_x")
		if err != nil {
			return nil, err
		}
		fromY, err := args.f64("from_y")
		if err != nil {
			return nil, err
		}
		toX, err := args.f64("to_x")
		if err != nil {
			return nil, err
		}
		toY, err := args.f64("to_y")
		if err != nil {
			return nil, err
		}
		dur, err := args.f64("duration")
		if err != nil {
			return nil, err
		}
		easing := args.strOpt("easing", effect.EasingLinear)
		if _, err := effect.ParseEasing(easing); err != nil {
			return nil, Contentf("%s: %v", pos, err)
		}
		return MoveCharacter{
			CharacterID: id,
			FromX:       fromX, FromY: fromY,
			ToX: toX, ToY: toY,
			Duration: dur,
			Easing:   easing,
		}, nil

	case KindHideCharacter:
		id, err := characterRef("character_id")
		if err != nil {
			return nil, err
		}
		return HideCharacter{CharacterID: id}, nil

	case KindSetHighlight:
		// empty id with dim_others dims everyone, so no roster check on
		// the empty string.
		id := args.strOpt("character_id", "")
		if id != "" && !roster[id] {
			return nil, Contentf("%s: reference to undefined character %q", pos, id)
		}
		return SetHighlight{CharacterID: id, DimOthers: args.boolOpt("dim_others", false)}, nil

	case KindScreenShake:
		dur, err := args.f64("duration")
		if err != nil {
			return nil, err
		}
		intensity, err := args.f64("intensity")
		if err != nil {
			return nil, err
		}
		return ScreenShake{
			Duration:  dur,
			Intensity: intensity,
			Frequency: args.f64Opt("frequency", effect.DefaultShakeFrequency),
			Infinite:  args.boolOpt("infinite", false),
		}, nil

	case KindPrompt:
		msg, err := args.str("message")
		if err != nil {
			return nil, err
		}
		flagKey, err := args.str("flag_key")
		if err != nil {
			return nil, err
		}
		list, err := args.list("options")
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, Contentf("%s: prompt needs at least one option", pos)
		}
		p := Prompt{
			ID:      args.strOpt("id", ""),
			Message: msg,
			FlagKey: flagKey,
			Options: make([]PromptOption, 0, len(list)),
		}
		for i, item := range list {
			opt, ok := asArgMap(fmt.Sprintf("%s option %d", pos, i), item)
			if !ok {
				return nil, Contentf("%s: option %d is not an object", pos, i)
			}
			label, err := opt.str("label")
			if err != nil {
				return nil, err
			}
			value, err := opt.str("flag_value")
			if err != nil {
				return nil, err
			}
			p.Options = append(p.Options, PromptOption{Label: label, FlagValue: value})
		}
		return p, nil

	case KindChangeScene:
		list, err := args.list("targets")
		if err != nil {
			return nil, err
		}
		cs := ChangeScene{Targets: make([]SceneTarget, 0, len(list))}
		for i, item := range list {
			target, ok := asArgMap(fmt.Sprintf("%s target %d", pos, i), item)
			if !ok {
				return nil, Contentf("%s: target %d is not an object", pos, i)
			}
			sceneID, err := target.str("scene_id")
			if err != nil {
				return nil, err
			}
			required := map[string]string{}
			if sub, ok := target.sub("required_flags"); ok {
				for k, v := range sub.m {
					str, ok := v.(string)
					if !ok {
						return nil, Contentf("%s: required flag %q is not a string", pos, k)
					}
					required[k] = str
				}
			}
			cs.Targets = append(cs.Targets, SceneTarget{SceneID: sceneID, RequiredFlags: required})
		}
		return cs, nil

	default:
		return nil, Contentf("%s: unknown action kind %q", pos, ra.Type)
	}
}

// argMap accesses the loosely typed args record of a raw action.
// Missing or mistyped required keys are content errors.
type argMap struct {
	pos string
	m   map[string]interface{}
}

func asArgMap(pos string, v interface{}) (argMap, bool) {
	if m, ok := v.(map[string]interface{}); ok {
		return argMap{pos: pos, m: m}, true
	}
	return argMap{}, false
}

func (a argMap) str(key string) (string, error) {
	v, ok := a.m[key]
	if !ok {
		return "", Contentf("%s: missing required arg %q", a.pos, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", Contentf("%s: arg %q is not a string", a.pos, key)
	}
	return s, nil
}

func (a argMap) strOpt(key, def string) string {
	if s, ok := a.m[key].(string); ok {
		return s
	}
	return def
}

// codec decodes json numbers as int64, uint64 or float64 depending on
// their shape, so accept all three.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func (a argMap) f64(key string) (float64, error) {
	v, ok := a.m[key]
	if !ok {
		return 0, Contentf("%s: missing required arg %q", a.pos, key)
	}
	f, ok := asFloat(v)
	if !ok {
		return 0, Contentf("%s: arg %q is not a number", a.pos, key)
	}
	return f, nil
}

func (a argMap) f64Opt(key string, def float64) float64 {
	if v, ok := a.m[key]; ok {
		if f, ok := asFloat(v); ok {
			return f
		}
	}
	return def
}

func (a argMap) intOpt(key string, def int) int {
	if v, ok := a.m[key]; ok {
		if f, ok := asFloat(v); ok {
			return int(f)
		}
	}
	return def
}

func (a argMap) boolOpt(key string, def bool) bool {
	if b, ok := a.m[key].(bool); ok {
		return b
	}
	return def
}

func (a argMap) list(key string) ([]interface{}, error) {
	v, ok := a.m[key]
	if !ok {
		return nil, Contentf("%s: missing required arg %q", a.pos, key)
	}
	l, ok := v.([]interface{})
	if !ok {
		return nil, Contentf("%s: arg %q is not a list", a.pos, key)
	}
	return l, nil
}

func (a argMap) sub(key string) (argMap, bool) {
	v, ok := a.m[key]
	if !ok || v == nil {
		return argMap{}, false
	}
	return asArgMap(a.pos+" "+key, v)
}
