// Package rules holds the hot-swappable ruleset document: behavior
// settings, the watchlist, and the move/rename schema. The document is
// persisted as JSON and shared with the desktop client, so field names
// and shape are part of the external contract.
package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Settings are the organizer behavior flags.
type Settings struct {
	RemoveDuplicate bool   `json:"removeDuplicate"`
	RenameByAI      bool   `json:"renameByAI"`
	RenameModel     string `json:"renameModel"`
	OCRModel        string `json:"ocrModel"`
}

// Rule maps a pattern to a destination directory.
type Rule struct {
	Pattern     string
	Destination string
}

// RuleList is an ordered set of rules. It is serialized as a JSON
// object whose key order is significant: rules are evaluated in
// declaration order and the first match wins.
type RuleList []Rule

// UnmarshalJSON decodes an object token-by-token to preserve key order,
// which encoding/json's map decoding would destroy.
func (rl *RuleList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("rules: rule list must be a JSON object")
	}
	out := RuleList{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		pattern, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("rules: rule pattern must be a string")
		}
		var dest string
		if err := dec.Decode(&dest); err != nil {
			return fmt.Errorf("rules: destination for %q: %w", pattern, err)
		}
		out = append(out, Rule{Pattern: pattern, Destination: dest})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*rl = out
	return nil
}

// MarshalJSON writes the rules back as an object in declaration order.
func (rl RuleList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rl {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(r.Pattern)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Destination)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MoveSchema holds routing rules grouped by match source.
type MoveSchema struct {
	URL RuleList `json:"url"`
	Tag RuleList `json:"tag"`
}

// Schema groups the move rules and the rename directory prefixes.
type Schema struct {
	Move   MoveSchema `json:"move"`
	Rename []string   `json:"rename"`
}

// Ruleset is one immutable snapshot of the full document. Snapshots
// are never mutated after publication; updates produce a new value.
type Ruleset struct {
	Settings  Settings `json:"settings"`
	Watchlist []string `json:"watchlist"`
	Schema    Schema   `json:"schema"`
}

// Default returns the ruleset used when no document exists on disk.
func Default() *Ruleset {
	return &Ruleset{
		Settings: Settings{
			RemoveDuplicate: true,
			RenameByAI:      true,
			RenameModel:     "gemma3:4b",
			OCRModel:        "deepocr",
		},
		Watchlist: []string{},
		Schema: Schema{
			Move:   MoveSchema{URL: RuleList{}, Tag: RuleList{}},
			Rename: []string{},
		},
	}
}

// clone deep-copies a ruleset so merges never touch a published snapshot.
func (r *Ruleset) clone() *Ruleset {
	out := &Ruleset{Settings: r.Settings}
	out.Watchlist = append([]string(nil), r.Watchlist...)
	out.Schema.Move.URL = append(RuleList(nil), r.Schema.Move.URL...)
	out.Schema.Move.Tag = append(RuleList(nil), r.Schema.Move.Tag...)
	out.Schema.Rename = append([]string(nil), r.Schema.Rename...)
	return out
}

// SettingsPatch is a partial settings update; nil fields are untouched.
type SettingsPatch struct {
	RemoveDuplicate *bool   `json:"removeDuplicate"`
	RenameByAI      *bool   `json:"renameByAI"`
	RenameModel     *string `json:"renameModel"`
	OCRModel        *string `json:"ocrModel"`
}

// SchemaPatch replaces whole schema sections when present.
type SchemaPatch struct {
	Move   *MoveSchema `json:"move"`
	Rename []string    `json:"rename"`
}

// Update is a partial document update as accepted by the control surface.
type Update struct {
	Settings  *SettingsPatch `json:"settings"`
	Watchlist []string       `json:"watchlist"`
	Schema    *SchemaPatch   `json:"schema"`
}

// merge applies an update to a copy of r and returns the copy.
func (r *Ruleset) merge(u Update) *Ruleset {
	out := r.clone()
	if u.Settings != nil {
		if u.Settings.RemoveDuplicate != nil {
			out.Settings.RemoveDuplicate = *u.Settings.RemoveDuplicate
		}
		if u.Settings.RenameByAI != nil {
			out.Settings.RenameByAI = *u.Settings.RenameByAI
		}
		if u.Settings.RenameModel != nil {
			out.Settings.RenameModel = *u.Settings.RenameModel
		}
		if u.Settings.OCRModel != nil {
			out.Settings.OCRModel = *u.Settings.OCRModel
		}
	}
	if u.Watchlist != nil {
		out.Watchlist = append([]string(nil), u.Watchlist...)
	}
	if u.Schema != nil {
		if u.Schema.Move != nil {
			out.Schema.Move = MoveSchema{
				URL: append(RuleList(nil), u.Schema.Move.URL...),
				Tag: append(RuleList(nil), u.Schema.Move.Tag...),
			}
		}
		if u.Schema.Rename != nil {
			out.Schema.Rename = append([]string(nil), u.Schema.Rename...)
		}
	}
	return out
}
