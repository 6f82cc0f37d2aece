package rules

import (
	"encoding/json"
	"testing"
)

func TestRuleListPreservesOrder(t *testing.T) {
	data := []byte(`{
		"docs.example.com": "/sorted/docs",
		"example.com": "/sorted/misc",
		"github.com": "/sorted/code"
	}`)

	var rl RuleList
	if err := json.Unmarshal(data, &rl); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rl) != 3 {
		t.Fatalf("len = %d, want 3", len(rl))
	}
	want := []string{"docs.example.com", "example.com", "github.com"}
	for i, w := range want {
		if rl[i].Pattern != w {
			t.Errorf("rule %d pattern = %q, want %q", i, rl[i].Pattern, w)
		}
	}
	if rl[0].Destination != "/sorted/docs" {
		t.Errorf("destination = %q", rl[0].Destination)
	}
}

func TestRuleListRoundTrip(t *testing.T) {
	rl := RuleList{
		{Pattern: "b.com", Destination: "/b"},
		{Pattern: "a.com", Destination: "/a"},
	}

	data, err := json.Marshal(rl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"b.com":"/b","a.com":"/a"}` {
		t.Errorf("marshal = %s", data)
	}

	var back RuleList
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 2 || back[0].Pattern != "b.com" || back[1].Pattern != "a.com" {
		t.Errorf("round trip lost order: %+v", back)
	}
}

func TestRuleListRejectsNonObject(t *testing.T) {
	var rl RuleList
	if err := json.Unmarshal([]byte(`["a", "b"]`), &rl); err == nil {
		t.Error("expected error for array input")
	}
	if err := json.Unmarshal([]byte(`{"a": 1}`), &rl); err == nil {
		t.Error("expected error for non-string destination")
	}
}

func TestDefaultRuleset(t *testing.T) {
	rs := Default()
	if !rs.Settings.RemoveDuplicate || !rs.Settings.RenameByAI {
		t.Errorf("defaults: %+v", rs.Settings)
	}
	if rs.Settings.RenameModel == "" || rs.Settings.OCRModel == "" {
		t.Errorf("default models missing: %+v", rs.Settings)
	}
	if rs.Watchlist == nil || rs.Schema.Move.URL == nil {
		t.Error("default collections must be non-nil for JSON shape stability")
	}
}

func TestMergeSettingsPatch(t *testing.T) {
	base := Default()
	off := false
	model := "llama3"

	merged := base.merge(Update{
		Settings: &SettingsPatch{RenameByAI: &off, RenameModel: &model},
	})

	if merged.Settings.RenameByAI {
		t.Error("renameByAI not patched")
	}
	if merged.Settings.RenameModel != "llama3" {
		t.Errorf("renameModel = %q", merged.Settings.RenameModel)
	}
	// Untouched fields keep their values.
	if !merged.Settings.RemoveDuplicate {
		t.Error("removeDuplicate must be untouched")
	}
	if merged.Settings.OCRModel != base.Settings.OCRModel {
		t.Error("ocrModel must be untouched")
	}
	// The base snapshot is never mutated.
	if !base.Settings.RenameByAI {
		t.Error("merge mutated the base ruleset")
	}
}

func TestMergeWatchlistAndSchema(t *testing.T) {
	base := Default()
	base.Watchlist = []string{"/downloads"}
	base.Schema.Move.URL = RuleList{{Pattern: "old.com", Destination: "/old"}}

	merged := base.merge(Update{
		Watchlist: []string{"/downloads", "/desktop"},
		Schema: &SchemaPatch{
			Move:   &MoveSchema{URL: RuleList{{Pattern: "new.com", Destination: "/new"}}},
			Rename: []string{"/sorted"},
		},
	})

	if len(merged.Watchlist) != 2 {
		t.Errorf("watchlist = %v", merged.Watchlist)
	}
	if len(merged.Schema.Move.URL) != 1 || merged.Schema.Move.URL[0].Pattern != "new.com" {
		t.Errorf("move rules = %+v", merged.Schema.Move.URL)
	}
	if len(merged.Schema.Rename) != 1 || merged.Schema.Rename[0] != "/sorted" {
		t.Errorf("rename dirs = %v", merged.Schema.Rename)
	}
	// Absent sections stay.
	if len(base.Schema.Move.URL) != 1 || base.Schema.Move.URL[0].Pattern != "old.com" {
		t.Error("merge mutated base schema")
	}
}

func TestMergeAbsentSectionsUntouched(t *testing.T) {
	base := Default()
	base.Watchlist = []string{"/downloads"}

	merged := base.merge(Update{})
	if len(merged.Watchlist) != 1 || merged.Watchlist[0] != "/downloads" {
		t.Errorf("empty update changed watchlist: %v", merged.Watchlist)
	}
	if merged.Settings != base.Settings {
		t.Errorf("empty update changed settings: %+v", merged.Settings)
	}
}
