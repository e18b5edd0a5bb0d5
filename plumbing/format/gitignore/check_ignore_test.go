package gitignore

import "testing"

func TestIgnore_Match_scopedLayering(t *testing.T) {
	local := []Pattern{
		ParsePattern("build/", nil),
	}
	byDir := map[string][]Pattern{
		"": {
			ParsePattern("*.log", nil),
			ParsePattern("!keep.log", nil),
		},
	}
	ig := &Ignore{ByDir: byDir, Local: local}

	if !ig.Match([]string{"build", "out.log"}, false) {
		t.Fatal("expected build/out.log to be ignored")
	}

	if ig.Match([]string{"keep.log"}, false) {
		t.Fatal("expected keep.log to be kept: negation wins within the scoped list")
	}

	if !ig.Match([]string{"other.log"}, false) {
		t.Fatal("expected other.log to be ignored")
	}
}

func TestIgnore_Match_noRuleMatches(t *testing.T) {
	ig := &Ignore{}
	if ig.Match([]string{"a", "b"}, false) {
		t.Fatal("expected no verdict with no rules")
	}
}
