package stoplist

import (
	"testing"
)

func TestManagerBasic(t *testing.T) {
	mgr := NewManager([]string{"the", "a", "and"})

	if !mgr.IsStop("the") {
		t.Error("'the' should be a stopword")
	}
	if !mgr.IsStop("The") {
		t.Error("lookups should ignore case")
	}
	if mgr.IsStop("hello") {
		t.Error("'hello' should not be a stopword")
	}
}

func TestManagerAddRemove(t *testing.T) {
	mgr := NewManager([]string{"the"})

	mgr.Add(" MCP ")
	if !mgr.IsStop("mcp") {
		t.Error("'mcp' should be stopword after adding")
	}

	mgr.Remove("Mcp")
	if mgr.IsStop("mcp") {
		t.Error("'mcp' should not be stopword after removing")
	}

	mgr.Add("   ")
	if mgr.Len() != 1 {
		t.Errorf("blank tokens should be ignored, got %d stops", mgr.Len())
	}
}

func TestManagerAllSorted(t *testing.T) {
	mgr := NewManager([]string{"c", "a", "b", "a"})

	all := mgr.All()
	want := []string{"a", "b", "c"}
	if len(all) != len(want) {
		t.Fatalf("Expected %d stopwords, got %d", len(want), len(all))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, all[i], want[i])
		}
	}
}

func TestNewEnglishWithExtras(t *testing.T) {
	mgr := NewEnglish("show", "mcp")

	for _, w := range []string{"the", "and", "show", "mcp"} {
		if !mgr.IsStop(w) {
			t.Errorf("%q should be a stopword", w)
		}
	}
	if mgr.IsStop("agent") {
		t.Error("'agent' should not be a stopword")
	}
}

func TestUnion(t *testing.T) {
	a := NewManager([]string{"x"})
	b := NewManager([]string{"y"})

	u := a.Union(b)
	if !u.IsStop("x") || !u.IsStop("y") {
		t.Error("union should contain both sets")
	}
	if a.IsStop("y") {
		t.Error("union must not mutate the receiver")
	}
	if got := a.Union(nil).Len(); got != 1 {
		t.Errorf("union with nil should copy receiver, got %d", got)
	}
}

func TestEnglishReturnsCopy(t *testing.T) {
	words := English()
	words[0] = "mutated"
	if English()[0] == "mutated" {
		t.Error("English() should return a copy")
	}
}
