package textutil_test

import (
	"testing"

	"bindery/internal/textutil"
)

func TestFoldCaseAndWidth(t *testing.T) {
	n := textutil.NewNormalizer(textutil.HanOff)
	cases := []struct {
		name string
		a, b string
	}{
		{"case", "One Punch", "one punch"},
		{"fullwidth", "ＡＢＣ１２３", "abc123"},
		{"han script", "龍與虎", "龙与虎"},
		{"whitespace", "  Berserk ", "Berserk"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got, want := n.Fold(tc.a), n.Fold(tc.b); got != want {
				t.Fatalf("Fold(%q) = %q, Fold(%q) = %q; expected equal", tc.a, got, tc.b, want)
			}
		})
	}
}

func TestFoldDistinguishesDifferentTitles(t *testing.T) {
	n := textutil.NewNormalizer(textutil.HanOff)
	if n.Fold("Berserk") == n.Fold("Bleach") {
		t.Fatal("distinct titles folded to the same value")
	}
}

func TestFoldContains(t *testing.T) {
	n := textutil.NewNormalizer(textutil.HanOff)
	if !n.FoldContains("進擊的巨人 Attack on Titan", "attack") {
		t.Fatal("expected substring match after folding")
	}
	if !n.FoldContains("進擊的巨人", "进击") {
		t.Fatal("expected Han-folded substring match")
	}
	if n.FoldContains("Berserk", "titan") {
		t.Fatal("unexpected match")
	}
}

func TestComponentSanitizesSeparators(t *testing.T) {
	n := textutil.NewNormalizer(textutil.HanOff)
	got := n.Component("Vol. 1/2: Finale?")
	if got != "Vol. 1-2- Finale" {
		t.Fatalf("Component = %q", got)
	}
}

func TestComponentHanModes(t *testing.T) {
	simp := textutil.NewNormalizer(textutil.HanSimplified)
	if got := simp.Component("龍貓"); got != "龙猫" {
		t.Fatalf("simplified Component = %q", got)
	}
	trad := textutil.NewNormalizer(textutil.HanTraditional)
	if got := trad.Component("龙猫"); got != "龍貓" {
		t.Fatalf("traditional Component = %q", got)
	}
}

func TestComponentEmptyFallback(t *testing.T) {
	n := textutil.NewNormalizer(textutil.HanOff)
	if got := n.Component("???"); got != "untitled" {
		t.Fatalf("Component(\"???\") = %q", got)
	}
}

func TestParseHanMode(t *testing.T) {
	for _, valid := range []string{"", "off", "Simplified", "TRADITIONAL"} {
		if _, err := textutil.ParseHanMode(valid); err != nil {
			t.Fatalf("ParseHanMode(%q): %v", valid, err)
		}
	}
	if _, err := textutil.ParseHanMode("pinyin"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
