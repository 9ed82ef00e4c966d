package wikilink

import "testing"

func TestNormalize(t *testing.T) {
	t.Run("rewrites sloppy described link", func(t *testing.T) {
		got, changed := Normalize("see [[2023-01-02 | the daily note ]] here")
		if !changed {
			t.Fatal("expected a change")
		}
		want := "see [[2023-01-02|the daily note]] here"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("canonical link untouched", func(t *testing.T) {
		in := "see [[2023-01-02|the daily note]] here"
		got, changed := Normalize(in)
		if changed {
			t.Errorf("unexpected change: %q", got)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once, _ := Normalize("a [[X.Y | some descr ]] b [[Z | other]] c")
		twice, changed := Normalize(once)
		if changed || twice != once {
			t.Errorf("second pass changed output: %q -> %q", once, twice)
		}
	})

	t.Run("bare links untouched", func(t *testing.T) {
		in := "plain [[2023-01-02]] link"
		if got, changed := Normalize(in); changed {
			t.Errorf("unexpected change: %q", got)
		}
	})
}

func TestEmbed(t *testing.T) {
	if got := Embed("photo.png"); got != "![[photo.png]]" {
		t.Errorf("got %q", got)
	}

	t.Run("strip round trip", func(t *testing.T) {
		if got := StripEmbed(Embed("photo.png")); got != "photo.png" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("strip bare name", func(t *testing.T) {
		if got := StripEmbed("photo.png"); got != "photo.png" {
			t.Errorf("got %q", got)
		}
	})

	if !IsEmbed("![[a.png]]") || IsEmbed("[[a.png]]") || IsEmbed("a.png") {
		t.Error("IsEmbed misclassified a reference")
	}
}

func TestParse(t *testing.T) {
	target, display, ok := Parse("[[ISS.TWiR.500|This Week in Rust 500]]")
	if !ok || target != "ISS.TWiR.500" || display != "This Week in Rust 500" {
		t.Errorf("got %q %q %v", target, display, ok)
	}

	if _, _, ok := Parse("not a link"); ok {
		t.Error("expected failure")
	}
	if _, _, ok := Parse("[[  ]]"); ok {
		t.Error("expected failure on empty target")
	}
}
