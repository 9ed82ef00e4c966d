package twir

import "testing"

func TestParseRange(t *testing.T) {
	t.Run("single issue", func(t *testing.T) {
		r, err := ParseRange("500")
		if err != nil {
			t.Fatal(err)
		}
		if r.Min != 500 || r.Max != 500 {
			t.Errorf("got %+v", r)
		}
		if got := r.Numbers(); len(got) != 1 || got[0] != 500 {
			t.Errorf("got %v", got)
		}
	})

	t.Run("inclusive range", func(t *testing.T) {
		r, err := ParseRange("495..498")
		if err != nil {
			t.Fatal(err)
		}
		want := []int{495, 496, 497, 498}
		got := r.Numbers()
		if len(got) != len(want) {
			t.Fatalf("got %v", got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got %v, want %v", got, want)
				break
			}
		}
	})

	t.Run("illegal input", func(t *testing.T) {
		for _, s := range []string{"", "abc", "10..", "..10", "20..10"} {
			if _, err := ParseRange(s); err == nil {
				t.Errorf("ParseRange(%q) succeeded", s)
			}
		}
	})
}
