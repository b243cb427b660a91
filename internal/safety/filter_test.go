package safety

import "testing"

func TestIsHarmful(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"", false},
		{"today was a calm day", false},
		{"I want to die", true},
		{"I WANT TO DIE", true},
		{"sometimes I think about Suicide", true},
		{"I keep thinking about self-harm lately", true},
		{"he threatened me with a weapon", true},
		{"I killed it at work today", false},
		{"died laughing at the movie", false},
	}
	for _, c := range cases {
		if got := IsHarmful(c.text); got != c.want {
			t.Fatalf("IsHarmful(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}
