package sed

import "testing"

func TestExpandRanges(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a-f", "abcdef"},
		{`a\-f`, "a-f"},
		{"abc-", "abc-"},
		{"-abc", "-abc"},
		{"a-c-e-g", "abcdefg"},
		{"", ""},
		{"-", "-"},
		{"a-a", "a"},
		{"0-9", "0123456789"},
		{`\\-a`, `\]^_` + "`a"},
		{"xyz", "xyz"},
	}
	for _, c := range cases {
		got, err := ExpandRanges(c.in)
		if err != nil {
			t.Fatalf("ExpandRanges(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ExpandRanges(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExpandRanges_IdempotentOnExpandedInput(t *testing.T) {
	for _, in := range []string{"a-f", "a-c-e-g", "0-9A-F"} {
		once, err := ExpandRanges(in)
		if err != nil {
			t.Fatalf("ExpandRanges(%q): %v", in, err)
		}
		twice, err := ExpandRanges(once)
		if err != nil {
			t.Fatalf("ExpandRanges(%q): %v", once, err)
		}
		if once != twice {
			t.Fatalf("expand(expand(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestExpandRanges_ReversedRange(t *testing.T) {
	if _, err := ExpandRanges("f-a"); err == nil {
		t.Fatal("expected error for reversed range")
	}
	if _, err := ExpandRanges("a-c-b"); err == nil {
		t.Fatal("expected error for reversed chained range")
	}
}
