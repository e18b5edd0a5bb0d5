package revision

import "testing"

func TestParse_empty(t *testing.T) {
	p, err := Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind != Empty {
		t.Fatalf("expected Empty, got %v", p.Kind)
	}
}

func TestParse_head(t *testing.T) {
	p, err := Parse("HEAD")
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind != Head {
		t.Fatalf("expected Head, got %v", p.Kind)
	}
}

func TestParse_hashPrefix(t *testing.T) {
	cases := []string{"abcd", "abcd1234", "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"}
	for _, c := range cases {
		p, err := Parse(c)
		if err != nil {
			t.Fatalf("%q: %v", c, err)
		}
		if p.Kind != HashPrefix {
			t.Fatalf("%q: expected HashPrefix, got %v", c, p.Kind)
		}
		if p.Prefix != c {
			t.Fatalf("%q: expected prefix to round-trip, got %q", c, p.Prefix)
		}
	}
}

func TestParse_hashPrefixLowercased(t *testing.T) {
	p, err := Parse("ABCD")
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind != HashPrefix {
		t.Fatalf("expected HashPrefix, got %v", p.Kind)
	}
	if p.Prefix != "abcd" {
		t.Fatalf("expected lowercased prefix, got %q", p.Prefix)
	}
}

func TestParse_tooShortHexIsRefName(t *testing.T) {
	for _, c := range []string{"abc", "a"} {
		p, err := Parse(c)
		if err != nil {
			t.Fatal(err)
		}
		if p.Kind != RefName {
			t.Fatalf("%q: expected RefName (too short to be a hash prefix), got %v", c, p.Kind)
		}
	}
}

func TestParse_refName(t *testing.T) {
	cases := []string{"master", "refs/heads/master", "refs/tags/v1.0", "origin/main"}
	for _, c := range cases {
		p, err := Parse(c)
		if err != nil {
			t.Fatalf("%q: %v", c, err)
		}
		if p.Kind != RefName {
			t.Fatalf("%q: expected RefName, got %v", c, p.Kind)
		}
		if p.Name != c {
			t.Fatalf("%q: expected Name to be verbatim, got %q", c, p.Name)
		}
	}
}

func TestParse_invalidCharacter(t *testing.T) {
	if _, err := Parse("foo bar"); err == nil {
		t.Fatal("expected an error for embedded space")
	}
	if _, err := Parse("foo`bar"); err == nil {
		t.Fatal("expected an error for a tokenError rune")
	}
}
