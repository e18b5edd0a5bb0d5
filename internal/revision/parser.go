package revision

import (
	"fmt"
	"strings"
)

// Kind classifies a parsed revision token into one of the grammar's
// four forms.
type Kind int

const (
	// Empty names no object.
	Empty Kind = iota
	// Head names the HEAD reference.
	Head
	// HashPrefix names a lowercase hex object id prefix, 4 to 40
	// characters long.
	HashPrefix
	// RefName names anything else, tried in turn against
	// refs/tags/, refs/heads/, then refs/remotes/.
	RefName
)

// Parsed is the classified form of a single revision token.
type Parsed struct {
	Kind Kind

	// Prefix holds the lowercased hex string when Kind is HashPrefix.
	Prefix string

	// Name holds the token as given when Kind is RefName.
	Name string
}

// Parse tokenizes and classifies expr.
func Parse(expr string) (Parsed, error) {
	if expr == "" {
		return Parsed{Kind: Empty}, nil
	}

	if expr == "HEAD" {
		return Parsed{Kind: Head}, nil
	}

	sc := newScanner(strings.NewReader(expr))
	hex := true

	for {
		tok, data, err := sc.scan()
		if err != nil {
			return Parsed{}, err
		}
		if tok == eof {
			break
		}
		if tok == tokenError || tok == control || tok == space {
			return Parsed{}, fmt.Errorf("invalid character %q in revision %q", data, expr)
		}

		if (tok != word && tok != number) || !isHexRun(data) {
			hex = false
		}
	}

	if hex && len(expr) >= 4 && len(expr) <= 40 {
		return Parsed{Kind: HashPrefix, Prefix: strings.ToLower(expr)}, nil
	}

	return Parsed{Kind: RefName, Name: expr}, nil
}

func isHexRun(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
