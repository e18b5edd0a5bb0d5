package config

import (
	"fmt"
	"io"
	"strings"
)

// An Encoder writes a config file in git's text format: one "[section]"
// or "[section \"subsection\"]" header per section/subsection, followed
// by its options indented with a tab.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w}
}

// Encode writes cfg's sections, in order, to the Encoder's stream.
func (e *Encoder) Encode(cfg *Config) error {
	for _, s := range cfg.Sections {
		if err := e.encodeSection(s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeSection(s *Section) error {
	if len(s.Options) > 0 {
		if err := e.printf("[%s]\n", s.Name); err != nil {
			return err
		}
		if err := e.encodeOptions(s.Options); err != nil {
			return err
		}
	}

	for _, ss := range s.Subsections {
		if err := e.encodeSubsection(s.Name, ss); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) encodeSubsection(sectionName string, s *Subsection) error {
	if err := e.printf("[%s \"%s\"]\n", sectionName, s.Name); err != nil {
		return err
	}
	return e.encodeOptions(s.Options)
}

func (e *Encoder) encodeOptions(opts Options) error {
	for _, o := range opts {
		if err := e.printf("\t%s = %s\n", o.Key, quoteValue(o.Value)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(e.w, format, args...)
	return err
}

// quoteValue returns value as-is when it is safe to write unquoted,
// and a double-quoted, backslash-escaped form otherwise: values
// carrying a comment character, a literal quote or backslash, or
// leading/trailing spaces must be quoted to round-trip.
func quoteValue(value string) string {
	if !needsQuote(value) {
		return value
	}

	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

func needsQuote(value string) bool {
	if value == "" {
		return false
	}
	if strings.ContainsAny(value, "#;\"\\") {
		return true
	}
	if value[0] == ' ' || value[len(value)-1] == ' ' {
		return true
	}
	return false
}
