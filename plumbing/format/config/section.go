package config

import (
	"fmt"
	"strings"
)

// Sections is an ordered list of Section.
type Sections []*Section

// GoString renders sects the way %#v would, used for debug output and
// test comparisons.
func (s Sections) GoString() string {
	var parts []string
	for _, sect := range s {
		parts = append(parts, sect.GoString())
	}
	return strings.Join(parts, ", ")
}

// Subsections is an ordered list of Subsection.
type Subsections []*Subsection

func (s Subsections) GoString() string {
	var parts []string
	for _, sub := range s {
		parts = append(parts, sub.GoString())
	}
	return strings.Join(parts, ", ")
}

// Section is a top-level config block, e.g. "[core]" or "[remote
// \"origin\"]"'s parent "remote".
type Section struct {
	Name        string
	Options     Options
	Subsections Subsections
}

func (s *Section) GoString() string {
	return fmt.Sprintf("&config.Section{Name:%q, Options:%s, Subsections:%s}",
		s.Name, s.Options.GoString(), s.Subsections.GoString())
}

// IsName reports whether name matches s.Name, case-insensitively (git
// section names are not case sensitive).
func (s *Section) IsName(name string) bool {
	return strings.EqualFold(s.Name, name)
}

// Subsection returns the subsection named name, creating it if absent.
func (s *Section) Subsection(name string) *Subsection {
	for _, sub := range s.Subsections {
		if sub.IsName(name) {
			return sub
		}
	}

	sub := &Subsection{Name: name}
	s.Subsections = append(s.Subsections, sub)
	return sub
}

// HasSubsection reports whether s has a subsection named name.
func (s *Section) HasSubsection(name string) bool {
	for _, sub := range s.Subsections {
		if sub.IsName(name) {
			return true
		}
	}
	return false
}

// RemoveSubsection removes the subsection named name, if present.
func (s *Section) RemoveSubsection(name string) *Section {
	var out Subsections
	for _, sub := range s.Subsections {
		if !sub.IsName(name) {
			out = append(out, sub)
		}
	}
	s.Subsections = out
	return s
}

// Option returns the last value set for key, or "" if unset.
func (s *Section) Option(key string) string {
	return s.Options.Get(key)
}

// OptionAll returns every value set for key, in order, or an empty
// (non-nil) slice if unset.
func (s *Section) OptionAll(key string) []string {
	return s.Options.GetAll(key)
}

// HasOption reports whether key is set.
func (s *Section) HasOption(key string) bool {
	return s.Options.Has(key)
}

// AddOption appends a new (key, value) pair.
func (s *Section) AddOption(key, value string) *Section {
	s.Options = s.Options.withAdded(key, value)
	return s
}

// SetOption removes every option named key and appends a single
// (key, value) option at the end.
func (s *Section) SetOption(key, value string) *Section {
	s.Options = s.Options.withSet(key, value)
	return s
}

// RemoveOption removes every option named key.
func (s *Section) RemoveOption(key string) *Section {
	s.Options = s.Options.withRemoved(key)
	return s
}

// Subsection is a named, case-sensitive sub-block, e.g. the "origin" in
// "[remote \"origin\"]".
type Subsection struct {
	Name    string
	Options Options
}

func (s *Subsection) GoString() string {
	return fmt.Sprintf("&config.Subsection{Name:%q, Options:%s}", s.Name, s.Options.GoString())
}

// IsName reports whether name matches s.Name. Unlike Section.IsName,
// subsection names are case-sensitive.
func (s *Subsection) IsName(name string) bool {
	return s.Name == name
}

func (s *Subsection) Option(key string) string {
	return s.Options.Get(key)
}

func (s *Subsection) OptionAll(key string) []string {
	return s.Options.GetAll(key)
}

func (s *Subsection) HasOption(key string) bool {
	return s.Options.Has(key)
}

func (s *Subsection) AddOption(key, value string) *Subsection {
	s.Options = s.Options.withAdded(key, value)
	return s
}

// SetOption replaces the first occurrence of key whose current value
// is oldValue with newValue.
func (s *Subsection) SetOption(key, oldValue, newValue string) *Subsection {
	for _, o := range s.Options {
		if o.Key == key && o.Value == oldValue {
			o.Value = newValue
			return s
		}
	}
	return s
}

func (s *Subsection) RemoveOption(key string) *Subsection {
	s.Options = s.Options.withRemoved(key)
	return s
}
