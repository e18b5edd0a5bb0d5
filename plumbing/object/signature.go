package object

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Signature is an author/committer/tagger identity: a name, an email,
// and a point in time with its recorded timezone offset.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Decode parses the "Name <email> seconds tz" line format used by
// commits and tags. Degenerate input (missing angle brackets, missing
// timestamp) degrades to partially- or fully-zero fields rather than
// erroring, matching the leniency real repositories require when
// reading history written by other tools.
func (s *Signature) Decode(b []byte) {
	open := bytes.LastIndexByte(b, '<')
	close := bytes.LastIndexByte(b, '>')
	if open == -1 || close == -1 || open > close {
		return
	}

	if open > 0 {
		s.Name = string(bytes.TrimSpace(b[:open]))
	}

	s.Email = string(bytes.TrimSpace(b[open+1 : close]))

	if close+2 < len(b) {
		s.decodeTimeAndTimeZone(b[close+2:])
	}
}

func (s *Signature) decodeTimeAndTimeZone(b []byte) {
	space := bytes.IndexByte(b, ' ')

	tsField := b
	var tzField []byte
	if space != -1 {
		tsField = b[:space]
		tzField = bytes.TrimSpace(b[space+1:])
	}

	ts, err := strconv.ParseInt(string(bytes.TrimSpace(tsField)), 10, 64)
	if err != nil {
		return
	}

	when := time.Unix(ts, 0)
	if len(tzField) == 0 {
		s.When = when.In(time.UTC)
		return
	}

	loc, err := parseTimezone(string(tzField))
	if err != nil {
		s.When = when.In(time.UTC)
		return
	}

	s.When = when.In(loc)
}

func parseTimezone(tz string) (*time.Location, error) {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return nil, fmt.Errorf("malformed timezone %q", tz)
	}

	h, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return nil, err
	}
	m, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return nil, err
	}

	offset := h*3600 + m*60
	if tz[0] == '-' {
		offset = -offset
	}

	return time.FixedZone(tz, offset), nil
}

// Encode serializes s back to its "Name <email> seconds tz" line form.
func (s *Signature) Encode(w *bytes.Buffer) {
	w.WriteString(s.Name)
	w.WriteString(" <")
	w.WriteString(s.Email)
	w.WriteString("> ")

	if s.When.IsZero() {
		return
	}

	w.WriteString(strconv.FormatInt(s.When.Unix(), 10))
	w.WriteByte(' ')
	w.WriteString(s.When.Format("-0700"))
}

func (s *Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}
