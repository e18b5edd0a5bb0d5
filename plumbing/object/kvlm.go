package object

import "bytes"

// kvlm is the ordered key/value-with-message envelope shared by commit
// and annotated tag payloads: a header block of "key SP value LF"
// lines (continuation lines begin with a single space), a blank line,
// then a free-form message.
type kvlm struct {
	keys    []string
	values  map[string][]string
	message []byte
}

func newKVLM() *kvlm {
	return &kvlm{values: make(map[string][]string)}
}

func (k *kvlm) add(key, value string) {
	if _, ok := k.values[key]; !ok {
		k.keys = append(k.keys, key)
	}
	k.values[key] = append(k.values[key], value)
}

func (k *kvlm) get(key string) (string, bool) {
	v, ok := k.values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (k *kvlm) all(key string) []string {
	return k.values[key]
}

// parseKVLM parses b into a kvlm. The header ends at the first LF
// immediately followed by LF or end of input.
func parseKVLM(b []byte) *kvlm {
	out := newKVLM()

	rest := b
	var curKey string
	var curVal []byte
	flush := func() {
		if curKey != "" {
			out.add(curKey, string(curVal))
		}
		curKey = ""
		curVal = nil
	}

	for {
		nl := bytes.IndexByte(rest, '\n')
		if nl == -1 {
			// Unterminated header line; treat remainder as message.
			flush()
			out.message = rest
			return out
		}

		line := rest[:nl]
		rest = rest[nl+1:]

		if len(line) == 0 {
			// Blank line: header/message separator.
			flush()
			out.message = rest
			return out
		}

		if line[0] == ' ' {
			// Continuation of the current value.
			curVal = append(curVal, '\n')
			curVal = append(curVal, line[1:]...)
			continue
		}

		flush()

		sp := bytes.IndexByte(line, ' ')
		if sp == -1 {
			curKey = string(line)
			curVal = nil
			continue
		}

		curKey = string(line[:sp])
		curVal = append([]byte(nil), line[sp+1:]...)
	}
}

// encodeKVLM is the inverse of parseKVLM: serialize(parse(x)) == x for
// any well-formed input.
func encodeKVLM(k *kvlm, order []string) []byte {
	var buf bytes.Buffer

	for _, key := range order {
		for _, v := range k.all(key) {
			buf.WriteString(key)
			buf.WriteByte(' ')
			buf.WriteString(expandContinuations(v))
			buf.WriteByte('\n')
		}
	}

	buf.WriteByte('\n')
	buf.Write(k.message)

	return buf.Bytes()
}

func expandContinuations(v string) string {
	if !bytes.ContainsRune([]byte(v), '\n') {
		return v
	}
	return string(bytes.ReplaceAll([]byte(v), []byte("\n"), []byte("\n ")))
}
