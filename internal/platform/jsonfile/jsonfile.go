// Package jsonfile reads and rewrites whole pretty-printed JSON documents.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Indent matches the four-space layout of documents written by earlier
// versions of the tool.
const Indent = "    "

// ErrMalformed marks a document that exists but does not decode.
var ErrMalformed = errors.New("malformed json document")

// Read decodes the file at path into v. A missing file yields an error
// satisfying errors.Is(err, os.ErrNotExist).
func Read(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrMalformed, filepath.Base(path))
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, filepath.Base(path), err)
	}
	return nil
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Write replaces the file at path with v. The payload goes to a temp file in
// the same directory first and is renamed over the target, so readers never
// observe a partial document. There is no cross-process locking.
func Write(path string, v any) error {
	payload, err := Marshal(v)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Chmod(tmpName, modeOf(path)); err != nil {
		return fmt.Errorf("chmod temp document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// modeOf returns the permission bits of the existing file at path, or 0644
// for a file that does not exist yet.
func modeOf(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}

// Sections is a document split at its top level. Values stay raw until a
// caller decodes one, so a bad value under one key never hides the others.
type Sections map[string]json.RawMessage

// ReadSections reads the object at path. Only a file that is not a JSON
// object is ErrMalformed; off-type values inside it are left for Decode.
func ReadSections(path string) (Sections, error) {
	sections := Sections{}
	if err := Read(path, &sections); err != nil {
		return nil, err
	}
	if sections == nil {
		sections = Sections{}
	}
	return sections, nil
}

// Keys returns the top-level keys in lexical order.
func (s Sections) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode unmarshals the value under key into v. It reports false without
// touching v when the key is absent.
func (s Sections) Decode(key string, v any) (bool, error) {
	raw, ok := s[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return true, nil
}

// Set replaces the value under key with the encoding of v.
func (s Sections) Set(key string, v any) error {
	buf := bytes.Buffer{}
	if err := encodeCompact(&buf, v); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s[key] = json.RawMessage(buf.Bytes())
	return nil
}

// Marshal encodes v indented, without HTML escaping, with a trailing newline.
func Marshal(v any) ([]byte, error) {
	buf := bytes.Buffer{}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalDayKeyed encodes a map keyed by day-number strings with its keys in
// numeric order ("2" before "10"). Non-numeric keys follow, sorted lexically.
func MarshalDayKeyed[V any](m map[string]V) ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return dayKeyLess(keys[i], keys[j]) })

	buf := bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeCompact(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeCompact(&buf, m[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeCompact(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode always terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func dayKeyLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
