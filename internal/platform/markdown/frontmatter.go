// Package markdown reads and writes the YAML-fronted markdown files produced
// by month exports.
package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// Field is one frontmatter entry. Fields render in the order given.
type Field struct {
	Key   string
	Value any
}

// Split separates YAML frontmatter from the body. Content without a leading
// separator has no frontmatter.
func Split(content string) (map[string]any, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, separator) {
		return map[string]any{}, content, nil
	}
	rest := strings.TrimPrefix(content, separator)
	var raw, body string
	if strings.HasPrefix(rest, separator) {
		body = strings.TrimPrefix(rest, separator)
	} else {
		idx := strings.Index(rest, "\n"+separator)
		if idx < 0 {
			return nil, "", fmt.Errorf("invalid frontmatter: missing closing separator")
		}
		raw, body = rest[:idx], rest[idx+1+len(separator):]
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return meta, strings.TrimPrefix(body, "\n"), nil
}

// Render writes fields as frontmatter followed by a blank line and body.
func Render(fields []Field, body string) (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		value := &yaml.Node{}
		if err := value.Encode(f.Value); err != nil {
			return "", fmt.Errorf("encode frontmatter %s: %w", f.Key, err)
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.Key}, value)
	}
	buf := bytes.Buffer{}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	out := strings.Builder{}
	out.WriteString(separator)
	out.Write(buf.Bytes())
	out.WriteString(separator)
	out.WriteString("\n")
	out.WriteString(body)
	return out.String(), nil
}

// Merge returns fields followed by any keys of existing that fields does not
// set, sorted by key. User-added frontmatter survives regeneration.
func Merge(fields []Field, existing map[string]any) []Field {
	owned := make(map[string]bool, len(fields))
	for _, f := range fields {
		owned[f.Key] = true
	}
	var extra []string
	for k := range existing {
		if !owned[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	out := append([]Field(nil), fields...)
	for _, k := range extra {
		out = append(out, Field{Key: k, Value: existing[k]})
	}
	return out
}
