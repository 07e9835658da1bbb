// Package frontmatter reads and writes markdown documents that carry YAML
// frontmatter between --- delimiters. The packet document embeds its
// metadata this way so the markdown stays machine-readable without the
// structured artifact beside it.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Compose marshals meta as YAML frontmatter and concatenates body, returning
// the complete markdown document with --- delimiters.
func Compose(meta any, body string) ([]byte, error) {
	fm, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: marshal: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString(body)
	}
	return buf.Bytes(), nil
}

// Split divides a markdown document into its raw frontmatter YAML and body.
// The document must begin with "---\n"; the closing "---" line ends the
// frontmatter block.
func Split(data []byte) (meta []byte, body []byte, err error) {
	const delim = "---\n"
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil, nil, fmt.Errorf("frontmatter: missing opening --- delimiter")
	}
	rest := data[len(delim):]
	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		return nil, nil, fmt.Errorf("frontmatter: missing closing --- delimiter")
	}
	fm := rest[:idx]
	tail := rest[idx+4:]
	if len(tail) > 0 && tail[0] == '\n' {
		tail = tail[1:]
	}
	return fm, tail, nil
}

// Decode splits the document and unmarshals its frontmatter into v.
func Decode(data []byte, v any) (body []byte, err error) {
	fm, body, err := Split(data)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(fm, v); err != nil {
		return nil, fmt.Errorf("frontmatter: unmarshal: %w", err)
	}
	return body, nil
}
