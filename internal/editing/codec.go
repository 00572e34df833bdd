package editing

import "strings"

// MarkdownCodec is the Codec for markdown-bearing text widgets. The
// backend stores plain LF-separated markdown; terminal widgets can hand
// back carriage returns and stray trailing whitespace depending on how
// text was pasted, so Encode normalizes those away. Decode is the
// identity: persisted markdown is already what the widgets display.
type MarkdownCodec struct{}

// Encode normalizes widget content to the persisted form: CRLF and bare
// CR become LF and trailing whitespace is trimmed from every line.
func (MarkdownCodec) Encode(doc string) string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	doc = strings.ReplaceAll(doc, "\r", "\n")

	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// Decode returns persisted unchanged.
func (MarkdownCodec) Decode(persisted string) string { return persisted }
