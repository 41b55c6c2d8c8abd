package markdown

import "strings"

// Block is a generated region delimited by HTML comment markers. Text
// outside the markers belongs to the user and is never rewritten.
type Block struct {
	Start string
	End   string
}

func NewBlock(app, name string) Block {
	return Block{
		Start: "<!-- " + app + ":" + name + ":start -->",
		End:   "<!-- " + app + ":" + name + ":end -->",
	}
}

// Replace swaps the block's contents for generated, or appends the block
// when body has none.
func (b Block) Replace(body, generated string) string {
	block := b.Start + "\n" + strings.TrimRight(generated, "\n") + "\n" + b.End
	start, end, ok := b.locate(body)
	if ok {
		return body[:start] + block + body[end:]
	}
	if strings.TrimSpace(body) == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}

func (b Block) locate(body string) (int, int, bool) {
	start := strings.Index(body, b.Start)
	if start < 0 {
		return 0, 0, false
	}
	rel := strings.Index(body[start+len(b.Start):], b.End)
	if rel < 0 {
		return 0, 0, false
	}
	return start, start + len(b.Start) + rel + len(b.End), true
}
