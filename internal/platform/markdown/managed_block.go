package markdown

import "strings"

// Block names a generated region delimited by HTML comments, so that
// text written around it by hand survives regeneration.
type Block string

func (b Block) Start() string { return "<!-- moodooro:" + string(b) + ":start -->" }
func (b Block) End() string   { return "<!-- moodooro:" + string(b) + ":end -->" }

// Replace swaps the block's current contents in body for generated,
// appending the block when body has none.
func (b Block) Replace(body, generated string) string {
	startMarker, endMarker := b.Start(), b.End()
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	if start >= 0 && end > start {
		end += len(endMarker)
		return body[:start] + block + body[end:]
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}
