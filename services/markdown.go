package services

import "strings"

// The assistant answers in a small markdown subset: **bold**, "* " list
// items, and newlines. FormatReply turns that into a structured document
// clients can render without interpreting any markup themselves.

type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Node kinds: "line" is a text line, "item" an unordered list item,
// "break" a blank line.
type Node struct {
	Kind  string `json:"kind"`
	Spans []Span `json:"spans,omitempty"`
}

// FormatReply parses the constrained markdown subset into nodes.
func FormatReply(text string) []Node {
	var nodes []Node
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			nodes = append(nodes, Node{Kind: "break"})
		case strings.HasPrefix(trimmed, "* "):
			nodes = append(nodes, Node{Kind: "item", Spans: parseSpans(strings.TrimSpace(trimmed[2:]))})
		default:
			nodes = append(nodes, Node{Kind: "line", Spans: parseSpans(trimmed)})
		}
	}
	return nodes
}

// parseSpans splits a line on ** pairs. An unmatched ** is kept literally.
func parseSpans(line string) []Span {
	var spans []Span
	for line != "" {
		open := strings.Index(line, "**")
		if open < 0 {
			spans = append(spans, Span{Text: line})
			break
		}
		end := strings.Index(line[open+2:], "**")
		if end < 0 {
			spans = append(spans, Span{Text: line})
			break
		}
		if open > 0 {
			spans = append(spans, Span{Text: line[:open]})
		}
		bold := line[open+2 : open+2+end]
		if bold != "" {
			spans = append(spans, Span{Text: bold, Bold: true})
		}
		line = line[open+end+4:]
	}
	return spans
}
