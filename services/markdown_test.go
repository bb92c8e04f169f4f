package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReplyPlainLine(t *testing.T) {
	nodes := FormatReply("Stay indoors during heavy rain.")

	require.Len(t, nodes, 1)
	assert.Equal(t, "line", nodes[0].Kind)
	assert.Equal(t, []Span{{Text: "Stay indoors during heavy rain."}}, nodes[0].Spans)
}

func TestFormatReplyBold(t *testing.T) {
	nodes := FormatReply("Keep an **emergency kit** ready.")

	require.Len(t, nodes, 1)
	assert.Equal(t, []Span{
		{Text: "Keep an "},
		{Text: "emergency kit", Bold: true},
		{Text: " ready."},
	}, nodes[0].Spans)
}

func TestFormatReplyListItems(t *testing.T) {
	nodes := FormatReply("Pack these:\n* Torch\n* **Drinking water**")

	require.Len(t, nodes, 3)
	assert.Equal(t, "line", nodes[0].Kind)
	assert.Equal(t, "item", nodes[1].Kind)
	assert.Equal(t, []Span{{Text: "Torch"}}, nodes[1].Spans)
	assert.Equal(t, "item", nodes[2].Kind)
	assert.Equal(t, []Span{{Text: "Drinking water", Bold: true}}, nodes[2].Spans)
}

func TestFormatReplyBlankLineIsBreak(t *testing.T) {
	nodes := FormatReply("First.\n\nSecond.")

	require.Len(t, nodes, 3)
	assert.Equal(t, "break", nodes[1].Kind)
}

func TestFormatReplyUnmatchedBoldKeptLiteral(t *testing.T) {
	nodes := FormatReply("A **dangling marker")

	require.Len(t, nodes, 1)
	assert.Equal(t, []Span{{Text: "A **dangling marker"}}, nodes[0].Spans)
}

func TestFormatReplyMultipleBoldRuns(t *testing.T) {
	nodes := FormatReply("**Do** not touch **fallen wires**")

	require.Len(t, nodes, 1)
	assert.Equal(t, []Span{
		{Text: "Do", Bold: true},
		{Text: " not touch "},
		{Text: "fallen wires", Bold: true},
	}, nodes[0].Spans)
}

func TestFormatReplyEmptyBoldDropped(t *testing.T) {
	nodes := FormatReply("odd **** spacing")

	require.Len(t, nodes, 1)
	assert.Equal(t, []Span{
		{Text: "odd "},
		{Text: " spacing"},
	}, nodes[0].Spans)
}
