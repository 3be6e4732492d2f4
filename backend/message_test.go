package tkbackend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEventMessage(t *testing.T) {
	m := ParseMessage("cb1e:tagX:10:20:110:120:5:6:64:space:1\n")
	assert.Equal(t, MessageEvent, m.Kind)
	assert.Equal(t, "tagX", m.Key)
	assert.Equal(t, Event{
		X: 10, Y: 20,
		RootX: 110, RootY: 120,
		Height: 5, Width: 6,
		KeyCode:     64,
		KeySymbol:   "space",
		MouseButton: 1,
	}, m.Event)
}

func TestParseEventMalformedFields(t *testing.T) {
	m := ParseMessage("cb1e:.r1<Motion>:??:20:x:120:-:6:-3:Return:")
	assert.Equal(t, MessageEvent, m.Kind)
	assert.Equal(t, ".r1<Motion>", m.Key)
	assert.Equal(t, Event{Y: 20, RootY: 120, Width: 6, KeySymbol: "Return"}, m.Event)

	m = ParseMessage("cb1e:all<Key>:1:2")
	assert.Equal(t, MessageEvent, m.Kind)
	assert.Equal(t, Event{X: 1, Y: 2}, m.Event)
}

func TestParseMessages(t *testing.T) {
	tests := []struct {
		line string
		want Message
	}{
		{"clicked-.r1", Message{Kind: MessageClicked, Key: ".r1"}},
		{"clicked.r2.r3", Message{Kind: MessageClicked, Key: ".r2.r3"}},
		{"cb1b-.r1-1", Message{Kind: MessageBool, Key: ".r1", Bool: true}},
		{"cb1b-.r1-0", Message{Kind: MessageBool, Key: ".r1", Bool: false}},
		{"cb1b-.r1-yes", Message{Kind: MessageBool, Key: ".r1", Bool: false}},
		{"cb1f-.r4-12.5", Message{Kind: MessageFloat, Key: ".r4", Float: 12.5}},
		{"cb1f-.r4--3", Message{Kind: MessageFloat, Key: ".r4", Float: -3}},
		{"cb1f-.r4-abc", Message{Kind: MessageFloat, Key: ".r4", Float: 0}},
		{"exit", Message{Kind: MessageExit}},
		{"cb1r-abc-begin", Message{Kind: MessageReplyBegin, Key: "abc"}},
		{"cb1r-6ba7b810-9dad-11d1-80b4-00c04fd430c8-end", Message{Kind: MessageReplyEnd, Key: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"}},
		{"cb1r--end", Message{Kind: MessageUnrecognized}},
		{"cb1r-abc", Message{Kind: MessageUnrecognized}},
		{"  exit \r\n", Message{Kind: MessageExit}},
		{"640", Message{Kind: MessagePlain}},
		{"fontsize", Message{Kind: MessagePlain}},
		{"exiting", Message{Kind: MessagePlain}},
		{"clicked", Message{Kind: MessageUnrecognized}},
		{"cb1b-", Message{Kind: MessageUnrecognized}},
		{"cb1f--4", Message{Kind: MessageUnrecognized}},
		{"cb1e:", Message{Kind: MessageUnrecognized}},
		{"font nonsense", Message{Kind: MessageUnrecognized}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ParseMessage(tt.line)
			got.Text = ""
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFontMessage(t *testing.T) {
	m := ParseMessage("font -family {DejaVu Sans} -size 12 -weight bold -slant italic -underline 1 -overstrike 0")
	assert.Equal(t, MessageFont, m.Kind)
	assert.Equal(t, fontKey, m.Key)
	assert.Equal(t, Font{
		Family:    "DejaVu Sans",
		Size:      12,
		Weight:    "bold",
		Slant:     "italic",
		Underline: true,
	}, m.Font)
}

func TestMessageKindString(t *testing.T) {
	assert.Equal(t, "event", MessageEvent.String())
	assert.Equal(t, "unrecognized", MessageUnrecognized.String())
	assert.Equal(t, "MessageKind(42)", MessageKind(42).String())
}
