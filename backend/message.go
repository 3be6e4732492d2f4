package tkbackend

import (
	"strconv"
	"strings"
)

// MessageKind classifies a line read from the host.
type MessageKind int

const (
	// MessagePlain is an untagged line.
	MessagePlain MessageKind = iota
	// MessageClicked is "clicked<id>", for -command callbacks.
	MessageClicked
	// MessageBool is "cb1b-<id>-<0|1>".
	MessageBool
	// MessageEvent is "cb1e:<key>:<x>:<y>:<X>:<Y>:<h>:<w>:<k>:<K>:<b>".
	MessageEvent
	// MessageFloat is "cb1f-<id>-<value>".
	MessageFloat
	// MessageFont is "font <description>".
	MessageFont
	// MessageExit is the literal "exit", sent when the window is closed.
	MessageExit
	// MessageReplyBegin is "cb1r-<id>-begin". Every line up to the matching
	// MessageReplyEnd is output of the Eval with that id, whatever it says.
	MessageReplyBegin
	// MessageReplyEnd is "cb1r-<id>-end".
	MessageReplyEnd
	// MessageUnrecognized is a malformed tagged line, or a plain line that
	// arrived outside an Eval reply.
	MessageUnrecognized
)

var messageKindNames = [...]string{
	MessagePlain:        "plain",
	MessageClicked:      "clicked",
	MessageBool:         "bool",
	MessageEvent:        "event",
	MessageFloat:        "float",
	MessageFont:         "font",
	MessageExit:         "exit",
	MessageReplyBegin:   "reply-begin",
	MessageReplyEnd:     "reply-end",
	MessageUnrecognized: "unrecognized",
}

func (k MessageKind) String() string {
	if k < 0 || int(k) >= len(messageKindNames) {
		return "MessageKind(" + strconv.Itoa(int(k)) + ")"
	}
	return messageKindNames[k]
}

// Message is one decoded inbound line. Only the payload field matching Kind
// is set.
type Message struct {
	Kind MessageKind
	// Key selects the callback: a widget id, or id+pattern for events.
	// For reply markers it is the Eval's id.
	Key string
	// Text is the line as read, without the trailing newline.
	Text string

	Bool  bool
	Float float64
	Event Event
	Font  Font
}

const (
	tagClicked = "clicked"
	tagBool    = "cb1b-"
	tagEvent   = "cb1e:"
	tagFloat   = "cb1f-"
	tagFont    = "font"
	tagExit    = "exit"
	tagReply   = "cb1r-"

	replyBeginSuffix = "-begin"
	replyEndSuffix   = "-end"

	// fontKey is the registry key for font chooser callbacks; the chooser
	// is application wide, so there is no widget id in the line.
	fontKey = "font"
)

// ParseMessage classifies line by its tag prefix and decodes its payload.
// It never fails: lines that carry a known tag but cannot be decoded come
// back as MessageUnrecognized, and untagged lines as MessagePlain.
func ParseMessage(line string) Message {
	line = strings.TrimRight(line, "\r\n")
	msg := Message{Kind: MessagePlain, Text: line}
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == tagExit:
		msg.Kind = MessageExit

	case strings.HasPrefix(trimmed, tagReply):
		rest := trimmed[len(tagReply):]
		switch {
		case strings.HasSuffix(rest, replyBeginSuffix) && len(rest) > len(replyBeginSuffix):
			msg.Kind = MessageReplyBegin
			msg.Key = strings.TrimSuffix(rest, replyBeginSuffix)
		case strings.HasSuffix(rest, replyEndSuffix) && len(rest) > len(replyEndSuffix):
			msg.Kind = MessageReplyEnd
			msg.Key = strings.TrimSuffix(rest, replyEndSuffix)
		default:
			msg.Kind = MessageUnrecognized
		}

	case strings.HasPrefix(trimmed, tagClicked):
		id := strings.TrimPrefix(trimmed[len(tagClicked):], "-")
		id = strings.TrimSpace(id)
		if id == "" {
			msg.Kind = MessageUnrecognized
			break
		}
		msg.Kind = MessageClicked
		msg.Key = id

	case strings.HasPrefix(trimmed, tagBool):
		id, value, ok := splitKeyValue(trimmed[len(tagBool):])
		if !ok {
			msg.Kind = MessageUnrecognized
			break
		}
		msg.Kind = MessageBool
		msg.Key = id
		msg.Bool = value == "1"

	case strings.HasPrefix(trimmed, tagEvent):
		parts := strings.Split(trimmed[len(tagEvent):], ":")
		key := strings.TrimSpace(parts[0])
		if key == "" {
			msg.Kind = MessageUnrecognized
			break
		}
		msg.Kind = MessageEvent
		msg.Key = key
		msg.Event = parseEvent(parts[1:])

	case strings.HasPrefix(trimmed, tagFloat):
		id, value, ok := splitKeyValue(trimmed[len(tagFloat):])
		if !ok {
			msg.Kind = MessageUnrecognized
			break
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			f = 0
		}
		msg.Kind = MessageFloat
		msg.Key = id
		msg.Float = f

	case isFontLine(trimmed):
		font, err := ParseFont(trimmed[len(tagFont):])
		if err != nil {
			msg.Kind = MessageUnrecognized
			break
		}
		msg.Kind = MessageFont
		msg.Key = fontKey
		msg.Font = font
	}

	return msg
}

// replyMarkers returns the lines an Eval with the given id is framed by.
func replyMarkers(id string) (begin, end string) {
	return tagReply + id + replyBeginSuffix, tagReply + id + replyEndSuffix
}

// splitKeyValue splits "<id>-<value>" at the first dash. Widget ids never
// contain a dash, so the value may (a negative number, say).
func splitKeyValue(s string) (key, value string, ok bool) {
	i := strings.IndexByte(s, '-')
	if i <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
}

// isFontLine requires a separator after the tag so replies such as
// "fontsize" stay plain.
func isFontLine(s string) bool {
	if !strings.HasPrefix(s, tagFont) || len(s) == len(tagFont) {
		return false
	}
	c := s[len(tagFont)]
	return c == ' ' || c == '\t'
}
