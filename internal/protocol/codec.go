package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrMalformed      = errors.New("malformed message")
	ErrMissingKey     = errors.New("missing key")
	ErrUnknownCommand = errors.New("unknown command")
)

// CommandKey is the key every frame starts with.
const CommandKey = "command"

// Codec renders and parses single-line frames. It is built once per process and shared; it
// holds no mutable state.
type Codec struct {
	known map[Kind]bool
}

// NewCodec returns a codec accepting the given commands, or every command in Kinds when
// none are given.
func NewCodec(kinds ...Kind) *Codec {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	known := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		known[k] = true
	}
	return &Codec{known: known}
}

// Encode renders msg as `{"command": "...", "k": v, ...}` without a trailing newline.
func (c *Codec) Encode(msg Message) string {
	var b strings.Builder
	b.WriteString("{")
	writeQuoted(&b, CommandKey)
	b.WriteString(": ")
	writeQuoted(&b, string(msg.Command))
	for _, f := range msg.Fields {
		b.WriteString(", ")
		writeQuoted(&b, f.Key)
		b.WriteString(": ")
		if f.Mode == Bare {
			b.WriteString(f.Value)
		} else {
			writeQuoted(&b, f.Value)
		}
	}
	b.WriteString("}")
	return b.String()
}

func writeQuoted(b *strings.Builder, s string) {
	enc, _ := json.Marshal(s)
	b.Write(enc)
}

// Decode parses one frame. Numbers come back Bare with a trailing ".0" dropped, strings
// come back Quoted, nested objects, arrays and literals come back Bare in their raw form.
func (c *Codec) Decode(line string) (Message, error) {
	line = strings.TrimSpace(line)
	if !gjson.Valid(line) {
		return Message{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	root := gjson.Parse(line)
	if !root.IsObject() {
		return Message{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	var (
		msg     Message
		command *gjson.Result
	)
	root.ForEach(func(key, value gjson.Result) bool {
		if key.Str == CommandKey {
			v := value
			command = &v
			return true
		}
		msg.Fields = append(msg.Fields, decodeField(key.Str, value))
		return true
	})

	if command == nil {
		return Message{}, fmt.Errorf("%w: %q", ErrMissingKey, CommandKey)
	}
	if command.Type != gjson.String {
		return Message{}, fmt.Errorf("%w: %q must be a string", ErrMalformed, CommandKey)
	}
	msg.Command = Kind(command.Str)
	if !c.known[msg.Command] {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownCommand, command.Str)
	}
	return msg, nil
}

func decodeField(key string, value gjson.Result) Field {
	switch value.Type {
	case gjson.String:
		return Field{Key: key, Value: value.Str, Mode: Quoted}
	case gjson.Number:
		return Field{Key: key, Value: strings.TrimSuffix(value.Raw, ".0"), Mode: Bare}
	default:
		return Field{Key: key, Value: value.Raw, Mode: Bare}
	}
}
