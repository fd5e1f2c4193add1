package protocol

import (
	"fmt"
	"strconv"
)

// Mode tells the codec how a value is rendered.
type Mode int

const (
	// Quoted values are rendered as JSON strings.
	Quoted Mode = iota
	// Bare values are rendered verbatim: numbers, booleans and nested JSON.
	Bare
)

// Field is one key/value pair of a message.
type Field struct {
	Key   string
	Value string
	Mode  Mode
}

// Message is a command plus its parameters in insertion order.
type Message struct {
	Command Kind
	Fields  []Field
}

// New starts a message for the given command.
func New(cmd Kind) Message {
	return Message{Command: cmd}
}

// Quoted appends a string parameter.
func (m Message) Quoted(key, value string) Message {
	return m.with(Field{Key: key, Value: value, Mode: Quoted})
}

// Bare appends a parameter rendered without quotes. The caller guarantees value is a JSON
// literal.
func (m Message) Bare(key, value string) Message {
	return m.with(Field{Key: key, Value: value, Mode: Bare})
}

// Int appends a numeric parameter.
func (m Message) Int(key string, n int) Message {
	return m.Bare(key, strconv.Itoa(n))
}

func (m Message) with(f Field) Message {
	fields := make([]Field, len(m.Fields), len(m.Fields)+1)
	copy(fields, m.Fields)
	m.Fields = append(fields, f)
	return m
}

// Lookup returns the field stored under key.
func (m Message) Lookup(key string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Get returns the raw value stored under key, or "".
func (m Message) Get(key string) string {
	f, _ := m.Lookup(key)
	return f.Value
}

// String returns the value under key, failing with ErrMissingKey when absent.
func (m Message) String(key string) (string, error) {
	f, ok := m.Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %q in %s", ErrMissingKey, key, m.Command)
	}
	return f.Value, nil
}

// IntValue parses the value under key as an integer.
func (m Message) IntValue(key string) (int, error) {
	s, err := m.String(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer: %s", ErrMalformed, key, s)
	}
	return n, nil
}

// Bool parses the value under key as a boolean.
func (m Message) Bool(key string) (bool, error) {
	s, err := m.String(key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean: %s", ErrMalformed, key, s)
	}
	return b, nil
}
