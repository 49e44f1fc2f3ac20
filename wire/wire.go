// Package wire implements the JSON encodings shared by generated bindings:
// adjacently and externally tagged enums, positional tuples and the unit value.
//
// Encodings are byte-stable: the tag is always written before the content,
// and tuples are written as plain JSON arrays.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var null = []byte("null")

// ErrMissingContent is returned when a variant that carries a payload is
// decoded without its content property.
var ErrMissingContent = errors.New("wire: missing variant content")

// UnknownTagError reports a variant tag that the decoding enum does not declare.
type UnknownTagError struct {
	Enum string
	Tag  string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("wire: unknown %s variant %q", e.Enum, e.Tag)
}

// UnknownTag returns an *UnknownTagError.
func UnknownTag(enum, tag string) error {
	return &UnknownTagError{Enum: enum, Tag: tag}
}

// Unit is the canonical "no data" value. It encodes as JSON null.
type Unit struct{}

// MarshalJSON implements json.Marshaler.
func (Unit) MarshalJSON() ([]byte, error) { return null, nil }

// UnmarshalJSON implements json.Unmarshaler. Only null is accepted.
func (*Unit) UnmarshalJSON(data []byte) error {
	if !bytes.Equal(bytes.TrimSpace(data), null) {
		return fmt.Errorf("wire: unit value must be null, got %s", data)
	}
	return nil
}

// Empty is the empty positional payload. It encodes as [].
type Empty struct{}

// MarshalJSON implements json.Marshaler.
func (Empty) MarshalJSON() ([]byte, error) { return []byte("[]"), nil }

// UnmarshalJSON implements json.Unmarshaler. Only an empty array is accepted.
func (*Empty) UnmarshalJSON(data []byte) error {
	return UnmarshalTuple(data)
}

// MarshalAdjacent encodes an adjacently tagged variant as
// {"<tagKey>":"<tag>","<contentKey>":<content>}. The content property is
// omitted when hasContent is false.
func MarshalAdjacent(tagKey, contentKey, tag string, content any, hasContent bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, tagKey, tag); err != nil {
		return nil, err
	}
	if hasContent {
		buf.WriteByte(',')
		if err := writeMember(&buf, contentKey, content); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalAdjacent splits an adjacently tagged value into its tag and raw
// content. content is nil when the content property is absent.
func UnmarshalAdjacent(data []byte, tagKey, contentKey string) (tag string, content json.RawMessage, err error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, fmt.Errorf("wire: adjacently tagged value: %w", err)
	}
	if obj == nil {
		return "", nil, errors.New("wire: adjacently tagged value is null")
	}
	rawTag, ok := obj[tagKey]
	if !ok {
		return "", nil, fmt.Errorf("wire: missing tag property %q", tagKey)
	}
	if err := json.Unmarshal(rawTag, &tag); err != nil {
		return "", nil, fmt.Errorf("wire: tag property %q: %w", tagKey, err)
	}
	for k := range obj {
		if k != tagKey && k != contentKey {
			return "", nil, fmt.Errorf("wire: unexpected property %q in %s variant", k, tag)
		}
	}
	return tag, obj[contentKey], nil
}

// MarshalExternal encodes an externally tagged variant: the bare string
// "<tag>" without content, otherwise {"<tag>":<content>}.
func MarshalExternal(tag string, content any, hasContent bool) ([]byte, error) {
	if !hasContent {
		return json.Marshal(tag)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, tag, content); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalExternal splits an externally tagged value into its tag and raw
// content. content is nil for the bare-string form.
func UnmarshalExternal(data []byte) (tag string, content json.RawMessage, err error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &tag); err != nil {
			return "", nil, fmt.Errorf("wire: externally tagged value: %w", err)
		}
		return tag, nil, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, fmt.Errorf("wire: externally tagged value: %w", err)
	}
	if len(obj) != 1 {
		return "", nil, fmt.Errorf("wire: externally tagged value must have exactly one property, got %d", len(obj))
	}
	for k, v := range obj {
		tag, content = k, v
	}
	return tag, content, nil
}

// DecodeContent unmarshals variant content into v. Absent content is an error.
func DecodeContent(content json.RawMessage, v any) error {
	if content == nil {
		return ErrMissingContent
	}
	return json.Unmarshal(content, v)
}

// DecodeTupleContent unmarshals positional variant content into ptrs.
// Absent content is an error; no pointers means the content must be [].
func DecodeTupleContent(content json.RawMessage, ptrs ...any) error {
	if content == nil {
		return ErrMissingContent
	}
	return UnmarshalTuple(content, ptrs...)
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
