package wire

import (
	"encoding/json"
	"fmt"
)

// MarshalTuple encodes elems as a JSON array, in order.
func MarshalTuple(elems ...any) ([]byte, error) {
	if elems == nil {
		elems = []any{}
	}
	return json.Marshal(elems)
}

// UnmarshalTuple decodes a JSON array of exactly len(ptrs) items into ptrs.
func UnmarshalTuple(data []byte, ptrs ...any) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("wire: tuple: %w", err)
	}
	if items == nil {
		return fmt.Errorf("wire: tuple of %d items is null", len(ptrs))
	}
	if len(items) != len(ptrs) {
		return fmt.Errorf("wire: tuple has %d items, want %d", len(items), len(ptrs))
	}
	for i, item := range items {
		if err := json.Unmarshal(item, ptrs[i]); err != nil {
			return fmt.Errorf("wire: tuple item %d: %w", i, err)
		}
	}
	return nil
}

// Tuple1 is a one-element positional value, encoded as [v0].
type Tuple1[A any] struct {
	V0 A
}

func (t Tuple1[A]) MarshalJSON() ([]byte, error) { return MarshalTuple(t.V0) }

func (t *Tuple1[A]) UnmarshalJSON(data []byte) error { return UnmarshalTuple(data, &t.V0) }

// Tuple2 is a two-element positional value, encoded as [v0, v1].
type Tuple2[A, B any] struct {
	V0 A
	V1 B
}

func (t Tuple2[A, B]) MarshalJSON() ([]byte, error) { return MarshalTuple(t.V0, t.V1) }

func (t *Tuple2[A, B]) UnmarshalJSON(data []byte) error {
	return UnmarshalTuple(data, &t.V0, &t.V1)
}

// Tuple3 is a three-element positional value.
type Tuple3[A, B, C any] struct {
	V0 A
	V1 B
	V2 C
}

func (t Tuple3[A, B, C]) MarshalJSON() ([]byte, error) { return MarshalTuple(t.V0, t.V1, t.V2) }

func (t *Tuple3[A, B, C]) UnmarshalJSON(data []byte) error {
	return UnmarshalTuple(data, &t.V0, &t.V1, &t.V2)
}

// Tuple4 is a four-element positional value.
type Tuple4[A, B, C, D any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
}

func (t Tuple4[A, B, C, D]) MarshalJSON() ([]byte, error) {
	return MarshalTuple(t.V0, t.V1, t.V2, t.V3)
}

func (t *Tuple4[A, B, C, D]) UnmarshalJSON(data []byte) error {
	return UnmarshalTuple(data, &t.V0, &t.V1, &t.V2, &t.V3)
}

// Tuple5 is a five-element positional value.
type Tuple5[A, B, C, D, E any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
}

func (t Tuple5[A, B, C, D, E]) MarshalJSON() ([]byte, error) {
	return MarshalTuple(t.V0, t.V1, t.V2, t.V3, t.V4)
}

func (t *Tuple5[A, B, C, D, E]) UnmarshalJSON(data []byte) error {
	return UnmarshalTuple(data, &t.V0, &t.V1, &t.V2, &t.V3, &t.V4)
}

// Tuple6 is a six-element positional value.
type Tuple6[A, B, C, D, E, F any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
}

func (t Tuple6[A, B, C, D, E, F]) MarshalJSON() ([]byte, error) {
	return MarshalTuple(t.V0, t.V1, t.V2, t.V3, t.V4, t.V5)
}

func (t *Tuple6[A, B, C, D, E, F]) UnmarshalJSON(data []byte) error {
	return UnmarshalTuple(data, &t.V0, &t.V1, &t.V2, &t.V3, &t.V4, &t.V5)
}

// MaxTuple is the largest tuple arity with a generic Go type.
const MaxTuple = 6
