package wire

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type imported struct {
	Value string `json:"value"`
}

type structPayload struct {
	A int32    `json:"a"`
	B imported `json:"b"`
}

func TestMarshalAdjacent(t *testing.T) {
	tests := []struct {
		name       string
		tag        string
		content    any
		hasContent bool
		want       string
	}{
		{"none", "VariantA", nil, false, `{"type":"VariantA"}`},
		{"unit", "VariantB", Empty{}, true, `{"type":"VariantB","data":[]}`},
		{"single", "VariantC", int32(42), true, `{"type":"VariantC","data":42}`},
		{"single unit", "VariantD", Unit{}, true, `{"type":"VariantD","data":null}`},
		{"single struct", "VariantE", imported{"s"}, true, `{"type":"VariantE","data":{"value":"s"}}`},
		{"single tuple", "VariantF", Tuple2[int32, imported]{42, imported{"s"}}, true, `{"type":"VariantF","data":[42,{"value":"s"}]}`},
		{"empty struct", "VariantH", struct{}{}, true, `{"type":"VariantH","data":{}}`},
		{"struct", "VariantI", structPayload{1, imported{"x"}}, true, `{"type":"VariantI","data":{"a":1,"b":{"value":"x"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalAdjacent("type", "data", tt.tag, tt.content, tt.hasContent)
			if err != nil {
				t.Fatalf("MarshalAdjacent: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalAdjacent = %s, want %s", got, tt.want)
			}

			tag, content, err := UnmarshalAdjacent(got, "type", "data")
			if err != nil {
				t.Fatalf("UnmarshalAdjacent: %v", err)
			}
			if tag != tt.tag {
				t.Errorf("tag = %q, want %q", tag, tt.tag)
			}
			if tt.hasContent != (content != nil) {
				t.Errorf("content presence = %v, want %v", content != nil, tt.hasContent)
			}
		})
	}
}

func TestAdjacent_RoundTripTuple(t *testing.T) {
	src := `{"type":"VariantF","data":[42,{"value":"s"}]}`

	tag, content, err := UnmarshalAdjacent([]byte(src), "type", "data")
	if err != nil {
		t.Fatal(err)
	}
	var payload Tuple2[int32, imported]
	if err := DecodeContent(content, &payload); err != nil {
		t.Fatalf("DecodeContent: %v", err)
	}
	if payload.V0 != 42 || payload.V1.Value != "s" {
		t.Errorf("payload = %+v", payload)
	}

	out, err := MarshalAdjacent("type", "data", tag, payload, true)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != src {
		t.Errorf("round trip = %s, want %s", out, src)
	}
}

func TestAdjacent_CustomKeys(t *testing.T) {
	got, err := MarshalAdjacent("kind", "value", "On", true, true)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"kind":"On","value":true}` {
		t.Errorf("got %s", got)
	}
	if _, _, err := UnmarshalAdjacent(got, "type", "data"); err == nil {
		t.Error("decoding with the wrong tag key should fail")
	}
}

func TestUnmarshalAdjacent_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not an object", `[1]`},
		{"null", `null`},
		{"missing tag", `{"data":1}`},
		{"tag not a string", `{"type":1}`},
		{"extra property", `{"type":"A","data":1,"more":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := UnmarshalAdjacent([]byte(tt.src), "type", "data"); err == nil {
				t.Errorf("UnmarshalAdjacent(%s) should fail", tt.src)
			}
		})
	}
}

func TestExternal(t *testing.T) {
	tests := []struct {
		name       string
		tag        string
		content    any
		hasContent bool
		want       string
	}{
		{"bare", "Empty", nil, false, `"Empty"`},
		{"single", "Ok", "yes", true, `{"Ok":"yes"}`},
		{"tuple", "Pair", Tuple2[string, bool]{"a", true}, true, `{"Pair":["a",true]}`},
		{"unit", "Unit", Empty{}, true, `{"Unit":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalExternal(tt.tag, tt.content, tt.hasContent)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalExternal = %s, want %s", got, tt.want)
			}
			tag, content, err := UnmarshalExternal(got)
			if err != nil {
				t.Fatalf("UnmarshalExternal: %v", err)
			}
			if tag != tt.tag || (content != nil) != tt.hasContent {
				t.Errorf("UnmarshalExternal = %q, %s", tag, content)
			}
		})
	}

	for _, bad := range []string{`{}`, `{"A":1,"B":2}`, `1`, `"unterminated`} {
		if _, _, err := UnmarshalExternal([]byte(bad)); err == nil {
			t.Errorf("UnmarshalExternal(%s) should fail", bad)
		}
	}
}

func TestDecodeContent_Missing(t *testing.T) {
	var v int
	if err := DecodeContent(nil, &v); !errors.Is(err, ErrMissingContent) {
		t.Errorf("DecodeContent(nil) = %v, want ErrMissingContent", err)
	}
}

func TestDecodeTupleContent(t *testing.T) {
	var a int32
	var b string
	if err := DecodeTupleContent(json.RawMessage(`[42,"s"]`), &a, &b); err != nil {
		t.Fatal(err)
	}
	if a != 42 || b != "s" {
		t.Errorf("decoded (%d, %q)", a, b)
	}
	if err := DecodeTupleContent(nil, &a); !errors.Is(err, ErrMissingContent) {
		t.Errorf("DecodeTupleContent(nil) = %v, want ErrMissingContent", err)
	}
	if err := DecodeTupleContent(json.RawMessage(`[]`)); err != nil {
		t.Errorf("empty payload = %v", err)
	}
	if err := DecodeTupleContent(json.RawMessage(`[1]`)); err == nil {
		t.Error("empty payload should reject [1]")
	}
}

func TestUnknownTag(t *testing.T) {
	err := UnknownTag("Shape", "Hexagon")
	var ute *UnknownTagError
	if !errors.As(err, &ute) || ute.Tag != "Hexagon" {
		t.Fatalf("UnknownTag = %v", err)
	}
	if !strings.Contains(err.Error(), `Shape variant "Hexagon"`) {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestUnit(t *testing.T) {
	b, err := json.Marshal(Unit{})
	if err != nil || string(b) != "null" {
		t.Errorf("Marshal(Unit) = %s, %v", b, err)
	}
	var u Unit
	if err := json.Unmarshal([]byte("null"), &u); err != nil {
		t.Errorf("Unmarshal(null) = %v", err)
	}
	if err := u.UnmarshalJSON([]byte("{}")); err == nil {
		t.Error("Unit should reject {}")
	}
}

func TestEmpty(t *testing.T) {
	var e Empty
	if err := json.Unmarshal([]byte("[]"), &e); err != nil {
		t.Errorf("Unmarshal([]) = %v", err)
	}
	if err := json.Unmarshal([]byte("[1]"), &e); err == nil {
		t.Error("Empty should reject [1]")
	}
}

func TestTuples(t *testing.T) {
	t3 := Tuple3[string, int, bool]{"a", 1, true}
	b, err := json.Marshal(t3)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["a",1,true]` {
		t.Errorf("Marshal(Tuple3) = %s", b)
	}
	var back Tuple3[string, int, bool]
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back != t3 {
		t.Errorf("round trip = %+v, want %+v", back, t3)
	}

	var t2 Tuple2[int, int]
	if err := json.Unmarshal([]byte(`[1,2,3]`), &t2); err == nil {
		t.Error("Tuple2 should reject 3 items")
	}
	if err := json.Unmarshal([]byte(`null`), &t2); err == nil {
		t.Error("Tuple2 should reject null")
	}

	nested := Tuple2[rune, Tuple2[int32, imported]]{'c', Tuple2[int32, imported]{7, imported{"v"}}}
	b, err = json.Marshal(nested)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `[99,[7,{"value":"v"}]]` {
		t.Errorf("nested tuple = %s", b)
	}
}
