package core

import (
	"errors"
	"testing"
	"time"
)

func TestField_StringValue(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{
			name:  "String field",
			field: String("k", "hello"),
			want:  "hello",
		},
		{
			name:  "Int field",
			field: Int("k", 42),
			want:  "42",
		},
		{
			name:  "Int64 field",
			field: Int64("k", 1234567890),
			want:  "1234567890",
		},
		{
			name:  "Bool field (true)",
			field: Bool("k", true),
			want:  "true",
		},
		{
			name:  "Bool field (false)",
			field: Bool("k", false),
			want:  "false",
		},
		{
			name:  "Float64 field",
			field: Float64("k", 3.14),
			want:  "3.14",
		},
		{
			name:  "Duration field",
			field: Duration("k", 5*time.Second),
			want:  "5s",
		},
		{
			name:  "Error field",
			field: Err(errors.New("an error occurred")),
			want:  "an error occurred",
		},
		{
			name:  "Nil field",
			field: Any("k", nil),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.StringValue(); got != tt.want {
				t.Errorf("Field.StringValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestField_IsScalar(t *testing.T) {
	scalars := []Field{String("a", "x"), Int("b", 1), Float64("c", 1.5), Bool("d", true), Any("e", uint8(3))}
	for _, f := range scalars {
		if !f.IsScalar() {
			t.Errorf("Expected %s to be scalar", f.Key)
		}
	}
	others := []Field{Any("a", nil), Any("b", []int{1}), Any("c", map[string]int{"x": 1}), Err(errors.New("x"))}
	for _, f := range others {
		if f.IsScalar() {
			t.Errorf("Expected %s not to be scalar", f.Key)
		}
	}
}

func TestFields_GetWithoutMap(t *testing.T) {
	fs := Fields{String("a", "1"), Int("b", 2), String("c", "3")}

	if v, ok := fs.Get("b"); !ok || v != 2 {
		t.Errorf("Expected b=2, got: %v (%v)", v, ok)
	}
	if _, ok := fs.Get("missing"); ok {
		t.Error("Expected missing key to be absent")
	}

	rest := fs.Without(1)
	if len(rest) != 2 || rest[0].Key != "a" || rest[1].Key != "c" {
		t.Errorf("Unexpected Without result: %v", rest)
	}
	if len(fs) != 3 {
		t.Error("Without must not modify the receiver")
	}
	if got := fs.Without(10); len(got) != 3 {
		t.Errorf("Expected out-of-range Without to return all fields, got %d", len(got))
	}

	m := fs.Map()
	if m["a"] != "1" || m["b"] != 2 || m["c"] != "3" {
		t.Errorf("Unexpected map: %v", m)
	}
}

func TestFieldsFromMap_Sorted(t *testing.T) {
	fs := FieldsFromMap(map[string]interface{}{"zeta": 1, "alpha": 2, "mid": 3})
	want := []string{"alpha", "mid", "zeta"}
	for i, k := range want {
		if fs[i].Key != k {
			t.Errorf("Expected key %d to be %s, got: %s", i, k, fs[i].Key)
		}
	}
	if FieldsFromMap(nil) != nil {
		t.Error("Expected nil fields for nil map")
	}
}

func BenchmarkFieldStringValue(b *testing.B) {
	fields := []Field{
		String("s", "test"),
		Int("i", 42),
		Bool("b", true),
		Float64("f", 3.14),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, f := range fields {
			_ = f.StringValue()
		}
	}
}
