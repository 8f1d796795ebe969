package internal

import (
	"reflect"
	"testing"
)

func Test_structFields(t *testing.T) {
	tests := map[string]struct {
		value any
		want  int
	}{
		"Simple": {struct {
			A int    `boxon:"int,size=8"`
			B string `boxon:"string,size=4"`
		}{}, 2},
		"Ignored": {struct {
			A int    `boxon:"int,size=8"`
			B int    `boxon:"-"`
			C string `boxon:"string,size=4"`
		}{}, 2},
		"NonExported": {
			struct {
				a int
				B int `boxon:"int,size=8"`
			}{}, 1,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := 0
			for range StructFields(reflect.TypeOf(tt.value)) {
				got++
			}
			if got != tt.want {
				t.Errorf("structFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_parseFieldTag(t *testing.T) {
	tag := ParseFieldTag("int,size=8,byteOrder=big,signed,condition=#self.Mask&1==1")
	if tag.Kind != "int" || tag.Size != "8" || tag.ByteOrder != "big" || !tag.Signed {
		t.Fatalf("unexpected tag: %+v", tag)
	}
	if tag.Condition != "#self.Mask&1==1" {
		t.Fatalf("unexpected condition: %q", tag.Condition)
	}
}

func Test_parseFieldTagIgnore(t *testing.T) {
	tag := ParseFieldTag("-")
	if !tag.Ignore {
		t.Fatalf("expected Ignore=true")
	}
}
