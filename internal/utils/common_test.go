package utils

import (
	"reflect"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		sep  string
		want []string
	}{
		{"", ",", []string{}},
		{"a", ",", []string{"a"}},
		{" a , b ,, c ", ",", []string{"a", "b", "c"}},
		{"--title reminder", " ", []string{"--title", "reminder"}},
	}
	for _, tt := range tests {
		got := SplitAndTrim(tt.in, tt.sep)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitAndTrim(%q, %q) = %#v, want %#v", tt.in, tt.sep, got, tt.want)
		}
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/", ""},
		{"#/2025-06-10", "2025-06-10"},
		{"#/2025-06-10/0/time", "2025-06-10[0].time"},
		{"/a~1b/1", "a/b[1]"},
		{"/a~0b", "a~b"},
	}
	for _, tt := range tests {
		if got := JSONPointerToPath(tt.ptr); got != tt.want {
			t.Errorf("JSONPointerToPath(%q) = %q, want %q", tt.ptr, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Study", 10, "Study"},
		{"Study", 5, "Study"},
		{"Study hard", 6, "Study…"},
		{"数学复习", 3, "数学…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
