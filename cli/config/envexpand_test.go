package config

import "testing"

func TestExpandEnv(t *testing.T) {
	t.Setenv("COURIER_SET", "value")
	t.Setenv("COURIER_EMPTY", "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"set var", "key: ${COURIER_SET}", "key: value"},
		{"unset var", "key: ${COURIER_UNSET_XYZ}", "key: "},
		{"unset with default", "key: ${COURIER_UNSET_XYZ:-fallback}", "key: fallback"},
		{"empty uses default", "key: ${COURIER_EMPTY:-fallback}", "key: fallback"},
		{"set ignores default", "key: ${COURIER_SET:-fallback}", "key: value"},
		{"no pattern", "key: plain", "key: plain"},
		{"multiple", "${COURIER_SET}/${COURIER_SET}", "value/value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
