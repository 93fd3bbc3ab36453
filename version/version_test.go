package version

import "testing"

func TestString(t *testing.T) {
	defer func(v, h string) { Version, Hash = v, h }(Version, Hash)
	tests := []struct {
		version, hash, want string
	}{
		{"v1.2.0", "abcdef1", "enginesound-play v1.2.0"},
		{"", "abcdef1-dirty", "enginesound-play abcdef1-dirty"},
		{"", "", "enginesound-play (devel)"},
	}
	for _, tt := range tests {
		Version, Hash = tt.version, tt.hash
		if got := String("enginesound-play"); got != tt.want {
			t.Fatalf("got %q, want %q", got, tt.want)
		}
	}
}
