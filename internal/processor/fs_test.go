package processor

import (
	"strings"
	"testing"
	"unicode"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Plain Name", "Plain Name"},
		{`AC/DC: Back in Black?`, "AC_DC_ Back in Black_"},
		{`a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"  padded  ", "padded"},
		{"...dots...", "dots"},
		{" . spaced dots . ", "spaced dots"},
		{".. .hidden", "hidden"},
		{"...", ""},
		{"   ", ""},
		{"v1.2 mix", "v1.2 mix"},
	}

	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeNameProperties(t *testing.T) {
	inputs := []string{
		`<>:"/\|?*`,
		` .<weird>. `,
		"\t..Track: Name?..\n",
		"Mixed . / . Segments",
		`"quoted"`,
		". . .",
		"trailing dot.",
		" nbsp ",
	}

	for _, in := range inputs {
		out := SanitizeName(in)
		if strings.ContainsAny(out, `<>:"/\|?*`) {
			t.Errorf("SanitizeName(%q) = %q still contains reserved characters", in, out)
		}
		if out == "" {
			continue
		}
		first, last := rune(out[0]), rune(out[len(out)-1])
		for _, r := range []rune{first, last} {
			if r == '.' || unicode.IsSpace(r) {
				t.Errorf("SanitizeName(%q) = %q has a leading or trailing dot/space", in, out)
			}
		}
	}
}
