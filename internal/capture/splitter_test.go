package capture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "single command",
			raw:  "docker ps",
			want: []string{"docker ps"},
		},
		{
			name: "mixed separators in order",
			raw:  "a && b; c || d",
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "multiline preserves line order",
			raw:  "git add .\ngit commit -m wip && git push",
			want: []string{"git add .", "git commit -m wip", "git push"},
		},
		{
			name: "fragments are trimmed",
			raw:  "  ls -la  ;   pwd  ",
			want: []string{"ls -la", "pwd"},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "   \n\n   ",
			want: nil,
		},
		{
			name: "separators only",
			raw:  "&& || ;",
			want: nil,
		},
		{
			name: "separator inside quotes still splits",
			raw:  `echo "a;b"`,
			want: []string{`echo "a`, `b"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCommands(tt.raw))
		})
	}
}

func TestSplitCommandsOutputIsTrimmedAndNonEmpty(t *testing.T) {
	inputs := []string{
		"a&&b", ";;;", "one\n\ntwo || three", "\t cmd \t", "x ; ; y",
	}
	for _, raw := range inputs {
		for _, cmd := range SplitCommands(raw) {
			assert.NotEmpty(t, cmd)
			assert.Equal(t, strings.TrimSpace(cmd), cmd)
		}
	}
}
