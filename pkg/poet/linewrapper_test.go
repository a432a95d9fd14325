package poet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineWrapper(ttt *testing.T) {
	type step struct {
		text string
		wrap int // >0 wrapping space, <0 zero width space, at |n| indents
	}
	tests := []struct {
		name  string
		width int
		steps []step
		want  string
	}{
		{
			name:  "fits",
			width: 20,
			steps: []step{{text: "abcde"}, {wrap: 1}, {text: "fghij"}},
			want:  "abcde fghij",
		},
		{
			name:  "wraps",
			width: 10,
			steps: []step{{text: "abcde"}, {wrap: 1}, {text: "fghij"}},
			want:  "abcde\n  fghij",
		},
		{
			name:  "zero width wraps without a space",
			width: 10,
			steps: []step{{text: "abcdef("}, {wrap: -2}, {text: "ghijk"}},
			want:  "abcdef(\n    ghijk",
		},
		{
			name:  "zero width stays empty",
			width: 20,
			steps: []step{{text: "call("}, {wrap: -2}, {text: "x)"}},
			want:  "call(x)",
		},
		{
			name:  "newline resets the column",
			width: 10,
			steps: []step{{text: "abcdefgh\nab"}, {wrap: 1}, {text: "cd"}},
			want:  "abcdefgh\nab cd",
		},
		{
			name:  "wide runes count double",
			width: 10,
			steps: []step{{text: "日本語"}, {wrap: 1}, {text: "東京"}},
			want:  "日本語\n  東京",
		},
		{
			name:  "overlong text without a mark is kept",
			width: 5,
			steps: []step{{text: "abcdefghij"}},
			want:  "abcdefghij",
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			lw := newLineWrapper(&sb, NewConfig(WithMaxWidth(tt.width)))
			for _, s := range tt.steps {
				switch {
				case s.wrap > 0:
					require.NoError(t, lw.wrappingSpace(s.wrap))
				case s.wrap < 0:
					require.NoError(t, lw.zeroWidthSpace(-s.wrap))
				default:
					require.NoError(t, lw.append(s.text))
				}
			}
			require.NoError(t, lw.close())
			require.Equal(t, tt.want, sb.String())
		})
	}
}

func TestLineWrapperTabsUseIndentWidth(t *testing.T) {
	lw := newLineWrapper(&strings.Builder{}, NewConfig(WithTabs(), WithIndentWidth(4)))
	require.Equal(t, 9, lw.width("\t\tx"))
	require.Equal(t, 4, lw.indentWidth)
}

func TestLineWrapperClosed(t *testing.T) {
	lw := newLineWrapper(&strings.Builder{}, NewConfig())
	require.NoError(t, lw.close())
	require.Error(t, lw.append("x"))
	require.Error(t, lw.wrappingSpace(1))
}
