package picker

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "fix: red", StripANSI("\x1b[31mfix: red\x1b[0m"))
	assert.Equal(t, "plain", StripANSI("plain"))
	assert.Equal(t, "link", StripANSI("\x1b]8;;http://x\x07link"))
}

func TestMiddleTruncate(t *testing.T) {
	assert.Equal(t, "short", MiddleTruncate("short", 10))
	assert.Equal(t, "", MiddleTruncate("anything", 0))
	assert.Equal(t, "ab", MiddleTruncate("abcdef", 2))

	got := MiddleTruncate("abcdefghij", 7)
	assert.Equal(t, "abc…hij", got)
	assert.Equal(t, 7, runewidth.StringWidth(got))
}

func TestMiddleTruncate_WideRunes(t *testing.T) {
	got := MiddleTruncate("日本語のコミットメッセージ", 9)
	assert.LessOrEqual(t, runewidth.StringWidth(got), 9)
	assert.Contains(t, got, "…")
}
