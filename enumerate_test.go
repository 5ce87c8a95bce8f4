package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommitEntries(t *testing.T) {
	lines := []string{
		"a1b2c3d Add parser",
		"e4f5a6b Fix off-by-one in parser",
		"c7d8e9f Document parser limits",
	}
	want := []commitEntry{
		{index: 1, subject: "Add parser"},
		{index: 2, subject: "Fix off-by-one in parser"},
		{index: 3, subject: "Document parser limits"},
	}
	assert.Equal(t, want, parseCommitEntries(lines))
}

func TestParseCommitEntriesEmpty(t *testing.T) {
	assert.Empty(t, parseCommitEntries(nil))
}

func TestParseCommitEntriesNoSubject(t *testing.T) {
	// A line without a space falls back to the whole line.
	got := parseCommitEntries([]string{"a1b2c3d"})
	assert.Equal(t, []commitEntry{{index: 1, subject: "a1b2c3d"}}, got)
}

func TestChangeStory(t *testing.T) {
	entries := []commitEntry{
		{index: 1, subject: "A"},
		{index: 2, subject: "B"},
		{index: 3, subject: "C"},
	}
	assert.Equal(t, "1. A\n2. B\n3. C", changeStory(entries))
	assert.Equal(t, "", changeStory(nil))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\n\r\nb\r\n"))
	assert.Empty(t, splitLines(""))
	assert.Empty(t, splitLines("\n\n"))
}
