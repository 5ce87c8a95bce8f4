package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTodo(t *testing.T) {
	lines := []string{
		"a1b2c3d Add parser",
		"e4f5a6b Fix off-by-one",
		"c7d8e9f Document limits",
	}
	got := generateTodo(lines, "myfeature", "Parser work", false)

	want := `pick a1b2c3d Add parser
exec git p4son new myfeature --review -m 'Parser work' --sleep 5
pick e4f5a6b Fix off-by-one
exec git p4son update myfeature --shelve --sleep 5
pick c7d8e9f Document limits
exec git p4son update myfeature --shelve
`
	assert.Equal(t, want, got)
}

func TestGenerateTodoSingleCommitWithForce(t *testing.T) {
	got := generateTodo([]string{"a1b2c3d Add parser"}, "myfeature", "Parser", true)

	want := `pick a1b2c3d Add parser
exec git p4son new myfeature --review -m Parser --force
`
	assert.Equal(t, want, got)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "plain-word_1.go", shellQuote("plain-word_1.go"))
	assert.Equal(t, "'two words'", shellQuote("two words"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
	assert.Equal(t, "''", shellQuote(""))
}
