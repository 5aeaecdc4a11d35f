package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTiming(t *testing.T) {
	myassert := assert.New(t)

	tm := NewTiming()
	tm.Mark("ignored")
	myassert.Equal(0, len(tm.marks))

	tm.Begin()
	tm.Mark("first")
	tm.Mark("second")
	tm.End()
	tm.Mark("late")
	myassert.Equal(3, len(tm.marks))
	myassert.True(tm.Duration() >= 0)
	s := tm.String()
	myassert.True(strings.Contains(s, "first:"), s)
	myassert.True(strings.Contains(s, "second:"), s)
	myassert.False(strings.Contains(s, "late"), s)
}
