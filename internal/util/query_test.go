package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
	assert.Equal(t, 90, ParseIntDefault(" 90 ", 7))
	assert.Equal(t, -1, ParseIntDefault("-1", 7))
}
