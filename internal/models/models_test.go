package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidProjectID(t *testing.T) {
	for _, id := range []string{"p1", "3f2b9c1e-8d4a-4e0f-9b1a-2c3d4e5f6a7b", "my_app.v2"} {
		assert.True(t, ValidProjectID(id), id)
	}
	for _, id := range []string{"", ".", "..", ".staging", "../p2", "a/b", `a\b`, "x..y", "a\x00b", strings.Repeat("a", 129)} {
		assert.False(t, ValidProjectID(id), id)
	}
}
