package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mistwood/cultivation-api/internal/pkg/idgen"
)

func TestPrefixedGenerator(t *testing.T) {
	g := idgen.NewPrefixed("beast")

	first := g.Generate()
	second := g.Generate()

	assert.True(t, strings.HasPrefix(first, "beast_"))
	assert.NotEqual(t, first, second)
}

func TestSequentialGenerator(t *testing.T) {
	g := idgen.NewSequential("sect")

	assert.Equal(t, "sect_1", g.Generate())
	assert.Equal(t, "sect_2", g.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestUUIDGenerator(t *testing.T) {
	g := idgen.NewUUID("char")

	id := g.Generate()
	assert.True(t, strings.HasPrefix(id, "char_"))
	assert.NotEqual(t, id, g.Generate())

	bare := idgen.NewUUID("")
	assert.Len(t, bare.Generate(), 36)
}
