package yamlprint_test

import (
	"bytes"
	"testing"

	"github.com/stealthrocket/sysgen/internal/assert"
	"github.com/stealthrocket/sysgen/internal/print/yamlprint"
)

type wrapper struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args,omitempty"`
}

func TestWriteNothing(t *testing.T) {
	b := new(bytes.Buffer)
	w := yamlprint.NewWriter[wrapper](b)
	assert.OK(t, w.Close())
	assert.Equal(t, b.String(), "")
}

func TestWriteValues(t *testing.T) {
	b := new(bytes.Buffer)
	w := yamlprint.NewWriter[wrapper](b)
	_, err := w.Write([]wrapper{
		{Name: "blocking-retry"},
		{Name: "noreturn", Args: []string{"u32", "u8*"}},
	})
	assert.OK(t, err)
	assert.OK(t, w.Close())
	assert.Equal(t, b.String(), `name: blocking-retry
---
name: noreturn
args:
  - u32
  - u8*
`)
}
