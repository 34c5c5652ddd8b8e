package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerStaticOutput(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Loading sales.csv")
	s.out = &buf
	s.animate = false

	s.Start()
	s.Success("Loaded 3 rows")
	s.Stop()

	assert.Contains(t, buf.String(), "Loading sales.csv...\n")
	assert.Contains(t, buf.String(), "Loaded 3 rows")
}
