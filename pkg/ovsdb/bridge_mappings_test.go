package ovsdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitNonEmpty("a,b,c", ','))
	assert.Equal(t, []string{"a", "c"}, splitNonEmpty("a,,c", ','))
	assert.Empty(t, splitNonEmpty("", ','))
	assert.Equal(t, []string{"a"}, splitNonEmpty("a", ','))
}

func TestOvsMapRoundTrip(t *testing.T) {
	in := map[string]string{"ovn-bridge-mappings": "physnet1:br-ex", "other": "keep-me"}

	raw := toOvsMap(in)
	out := fromOvsMap(raw)

	assert.Equal(t, in, out)
}

func TestFromOvsMapIgnoresWrongType(t *testing.T) {
	assert.Empty(t, fromOvsMap("not-a-map"))
	assert.Empty(t, fromOvsMap(nil))
}
