package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCaptureTokensPath(t *testing.T) {
	tokens, err := parseCaptureTokens("routes.running.destination")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, captureTokenPath, tokens[0].kind)
	assert.Equal(t, []string{"routes", "running", "destination"}, tokens[0].path)
}

func TestParseCaptureTokensEqual(t *testing.T) {
	tokens, err := parseCaptureTokens(`interfaces.name == "eth1"`)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, captureTokenPath, tokens[0].kind)
	assert.Equal(t, captureTokenEqual, tokens[1].kind)
	assert.Equal(t, captureTokenValue, tokens[2].kind)
	assert.Equal(t, "eth1", tokens[2].value)
}

func TestParseCaptureTokensReplaceWithNull(t *testing.T) {
	tokens, err := parseCaptureTokens("interfaces.mtu := null")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, captureTokenReplace, tokens[1].kind)
	assert.Equal(t, captureTokenNull, tokens[2].kind)
}

func TestParseCaptureTokensPipe(t *testing.T) {
	tokens, err := parseCaptureTokens("capture.default-gw | routes.running.destination")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, captureTokenPipe, tokens[1].kind)
}

func TestParseCaptureTokensDoubleEqualRejected(t *testing.T) {
	_, err := parseCaptureTokens("interfaces.name == \"a\" == \"b\"")
	assert.Error(t, err)
}

func TestParseCaptureTokensUnterminatedQuote(t *testing.T) {
	_, err := parseCaptureTokens(`interfaces.name == "eth1`)
	assert.Error(t, err)
}

func TestParseCaptureTokensPipeWithoutPathAfter(t *testing.T) {
	_, err := parseCaptureTokens(`capture.default-gw | "abc"`)
	assert.Error(t, err)
}

func TestParseTemplateTokensReference(t *testing.T) {
	tokens, err := parseTemplateTokens("{{ capture.default-gw.interfaces.0.name }}")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, templateTokenReferenceStart, tokens[0].kind)
	assert.Equal(t, templateTokenPath, tokens[1].kind)
	assert.Equal(t, templateTokenReferenceEnd, tokens[2].kind)
	assert.Equal(t, []string{"capture", "default-gw", "interfaces", "0", "name"}, tokens[1].path)
}

func TestParseTemplateTokensNoReferenceIsFine(t *testing.T) {
	tokens, err := parseTemplateTokens("eth0")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, templateTokenValue, tokens[0].kind)
}

func TestParseTemplateTokensUnbalancedBraces(t *testing.T) {
	_, err := parseTemplateTokens("{{ capture.x.y")
	assert.Error(t, err)
}
