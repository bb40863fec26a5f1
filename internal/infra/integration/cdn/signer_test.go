package cdn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureSortsParams(t *testing.T) {
	params := map[string]string{"timestamp": "1700000000", "folder": "leads/docs", "empty": ""}
	assert.Equal(t, "e40171996ff8755ba2181cbf303038cbf97f51b5", Signature(params, "abcd"))
}

func TestSignerSign(t *testing.T) {
	s := NewSigner("travel", "key-1", "abcd")
	sig, err := s.Sign(map[string]string{"folder": "leads/docs", "timestamp": "1700000000"})
	require.NoError(t, err)
	assert.Equal(t, "travel", sig.CloudName)
	assert.Equal(t, "key-1", sig.APIKey)
	assert.Len(t, sig.Signature, 40)

	_, err = NewSigner("travel", "key-1", "").Sign(nil)
	assert.Error(t, err)
}
