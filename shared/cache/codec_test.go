package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	payload, err := encode("plain")
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), payload)

	var text string
	require.NoError(t, decode(payload, &text))
	assert.Equal(t, "plain", text)

	payload, err = encode(map[string]int{"count": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":3}`, string(payload))

	var counts map[string]int
	require.NoError(t, decode(payload, &counts))
	assert.Equal(t, 3, counts["count"])

	_, err = encode(make(chan int))
	assert.Error(t, err)

	var number int
	assert.Error(t, decode([]byte("not json"), &number))
}
