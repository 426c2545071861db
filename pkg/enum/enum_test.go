package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToEnum(t *testing.T) {
	type Kind string

	original := New(Kind("original"))
	quote := New(Kind("quote"))

	v, err := ToEnum[Kind]("original")
	require.NoError(t, err)
	require.Equal(t, original, v)

	v, err = ToEnum[Kind]("quote")
	require.NoError(t, err)
	require.Equal(t, quote, v)

	_, err = ToEnum[Kind]("retweet")
	require.Error(t, err)
}
