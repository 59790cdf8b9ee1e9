package edithistory_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
)

func TestEncodeString_NullTextStaysDistinguishableFromNil(t *testing.T) {
	encoded := edithistory.EncodeString("null")

	require.NotNil(t, encoded)
	require.Equal(t, "null", *encoded)
	require.False(t, edithistory.Equal(encoded, nil))
}

func TestEncodeUUID_NilAndValue(t *testing.T) {
	require.Nil(t, edithistory.EncodeUUID(nil))

	id := uuid.New()
	encoded := edithistory.EncodeUUID(&id)
	require.Equal(t, id.String(), *encoded)

	decoded, err := edithistory.DecodeUUID(encoded)
	require.NoError(t, err)
	require.Equal(t, id, *decoded)
}

func TestEncodeTime_CanonicalizesToUTC(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	at := time.Date(2025, 6, 12, 15, 30, 0, 123456789, chicago)

	encoded := edithistory.EncodeTime(&at)
	require.NotNil(t, encoded)

	decoded, err := edithistory.DecodeTime(encoded)
	require.NoError(t, err)
	require.True(t, at.Equal(*decoded))
	require.Equal(t, time.UTC, decoded.Location())
}

func TestDecodeTime_NilPassesThrough(t *testing.T) {
	decoded, err := edithistory.DecodeTime(nil)
	require.NoError(t, err)
	require.Nil(t, decoded)
}

func TestEqual(t *testing.T) {
	a := edithistory.EncodeString("x")
	b := edithistory.EncodeString("x")
	c := edithistory.EncodeString("y")

	require.True(t, edithistory.Equal(a, b))
	require.False(t, edithistory.Equal(a, c))
	require.False(t, edithistory.Equal(a, nil))
	require.False(t, edithistory.Equal(nil, c))
	require.True(t, edithistory.Equal(nil, nil))
}
