package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

func TestGenerateSessionID(t *testing.T) {
	first, err := GenerateSessionID()
	require.NoError(t, err)
	assert.Len(t, first, 64, "256-bit id hex encoded")

	second, err := GenerateSessionID()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSessionRoundTrip(t *testing.T) {
	Init(NewMemoryStorage())

	id, err := GenerateSessionID()
	require.NoError(t, err)

	in := &Data{User: models.User{ID: 7, Username: "alice", Role: models.RoleLabelAdmin}}
	require.NoError(t, in.Write(id, time.Minute))

	var out Data
	require.NoError(t, out.Read(id))
	assert.EqualValues(t, 7, out.User.ID)
	assert.Equal(t, "alice", out.User.Username)
	assert.Equal(t, models.RoleLabelAdmin, out.User.Role)

	require.NoError(t, out.Destroy(id))

	var gone Data
	err = gone.Read(id)
	assert.Error(t, err, "destroyed session must not unmarshal")
}

func TestMemoryStorageExpiry(t *testing.T) {
	s := NewMemoryStorage()

	require.NoError(t, s.Set("k", []byte("v"), 10*time.Millisecond))

	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	time.Sleep(20 * time.Millisecond)

	v, err = s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, v, "expired entries read as missing")
}

func TestMemoryStorageIsolation(t *testing.T) {
	s := NewMemoryStorage()

	original := []byte("data")
	require.NoError(t, s.Set("k", original, 0))

	original[0] = 'X'

	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), v, "stored value must not alias the caller's slice")

	require.NoError(t, s.Reset())

	v, err = s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, v)
}
