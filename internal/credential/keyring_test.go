package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useArrayKeyring(t *testing.T) {
	t.Helper()

	ring := keyring.NewArrayKeyring(nil)
	prev := opener
	opener = func() (keyring.Keyring, error) { return ring, nil }
	t.Cleanup(func() { opener = prev })
}

func TestSetGetDelete(t *testing.T) {
	useArrayKeyring(t)

	require.NoError(t, Set(IMAPKey("carlo"), "hunter2"))

	got, err := Get("imap-carlo")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	require.NoError(t, Delete("imap-carlo"))

	_, err = Get("imap-carlo")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupPrefersEnvironment(t *testing.T) {
	useArrayKeyring(t)
	require.NoError(t, Set(StoreDSNKey, "postgres://from-keyring"))

	t.Setenv(EnvStoreDSN, "postgres://from-env")
	got, err := Lookup(EnvStoreDSN, StoreDSNKey)
	require.NoError(t, err)
	assert.Equal(t, "postgres://from-env", got)

	t.Setenv(EnvStoreDSN, "")
	got, err = Lookup(EnvStoreDSN, StoreDSNKey)
	require.NoError(t, err)
	assert.Equal(t, "postgres://from-keyring", got)
}

func TestLookupMissing(t *testing.T) {
	useArrayKeyring(t)
	t.Setenv(EnvRedisPass, "")

	_, err := Lookup(EnvRedisPass, RedisPasswordKey)
	assert.ErrorIs(t, err, ErrNotFound)
}
