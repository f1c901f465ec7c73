package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorePutGetDelete(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "jade"))

	_, err := s.Get("openai")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(" OpenAI ", " sk-test "))
	key, err := s.Get("openai")
	require.NoError(t, err)
	require.Equal(t, "sk-test", key)

	data, err := os.ReadFile(s.path())
	require.NoError(t, err)
	require.NotContains(t, string(data), "sk-test")

	info, err := os.Stat(s.path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Delete("openai"))
	_, err = s.Get("openai")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRequiresProvider(t *testing.T) {
	s := NewStore(t.TempDir())
	require.Error(t, s.Put("  ", "x"))
	_, err := s.Get("")
	require.Error(t, err)
}

func TestStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("{"), 0o600))
	_, err := NewStore(dir).Get("gemini")
	require.Error(t, err)
}
