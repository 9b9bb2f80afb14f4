package crypto

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyAndIV(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	assert.Len(t, key, 16)

	iv, err := GenerateIV()
	require.NoError(t, err)
	assert.Len(t, iv, 16)
}

func TestGenerateKeyUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key, err := GenerateKey()
		require.NoError(t, err)
		hexKey := hex.EncodeToString(key)
		_, dup := seen[hexKey]
		require.False(t, dup, "duplicate key generated")
		seen[hexKey] = struct{}{}
	}
}

func TestHexRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	decoded, err := hex.DecodeString(hex.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, decoded)
}

func TestWriteTransientKeyArtifacts(t *testing.T) {
	dir := t.TempDir()
	key, err := GenerateKey()
	require.NoError(t, err)
	ivHex := "0123456789abcdef0123456789abcdef"
	keyURL := "http://localhost:8000/api/v1/videos/key/abc123"

	require.NoError(t, WriteTransientKeyArtifacts(dir, key, ivHex, keyURL))

	written, err := os.ReadFile(KeyFilePath(dir))
	require.NoError(t, err)
	assert.Equal(t, key, written)

	keyInfo, err := os.ReadFile(KeyInfoFilePath(dir))
	require.NoError(t, err)
	expected := fmt.Sprintf("%s\n%s\n%s\n", keyURL, KeyFilePath(dir), ivHex)
	assert.Equal(t, expected, string(keyInfo))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(KeyFilePath(dir))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestWriteTransientKeyArtifactsRejectsBadKey(t *testing.T) {
	err := WriteTransientKeyArtifacts(t.TempDir(), []byte("short"), "00", "http://example/key")
	assert.Error(t, err)
}

func TestPurgeTransientKeyArtifacts(t *testing.T) {
	dir := t.TempDir()
	key, err := GenerateKey()
	require.NoError(t, err)
	require.NoError(t, WriteTransientKeyArtifacts(dir, key, "00ff", "http://example/key"))

	PurgeTransientKeyArtifacts(dir)
	assert.NoFileExists(t, filepath.Join(dir, KeyFileName))
	assert.NoFileExists(t, filepath.Join(dir, KeyInfoFileName))

	// 幂等：重复清除不报错
	PurgeTransientKeyArtifacts(dir)
}
