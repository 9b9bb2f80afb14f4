package hls

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hls-vod-service/ddd/domain/vo"
)

func testLadder() vo.Ladder {
	return vo.Ladder{
		{Name: "360p", Resolution: "640x360", VideoBitrate: "800k", AudioBitrate: "128k"},
		{Name: "720p", Resolution: "1280x720", VideoBitrate: "2800k", AudioBitrate: "128k"},
	}
}

func TestBuildMasterPlaylist(t *testing.T) {
	content, err := BuildMasterPlaylist(testLadder())
	require.NoError(t, err)

	expected := "#EXTM3U\n" +
		"#EXT-X-VERSION:3\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=928000,RESOLUTION=640x360,CODECS=\"avc1.4d401f,mp4a.40.2\"\n" +
		"360p.m3u8\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=2928000,RESOLUTION=1280x720,CODECS=\"avc1.4d401f,mp4a.40.2\"\n" +
		"720p.m3u8\n"
	assert.Equal(t, expected, content)
}

func TestBuildMasterPlaylistOrderFollowsLadder(t *testing.T) {
	content, err := BuildMasterPlaylist(testLadder())
	require.NoError(t, err)

	idx360 := strings.Index(content, "360p.m3u8")
	idx720 := strings.Index(content, "720p.m3u8")
	require.NotEqual(t, -1, idx360)
	require.NotEqual(t, -1, idx720)
	assert.Less(t, idx360, idx720)
}

func TestBuildMasterPlaylistInvalidBitrate(t *testing.T) {
	ladder := vo.Ladder{{Name: "360p", Resolution: "640x360", VideoBitrate: "oops", AudioBitrate: "128k"}}
	_, err := BuildMasterPlaylist(ladder)
	assert.Error(t, err)
}

func TestWriteMasterPlaylist(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteMasterPlaylist(dir, testLadder())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, MasterPlaylistName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#EXTM3U\n"))
	assert.Equal(t, 2, strings.Count(string(data), "#EXT-X-STREAM-INF:"))
}
