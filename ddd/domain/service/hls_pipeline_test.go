package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hls-vod-service/ddd/domain/entity"
	"hls-vod-service/ddd/domain/port"
	"hls-vod-service/ddd/domain/vo"
	"hls-vod-service/pkg/config"
)

// fakeEncoder 模拟ffmpeg：成功时写出变体清单和一个切片文件。
type fakeEncoder struct {
	mu          sync.Mutex
	calls       []string
	failOn      string
	delay       map[string]time.Duration
	keyInfoSeen bool
	keyInfoBody string
}

func (f *fakeEncoder) EncodeVariant(ctx context.Context, job port.VariantJob) error {
	if d, ok := f.delay[job.Profile.Name]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, job.Profile.Name)
	// 真实ffmpeg在编码期间读取keyinfo文件
	if data, err := os.ReadFile(job.KeyInfoPath); err == nil {
		f.keyInfoSeen = true
		f.keyInfoBody = string(data)
	}
	f.mu.Unlock()

	if job.Profile.Name == f.failOn {
		return errors.New("exit status 1")
	}

	playlist := filepath.Join(job.OutputDir, job.Profile.PlaylistName())
	if err := os.WriteFile(playlist, []byte("#EXTM3U\n#EXT-X-ENDLIST\n"), 0o644); err != nil {
		return err
	}
	segment := filepath.Join(job.OutputDir, job.Profile.Name, "000.ts")
	return os.WriteFile(segment, []byte("segment"), 0o644)
}

// recordingSink 记录状态序列
type recordingSink struct {
	mu     sync.Mutex
	states []vo.PipelineState
}

func (s *recordingSink) SaveState(ctx context.Context, videoUUID string, state vo.PipelineState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, state)
	return nil
}

func (s *recordingSink) has(state vo.PipelineState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.states {
		if st == state {
			return true
		}
	}
	return false
}

func pipelineConfig(t *testing.T, workers int) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.HLSDir = t.TempDir()
	cfg.Public.BaseURL = "http://localhost:8000"
	cfg.Transcode.FFmpeg.MaxConcurrentTasks = workers
	cfg.Transcode.Ladder = []config.LadderProfile{
		{Name: "360p", Resolution: "640x360", VideoBitrate: "800k", AudioBitrate: "128k"},
		{Name: "720p", Resolution: "1280x720", VideoBitrate: "2800k", AudioBitrate: "128k"},
	}
	return cfg
}

func testVideo(t *testing.T, videoUUID string) *entity.VideoEntity {
	t.Helper()
	now := time.Now()
	return entity.NewVideoEntityWithDetails(
		1, videoUUID, "test", "test video", "input.mp4", "video/mp4",
		"00112233445566778899aabbccddeeff",
		"ffeeddccbbaa99887766554433221100",
		vo.VideoStatusProcessing, "", now, now,
	)
}

func TestPipelineSuccess(t *testing.T) {
	cfg := pipelineConfig(t, 1)
	enc := &fakeEncoder{}
	sink := &recordingSink{}
	p := NewHLSPipeline(cfg, enc, sink)

	got, err := p.Process(context.Background(), testVideo(t, "abc123"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	outDir := filepath.Join(cfg.Storage.HLSDir, "abc123")
	assert.FileExists(t, filepath.Join(outDir, "360p.m3u8"))
	assert.FileExists(t, filepath.Join(outDir, "720p.m3u8"))
	assert.FileExists(t, filepath.Join(outDir, "master.m3u8"))

	// 瞬态密钥文件不可残留
	assert.NoFileExists(t, filepath.Join(outDir, "enc.key"))
	assert.NoFileExists(t, filepath.Join(outDir, "enc.keyinfo"))

	master, err := os.ReadFile(filepath.Join(outDir, "master.m3u8"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(master), "#EXT-X-STREAM-INF:"))
	assert.Less(t, strings.Index(string(master), "360p.m3u8"), strings.Index(string(master), "720p.m3u8"))

	// 编码期间keyinfo必须在位且为三行格式
	assert.True(t, enc.keyInfoSeen)
	lines := strings.Split(strings.TrimSuffix(enc.keyInfoBody, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "http://localhost:8000/api/v1/videos/key/abc123", lines[0])
	assert.Equal(t, filepath.Join(cfg.Storage.HLSDir, "abc123", "enc.key"), lines[1])
	assert.Equal(t, "ffeeddccbbaa99887766554433221100", lines[2])

	assert.True(t, sink.has(vo.PipelineTransientCleaned))
	assert.True(t, sink.has(vo.PipelineDone))
	assert.False(t, sink.has(vo.PipelineFailed))
}

func TestPipelineFailureOnSecondVariant(t *testing.T) {
	cfg := pipelineConfig(t, 1)
	enc := &fakeEncoder{failOn: "720p"}
	sink := &recordingSink{}
	p := NewHLSPipeline(cfg, enc, sink)

	_, err := p.Process(context.Background(), testVideo(t, "abc123"))
	require.Error(t, err)

	outDir := filepath.Join(cfg.Storage.HLSDir, "abc123")
	// 失败路径同样不允许残留密钥，也不得产出master清单
	assert.NoFileExists(t, filepath.Join(outDir, "enc.key"))
	assert.NoFileExists(t, filepath.Join(outDir, "enc.keyinfo"))
	assert.NoFileExists(t, filepath.Join(outDir, "master.m3u8"))

	assert.True(t, sink.has(vo.PipelineFailed))
	assert.True(t, sink.has(vo.PipelineTransientCleaned))
	assert.False(t, sink.has(vo.PipelineDone))
}

func TestPipelineSequentialOrder(t *testing.T) {
	cfg := pipelineConfig(t, 1)
	enc := &fakeEncoder{}
	p := NewHLSPipeline(cfg, enc, nil)

	_, err := p.Process(context.Background(), testVideo(t, "vid-seq"))
	require.NoError(t, err)
	assert.Equal(t, []string{"360p", "720p"}, enc.calls)
}

func TestPipelineConcurrentKeepsManifestOrder(t *testing.T) {
	cfg := pipelineConfig(t, 2)
	// 让第一档最后完成，清单顺序仍按梯子声明
	enc := &fakeEncoder{delay: map[string]time.Duration{"360p": 50 * time.Millisecond}}
	p := NewHLSPipeline(cfg, enc, nil)

	_, err := p.Process(context.Background(), testVideo(t, "vid-conc"))
	require.NoError(t, err)

	master, err := os.ReadFile(filepath.Join(cfg.Storage.HLSDir, "vid-conc", "master.m3u8"))
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(master), "360p.m3u8"), strings.Index(string(master), "720p.m3u8"))
}

func TestPipelineConcurrentFailureCancelsRest(t *testing.T) {
	cfg := pipelineConfig(t, 2)
	enc := &fakeEncoder{
		failOn: "360p",
		delay:  map[string]time.Duration{"720p": 200 * time.Millisecond},
	}
	p := NewHLSPipeline(cfg, enc, nil)

	start := time.Now()
	_, err := p.Process(context.Background(), testVideo(t, "vid-cancel"))
	require.Error(t, err)
	// 720p应被取消，不会等满200ms之外还继续跑
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.NoFileExists(t, filepath.Join(cfg.Storage.HLSDir, "vid-cancel", "master.m3u8"))
}

func TestPipelineInvalidLadder(t *testing.T) {
	cfg := pipelineConfig(t, 1)
	cfg.Transcode.Ladder = []config.LadderProfile{{Name: "", Resolution: "x", VideoBitrate: "a", AudioBitrate: "b"}}
	p := NewHLSPipeline(cfg, &fakeEncoder{}, nil)

	_, err := p.Process(context.Background(), testVideo(t, fmt.Sprintf("vid-%d", time.Now().UnixNano())))
	assert.Error(t, err)
}
