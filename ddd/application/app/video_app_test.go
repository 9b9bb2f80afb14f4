package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hls-vod-service/ddd/application/cqe"
	"hls-vod-service/ddd/domain/entity"
	"hls-vod-service/ddd/domain/gateway"
	"hls-vod-service/ddd/domain/vo"
	"hls-vod-service/pkg/config"
	"hls-vod-service/pkg/errno"
)

type memVideoRepo struct {
	videos map[string]*entity.VideoEntity
}

func newMemVideoRepo() *memVideoRepo {
	return &memVideoRepo{videos: map[string]*entity.VideoEntity{}}
}

func (r *memVideoRepo) Create(ctx context.Context, video *entity.VideoEntity) error {
	r.videos[video.VideoUUID()] = video
	return nil
}

func (r *memVideoRepo) FindByUUID(ctx context.Context, videoUUID string) (*entity.VideoEntity, error) {
	v, ok := r.videos[videoUUID]
	if !ok {
		return nil, errno.ErrVideoNotFound
	}
	return v, nil
}

func (r *memVideoRepo) ListAll(ctx context.Context) ([]*entity.VideoEntity, error) {
	out := make([]*entity.VideoEntity, 0, len(r.videos))
	for _, v := range r.videos {
		out = append(out, v)
	}
	return out, nil
}

func (r *memVideoRepo) UpdateStatus(ctx context.Context, videoUUID string, status vo.VideoStatus) error {
	v, ok := r.videos[videoUUID]
	if !ok {
		return errno.ErrVideoNotFound
	}
	v.SetStatus(status)
	return nil
}

func (r *memVideoRepo) UpdateError(ctx context.Context, videoUUID string, errorMessage string) error {
	v, ok := r.videos[videoUUID]
	if !ok {
		return errno.ErrVideoNotFound
	}
	v.SetError(errorMessage)
	return nil
}

type memUploadStorage struct {
	dir   string
	saved []string
}

func (s *memUploadStorage) SaveUpload(ctx context.Context, r io.Reader, originalName string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, originalName)
	s.saved = append(s.saved, path)
	return path, nil
}

type fakePipeline struct {
	err    error
	called int
}

func (p *fakePipeline) Process(ctx context.Context, video *entity.VideoEntity) (string, error) {
	p.called++
	if p.err != nil {
		return "", p.err
	}
	return video.VideoUUID(), nil
}

type captureEvents struct {
	events []gateway.VideoEvent
}

func (c *captureEvents) PublishVideoEvent(ctx context.Context, event gateway.VideoEvent) error {
	c.events = append(c.events, event)
	return nil
}

func appConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.HLSDir = t.TempDir()
	cfg.Public.BaseURL = "http://localhost:8000"
	return cfg
}

func uploadCmd() *cqe.UploadVideoCmd {
	return &cqe.UploadVideoCmd{
		Title:        "demo",
		Description:  "demo video",
		OriginalName: "demo.mp4",
		ContentType:  "video/mp4",
		File:         strings.NewReader("fake mp4 bytes"),
	}
}

func TestUploadSuccess(t *testing.T) {
	cfg := appConfig(t)
	repo := newMemVideoRepo()
	uploads := &memUploadStorage{dir: t.TempDir()}
	pipeline := &fakePipeline{}
	events := &captureEvents{}
	videoApp := NewVideoApp(cfg, repo, uploads, pipeline, events, nil)

	got, err := videoApp.Upload(context.Background(), uploadCmd())
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "completed", got.Status)
	assert.Equal(t,
		"http://localhost:8000/api/v1/videos/"+got.VideoUUID+"/master.m3u8",
		got.MasterURL)
	assert.Equal(t, 1, pipeline.called)
	assert.Len(t, uploads.saved, 1)

	require.Len(t, events.events, 1)
	assert.Equal(t, "video.processed", events.events[0].Type)
	assert.Equal(t, got.VideoUUID, events.events[0].VideoUUID)

	// 密钥材料在建档时生成
	stored, err := repo.FindByUUID(context.Background(), got.VideoUUID)
	require.NoError(t, err)
	key, err := stored.KeyBytes()
	require.NoError(t, err)
	assert.Len(t, key, 16)
	assert.Len(t, stored.IVHex(), 32)
}

func TestUploadPipelineFailure(t *testing.T) {
	cfg := appConfig(t)
	repo := newMemVideoRepo()
	uploads := &memUploadStorage{dir: t.TempDir()}
	pipeline := &fakePipeline{err: errors.New("ffmpeg variant 720p: exit status 1")}
	events := &captureEvents{}
	videoApp := NewVideoApp(cfg, repo, uploads, pipeline, events, nil)

	_, err := videoApp.Upload(context.Background(), uploadCmd())
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.ErrTranscodeFailed)

	require.Len(t, events.events, 1)
	assert.Equal(t, "video.failed", events.events[0].Type)
	assert.Contains(t, events.events[0].Error, "exit status 1")

	// 失败记录落库并带错误信息
	videos, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, vo.VideoStatusFailed, videos[0].Status())
	assert.Contains(t, videos[0].ErrorMessage(), "exit status 1")
}

func TestUploadValidation(t *testing.T) {
	cfg := appConfig(t)
	videoApp := NewVideoApp(cfg, newMemVideoRepo(), &memUploadStorage{dir: t.TempDir()}, &fakePipeline{}, nil, nil)

	cmd := uploadCmd()
	cmd.Title = " "
	_, err := videoApp.Upload(context.Background(), cmd)
	assert.ErrorIs(t, err, errno.ErrMissingParam)

	cmd = uploadCmd()
	cmd.File = nil
	_, err = videoApp.Upload(context.Background(), cmd)
	assert.ErrorIs(t, err, errno.ErrMissingParam)
}

func TestDeliverKeyRoundTrip(t *testing.T) {
	cfg := appConfig(t)
	repo := newMemVideoRepo()
	videoApp := NewVideoApp(cfg, repo, &memUploadStorage{dir: t.TempDir()}, &fakePipeline{}, nil, nil)

	got, err := videoApp.Upload(context.Background(), uploadCmd())
	require.NoError(t, err)

	key, err := videoApp.DeliverKey(context.Background(), got.VideoUUID)
	require.NoError(t, err)
	assert.Len(t, key, 16)

	stored, err := repo.FindByUUID(context.Background(), got.VideoUUID)
	require.NoError(t, err)
	expected, err := stored.KeyBytes()
	require.NoError(t, err)
	assert.Equal(t, expected, key)
}

func TestDeliverKeyNotFound(t *testing.T) {
	cfg := appConfig(t)
	videoApp := NewVideoApp(cfg, newMemVideoRepo(), &memUploadStorage{dir: t.TempDir()}, &fakePipeline{}, nil, nil)

	_, err := videoApp.DeliverKey(context.Background(), "missing")
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
}

func TestGetAndList(t *testing.T) {
	cfg := appConfig(t)
	repo := newMemVideoRepo()
	videoApp := NewVideoApp(cfg, repo, &memUploadStorage{dir: t.TempDir()}, &fakePipeline{}, nil, nil)

	uploaded, err := videoApp.Upload(context.Background(), uploadCmd())
	require.NoError(t, err)

	got, err := videoApp.Get(context.Background(), uploaded.VideoUUID)
	require.NoError(t, err)
	assert.Equal(t, "demo", got.Title)
	assert.Empty(t, got.ErrorMessage)

	list, err := videoApp.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = videoApp.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
}
