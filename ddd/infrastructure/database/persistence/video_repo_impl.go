package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hls-vod-service/ddd/domain/entity"
	"hls-vod-service/ddd/domain/repo"
	"hls-vod-service/ddd/domain/vo"
	"hls-vod-service/ddd/infrastructure/database/convertor"
	"hls-vod-service/ddd/infrastructure/database/dao"
	"hls-vod-service/pkg/errno"
)

type videoRepositoryImpl struct {
	dao *dao.VideoDAO
	cvt *convertor.VideoConvertor
}

func NewVideoRepository() repo.VideoRepository {
	return &videoRepositoryImpl{dao: dao.NewVideoDAO(), cvt: convertor.NewVideoConvertor()}
}

// NewVideoRepositoryWithDB 测试用
func NewVideoRepositoryWithDB(db *gorm.DB) repo.VideoRepository {
	return &videoRepositoryImpl{dao: dao.NewVideoDAOWithDB(db), cvt: convertor.NewVideoConvertor()}
}

func (r *videoRepositoryImpl) Create(ctx context.Context, video *entity.VideoEntity) error {
	return r.dao.Create(ctx, r.cvt.ToPO(video))
}

func (r *videoRepositoryImpl) FindByUUID(ctx context.Context, videoUUID string) (*entity.VideoEntity, error) {
	videoPo, err := r.dao.FindByVideoUUID(ctx, videoUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrVideoNotFound
		}
		return nil, err
	}
	return r.cvt.ToEntity(videoPo), nil
}

func (r *videoRepositoryImpl) ListAll(ctx context.Context) ([]*entity.VideoEntity, error) {
	pos, err := r.dao.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.VideoEntity, 0, len(pos))
	for _, p := range pos {
		entities = append(entities, r.cvt.ToEntity(p))
	}
	return entities, nil
}

func (r *videoRepositoryImpl) UpdateStatus(ctx context.Context, videoUUID string, status vo.VideoStatus) error {
	return r.dao.UpdateStatus(ctx, videoUUID, status.String())
}

func (r *videoRepositoryImpl) UpdateError(ctx context.Context, videoUUID string, errorMessage string) error {
	return r.dao.UpdateError(ctx, videoUUID, errorMessage)
}
