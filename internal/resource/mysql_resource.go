package resource

import (
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"hls-vod-service/ddd/infrastructure/database/po"
	"hls-vod-service/pkg/config"
)

var (
	mysqlResourceOnce sync.Once
	mysqlSingleton    *MysqlResource
)

// MysqlResource 管理共享的gorm连接。
type MysqlResource struct {
	db *gorm.DB
}

// DefaultMysqlResource 获取MySQL资源单例
func DefaultMysqlResource() *MysqlResource {
	mysqlResourceOnce.Do(func() {
		mysqlSingleton = &MysqlResource{}
	})
	return mysqlSingleton
}

// MustOpen 建立数据库连接并迁移表结构，失败直接panic。
func (r *MysqlResource) MustOpen() {
	if r.db != nil {
		return
	}

	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before MysqlResource")
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		panic("failed to connect mysql: " + err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic("failed to access sql.DB: " + err.Error())
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := db.AutoMigrate(&po.Video{}); err != nil {
		panic("failed to migrate videos table: " + err.Error())
	}

	r.db = db
}

// Close 关闭底层连接池
func (r *MysqlResource) Close() {
	if r.db == nil {
		return
	}
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// MainDB 暴露gorm连接
func (r *MysqlResource) MainDB() *gorm.DB {
	return r.db
}
