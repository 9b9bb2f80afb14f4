package observability

import (
	"os"

	"github.com/grafana/pyroscope-go"

	"hls-vod-service/pkg/config"
)

// StartProfiling 接入pyroscope持续剖析，未启用时为空操作。
func StartProfiling(appName string, cfg *config.Config) {
	if cfg == nil || !cfg.Profiling.Enabled {
		return
	}
	addr := cfg.Profiling.ServerAddress
	if addr == "" {
		addr = os.Getenv("PYROSCOPE_SERVER_ADDRESS")
	}
	if addr == "" {
		return
	}
	_, _ = pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   addr,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
}
