package port

import "context"

// ProcessRunner 以参数向量方式运行一个外部进程并等待其退出。
// 不经过shell，文件名和标题中的特殊字符不会被解释。
// 非零退出码以error返回。
type ProcessRunner interface {
	Run(ctx context.Context, name string, args []string, workDir string) error
}
