package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"

	"hls-vod-service/ddd/domain/port"
	"hls-vod-service/pkg/logger"
)

const stderrTailLines = 50

// execRunner 基于os/exec的ProcessRunner实现。阻塞等待子进程退出，
// ctx取消时杀死子进程。保留stderr尾部用于失败诊断。
type execRunner struct{}

// NewExecRunner 创建真实的外部进程运行器。
func NewExecRunner() port.ProcessRunner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args []string, workDir string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}

	type result struct {
		err  error
		tail []string
	}
	done := make(chan result, 1)
	go func() {
		// Wait关闭stderr管道，必须先读完尾部再Wait
		tail := captureTail(stderr)
		done <- result{err: cmd.Wait(), tail: tail}
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-done
		return ctx.Err()
	case res := <-done:
		if res.err != nil && len(res.tail) > 0 {
			for _, line := range res.tail {
				logger.Errorf("%s stderr: %s", name, line)
			}
		}
		return res.err
	}
}

func captureTail(r io.Reader) []string {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	buf := make([]string, 0, stderrTailLines)
	for scanner.Scan() {
		if len(buf) >= stderrTailLines {
			buf = buf[1:]
		}
		buf = append(buf, scanner.Text())
	}
	return buf
}
