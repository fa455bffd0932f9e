package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// WritePid 记录当前进程号，供外部发送 SIGHUP
func WritePid(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}

// ReadPid 读取 pid 文件
func ReadPid(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("读取pid文件失败: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("pid文件内容无效: %q", b)
	}
	return pid, nil
}

// SignalReload 向 pid 文件中的进程发送 SIGHUP(重新打开日志并重载数据配置)
func SignalReload(pidFile string) (int, error) {
	pid, err := ReadPid(pidFile)
	if err != nil {
		return 0, err
	}
	if err := syscall.Kill(pid, syscall.SIGHUP); err != nil {
		return pid, fmt.Errorf("发送SIGHUP失败: %w", err)
	}
	return pid, nil
}
