// monitor.go
package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileMonitor 监听目录中指定文件的变化(用于配置热加载)
type FileMonitor struct {
	watchDir string
	targets  map[string]bool
	watcher  *fsnotify.Watcher
	lastMod  map[string]time.Time
	mu       sync.Mutex
}

// NewFileMonitor 监听 dir 目录，names 为空时目录内任何文件变化都会触发
func NewFileMonitor(dir string, names ...string) (*FileMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	targets := make(map[string]bool, len(names))
	for _, n := range names {
		targets[filepath.Base(n)] = true
	}

	return &FileMonitor{
		watchDir: dir,
		targets:  targets,
		watcher:  watcher,
		lastMod:  make(map[string]time.Time),
	}, nil
}

// Watch 阻塞直到 ctx 结束或监听出错；文件被写入或替换且修改时间更新时调用 handler
func (m *FileMonitor) Watch(ctx context.Context, handler func(string)) error {
	defer m.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if len(m.targets) > 0 && !m.targets[filepath.Base(event.Name)] {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}

			m.mu.Lock()
			changed := info.ModTime().After(m.lastMod[event.Name])
			if changed {
				m.lastMod[event.Name] = info.ModTime()
			}
			m.mu.Unlock()

			if changed {
				handler(event.Name)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
