package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfig 返回只包含默认值的运行配置
func DefaultConfig() *Config {
	cfg, err := ReadConfig("")
	if err != nil {
		// 不读文件时只可能是默认值解码失败
		panic(err)
	}
	return cfg
}

// Save 按扩展名(.json/.yaml/.yml)写出配置，目录不存在时自动创建
func Save(v interface{}, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	var (
		b   []byte
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err = yaml.Marshal(v)
	case ".json":
		b, err = json.MarshalIndent(v, "", "  ")
	default:
		return fmt.Errorf("不支持的配置文件格式: %s", path)
	}
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("写入配置失败: %w", err)
	}
	return nil
}
