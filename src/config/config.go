package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 SOCIALINSIGHTS_SERVER_ADDR
const EnvPrefix = "SOCIALINSIGHTS"

// DefaultSourceURL 原始数据集地址
const DefaultSourceURL = "https://linked.aub.edu.lb/pkgcube/data/b49644dfb203975571146f1ff8d4fee1_20240907_152325.csv"

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Server struct {
		Addr           string        `mapstructure:"addr" json:"addr" yaml:"addr"`                                  // 监听地址
		ReadTimeout    time.Duration `mapstructure:"read_timeout" json:"read_timeout" yaml:"read_timeout"`          // 读超时
		WriteTimeout   time.Duration `mapstructure:"write_timeout" json:"write_timeout" yaml:"write_timeout"`       // 写超时
		AllowedOrigins []string      `mapstructure:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins"` // CORS 允许的来源
		SessionTTL     time.Duration `mapstructure:"session_ttl" json:"session_ttl" yaml:"session_ttl"`             // 控件状态保留时间
	} `mapstructure:"server" json:"server" yaml:"server"`

	Source struct {
		Kind        string        `mapstructure:"kind" json:"kind" yaml:"kind"`                         // url | file | mail
		Location    string        `mapstructure:"location" json:"location" yaml:"location"`             // URL 或本地路径
		Encoding    string        `mapstructure:"encoding" json:"encoding" yaml:"encoding"`             // 源文件字符集
		SheetName   string        `mapstructure:"sheet_name" json:"sheet_name" yaml:"sheet_name"`       // xlsx 工作表名
		HTTPTimeout time.Duration `mapstructure:"http_timeout" json:"http_timeout" yaml:"http_timeout"` // 下载超时
	} `mapstructure:"source" json:"source" yaml:"source"`

	Email struct {
		Server        string `mapstructure:"server" json:"server" yaml:"server"`                         // IMAP服务器地址
		Username      string `mapstructure:"username" json:"username" yaml:"username"`                   // 邮箱用户名
		Password      string `mapstructure:"password" json:"password" yaml:"password"`                   // 邮箱密码
		TargetSubject string `mapstructure:"target_subject" json:"target_subject" yaml:"target_subject"` // 需要匹配的邮件主题
	} `mapstructure:"email" json:"email" yaml:"email"`

	SendEmail struct {
		Server   string   `mapstructure:"server" json:"server" yaml:"server"`       // SMTP服务器地址
		Username string   `mapstructure:"username" json:"username" yaml:"username"` // 发件人
		Password string   `mapstructure:"password" json:"password" yaml:"password"` // 密码/授权码
		Subject  string   `mapstructure:"subject" json:"subject" yaml:"subject"`    // 快照邮件主题
		To       []string `mapstructure:"to" json:"to" yaml:"to"`                   // 收件人
	} `mapstructure:"send_email" json:"send_email" yaml:"send_email"`

	Snapshot struct {
		Enabled    bool          `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
		Interval   time.Duration `mapstructure:"interval" json:"interval" yaml:"interval"`
		Dir        string        `mapstructure:"dir" json:"dir" yaml:"dir"`
		WebhookURL string        `mapstructure:"webhook_url" json:"webhook_url" yaml:"webhook_url"`
		Mail       bool          `mapstructure:"mail" json:"mail" yaml:"mail"`
	} `mapstructure:"snapshot" json:"snapshot" yaml:"snapshot"`

	LogName    string `mapstructure:"log_name" json:"log_name" yaml:"log_name"`
	LogMaxSize string `mapstructure:"log_max_size" json:"log_max_size" yaml:"log_max_size"`
	PidFile    string `mapstructure:"pid_file" json:"pid_file" yaml:"pid_file"`
}

// mu 保护可热加载的 DataConfig
var mu sync.RWMutex

// LoadConfig 并发加载运行配置和数据配置，文件缺失时使用默认值
func LoadConfig(folder, file, dataFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(folder, file)
	dataConfigFile := filepath.Join(folder, dataFile)

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go func() {
		cfg, err := ReadConfig(configFile)
		if err != nil {
			errChan <- err
			return
		}
		cfgChan <- cfg
	}()
	go func() {
		dcfg, err := ReadDataConfig(dataConfigFile)
		if err != nil {
			errChan <- err
			return
		}
		dcfgChan <- dcfg
	}()

	return waitForResults(cfgChan, dcfgChan, errChan)
}

// ReadConfig 读取运行配置。文件不存在时使用默认值，环境变量优先级最高。
func ReadConfig(path string) (*Config, error) {
	v := newViper()
	setConfigDefaults(v)
	if err := readOptional(v, path); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析Config失败: %w", err)
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func readOptional(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("无法读取文件 %s: %w", path, err)
	}
	return nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8501")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.session_ttl", 30*time.Minute)

	v.SetDefault("source.kind", "url")
	v.SetDefault("source.location", DefaultSourceURL)
	v.SetDefault("source.encoding", "utf-8")
	v.SetDefault("source.sheet_name", "")
	v.SetDefault("source.http_timeout", 30*time.Second)

	v.SetDefault("email.server", "")
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.target_subject", "")

	v.SetDefault("send_email.server", "")
	v.SetDefault("send_email.username", "")
	v.SetDefault("send_email.password", "")
	v.SetDefault("send_email.subject", "Social Data Insights snapshot")
	v.SetDefault("send_email.to", []string{})

	v.SetDefault("snapshot.enabled", false)
	v.SetDefault("snapshot.interval", time.Hour)
	v.SetDefault("snapshot.dir", "snapshots")
	v.SetDefault("snapshot.webhook_url", "")
	v.SetDefault("snapshot.mail", false)

	v.SetDefault("log_name", "socialinsights.log")
	v.SetDefault("log_max_size", "10 * 1024 * 1024")
	v.SetDefault("pid_file", "socialinsights.pid")
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg  *Config
		dcfg *DataConfig
		errs []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return errors.New(msg)
}
