package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config 服务进程的配置
type Config struct {
	Server struct {
		Addr  string `koanf:"addr"`
		Debug bool   `koanf:"debug"`
	} `koanf:"server"`
	Feed struct {
		Endpoint string        `koanf:"endpoint"` // 信息流服务地址，空值表示离线模式
		TTL      time.Duration `koanf:"ttl"`      // 每日目录的缓存时长
	} `koanf:"feed"`
	Paths struct {
		Users     string `koanf:"users"`     // 用户注册表 (yaml)
		Interests string `koanf:"interests"` // 本地默认兴趣表 (yaml)，可为空
		Data      string `koanf:"data"`      // BadgerDB 数据目录
		Events    string `koanf:"events"`    // 遥测事件文件 (jsonl)，可为空
	} `koanf:"paths"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Server.Debug = false
	cfg.Feed.Endpoint = ""
	cfg.Feed.TTL = time.Hour
	cfg.Paths.Users = "configs/users.yaml"
	cfg.Paths.Interests = "configs/interests.yaml"
	cfg.Paths.Data = "data/weights"
	cfg.Paths.Events = "data/events.jsonl"
	return cfg
}

// LoadConfig 按 默认值 < 配置文件 < 环境变量 的优先级加载配置
// 配置文件不存在时不报错，直接使用默认值；
// 环境变量使用 LOOKBOOK_ 前缀，如 LOOKBOOK_SERVER_ADDR。
func LoadConfig(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	envProvider := env.Provider("LOOKBOOK_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "LOOKBOOK_")), "_", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}
