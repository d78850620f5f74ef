// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找；敏感信息可通过 .env / 环境变量覆盖
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
	"github.com/joho/godotenv"   // .env 文件加载
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName  string `toml:"appName"`  // 应用名称，用于日志标识等
	Host     string `toml:"host"`     // 服务器监听地址，如 "0.0.0.0"
	Port     int    `toml:"port"`     // 服务器监听端口，如 8000
	Mode     string `toml:"mode"`     // 运行模式：dev / release
	ForceTLS bool   `toml:"forceTLS"` // 是否将 HTTP 请求重定向到 HTTPS
	Locale   string `toml:"locale"`   // 参数校验提示语言：en / zh
}

// DatabaseConfig 数据库连接配置
// Driver 取值 postgres（默认，托管 Postgres）、mysql、sqlite
type DatabaseConfig struct {
	Driver        string `toml:"driver"`
	DSN           string `toml:"dsn"` // 直接指定 DSN 时忽略下面的分项配置
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	DatabaseName  string `toml:"databaseName"`
	SSLMode       string `toml:"sslMode"`       // 仅 postgres
	Path          string `toml:"path"`          // 仅 sqlite
	AutoMigrate   bool   `toml:"autoMigrate"`   // 启动时是否执行 AutoMigrate
	SlowThreshold int    `toml:"slowThreshold"` // 慢查询阈值（毫秒）
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host      string `toml:"host"`      // Redis 服务器地址
	Port      int    `toml:"port"`      // Redis 端口，默认 6379
	Password  string `toml:"password"`  // Redis 密码，无密码留空
	Db        int    `toml:"db"`        // Redis 数据库编号，默认 0
	Workers   int    `toml:"workers"`   // 异步缓存任务 worker 数
	TaskQueue int    `toml:"taskQueue"` // 异步缓存任务队列长度
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 审核事件流配置
type KafkaConfig struct {
	MessageMode     string        `toml:"messageMode"`     // 事件模式："channel" 或 "kafka"
	HostPort        string        `toml:"hostPort"`        // Kafka 服务器地址，如 "localhost:9092"
	ModerationTopic string        `toml:"moderationTopic"` // 审核事件主题
	ConsumerGroup   string        `toml:"consumerGroup"`   // 消费者组
	InstanceId      string        `toml:"instanceId"`      // 实例标识，拼接到消费者组名后；为空时使用主机名
	Timeout         time.Duration `toml:"timeout"`         // 超时时间（秒）
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`             // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// AdminConfig 管理员引导配置
type AdminConfig struct {
	BootstrapEmails []string `toml:"bootstrapEmails"` // 使用这些邮箱注册的账号直接成为管理员
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig     `toml:"mainConfig"`
	DatabaseConfig `toml:"databaseConfig"`
	RedisConfig    `toml:"redisConfig"`
	LogConfig      `toml:"logConfig"`
	KafkaConfig    `toml:"kafkaConfig"`
	JWTConfig      `toml:"jwtConfig"`
	AdminConfig    `toml:"adminConfig"`
}

// DefaultPaths 候选配置文件路径（优先加载本地配置）
var DefaultPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

// config 全局配置单例，延迟加载
var config *Config

// Load 依次尝试加载候选配置文件，找到第一个可用的即停止
// 加载完成后应用默认值和环境变量覆盖
func Load(paths ...string) (*Config, error) {
	conf := new(Config)
	loaded := false
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, conf); err == nil {
			loaded = true
			break
		}
	}
	// .env 不存在时直接使用系统环境变量
	_ = godotenv.Load()
	applyEnv(conf)
	applyDefaults(conf)
	if !loaded {
		return conf, fmt.Errorf("could not find configuration file in any of the search paths")
	}
	return conf, nil
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，找不到配置文件时使用默认值
func GetConfig() *Config {
	if config == nil {
		config, _ = Load(DefaultPaths...)
	}
	return config
}

// applyEnv 使用环境变量覆盖敏感配置
func applyEnv(conf *Config) {
	if v, ok := os.LookupEnv("DB_DSN"); ok {
		conf.DatabaseConfig.DSN = v
	}
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		conf.DatabaseConfig.Password = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		conf.RedisConfig.Password = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		conf.JWTConfig.Secret = v
	}
	if v, ok := os.LookupEnv("KAFKA_INSTANCE_ID"); ok {
		conf.KafkaConfig.InstanceId = v
	}
	if v, ok := os.LookupEnv("PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			conf.MainConfig.Port = port
		}
	}
}

func applyDefaults(conf *Config) {
	if conf.MainConfig.AppName == "" {
		conf.MainConfig.AppName = "community_server"
	}
	if conf.MainConfig.Host == "" {
		conf.MainConfig.Host = "0.0.0.0"
	}
	if conf.MainConfig.Port == 0 {
		conf.MainConfig.Port = 8000
	}
	if conf.MainConfig.Mode == "" {
		conf.MainConfig.Mode = "dev"
	}
	if conf.MainConfig.Locale == "" {
		conf.MainConfig.Locale = "en"
	}
	if conf.DatabaseConfig.Driver == "" {
		conf.DatabaseConfig.Driver = "postgres"
	}
	if conf.DatabaseConfig.SlowThreshold == 0 {
		conf.DatabaseConfig.SlowThreshold = 200
	}
	if conf.RedisConfig.Workers == 0 {
		conf.RedisConfig.Workers = 8
	}
	if conf.RedisConfig.TaskQueue == 0 {
		conf.RedisConfig.TaskQueue = 1000
	}
	if conf.KafkaConfig.MessageMode == "" {
		conf.KafkaConfig.MessageMode = "channel"
	}
	if conf.KafkaConfig.ModerationTopic == "" {
		conf.KafkaConfig.ModerationTopic = "moderation_event"
	}
	if conf.KafkaConfig.ConsumerGroup == "" {
		conf.KafkaConfig.ConsumerGroup = "moderation"
	}
	if conf.KafkaConfig.Timeout == 0 {
		conf.KafkaConfig.Timeout = 1
	}
	if conf.JWTConfig.AccessTokenExpiry == 0 {
		conf.JWTConfig.AccessTokenExpiry = 15
	}
	if conf.JWTConfig.RefreshTokenExpiry == 0 {
		conf.JWTConfig.RefreshTokenExpiry = 168
	}
}
