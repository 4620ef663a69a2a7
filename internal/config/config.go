package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Log           LogConfig           `mapstructure:"log"`
	Storage       StorageConfig       `mapstructure:"storage"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Queue         QueueConfig         `mapstructure:"queue"`
	Analytics     AnalyticsConfig     `mapstructure:"analytics"`
	Mail          MailConfig          `mapstructure:"mail"`
	Captcha       CaptchaConfig       `mapstructure:"captcha"`
	Cron          CronConfig          `mapstructure:"cron"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string     `mapstructure:"name"`
	Mode    string     `mapstructure:"mode"`
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 跨域配置
type CorsConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey            string `mapstructure:"secret_key"`
	AccessExpireSeconds  int    `mapstructure:"access_expire_seconds"`
	RefreshExpireSeconds int    `mapstructure:"refresh_expire_seconds"`
	Issuer               string `mapstructure:"issuer"`
}

// AccessExpire 访问令牌有效期
func (c *JWTConfig) AccessExpire() time.Duration {
	return time.Duration(c.AccessExpireSeconds) * time.Second
}

// RefreshExpire 刷新令牌有效期
func (c *JWTConfig) RefreshExpire() time.Duration {
	return time.Duration(c.RefreshExpireSeconds) * time.Second
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql postgres sqlite
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	Charset      string `mapstructure:"charset"`
	SSLMode      string `mapstructure:"sslmode"`
	Path         string `mapstructure:"path"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogLevel     string `mapstructure:"log_level"`
}

// DSN 获取数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=Asia/Tokyo",
			c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
	case "sqlite":
		return c.Path
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
	}
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// Addr 获取Redis地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	URLs     []string `mapstructure:"urls"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	Index    string   `mapstructure:"index"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type         string       `mapstructure:"type"` // local cos minio
	Local        LocalStorage `mapstructure:"local"`
	COS          COSStorage   `mapstructure:"cos"`
	Minio        MinioStorage `mapstructure:"minio"`
	MaxFileSize  int64        `mapstructure:"max_file_size"`
	AllowedTypes []string     `mapstructure:"allowed_types"`
}

// LocalStorage 本地存储配置
type LocalStorage struct {
	Path      string `mapstructure:"path"`
	URLPrefix string `mapstructure:"url_prefix"`
}

// COSStorage 腾讯云COS存储配置
type COSStorage struct {
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	BucketURL string `mapstructure:"bucket_url"`
	URLPrefix string `mapstructure:"url_prefix"`
}

// MinioStorage MinIO/S3存储配置
type MinioStorage struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	URLPrefix string `mapstructure:"url_prefix"`
}

// QueueConfig 后台任务队列配置
type QueueConfig struct {
	Stream            string `mapstructure:"stream"`
	Group             string `mapstructure:"group"`
	Consumer          string `mapstructure:"consumer"`
	Concurrency       int    `mapstructure:"concurrency"`
	MaxRetries        int    `mapstructure:"max_retries"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds"`
	NodeID            int64  `mapstructure:"node_id"`
}

// AnalyticsConfig Umami统计配置
type AnalyticsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BaseURL        string `mapstructure:"base_url"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	Domain         string `mapstructure:"domain"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// MailConfig 邮件配置
type MailConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	From            string `mapstructure:"from"`
	OperatorAddress string `mapstructure:"operator_address"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

// CaptchaConfig 验证码配置
type CaptchaConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Height  int  `mapstructure:"height"`
	Width   int  `mapstructure:"width"`
	Length  int  `mapstructure:"length"`
}

// CronConfig 定时任务配置
type CronConfig struct {
	StatsSpec string `mapstructure:"stats_spec"`
	Timezone  string `mapstructure:"timezone"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
	// 配置Viper实例
	viperInstance *viper.Viper
)

// Init 初始化配置
func Init(configPath string) error {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件失败: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return fmt.Errorf("解析配置文件失败: %v", err)
	}

	GlobalConfig = &config
	viperInstance = v
	return nil
}

// Watch 监听配置文件变化，onChange 收到重新解析后的配置
func Watch(onChange func(*Config)) {
	if viperInstance == nil {
		return
	}
	viperInstance.OnConfigChange(func(in fsnotify.Event) {
		var config Config
		if err := viperInstance.Unmarshal(&config); err != nil {
			return
		}
		GlobalConfig = &config
		if onChange != nil {
			onChange(&config)
		}
	})
	viperInstance.WatchConfig()
}

// Default 返回只包含默认值的配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "dual-pascal")
	v.SetDefault("app.mode", "debug")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.base_url", "http://localhost:8080")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "./data/blog.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("elasticsearch.index", "articles")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.max_backups", 10)
	v.SetDefault("log.stdout", true)

	v.SetDefault("jwt.access_expire_seconds", 7200)
	v.SetDefault("jwt.refresh_expire_seconds", 604800)
	v.SetDefault("jwt.issuer", "dual-pascal")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local.path", "./uploads")
	v.SetDefault("storage.local.url_prefix", "/uploads")
	v.SetDefault("storage.max_file_size", 10<<20)
	v.SetDefault("storage.allowed_types", []string{"image/jpeg", "image/png", "image/gif"})

	v.SetDefault("queue.stream", "blog:tasks")
	v.SetDefault("queue.group", "blog-workers")
	v.SetDefault("queue.concurrency", 2)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.retry_delay_seconds", 2)
	v.SetDefault("queue.node_id", 1)

	v.SetDefault("analytics.timeout_seconds", 10)

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.timeout_seconds", 15)

	v.SetDefault("captcha.enabled", true)
	v.SetDefault("captcha.height", 80)
	v.SetDefault("captcha.width", 240)
	v.SetDefault("captcha.length", 4)

	v.SetDefault("cron.stats_spec", "0 */10 * * * *")
	v.SetDefault("cron.timezone", "Asia/Tokyo")
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return GlobalConfig
}
