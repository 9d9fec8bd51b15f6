package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server            ServerConfig            `mapstructure:"server"`
	Log               LogConfig               `mapstructure:"log"`
	Database          DatabaseConfig          `mapstructure:"database"`
	JWT               JWTConfig               `mapstructure:"jwt"`
	Redis             RedisConfig             `mapstructure:"redis"`
	Queue             QueueConfig             `mapstructure:"queue"`
	CORS              CORSConfig              `mapstructure:"cors"`
	Security          SecurityConfig          `mapstructure:"security"`
	VoucherValidation VoucherValidationConfig `mapstructure:"voucher_validation"`
	Terminal          TerminalConfig          `mapstructure:"terminal"`
	Printer           PrinterConfig           `mapstructure:"printer"`
	Raffle            RaffleConfig            `mapstructure:"raffle"`
	Metrics           MetricsConfig           `mapstructure:"metrics"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Stdout:     c.Stdout,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
}

// LoginRateLimitConfig 登录限流配置
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// VoucherValidationConfig 远程票据校验配置
type VoucherValidationConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Action         string `mapstructure:"action"`
	Scheme         string `mapstructure:"scheme"`
	Path           string `mapstructure:"path"`
}

// Timeout 返回请求超时时间
func (c VoucherValidationConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TerminalConfig 终端本地配置
type TerminalConfig struct {
	ConfigFile         string `mapstructure:"config_file"`
	DefaultPrinterName string `mapstructure:"default_printer_name"`
	DefaultPrinterPort string `mapstructure:"default_printer_port"`
}

// PrinterConfig 打印输出配置
type PrinterConfig struct {
	Sink       string `mapstructure:"sink"` // log / file / command
	OutputDir  string `mapstructure:"output_dir"`
	Command    string `mapstructure:"command"`
	LineWidth  int    `mapstructure:"line_width"`
	PrintQR    bool   `mapstructure:"print_qr"`
	QRSizeDots int    `mapstructure:"qr_size_dots"`
}

// RaffleConfig 抽奖业务规则配置
type RaffleConfig struct {
	DailyEntryLimit int    `mapstructure:"daily_entry_limit"`
	CooldownMinutes int    `mapstructure:"cooldown_minutes"`
	RegisterCoupons int    `mapstructure:"register_coupons"`
	MinimumAge      int    `mapstructure:"minimum_age"`
	Timezone        string `mapstructure:"timezone"`
}

// Location 返回业务时区，解析失败回退本地时区
func (c RaffleConfig) Location() *time.Location {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warnw("config_timezone_invalid", "timezone", name, "error", err)
		return time.Local
	}
	return loc
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debugw("config_dotenv_skipped", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	setDefaults(viper.GetViper())

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // server.port -> SERVER_PORT
	bindLegacyEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "raffle.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.stdout", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/raffle.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expire_hours", 12)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "raffle")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.queues", map[string]int{
		"printing": 10,
		"default":  1,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Authorization",
		"X-Requested-With",
		"X-Request-ID",
		"X-Terminal-ID",
		"X-Room-ID",
		"X-Room-IP",
		"Accept-Language",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 5)
	v.SetDefault("security.login_rate_limit.block_seconds", 900)
	v.SetDefault("voucher_validation.enabled", true)
	v.SetDefault("voucher_validation.timeout_seconds", 5)
	v.SetDefault("voucher_validation.action", "getTicket")
	v.SetDefault("voucher_validation.scheme", "http")
	v.SetDefault("voucher_validation.path", "/api_app.php")
	v.SetDefault("terminal.config_file", "terminal_config.yml")
	v.SetDefault("terminal.default_printer_name", "POS-80")
	v.SetDefault("terminal.default_printer_port", "USB002")
	v.SetDefault("printer.sink", "log")
	v.SetDefault("printer.output_dir", "./spool")
	v.SetDefault("printer.command", "lp")
	v.SetDefault("printer.line_width", 48)
	v.SetDefault("printer.print_qr", true)
	v.SetDefault("printer.qr_size_dots", 192)
	v.SetDefault("raffle.daily_entry_limit", 10)
	v.SetDefault("raffle.cooldown_minutes", 120)
	v.SetDefault("raffle.register_coupons", 5)
	v.SetDefault("raffle.minimum_age", 18)
	v.SetDefault("raffle.timezone", "")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// bindLegacyEnv 兼容旧版环境变量名
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("voucher_validation.enabled", "VOUCHER_VALIDATION_ENABLED")
	_ = v.BindEnv("voucher_validation.timeout_seconds", "VOUCHER_VALIDATION_TIMEOUT_SECONDS", "VOUCHER_VALIDATION_TIMEOUT")
	_ = v.BindEnv("voucher_validation.action", "VOUCHER_VALIDATION_ACTION")
}
