package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DB        DBConfig
	Server    ServerConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	JWT       JWTConfig
	Stripe    StripeConfig
	Storage   StorageConfig
	LLM       LLMConfig
	Realtime  RealtimeConfig
	Scheduler SchedulerConfig
	Chat      ChatConfig
	CacheTTLs CacheTTLConfig
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins string
}

type LoggerConfig struct {
	Env   string
	Level string
}

type JWTConfig struct {
	// SecretKey verifies HS256 access tokens issued by the auth provider.
	SecretKey string
	Issuer    string
	Audience  string
}

type StripeConfig struct {
	SecretKey       string
	WebhookSecret   string
	SuccessURL      string
	CancelURL       string
	PortalReturnURL string
	// PriceIDs maps plan name (basic, pro, business) to a Stripe price id.
	PriceIDs map[string]string
	Timeout  time.Duration
}

type StorageConfig struct {
	Bucket          string
	CredentialsFile string
	SignedURLTTL    time.Duration
}

type LLMConfig struct {
	Provider  string // "ollama" or "openai"
	ServerURL string
	Model     string
	APIKey    string
	Timeout   time.Duration
}

type RealtimeConfig struct {
	Channel   string
	Debounce  time.Duration
	KeepAlive time.Duration
}

type SchedulerConfig struct {
	Enabled        bool
	ExpirySchedule string
	ExpiryGrace    time.Duration
}

type ChatConfig struct {
	HistorySize       int
	RequestsPerMinute int
}

type CacheTTLConfig struct {
	Catalog string
	FAQ     string
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine; real deployments inject the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		DB: DBConfig{
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			DBName:       v.GetString("db.name"),
			SSLMode:      v.GetString("db.sslmode"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			MaxIdleConns: v.GetInt("db.max_idle_conns"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			AllowOrigins: v.GetString("server.allow_origins"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
			Issuer:    v.GetString("jwt.issuer"),
			Audience:  v.GetString("jwt.audience"),
		},
		Stripe: StripeConfig{
			SecretKey:       v.GetString("stripe.secret_key"),
			WebhookSecret:   v.GetString("stripe.webhook_secret"),
			SuccessURL:      v.GetString("stripe.success_url"),
			CancelURL:       v.GetString("stripe.cancel_url"),
			PortalReturnURL: v.GetString("stripe.portal_return_url"),
			PriceIDs:        v.GetStringMapString("stripe.price_ids"),
			Timeout:         v.GetDuration("stripe.timeout"),
		},
		Storage: StorageConfig{
			Bucket:          v.GetString("storage.bucket"),
			CredentialsFile: v.GetString("storage.credentials_file"),
			SignedURLTTL:    v.GetDuration("storage.signed_url_ttl"),
		},
		LLM: LLMConfig{
			Provider:  v.GetString("llm.provider"),
			ServerURL: v.GetString("llm.server"),
			Model:     v.GetString("llm.model"),
			APIKey:    v.GetString("llm.api_key"),
			Timeout:   v.GetDuration("llm.timeout"),
		},
		Realtime: RealtimeConfig{
			Channel:   v.GetString("realtime.channel"),
			Debounce:  v.GetDuration("realtime.debounce"),
			KeepAlive: v.GetDuration("realtime.keep_alive"),
		},
		Scheduler: SchedulerConfig{
			Enabled:        v.GetBool("scheduler.enabled"),
			ExpirySchedule: v.GetString("scheduler.expiry_schedule"),
			ExpiryGrace:    v.GetDuration("scheduler.expiry_grace"),
		},
		Chat: ChatConfig{
			HistorySize:       v.GetInt("chat.history_size"),
			RequestsPerMinute: v.GetInt("chat.requests_per_minute"),
		},
		CacheTTLs: CacheTTLConfig{
			Catalog: v.GetString("cache_ttls.catalog"),
			FAQ:     v.GetString("cache_ttls.faq"),
		},
	}

	// Override with environment variables if set
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		config.Stripe.SecretKey = key
	}
	if secret := os.Getenv("STRIPE_WEBHOOK_SECRET"); secret != "" {
		config.Stripe.WebhookSecret = secret
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.LLM.APIKey = openAIKey
	}
	if llmServer := os.Getenv("LLM_SERVER"); llmServer != "" {
		config.LLM.ServerURL = llmServer
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20*time.Second)
	v.SetDefault("server.write_timeout", 20*time.Second)
	v.SetDefault("server.allow_origins", "*")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")
	v.SetDefault("jwt.audience", "authenticated")
	v.SetDefault("stripe.timeout", 15*time.Second)
	v.SetDefault("storage.signed_url_ttl", 300*time.Second)
	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.server", "http://localhost:11434")
	v.SetDefault("llm.model", "qwen3:0.6b")
	v.SetDefault("llm.timeout", 20*time.Second)
	v.SetDefault("realtime.channel", "bizlevel:progress")
	v.SetDefault("realtime.debounce", 2*time.Second)
	v.SetDefault("realtime.keep_alive", 25*time.Second)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.expiry_schedule", "0 3 * * *")
	v.SetDefault("scheduler.expiry_grace", 72*time.Hour)
	v.SetDefault("chat.history_size", 10)
	v.SetDefault("chat.requests_per_minute", 20)
	v.SetDefault("cache_ttls.catalog", "10m")
	v.SetDefault("cache_ttls.faq", "1h")
}

// GetDSN returns a pgx connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}

// ParseTTLStringOrDefault parses a duration string such as "10m", falling back to def.
func (c *Config) ParseTTLStringOrDefault(ttl string, def time.Duration) time.Duration {
	if ttl == "" {
		return def
	}
	d, err := time.ParseDuration(ttl)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
