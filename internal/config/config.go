package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config хранит конфигурацию сервера
type Config struct {
	ServerAddress    string
	Port             string
	GRPCAddress      string
	FetchTimeout     time.Duration
	MaxBodyBytes     int64
	UserAgent        string
	SourceTerm       string
	TargetTerm       string
	RewriteMeta      bool
	RewriteDataAttrs bool
	RewriteComments  bool
	RewriteScripts   bool
	StaticDir        string
	CORSOrigins      []string
	LogLevel         string
}

// fileConfig - формат JSON-файла конфигурации. Все поля необязательны.
type fileConfig struct {
	ServerAddress    *string `json:"server_address"`
	Port             *string `json:"port"`
	GRPCAddress      *string `json:"grpc_address"`
	FetchTimeout     *string `json:"fetch_timeout"`
	MaxBodyBytes     *int64  `json:"max_body_bytes"`
	UserAgent        *string `json:"user_agent"`
	SourceTerm       *string `json:"source_term"`
	TargetTerm       *string `json:"target_term"`
	RewriteMeta      *bool   `json:"rewrite_meta"`
	RewriteDataAttrs *bool   `json:"rewrite_data_attrs"`
	RewriteComments  *bool   `json:"rewrite_comments"`
	RewriteScripts   *bool   `json:"rewrite_scripts"`
	StaticDir        *string `json:"static_dir"`
	CORSOrigins      *string `json:"cors_origins"`
	LogLevel         *string `json:"log_level"`
}

// NewConfig инициализирует конфигурацию из аргументов командной строки процесса.
func NewConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load собирает конфигурацию. Приоритет: флаги > переменные окружения >
// .env > JSON-файл > значения по умолчанию.
func Load(args []string) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_ADDRESS", "") // Значения по умолчанию
	v.SetDefault("PORT", "3001")
	v.SetDefault("GRPC_ADDRESS", "")
	v.SetDefault("FETCH_TIMEOUT", "15s")
	v.SetDefault("MAX_BODY_BYTES", int64(5*1024*1024))
	v.SetDefault("USER_AGENT", "Mozilla/5.0 (compatible; FaleProxy/1.0)")
	v.SetDefault("SOURCE_TERM", "Yale")
	v.SetDefault("TARGET_TERM", "Fale")
	v.SetDefault("REWRITE_META", false)
	v.SetDefault("REWRITE_DATA_ATTRS", false)
	v.SetDefault("REWRITE_COMMENTS", false)
	v.SetDefault("REWRITE_SCRIPTS", false)
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")

	// Определяем флаги, но НЕ задаем в них значения по умолчанию
	fs := flag.NewFlagSet("faleproxy", flag.ContinueOnError)
	serverAddress := fs.String("a", "", "server address (host:port)")
	port := fs.String("p", "", "listen port, used when -a is empty")
	grpcAddress := fs.String("g", "", "gRPC listen address, empty disables gRPC")
	fetchTimeout := fs.Duration("timeout", 0, "upstream fetch timeout")
	maxBody := fs.Int64("max-body", 0, "max upstream body size in bytes")
	userAgent := fs.String("ua", "", "User-Agent for upstream requests")
	sourceTerm := fs.String("from", "", "term to replace")
	targetTerm := fs.String("to", "", "replacement term")
	staticDir := fs.String("static", "", "directory with static assets (overrides embedded)")
	logLevel := fs.String("l", "", "log level")
	configPath := fs.String("c", "", "path to JSON config file")
	fs.StringVar(configPath, "config", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Загружаем JSON-конфигурацию (если указана): её значения становятся умолчаниями
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}
	if *configPath != "" {
		if err := applyFile(v, *configPath); err != nil {
			return nil, err
		}
	}

	v.AutomaticEnv()

	// Читаем .env, если есть (не переопределяет переменные окружения!)
	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	cfg := &Config{
		ServerAddress:    v.GetString("SERVER_ADDRESS"),
		Port:             v.GetString("PORT"),
		GRPCAddress:      v.GetString("GRPC_ADDRESS"),
		FetchTimeout:     v.GetDuration("FETCH_TIMEOUT"),
		MaxBodyBytes:     v.GetInt64("MAX_BODY_BYTES"),
		UserAgent:        v.GetString("USER_AGENT"),
		SourceTerm:       v.GetString("SOURCE_TERM"),
		TargetTerm:       v.GetString("TARGET_TERM"),
		RewriteMeta:      v.GetBool("REWRITE_META"),
		RewriteDataAttrs: v.GetBool("REWRITE_DATA_ATTRS"),
		RewriteComments:  v.GetBool("REWRITE_COMMENTS"),
		RewriteScripts:   v.GetBool("REWRITE_SCRIPTS"),
		StaticDir:        v.GetString("STATIC_DIR"),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:         v.GetString("LOG_LEVEL"),
	}

	// Если флаг передан явно, он важнее переменной окружения
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.ServerAddress = *serverAddress
		case "p":
			cfg.Port = *port
		case "g":
			cfg.GRPCAddress = *grpcAddress
		case "timeout":
			cfg.FetchTimeout = *fetchTimeout
		case "max-body":
			cfg.MaxBodyBytes = *maxBody
		case "ua":
			cfg.UserAgent = *userAgent
		case "from":
			cfg.SourceTerm = *sourceTerm
		case "to":
			cfg.TargetTerm = *targetTerm
		case "static":
			cfg.StaticDir = *staticDir
		case "l":
			cfg.LogLevel = *logLevel
		}
	})

	if cfg.ServerAddress == "" && cfg.Port != "" {
		cfg.ServerAddress = ":" + cfg.Port
	}

	// Проверка корректности конфигурации
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}
	return cfg, nil
}

func applyFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("не удалось прочитать JSON-файл конфигурации %q: %w", path, err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("ошибка разбора JSON-файла конфигурации: %w", err)
	}

	setString := func(key string, val *string) {
		if val != nil {
			v.SetDefault(key, *val)
		}
	}
	setBool := func(key string, val *bool) {
		if val != nil {
			v.SetDefault(key, *val)
		}
	}
	setString("SERVER_ADDRESS", fc.ServerAddress)
	setString("PORT", fc.Port)
	setString("GRPC_ADDRESS", fc.GRPCAddress)
	setString("FETCH_TIMEOUT", fc.FetchTimeout)
	setString("USER_AGENT", fc.UserAgent)
	setString("SOURCE_TERM", fc.SourceTerm)
	setString("TARGET_TERM", fc.TargetTerm)
	setString("STATIC_DIR", fc.StaticDir)
	setString("CORS_ORIGINS", fc.CORSOrigins)
	setString("LOG_LEVEL", fc.LogLevel)
	setBool("REWRITE_META", fc.RewriteMeta)
	setBool("REWRITE_DATA_ATTRS", fc.RewriteDataAttrs)
	setBool("REWRITE_COMMENTS", fc.RewriteComments)
	setBool("REWRITE_SCRIPTS", fc.RewriteScripts)
	if fc.MaxBodyBytes != nil {
		v.SetDefault("MAX_BODY_BYTES", *fc.MaxBodyBytes)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return errors.New("адрес сервера не может быть пустым")
	}
	if cfg.SourceTerm == "" {
		return errors.New("заменяемое слово не может быть пустым")
	}
	if cfg.MaxBodyBytes <= 0 {
		return errors.New("максимальный размер тела должен быть положительным")
	}
	if cfg.FetchTimeout < 0 {
		return errors.New("таймаут не может быть отрицательным")
	}
	return nil
}
