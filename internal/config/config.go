package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string            `yaml:"env" env-default:"local"`
	DSN         string            `yaml:"dsn" env-required:"true"`
	HTTP        HTTPConfig        `yaml:"http"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Redis       RedisConf         `yaml:"redis"`
	AdminGate   AdminGateConfig   `yaml:"admin_gate"`
	Optimizer   OptimizerConfig   `yaml:"optimizer"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir"`
	BaseURL string `yaml:"base_url"`
	MaxSize int64  `yaml:"max_size"`
}

type RedisConf struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redispassword"`
	RedisDB       int           `yaml:"redis_db"`
	ListTTL       time.Duration `yaml:"list_ttl" env-default:"1m"`
}

// AdminGateConfig holds the single shared credential pair protecting the
// curation panel. PasswordHash is a bcrypt hash of the shared password.
// The gate is a convenience boundary, not an authentication system.
type AdminGateConfig struct {
	Username     string        `yaml:"username" env-default:"admin"`
	PasswordHash string        `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
	SessionKey   string        `yaml:"session_key" env:"SESSION_KEY" env-default:"test"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"1h"`
}

type OptimizerConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"api_key" env:"OPTIMIZER_API_KEY"`
	Model    string        `yaml:"model" env-default:"gemini-3-flash-preview"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"10m"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
