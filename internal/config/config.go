package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type HTTPConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GeocoderConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

func LoadConfig(path string) (*Config, error) {
	viper.SetDefault("http.port", "8080")
	viper.SetDefault("http.read_timeout", "10s")
	viper.SetDefault("http.write_timeout", "15s")

	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "housemarket")
	viper.SetDefault("mongo.connect_timeout", "10s")
	viper.SetDefault("mongo.min_pool_size", 0)
	viper.SetDefault("mongo.max_pool_size", 100)

	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocoder.user_agent", "HouseMarket/1.0")
	viper.SetDefault("geocoder.timeout", "6s")
	viper.SetDefault("geocoder.requests_per_second", 1)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		if fi, _ := os.Stat(path); !fi.IsDir() {
			viper.SetConfigFile(path)
		} else {
			viper.AddConfigPath(path)
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("HOUSEMARKET")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found; using defaults and environment variables.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
