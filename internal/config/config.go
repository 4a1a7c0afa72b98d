package config

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

/*
init與read分開
init : 設置viper watch 與 onConfigChange
read : 一般讀取, 需要使用讀寫鎖
*/
var config_singleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	DbName             string `mapstructure:"POSTGRES_DB"`
	DbHost             string `mapstructure:"POSTGRES_HOST"`
	DbPort             string `mapstructure:"POSTGRES_PORT"`
	DbUser             string `mapstructure:"POSTGRES_USER"`
	DbPas              string `mapstructure:"POSTGRES_PASSWORD"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	AuthTokenKey       string `mapstructure:"AUTH_TOKEN_KEY"`
	Currency           string `mapstructure:"STORE_CURRENCY"`
	MercadoPagoBaseURL string `mapstructure:"MERCADO_PAGO_BASE_URL"`
	MercadoPagoToken   string `mapstructure:"MERCADO_PAGO_ACCESS_TOKEN"`
	CheckoutSuccessURL string `mapstructure:"CHECKOUT_SUCCESS_URL"`
	CheckoutFailureURL string `mapstructure:"CHECKOUT_FAILURE_URL"`
	CheckoutPendingURL string `mapstructure:"CHECKOUT_PENDING_URL"`
	OrderHookURL       string `mapstructure:"ORDER_HOOK_URL"`
}

func GetConfig() *Config {
	initConfig()
	config_singleton.mu.RLock()
	defer config_singleton.mu.RUnlock()
	return config_singleton.Config
}

func initConfig() {
	if config_singleton == nil {
		muonce.Do(func() {
			config_singleton = &ConfigSingleTon{}
			if cf, err := loadConfig(); err == nil {
				config_singleton.Config = cf
			} else {
				log.Fatal("error reading config")
			}
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				if cf, err := loadConfig(); err == nil {
					config_singleton.mu.Lock()
					config_singleton.Config = cf
					config_singleton.mu.Unlock()
				} else {
					log.Panic("failed to reload config file")
				}
			})
		})
	}
}

/*
單純回傳錯誤, 由外部決定要不要Fatal
*/
func loadConfig() (cf *Config, err error) {
	cf = &Config{}
	viper.SetConfigFile(filepath.Join(configDir(), ".env"))
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(cf)
	if err != nil {
		return
	}

	if cf.Currency == "" {
		cf.Currency = "ARS"
	}
	if cf.MercadoPagoBaseURL == "" {
		cf.MercadoPagoBaseURL = "https://api.mercadopago.com"
	}
	return
}

func configDir() string {
	if dir := os.Getenv("CONFIG_PATH"); dir != "" {
		return dir
	}
	return "."
}
