// config/config.go
package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server ServerConfiguration
	Dell   DellConfiguration
	Cache  CacheConfiguration
	HTTP   HTTPConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// DellConfiguration stores the upstream entitlement API settings
type DellConfiguration struct {
	AuthURL      string
	APIURL       string
	ClientID     string
	ClientSecret string
}

// CacheConfiguration stores the response cache settings
type CacheConfiguration struct {
	TTL string
}

// HTTPConfiguration stores outbound HTTP client settings
type HTTPConfiguration struct {
	Timeout string
}

var config *Configuration

func InitConfig() error {
	// Credentials frequently live in a .env file next to the binary; a
	// missing file is not an error.
	_ = godotenv.Load()

	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Credentials are only ever read from the environment
	viper.BindEnv("dell.clientID", "DELL_API_CLIENT_ID")
	viper.BindEnv("dell.clientSecret", "DELL_API_CLIENT_SECRET")

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("dell.authURL", "https://apigtwb2c.us.dell.com/auth/oauth/v2/token")
	viper.SetDefault("dell.apiURL", "https://apigtwb2c.us.dell.com/PROD/sbil/eapi/v5/asset-entitlements")
	viper.SetDefault("cache.ttl", "15m")
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("ratelimit.requests", 100)
	viper.SetDefault("ratelimit.window", "1m")
	viper.SetDefault("log.dir", "")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
