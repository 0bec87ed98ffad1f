package config

import (
	"log"
	"strings"
	"sync"
)

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	BaseURL     string
	CORSOrigins []string
	LogJSON     bool
	LogDebug    bool
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := getString("APP_ENV", "")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		port := getString("APP_PORT", ":8000")
		if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
			port = ":" + port
		}
		appConfig = &AppConfig{
			Name:        getString("APP_NAME", "hiring-assistant"),
			Env:         env,
			Port:        port,
			BaseURL:     getString("APP_URL", ""),
			CORSOrigins: splitList(getString("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
			LogJSON:     getBool("LOG_JSON", env == "production"),
			LogDebug:    getBool("LOG_DEBUG", false),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
