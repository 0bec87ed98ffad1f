package config

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	env     *viper.Viper
	envOnce sync.Once
)

// Env returns the shared viper instance backed by the process environment.
// godotenv.Load must run before the first call for .env values to be visible.
func Env() *viper.Viper {
	envOnce.Do(func() {
		env = viper.New()
		env.AutomaticEnv()
		env.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	})
	return env
}

func getString(key, fallback string) string {
	v := Env()
	v.SetDefault(key, fallback)
	return strings.TrimSpace(v.GetString(key))
}

func getInt(key string, fallback int) int {
	v := Env()
	v.SetDefault(key, fallback)
	return v.GetInt(key)
}

func getInt64(key string, fallback int64) int64 {
	v := Env()
	v.SetDefault(key, fallback)
	return v.GetInt64(key)
}

func getFloat(key string, fallback float64) float64 {
	v := Env()
	v.SetDefault(key, fallback)
	return v.GetFloat64(key)
}

func getBool(key string, fallback bool) bool {
	v := Env()
	v.SetDefault(key, fallback)
	return v.GetBool(key)
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := Env()
	v.SetDefault(key, fallback)
	d := v.GetDuration(key)
	if d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
