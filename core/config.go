package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		Build    string

		Server   ServerConfig
		CMS      CMSConfig
		Schedule ScheduleConfig

		EditorJWTSecret string
		RollbarToken    string
		WorkDir         string
	}

	ServerConfig struct {
		Host            string
		Addr            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	// CMSConfig points at the content-management server that owns the
	// course-schedule documents. It is an external collaborator; we only
	// consume its JSON/HTML endpoints.
	CMSConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	ScheduleConfig struct {
		// Timezone is the display timezone playing the "browser" role when
		// reconciling server-declared UTC offsets.
		Timezone string
		// Locale is one of "no", "nn", "en".
		Locale string
		// RefreshCron drives the warm refresh of cached documents.
		RefreshCron string
		// WarmPaths lists course paths whose documents are kept warm.
		WarmPaths []string
		// CacheTTL bounds how long a fetched document may be served from cache.
		CacheTTL time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", "localhost:6060")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("cmsBaseURL", "http://localhost:9322")
	v.SetDefault("cmsTimeout", 15*time.Second)
	v.SetDefault("scheduleTimezone", "Europe/Oslo")
	v.SetDefault("scheduleLocale", "no")
	v.SetDefault("scheduleRefreshCron", "*/15 * * * *")
	v.SetDefault("scheduleWarmPaths", []string{})
	v.SetDefault("scheduleCacheTTL", 30*time.Second)
	v.SetDefault("editorJWTSecret", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:      env,
		Debug:    v.GetBool("debug"),
		TestMode: env == "TEST",
		Build:    v.GetString("build"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			Addr:            v.GetString("serverAddr"),
			DebugHost:       v.GetString("serverDebugHost"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
		},
		CMS: CMSConfig{
			BaseURL: strings.TrimRight(v.GetString("cmsBaseURL"), "/"),
			Timeout: v.GetDuration("cmsTimeout"),
		},
		Schedule: ScheduleConfig{
			Timezone:    v.GetString("scheduleTimezone"),
			Locale:      v.GetString("scheduleLocale"),
			RefreshCron: v.GetString("scheduleRefreshCron"),
			WarmPaths:   v.GetStringSlice("scheduleWarmPaths"),
			CacheTTL:    v.GetDuration("scheduleCacheTTL"),
		},
		EditorJWTSecret: v.GetString("editorJWTSecret"),
		RollbarToken:    v.GetString("rollbarToken"),
		WorkDir:         Getwd(),
	}
}

// DisplayLocation resolves the configured display timezone, falling back to
// time.Local on bad input.
func (c *Config) DisplayLocation() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
