package config

import (
	"os"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode        Mode
	HTTPAddr    string
	MetricsAddr string // "off" disables the metrics listener
	PublicURL   string

	DBDriver string
	DBDSN    string

	BlobDriver   string // fs|s3
	BlobBasePath string // for fs

	S3Endpoint  string // MinIO or other S3-compatible endpoint; empty = AWS
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	WorkspaceID  string
	SyncInterval time.Duration // 0 disables periodic reconcile

	LogLevel  string
	LogFormat string // json|console

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	logFormat := "console"
	if mode == ModeOnline {
		logFormat = "json"
	}
	metricsAddr := envOr("METRICS_ADDR", ":9090")
	if metricsAddr == "off" {
		metricsAddr = ""
	}
	return Config{
		Mode:        mode,
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		MetricsAddr: metricsAddr,
		PublicURL:   os.Getenv("PUBLIC_URL"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BlobDriver:   envOr("BLOB_DRIVER", "fs"),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Bucket:    envOr("S3_BUCKET", "quizvfs"),
		S3Region:    envOr("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),

		WorkspaceID:  envOr("WORKSPACE_ID", "default"),
		SyncInterval: envDuration("SYNC_INTERVAL", 0),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", logFormat),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://quiz.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:3010,http://localhost:3020"),
	}
}

// CORSOrigins returns the allowed origins for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d >= 0 {
		return d
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
