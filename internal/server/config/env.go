package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// envConfig lists the BLOG_* variables. It is processed into an empty value
// so that only variables actually present override the current config.
type envConfig struct {
	EndpointAddrHTTP            string        `env:"BLOG_HTTP_ADDR"`
	EndpointAddrGRPC            string        `env:"BLOG_GRPC_ADDR"`
	DatabaseDSN                 string        `env:"BLOG_DATABASE_DSN"`
	SecretKey                   string        `env:"BLOG_SECRET_KEY"`
	AccessTokenValidityDuration time.Duration `env:"BLOG_ACCESS_TOKEN_TTL"`
	BcryptCost                  int           `env:"BLOG_BCRYPT_COST"`
	MirrorPath                  string        `env:"BLOG_MIRROR_PATH"`
	LogLevel                    string        `env:"BLOG_LOG_LEVEL"`
	S3RootUser                  string        `env:"BLOG_S3_USER"`
	S3RootPassword              string        `env:"BLOG_S3_PASSWORD"`
	S3Bucket                    string        `env:"BLOG_S3_BUCKET"`
	S3Region                    string        `env:"BLOG_S3_REGION"`
	S3BaseEndpoint              string        `env:"BLOG_S3_ENDPOINT"`
}

// parseEnv overlays BLOG_* environment variables. A malformed value (for
// example a bad duration) panics like the other config sources.
func parseEnv(config *Config) {
	e := envConfig{}
	if err := envconfig.Process(context.Background(), &e); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, e.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, e.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.SecretKey, e.SecretKey)
	if e.AccessTokenValidityDuration > 0 {
		config.AccessTokenValidityDuration = e.AccessTokenValidityDuration
	}
	if e.BcryptCost > 0 {
		config.BcryptCost = e.BcryptCost
	}
	setString(&config.MirrorPath, e.MirrorPath)
	setString(&config.LogLevel, e.LogLevel)
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
}
