package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"wedding-site/internal/admin"
	"wedding-site/internal/auth"
	"wedding-site/internal/config"
	"wedding-site/internal/content"
	"wedding-site/internal/dataclient"
	"wedding-site/internal/rsvp"
	"wedding-site/internal/web"
)

func main() {
	// Initialize environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, using environment")
	}
	cfg := config.LoadConfig()
	logger := newLogger(cfg.LogLevel)

	// Hosted data service client
	client := dataclient.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, logger)

	// Session store for the durable admin flag
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(86400 * 30)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = false

	manager := auth.NewManager(client, store, logger)
	defer manager.Close()

	// Object storage for gallery uploads, only when configured
	var uploader *admin.Uploader
	if cfg.AccountID != "" && cfg.AccessKeyID != "" && cfg.AccessKeySecret != "" {
		s3Client, err := newS3Client(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("configuring object storage")
		}
		uploader = admin.NewUploader(s3Client, cfg.BucketName, cfg.PublicURL, logger)
	} else {
		logger.Info().Msg("object storage not configured, gallery uploads disabled")
	}

	srv, err := web.New(web.Config{
		Log:      logger,
		Auth:     manager,
		Content:  content.NewLoader(client, logger),
		RSVP:     rsvp.NewService(client, logger),
		Admin:    admin.NewService(client, logger),
		Uploader: uploader,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("configuring web server")
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting web server")
	if err := http.ListenAndServe(cfg.Addr, srv.Router()); err != nil {
		logger.Fatal().Err(err).Msg("web server stopped")
	}
}

func newLogger(level string) zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		logger = logger.Level(lvl)
	}
	return logger
}

// newS3Client builds the R2 client with a pinned TLS configuration.
func newS3Client(cfg *config.Config) (*s3.Client, error) {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS13,
			CipherSuites: []uint16{
				tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			},
		},
	}
	httpClient := &http.Client{Transport: tr}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithHTTPClient(httpClient),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	}), nil
}
