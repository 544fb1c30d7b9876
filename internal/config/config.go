package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort   string
	AppEnv    string
	AppURL    string // public site URL used in email links
	SiteName  string
	StaticDir string // optional; serves /signin and /admin pages when set

	BlogAuthor string
	AdminEmail string

	AWSRegion       string
	AWSEndpointURL  string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID  string
	AWSSecretKey    string
	DynamoTables    DynamoTables
	S3BucketName    string
	S3PublicBaseURL string
	SNSTopicARN     string

	SessionSecret     string
	SessionExpiry     time.Duration
	SessionCookieName string
	OTPTTL            time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	MailTimeout  time.Duration

	AllowedOrigins    []string // CORS allowed origins
	TrustProxyHeaders bool     // take the client IP from X-Forwarded-For/X-Real-Ip; only behind a proxy that sets them
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Accounts     string
	Blogs        string
	Projects     string
	Testimonials string
	Contacts     string
	Subscribers  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AppURL:         strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		SiteName:       getEnv("SITE_NAME", "Data to Grow"),
		StaticDir:      getEnv("STATIC_DIR", ""),
		BlogAuthor:     getEnv("BLOG_AUTHOR", "Admin"),
		AdminEmail:     getEnv("ADMIN_EMAIL", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Accounts:     getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			Blogs:        getEnv("DYNAMO_TABLE_BLOGS", "blogs"),
			Projects:     getEnv("DYNAMO_TABLE_PROJECTS", "projects"),
			Testimonials: getEnv("DYNAMO_TABLE_TESTIMONIALS", "testimonials"),
			Contacts:     getEnv("DYNAMO_TABLE_CONTACTS", "contacts"),
			Subscribers:  getEnv("DYNAMO_TABLE_SUBSCRIBERS", "newsletter_subscribers"),
		},
		S3BucketName:      getEnv("S3_BUCKET_NAME", "portfolio-uploads"),
		S3PublicBaseURL:   strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		SNSTopicARN:       getEnv("SNS_TOPIC_ARN", ""),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionExpiry:     time.Duration(getEnvInt("SESSION_EXPIRY_DAYS", 30)) * 24 * time.Hour,
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "session_token"),
		OTPTTL:            time.Duration(getEnvInt("OTP_TTL_MINUTES", 5)) * time.Minute,
		SMTPHost:          getEnv("SMTP_HOST", "localhost"),
		SMTPPort:          getEnv("SMTP_PORT", "1025"),
		SMTPFrom:          getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		MailTimeout:       time.Duration(getEnvInt("MAIL_TIMEOUT_SECONDS", 10)) * time.Second,
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
	}
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
