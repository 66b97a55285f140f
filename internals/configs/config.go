package configs

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/logging"
)

// Defaults below are overwritten by LoadEnv; tests rely on them as-is.
var (
	AppName     = "Méthode ERPR"
	AppEnv      = "development"
	FrontendURL = "http://localhost:5173"

	JWTSecret    string
	JWTTTL       = 7 * 24 * time.Hour
	CookieSecure bool
	CookieDomain string

	CronSecret   string
	JobsInternal bool

	FreeTrialDays      = 7
	FreeTrialChapters  = 3
	ErprChapterCount   = 30
	TajwidChapterCount = 20

	PriceMonthlyOne  int64 = 1900
	PriceMonthlyBoth int64 = 2900
	PriceYearlyOne   int64 = 19000
	PriceYearlyBoth  int64 = 29000
	Currency               = "EUR"

	MidtransServerKey string
	MidtransUseProd   bool

	SendgridAPIKey string
	MailFrom       = "contact@methode-erpr.fr"

	GoogleClientID string
	SentryDSN      string

	SupabaseProjectURL     string
	SupabaseServiceRoleKey string

	CorsOrigins []string
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET manquant")

// =======================
// ENV LOADER
// =======================

// LoadDotEnv reads .env outside production. Returns false when no file was loaded.
func LoadDotEnv() bool {
	if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		return false
	}
	return godotenv.Load() == nil
}

func LoadEnv() error {
	log := logging.L()

	AppName = GetEnv("APP_NAME", "Méthode ERPR")
	AppEnv = GetEnv("APP_ENV", "development")
	FrontendURL = strings.TrimRight(GetEnv("FRONTEND_URL", "http://localhost:5173"), "/")

	JWTSecret = strings.TrimSpace(GetEnv("JWT_SECRET"))
	JWTTTL = time.Duration(GetEnvInt("JWT_TTL_HOURS", 168)) * time.Hour
	CookieSecure = GetEnvBool("COOKIE_SECURE", AppEnv == "production")
	CookieDomain = GetEnv("COOKIE_DOMAIN")

	CronSecret = strings.TrimSpace(GetEnv("CRON_SECRET"))
	JobsInternal = GetEnvBool("JOBS_INTERNAL", false)

	FreeTrialDays = GetEnvInt("FREE_TRIAL_DAYS", 7)
	FreeTrialChapters = GetEnvInt("FREE_TRIAL_CHAPTERS", 3)
	ErprChapterCount = GetEnvInt("ERPR_CHAPTER_COUNT", 30)
	TajwidChapterCount = GetEnvInt("TAJWID_CHAPTER_COUNT", 20)

	PriceMonthlyOne = int64(GetEnvInt("PRICE_MONTHLY_ONE", 1900))
	PriceMonthlyBoth = int64(GetEnvInt("PRICE_MONTHLY_BOTH", 2900))
	PriceYearlyOne = int64(GetEnvInt("PRICE_YEARLY_ONE", 19000))
	PriceYearlyBoth = int64(GetEnvInt("PRICE_YEARLY_BOTH", 29000))
	Currency = GetEnv("CURRENCY", "EUR")

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	MidtransUseProd = GetEnvBool("MIDTRANS_USE_PROD", false)

	SendgridAPIKey = GetEnv("SENDGRID_API_KEY")
	MailFrom = GetEnv("MAIL_FROM", "contact@methode-erpr.fr")

	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")
	SentryDSN = GetEnv("SENTRY_DSN")

	SupabaseProjectURL = strings.TrimRight(GetEnv("SUPABASE_PROJECT_URL"), "/")
	SupabaseServiceRoleKey = GetEnv("SUPABASE_SERVICE_ROLE_KEY")

	CorsOrigins = splitList(GetEnv("CORS_ORIGINS", FrontendURL))

	if JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if CronSecret == "" {
		log.Warn("CRON_SECRET non défini, les routes /api/cron refuseront toute requête")
	}
	if MidtransServerKey == "" {
		log.Warn("MIDTRANS_SERVER_KEY non défini, le paiement est désactivé")
	}
	if SendgridAPIKey == "" {
		log.Info("SENDGRID_API_KEY non défini, les emails sont écrits dans les logs")
	}
	return nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ChapterCount returns the number of chapters of a content module, 0 when unknown.
func ChapterCount(module string) int {
	switch module {
	case constants.ModuleErpr:
		return ErprChapterCount
	case constants.ModuleTajwid:
		return TajwidChapterCount
	}
	return 0
}
