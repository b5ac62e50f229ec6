package configuration

import (
	"fmt"
	"os"
	"strconv"

	"contentflow/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Database    Database    `json:"database"`
	App         App         `json:"app"`
	Mongo       Mongo       `json:"mongo"`
	Pubsub      Pubsub      `json:"pubsub"`
	RedisClient RedisClient `json:"redisClient"`
	OAuth       OAuth       `json:"oauth"`
	Publish     Publish     `json:"publish"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	BaseURL     string `json:"baseUrl"`     // public URL of this service, used for OAuth redirect URIs
	FrontendURL string `json:"frontendUrl"` // where OAuth callbacks send users back to
}

type Database struct {
	Psql  Db `json:"psql"`
	Mssql Db `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type Mongo struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// OAuth holds third-party platform OAuth client credentials.
type OAuth struct {
	Linkedin  OAuthClient `json:"linkedin"`
	Twitter   OAuthClient `json:"twitter"`
	Facebook  OAuthClient `json:"facebook"`
	Instagram OAuthClient `json:"instagram"`
	Tiktok    OAuthClient `json:"tiktok"`
}

type OAuthClient struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectURI"`
}

// Publish holds publishing orchestration settings.
type Publish struct {
	Platforms      []string `json:"platforms"`      // allow-list; empty means all supported
	AdapterTimeout int      `json:"adapterTimeout"` // seconds per platform attempt
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initOAuth(&C)
	initInfra(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}

	// Optional MSSQL config via environment (Azure SQL in production)
	if C.Database.Mssql.Name == "" {
		if v := os.Getenv("MSSQL_DB_NAME"); v != "" {
			C.Database.Mssql.Name = v
		}
	}
	if C.Database.Mssql.Host == "" {
		if v := os.Getenv("MSSQL_HOST"); v != "" {
			C.Database.Mssql.Host = v
		}
	}
	if C.Database.Mssql.User == "" {
		if v := os.Getenv("MSSQL_USER"); v != "" {
			C.Database.Mssql.User = v
		}
	}
	if C.Database.Mssql.Password == "" {
		if v := os.Getenv("MSSQL_PASSWORD"); v != "" {
			C.Database.Mssql.Password = v
		}
	}
	if C.Database.Mssql.Port == "" {
		if v := os.Getenv("MSSQL_PORT"); v != "" {
			C.Database.Mssql.Port = v
		} else {
			C.Database.Mssql.Port = "1433"
		}
	}
}

func initApp(C *Config) {
	// SECRET_KEY from environment overrides the config file when provided
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("APP_BASE_URL"); v != "" {
		C.App.BaseURL = v
	}
	if C.App.BaseURL == "" {
		C.App.BaseURL = fmt.Sprintf("http://localhost:%d", C.App.Port)
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		C.App.FrontendURL = v
	}
	if C.App.FrontendURL == "" {
		C.App.FrontendURL = C.App.BaseURL
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
	if C.Publish.AdapterTimeout == 0 {
		C.Publish.AdapterTimeout = 15
	}
}

// initOAuth fills platform client credentials from environment variables and
// derives redirect URIs from the app base URL when not set explicitly.
func initOAuth(C *Config) {
	fill := func(c *OAuthClient, platform, idEnv, secretEnv string) {
		if c.ClientID == "" {
			c.ClientID = os.Getenv(idEnv)
		}
		if c.ClientSecret == "" {
			c.ClientSecret = os.Getenv(secretEnv)
		}
		if c.RedirectURI == "" {
			c.RedirectURI = fmt.Sprintf("%s/auth/%s/callback", C.App.BaseURL, platform)
		}
	}
	fill(&C.OAuth.Linkedin, "linkedin", "LINKEDIN_CLIENT_ID", "LINKEDIN_CLIENT_SECRET")
	fill(&C.OAuth.Twitter, "twitter", "TWITTER_CLIENT_ID", "TWITTER_CLIENT_SECRET")
	fill(&C.OAuth.Facebook, "facebook", "FACEBOOK_APP_ID", "FACEBOOK_APP_SECRET")
	fill(&C.OAuth.Instagram, "instagram", "INSTAGRAM_APP_ID", "INSTAGRAM_APP_SECRET")
	fill(&C.OAuth.Tiktok, "tiktok", "TIKTOK_CLIENT_KEY", "TIKTOK_CLIENT_SECRET")
}

// initInfra fills the optional sinks (Mongo, Redis, Pub/Sub) from
// environment variables when the config file leaves them empty.
func initInfra(C *Config) {
	setIfEmpty := func(dst *string, env string) {
		if *dst == "" {
			*dst = os.Getenv(env)
		}
	}
	setIfEmpty(&C.Mongo.Host, "MONGO_HOST")
	setIfEmpty(&C.Mongo.Port, "MONGO_PORT")
	setIfEmpty(&C.Mongo.User, "MONGO_USER")
	setIfEmpty(&C.Mongo.Password, "MONGO_PASSWORD")
	setIfEmpty(&C.Mongo.Name, "MONGO_DB_NAME")

	setIfEmpty(&C.RedisClient.Host, "REDIS_HOST")
	setIfEmpty(&C.RedisClient.Port, "REDIS_PORT")
	setIfEmpty(&C.RedisClient.Username, "REDIS_USERNAME")
	setIfEmpty(&C.RedisClient.Password, "REDIS_PASSWORD")

	setIfEmpty(&C.Pubsub.ProjectID, "PUBSUB_PROJECT_ID")
	setIfEmpty(&C.Pubsub.Topic, "PUBSUB_TOPIC")
	if C.Pubsub.Topic == "" {
		C.Pubsub.Topic = "post-published"
	}
}
