package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Telegram Telegram
	Storage  Storage
}

type Server struct {
	Port string
}

type Telegram struct {
	BotToken  string
	WebAppURL string
	// DevSkipInitDataValidation accepts unsigned initData and the
	// X-Dev-User-Id header. Never enable outside local development.
	DevSkipInitDataValidation bool
}

type Storage struct {
	DataPath string
	FilesDir string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATA_PATH", "data/data.json")
	viper.SetDefault("FILES_DIR", "data/files")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Telegram.BotToken = viper.GetString("BOT_TOKEN")
	config.Telegram.WebAppURL = viper.GetString("WEBAPP_URL")
	config.Telegram.DevSkipInitDataValidation = viper.GetBool("DEV_SKIP_INITDATA_VALIDATION")
	config.Storage.DataPath = viper.GetString("DATA_PATH")
	config.Storage.FilesDir = viper.GetString("FILES_DIR")

	log.Info().
		Str("port", config.Server.Port).
		Str("data_path", config.Storage.DataPath).
		Bool("dev_skip_initdata", config.Telegram.DevSkipInitDataValidation).
		Msg("Config loaded")
	return &config, nil
}
