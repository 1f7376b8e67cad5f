package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"renewalpulse/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("reminder.sweepAt", "09:00")
	viper.SetDefault("reminder.defaultLeadDays", 7)
	viper.SetDefault("rates.refreshAt", "03:00")
	viper.SetDefault("rates.apiUrl", "https://open.er-api.com/v6/latest/CNY")
	viper.SetDefault("rates.homeCurrency", "CNY")
	viper.SetDefault("rates.timeout", 10*time.Second)
	viper.SetDefault("notify.timeout", 10*time.Second)
	viper.SetDefault("notify.historySize", 200)
	viper.SetDefault("notify.email.port", 587)
	viper.SetDefault("notify.email.startTls", true)
	viper.SetDefault("notify.telegram.apiUrl", "https://api.telegram.org")
	viper.SetDefault("cache.ttl", time.Minute)

	viper.BindEnv("logger.level", "RENEWAL_LOG_LEVEL")
	viper.BindEnv("reminder.sweepAt", "RENEWAL_SWEEP_AT")
	viper.BindEnv("reminder.defaultLeadDays", "RENEWAL_DEFAULT_LEAD_DAYS")
	viper.BindEnv("rates.refreshAt", "RENEWAL_RATES_REFRESH_AT")
	viper.BindEnv("rates.apiUrl", "RENEWAL_RATES_API_URL")
	viper.BindEnv("rates.homeCurrency", "RENEWAL_HOME_CURRENCY")
	viper.BindEnv("notify.telegram.botToken", "RENEWAL_TG_BOT_TOKEN")
	viper.BindEnv("notify.telegram.chatId", "RENEWAL_TG_CHAT_ID")
	viper.BindEnv("notify.email.password", "RENEWAL_SMTP_PASSWORD")
	viper.BindEnv("auth.passwordHash", "RENEWAL_PASSWORD_HASH")
	viper.BindEnv("persistence.saveInterval", "RENEWAL_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "RENEWAL_CACHE_ENABLED")
	viper.BindEnv("cache.size", "RENEWAL_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "RenewalPulse"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
