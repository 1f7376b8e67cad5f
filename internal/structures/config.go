package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type ReminderConfig struct {
	SweepAt         string `yaml:"sweepAt" validate:"required"`
	DefaultLeadDays int    `yaml:"defaultLeadDays" validate:"min:0"`
}

type RatesConfig struct {
	RefreshAt    string        `yaml:"refreshAt" validate:"required"`
	ApiUrl       string        `yaml:"apiUrl" validate:"required|fullUrl"`
	HomeCurrency string        `yaml:"homeCurrency" validate:"required"`
	Timeout      time.Duration `yaml:"timeout"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	ApiUrl   string `yaml:"apiUrl"`
}

type EmailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Sender   string `yaml:"sender"`
	StartTLS bool   `yaml:"startTls"`
}

type NotifyConfig struct {
	Telegram    TelegramConfig `yaml:"telegram"`
	Email       EmailConfig    `yaml:"email"`
	Timeout     time.Duration  `yaml:"timeout"`
	HistorySize int            `yaml:"historySize"`
}

type AuthConfig struct {
	PasswordHash string `yaml:"passwordHash"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Reminder    ReminderConfig `yaml:"reminder"`
	Rates       RatesConfig    `yaml:"rates"`
	Notify      NotifyConfig   `yaml:"notify"`
	Auth        AuthConfig     `yaml:"auth"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}
