package configuration

import (
	"time"
)

type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Exchange   ExchangeConfig   `yaml:"exchange"`
	Membership MembershipConfig `yaml:"membership"`
	Redis      RedisConfig      `yaml:"redis"`
	Proxy      ProxyConfig      `yaml:"proxy"`
	Network    NetworkConfig    `yaml:"network"`
	Throttler  ThrottlerConfig  `yaml:"throttler"`
	Metrics    MetricsConfig    `yaml:"metrics"`

	Localization LocalizationConfig `yaml:"localization"`
}

type PathsConfig struct {
	ChatsDir       string `yaml:"chats_dir"`
	ExportsDir     string `yaml:"exports_dir"`
	MembershipFile string `yaml:"membership_file"`
	ExchangeCache  string `yaml:"exchange_cache"`
	MetadataCache  string `yaml:"metadata_cache"`
	VideoList      string `yaml:"video_list"`
	ReportFile     string `yaml:"report_file"`
	CorpusFile     string `yaml:"corpus_file"`
}

type ExchangeConfig struct {
	ReferenceCurrency string `yaml:"reference_currency"`
	APIURL            string `yaml:"api_url"`
	APIKey            string `yaml:"api_key"`
}

type MembershipConfig struct {
	MonthlyPrice string `yaml:"monthly_price"`
}

type RedisConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

type ProxyConfig struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type NetworkConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type ThrottlerConfig struct {
	Limit time.Duration `yaml:"limit"`
}

type LocalizationConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Languages []string `yaml:"languages"`
}

type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

func Defaults() *Config {
	return &Config{
		Paths: PathsConfig{
			ChatsDir:       "chats",
			ExportsDir:     "exports",
			MembershipFile: "membership/member_list.json",
			ExchangeCache:  "cached_exchange_data.json",
			MetadataCache:  "metadata_cache.json",
			VideoList:      "all_videos.txt",
			ReportFile:     "report.json",
			CorpusFile:     "corpus.txt",
		},
		Exchange: ExchangeConfig{
			ReferenceCurrency: "USD",
			APIURL:            "https://api.exchangerate.host",
		},
		Membership: MembershipConfig{MonthlyPrice: "4.99"},
		Redis: RedisConfig{
			Host:        "localhost",
			Port:        6379,
			MaxRetries:  3,
			DialTimeout: 5 * time.Second,
		},
		Network:   NetworkConfig{TimeoutSeconds: 30},
		Throttler: ThrottlerConfig{Limit: time.Second},
		Localization: LocalizationConfig{
			Enabled:   true,
			Languages: []string{"en", "es", "pt", "ja", "ko", "ru", "vi", "id"},
		},
	}
}
