package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Bot: BotConfig{
			ChannelURL: "https://t.me/mediadex",
		},
		Search: SearchConfig{
			CacheTime:  300,
			MaxResults: 50,
		},
		Index: IndexConfig{
			DBPath: "~/.mediadex/index.db",
		},
		Web: WebConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8080,
		},
	}
}
