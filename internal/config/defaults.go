package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = ".techou/notebooks.db"
	}
	if cfg.Search.ContextSize == 0 {
		cfg.Search.ContextSize = 50
	}
	// Negative means the budget is disabled, so only zero is rewritten.
	if cfg.Search.RegexTimeoutMs == 0 {
		cfg.Search.RegexTimeoutMs = 2000
	}
	if cfg.Count.DefaultTopWords == 0 {
		cfg.Count.DefaultTopWords = 10
	}
	if cfg.Count.StopwordLang == "" {
		cfg.Count.StopwordLang = "en"
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".md"}
	}
	if cfg.Watch.Notebook == "" {
		cfg.Watch.Notebook = "Imported"
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
