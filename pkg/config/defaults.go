package config

// Default values applied by ApplyDefaults and used by Default.
const (
	DefaultFileName       = "api.yml"
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8080
	DefaultBase           = "/"
	DefaultError          = "404 not found"
	DefaultReadBufferSize = 1024
	DefaultLogLevel       = "info"
)

// Default returns the starter configuration written when no config file
// exists: one GET / route expecting name and age, answering "hello world".
func Default() *ServerConfig {
	return &ServerConfig{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Base:     DefaultBase,
		CORS:     false,
		Error:    DefaultError,
		LogLevel: DefaultLogLevel,
		APIs: []Route{
			{
				Request: RequestPattern{
					Method: MethodGet,
					URL:    "/",
					Query:  []string{"name", "age"},
				},
				Response: ResponseTemplate{
					Timeout:     0,
					ContentType: ContentTypeText,
					Data:        "hello world",
				},
			},
		},
	}
}

// WriteDefault writes Default() to path, YAML or JSON by extension.
func WriteDefault(path string) error {
	return SaveToFile(path, Default())
}

// ApplyDefaults fills unset server-level fields. Routes are left untouched so
// the config can be shared with a running engine.
func (c *ServerConfig) ApplyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Base == "" {
		c.Base = DefaultBase
	}
	if c.Error == "" {
		c.Error = DefaultError
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = DefaultReadBufferSize
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}
