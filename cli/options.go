package cli

// Options represents global command line options
type Options struct {
	ConfigURL string `short:"c" long:"config" env:"MYCOACH_CONFIG" description:"yaml config file"`
	Endpoint  string `short:"e" long:"endpoint" description:"backend api url, overrides config endpoint"`
	LogLevel  string `short:"l" long:"log-level" description:"log level" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"off"`
}
