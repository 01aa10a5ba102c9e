package config

type Config interface {
	EnvConfig
	PortalConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

type PortalConfig interface {
	GetPortalLoginURL() string
	GetPortalHomeURL() string
	GetPortalSessionCookie() string
	GetBrowserHeadless() bool
	GetCaptureFolder() string
}

type mainConfig struct {
	EnvVars
	Portal
	Security
}

func New() Config {
	return mainConfig{}
}
