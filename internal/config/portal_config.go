package config

import "path/filepath"

// Defaults point at the NVIDIA learning portal this gateway was built
// against. Every value can be overridden through the environment so the
// same binary can drive a staging portal or a local fixture.
const (
	defaultLoginURL      = "https://learn.learn.nvidia.com/login"
	defaultHomeURL       = "https://learn.learn.nvidia.com/dashboard"
	defaultSessionCookie = "sessionid"
)

type Portal struct{}

var _ PortalConfig = Portal{}

func (Portal) GetPortalLoginURL() string {
	return GetEnv("PORTAL_LOGIN_URL", defaultLoginURL)
}

func (Portal) GetPortalHomeURL() string {
	return GetEnv("PORTAL_HOME_URL", defaultHomeURL)
}

func (Portal) GetPortalSessionCookie() string {
	return GetEnv("PORTAL_SESSION_COOKIE", defaultSessionCookie)
}

func (p Portal) GetBrowserHeadless() bool {
	return GetEnv("BROWSER_HEADLESS", "true") != "false"
}

// GetCaptureFolder is where diagnostic page captures are written.
func (p Portal) GetCaptureFolder() string {
	if folder := GetEnv("CAPTURE_FOLDER", ""); folder != "" {
		return folder
	}
	return filepath.Join(EnvVars{}.GetDataFolder(), "captures")
}
