package portal

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// CapturePage is a diagnostic mode: instead of completing a login it
// loads the portal's login page and dumps a screenshot plus the page
// HTML into dir. It is invoked explicitly (never as a fallback from the
// normal flow) and is useful when the portal changes its markup and the
// stage selectors need updating.
func (d *Driver) CapturePage(ctx context.Context, dir string) (screenshotPath string, err error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", errors.Wrap(err, "[Driver.CapturePage] create capture folder")
	}

	session, err := d.auto.Launch(ctx)
	if err != nil {
		return "", errors.Wrap(DriverUnavailableErr, err.Error())
	}
	defer session.Close()

	if err := session.Navigate(d.loginURL); err != nil {
		return "", errors.Wrap(err, "[Driver.CapturePage] navigate to login")
	}
	// Give the page its normal settle window before capturing.
	_ = session.WaitVisible(emailSelector, d.emailWait)

	captureID := uuid.New().String()
	screenshotPath = filepath.Join(dir, captureID+".png")
	if err := session.Screenshot(screenshotPath); err != nil {
		return "", errors.Wrap(err, "[Driver.CapturePage] screenshot")
	}

	html, err := session.Content()
	if err != nil {
		return "", errors.Wrap(err, "[Driver.CapturePage] page content")
	}
	htmlPath := filepath.Join(dir, captureID+".html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o640); err != nil {
		return "", errors.Wrap(err, "[Driver.CapturePage] write page dump")
	}

	log.Info().Str("capture_id", captureID).Str("folder", dir).Msg("login page captured")
	return screenshotPath, nil
}
