package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/kienminhkhai84-max/learngate/exchange"
	"github.com/kienminhkhai84-max/learngate/identity"
	"github.com/kienminhkhai84-max/learngate/internal/config"
	"github.com/kienminhkhai84-max/learngate/portal"
	"github.com/kienminhkhai84-max/learngate/server"
)

func main() {
	capturePage := flag.Bool("capture", false, "capture the portal login page (screenshot + html) and exit")
	flag.Parse()

	if err := run(*capturePage); err != nil {
		log.Fatalf("Error running server: %s\n", err)
	}
	log.Printf("Server stopped\n")
}

func run(capturePage bool) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	store := identity.NewFileStore(filepath.Join(c.GetDataFolder(), "token.json"))

	verifier, driver, shutdownBrowser, err := buildVerifier(c)
	if err != nil {
		return fmt.Errorf("building credential verifier: %w", err)
	}
	if shutdownBrowser != nil {
		defer shutdownBrowser()
	}

	if capturePage {
		return runCapture(driver, c)
	}

	exchangeService, err := exchange.NewService(store, verifier)
	if err != nil {
		return fmt.Errorf("exchange.NewService: %w", err)
	}

	srv, err := server.New(c, exchangeService)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// buildVerifier wires the strategy selected by configuration. The
// browser stack only spins up when the portal verifier is in use.
func buildVerifier(c config.Config) (exchange.CredentialVerifier, *portal.Driver, func(), error) {
	if c.GetVerifierMode() == config.VerifierLocal {
		zlog.Info().Msg("using local credential verifier")
		return exchange.NewLocalVerifier(), nil, nil, nil
	}

	automation, err := portal.NewPlaywrightAutomation(c.GetBrowserHeadless())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("portal.NewPlaywrightAutomation: %w", err)
	}
	shutdownBrowser := func() {
		if err := automation.Shutdown(); err != nil {
			zlog.Err(err).Msg("playwright shutdown failed")
		}
	}

	driver, err := portal.NewDriver(automation, c.GetPortalLoginURL(), c.GetPortalHomeURL(), c.GetPortalSessionCookie())
	if err != nil {
		shutdownBrowser()
		return nil, nil, nil, fmt.Errorf("portal.NewDriver: %w", err)
	}

	verifier, err := exchange.NewPortalVerifier(driver)
	if err != nil {
		shutdownBrowser()
		return nil, nil, nil, fmt.Errorf("exchange.NewPortalVerifier: %w", err)
	}
	zlog.Info().Str("portal", c.GetPortalLoginURL()).Msg("using portal credential verifier")
	return verifier, driver, shutdownBrowser, nil
}

func runCapture(driver *portal.Driver, c config.Config) error {
	if driver == nil {
		return errors.New("capture requires CREDENTIAL_VERIFIER=portal")
	}
	path, err := driver.CapturePage(context.Background(), c.GetCaptureFolder())
	if err != nil {
		return fmt.Errorf("capture login page: %w", err)
	}
	log.Printf("Login page captured: %s\n", path)
	return nil
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(httpServer *http.Server) error {
	log.Printf("Server listening on %s\n", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
