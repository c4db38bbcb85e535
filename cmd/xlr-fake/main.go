// ABOUTME: Fake XLR appliance for local development and end-to-end runs
// ABOUTME: Usage: xlr-fake [-addr :5000] [-pin 1234] [-hardware]

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/xlr-panel/internal/config"
	"github.com/2389/xlr-panel/internal/fakepanel"
	"github.com/2389/xlr-panel/internal/logging"
)

const banner = `
      _                __       _
__  _| |_ __          / _| __ _| | _____
\ \/ / | '__|  _____ | |_ / _' | |/ / _ \
 >  <| | |    |_____||  _| (_| |   <  __/
/_/\_\_|_|           |_|  \__,_|_|\_\___|
`

func main() {
	addr := flag.String("addr", ":5000", "Listen address")
	pin := flag.String("pin", "1234", "PIN accepted by /api/login")
	hardware := flag.Bool("hardware", false, "Report mixer hardware as present")
	level := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	if err := run(*addr, *pin, *hardware, *level); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, pin string, hardware bool, level string) error {
	logger, closeLog, err := logging.Setup(config.LoggingConfig{Level: level}, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	color.New(color.FgCyan).Print(banner)
	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Listen:    %s\n", addr)
	green.Print("    ▶ ")
	fmt.Printf("PIN:       %s\n", pin)
	green.Print("    ▶ ")
	fmt.Printf("Hardware:  %t\n\n", hardware)

	fake := fakepanel.New(pin, logger)
	fake.SetHardware(hardware)

	srv := &http.Server{
		Addr:              addr,
		Handler:           fake,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
