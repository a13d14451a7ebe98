// Package listen implements the svcbeacon listen CLI entry point.
package listen

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"svcbeacon/internal/listener"
	"svcbeacon/pkg/config"
	"svcbeacon/pkg/logger"
)

// Run waits for a single beacon matching the configured service name and
// prints it. Positional args override the config: first the service name,
// then a timeout in seconds.
func Run(configPath string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.Init(cfg.Listen.LogLevel)

	name := cfg.Listen.ServiceName
	if len(args) > 0 {
		name = args[0]
	}

	timeout, err := cfg.Listen.ParseTimeout()
	if err != nil {
		return fmt.Errorf("parsing timeout: %w", err)
	}
	if len(args) > 1 {
		secs, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", args[1], err)
		}
		timeout = time.Duration(secs) * time.Second
	}

	log.Info().
		Str("service", name).
		Dur("timeout", timeout).
		Msg("Waiting for a beacon")

	lst, err := listener.New([]byte(name), cfg.Listen.BroadcastPort, log)
	if err != nil {
		return fmt.Errorf("creating listener: %w", err)
	}
	defer lst.Close()

	b, err := lst.Wait(timeout)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return fmt.Errorf("no beacon for service %q within %s", name, timeout)
		}
		return err
	}

	fmt.Println(b)
	return nil
}
