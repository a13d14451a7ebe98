// Package discover implements the svcbeacon discover CLI entry point:
// announce a service and wait until its own beacon is observed, proving that
// broadcast discovery works on the local network segment.
package discover

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"

	"svcbeacon/internal/beacon"
	"svcbeacon/internal/listener"
	"svcbeacon/internal/sysinfo"
	"svcbeacon/pkg/config"
	"svcbeacon/pkg/logger"
)

// Run starts a sender loop and a listener for the same service and returns
// once the listener observes the announcement or times out.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.Init(cfg.Announce.LogLevel)

	if cfg.Announce.ServicePort <= 0 || cfg.Announce.ServicePort > 65535 {
		return fmt.Errorf("service_port must be the advertised port (1-65535), got %d", cfg.Announce.ServicePort)
	}

	interval, err := cfg.Announce.ParseInterval()
	if err != nil {
		return fmt.Errorf("parsing interval: %w", err)
	}
	timeout, err := cfg.Listen.ParseTimeout()
	if err != nil {
		return fmt.Errorf("parsing timeout: %w", err)
	}

	info := sysinfo.Collect()
	log.Info().
		Str("host", info.Hostname).
		Str("ip", info.IPAddress).
		Str("service", cfg.Announce.ServiceName).
		Msg("Starting discovery round trip")

	serviceName := []byte(cfg.Announce.ServiceName)

	// Bind the listener first so the broadcast port is held before the
	// first beacon goes out.
	lst, err := listener.New(serviceName, cfg.Listen.BroadcastPort, log)
	if err != nil {
		return fmt.Errorf("creating listener: %w", err)
	}
	defer lst.Close()

	sender, err := beacon.NewSender(
		uint16(cfg.Announce.ServicePort),
		serviceName,
		cfg.Announce.BroadcastPort,
		log,
	)
	if err != nil {
		return fmt.Errorf("creating sender: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error {
		err := sender.SendLoop(interval)
		if errors.Is(err, net.ErrClosed) {
			// The listener matched and shut the sender down.
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer sender.Close()

		b, err := lst.Wait(timeout)
		if err != nil {
			return fmt.Errorf("waiting for own beacon: %w", err)
		}
		fmt.Println(b)
		return nil
	})

	return g.Wait()
}
