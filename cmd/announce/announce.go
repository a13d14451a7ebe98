// Package announce implements the svcbeacon announce CLI entry point.
package announce

import (
	"fmt"

	"svcbeacon/internal/beacon"
	"svcbeacon/internal/sysinfo"
	"svcbeacon/pkg/config"
	"svcbeacon/pkg/logger"
)

// Run starts the periodic beacon sender and blocks until it fails.
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

	info := sysinfo.Collect()
	log.Info().
		Str("host", info.Hostname).
		Str("ip", info.IPAddress).
		Str("platform", info.Platform).
		Str("service", cfg.Announce.ServiceName).
		Int("service_port", cfg.Announce.ServicePort).
		Msg("Starting beacon announcer")

	sender, err := beacon.NewSender(
		uint16(cfg.Announce.ServicePort),
		[]byte(cfg.Announce.ServiceName),
		cfg.Announce.BroadcastPort,
		log,
	)
	if err != nil {
		return fmt.Errorf("creating sender: %w", err)
	}
	defer sender.Close()

	return sender.SendLoop(interval)
}
