// Command mediaengine wires the real-time media engine's components
// together into a runnable process: a relay allocation manager with a
// periodic expiry sweep, a congestion controller, and an event bus (NATS
// when enabled, in-memory otherwise). The transcode and notify workers are
// not started by this command. Grounded on
// testnet/cmd/main.go's flag-parse/validate/run structure.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coldwire/mediacore/congestion"
	"github.com/coldwire/mediacore/engineconfig"
	"github.com/coldwire/mediacore/eventbus"
	"github.com/coldwire/mediacore/relay"
)

// cliFlags holds the command-line configuration.
type cliFlags struct {
	maxAllocations  int
	defaultLifetime time.Duration
	sweepInterval   time.Duration
	natsURL         string
	enableEventBus  bool
	logLevel        string
}

func parseFlags() *cliFlags {
	f := &cliFlags{}
	flag.IntVar(&f.maxAllocations, "max-allocations", relay.DefaultMaxAllocations, "Maximum concurrent relay allocations")
	flag.DurationVar(&f.defaultLifetime, "allocation-lifetime", 10*time.Minute, "Default relay allocation lifetime")
	flag.DurationVar(&f.sweepInterval, "sweep-interval", 30*time.Second, "Interval between expired-allocation sweeps")
	flag.StringVar(&f.natsURL, "nats-url", "nats://127.0.0.1:4222", "NATS server URL for the event bus")
	flag.BoolVar(&f.enableEventBus, "event-bus", false, "Connect to NATS for the event bus instead of using an in-memory bus")
	flag.StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()
	return f
}

func (f *cliFlags) toOptions() *engineconfig.Options {
	o := engineconfig.NewOptions()
	o.Allocation.MaxAllocations = f.maxAllocations
	o.Allocation.DefaultLifetime = f.defaultLifetime
	o.EventBus.Enabled = f.enableEventBus
	o.EventBus.URL = f.natsURL
	return o
}

func setupSignalHandling(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		sig := <-sigChan
		logrus.WithField("signal", sig.String()).Info("received interrupt, shutting down")
		cancel()
	}()
}

// sweepLoop periodically sweeps expired allocations until ctx is
// cancelled (spec §9: "every long-running task... must observe a
// cancellation signal at each loop iteration").
func sweepLoop(ctx context.Context, mgr *relay.Manager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mgr.SweepExpired(); n > 0 {
				logrus.WithField("removed", n).Debug("swept expired allocations")
			}
		}
	}
}

func connectEventBus(opts *engineconfig.Options) (eventbus.Bus, error) {
	if !opts.EventBus.Enabled {
		return eventbus.NewMemoryBus(), nil
	}
	return eventbus.NewNatsBus(opts.EventBus.URL)
}

func main() {
	os.Exit(run())
}

func run() int {
	flags := parseFlags()
	if level, err := logrus.ParseLevel(flags.logLevel); err == nil {
		logrus.SetLevel(level)
	}

	opts := flags.toOptions()
	if err := opts.Validate(); err != nil {
		logrus.WithError(err).Error("invalid configuration")
		return 1
	}

	allocManager := relay.NewManager(opts.Allocation.DefaultLifetime, opts.Allocation.MaxAllocations)
	controller := congestion.NewController(opts.Congestion.ToControllerConfig())
	logrus.WithField("initial_rate_bps", controller.CurrentRate()).Debug("congestion controller initialized")

	bus, err := connectEventBus(opts)
	if err != nil {
		logrus.WithError(err).Error("failed to connect event bus")
		return 1
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	go sweepLoop(ctx, allocManager, flags.sweepInterval)

	logrus.WithFields(logrus.Fields{
		"max_allocations":  opts.Allocation.MaxAllocations,
		"default_lifetime": opts.Allocation.DefaultLifetime,
		"event_bus":        opts.EventBus.Enabled,
	}).Info("media engine started")

	<-ctx.Done()
	fmt.Println("media engine stopped")
	return 0
}
