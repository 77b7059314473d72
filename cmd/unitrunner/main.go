package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/goconfig"

	arena "github.com/pavanmanishd/arenakit"
	"github.com/pavanmanishd/arenakit/internal/logging"
	"github.com/pavanmanishd/arenakit/internal/unit"
)

// maxUnitsLimit bounds MaxUnits so that the match arena stays well under
// arena.MaxSize.
const maxUnitsLimit = 1 << 16

type Config struct {
	Player    string `usage:"player number reported in logs"`
	MaxUnits  int    `usage:"units remembered per match"`
	ArenaSize int    `usage:"bytes reserved for match memory, 0 sizes it from MaxUnits"`
	Mmap      bool   `usage:"back the match arena with an anonymous mapping"`
	LogFormat string `usage:"log format: text | json"`
	LogLevel  string `usage:"log level: debug | info | warn | error"`
}

func defaultConfig() Config {
	return Config{
		Player:    "1",
		MaxUnits:  64,
		LogFormat: "text",
		LogLevel:  "info",
	}
}

func (c Config) validate() error {
	if c.MaxUnits <= 0 || c.MaxUnits > maxUnitsLimit {
		return fmt.Errorf("max units %d outside [1, %d]", c.MaxUnits, maxUnitsLimit)
	}
	if c.ArenaSize < 0 || int64(c.ArenaSize) > arena.MaxSize {
		return fmt.Errorf("arena size %d outside [0, %d]", c.ArenaSize, int64(arena.MaxSize))
	}
	if need := unit.ArenaSize(c.MaxUnits); c.ArenaSize != 0 && c.ArenaSize < need {
		return fmt.Errorf("arena size %d too small for %d units, need %d", c.ArenaSize, c.MaxUnits, need)
	}
	return nil
}

func main() {
	c := defaultConfig()
	goconfig.Read(&c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, c, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, c Config, in io.Reader, out, errOut io.Writer) int {
	log, err := logging.New(errOut, c.LogFormat, c.LogLevel)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	log = log.With("player", c.Player)

	if err := c.validate(); err != nil {
		log.Error("bad config", "err", err)
		return 2
	}
	size := c.ArenaSize
	if size == 0 {
		size = unit.ArenaSize(c.MaxUnits)
	}

	opts := []arena.Option{arena.WithName("match"), arena.WithLogger(log)}
	if c.Mmap {
		opts = append(opts, arena.WithMmap())
	}
	a := arena.NewArena(size, opts...)
	defer func() {
		if err := a.Release(); err != nil {
			log.Error("release match arena", "err", err)
		}
	}()

	r := unit.NewRunner(a, c.MaxUnits, log)
	log.Info("runner started", "max_units", c.MaxUnits, "arena_bytes", size)
	if err := r.Run(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("runner stopped", "err", err)
		return 1
	}
	r.EndMatch()
	return 0
}
