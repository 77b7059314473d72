package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fulldump/goconfig"
	"golang.org/x/sync/errgroup"

	arena "github.com/pavanmanishd/arenakit"
	"github.com/pavanmanishd/arenakit/internal/benchkit"
	"github.com/pavanmanishd/arenakit/internal/logging"
)

type Config struct {
	Workers    int    `usage:"number of concurrent workers, each with its own arena"`
	Iterations int    `usage:"measured runs per scenario and method"`
	Methods    string `usage:"comma separated cache clearing methods: none,thorough,stride,random"`
	ArenaSize  int    `usage:"bytes per worker arena"`
	Mmap       bool   `usage:"back worker arenas with anonymous mappings"`
	File       string `usage:"optional file to load into the arena as an extra scenario"`
	Seed       int64  `usage:"seed for the random cache clearing method"`
	LogFormat  string `usage:"log format: text | json"`
	LogLevel   string `usage:"log level: debug | info | warn | error"`
}

func main() {
	os.Exit(run())
}

func run() int {
	c := Config{
		Workers:    4,
		Iterations: 100,
		Methods:    "none,thorough,stride,random",
		ArenaSize:  arena.MiB,
		Seed:       1,
		LogFormat:  "text",
		LogLevel:   "info",
	}
	goconfig.Read(&c)

	log, err := logging.New(os.Stderr, c.LogFormat, c.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	methods, err := parseMethods(c.Methods)
	if err != nil {
		log.Error("bad methods", "err", err)
		return 2
	}
	scenarios := benchkit.Scenarios()
	if c.File != "" {
		scenarios = append(scenarios, benchkit.FileScenario(c.File))
	}

	var (
		mu      sync.Mutex
		results []benchkit.Result
	)
	g, ctx := errgroup.WithContext(context.Background())
	for w := range c.Workers {
		g.Go(func() error {
			opts := []arena.Option{arena.WithName(fmt.Sprintf("bench-%d", w)), arena.WithLogger(log)}
			if c.Mmap {
				opts = append(opts, arena.WithMmap())
			}
			a := arena.NewArena(c.ArenaSize, opts...)
			defer a.Release()
			clearer := benchkit.NewClearer(uint64(c.Seed) + uint64(w))

			for _, m := range methods {
				for _, s := range scenarios {
					if err := ctx.Err(); err != nil {
						return err
					}
					res, err := benchkit.Bench(a, clearer, m, s, c.Iterations)
					if err != nil {
						return err
					}
					res.Worker = w
					mu.Lock()
					results = append(results, res)
					mu.Unlock()
				}
			}
			log.Debug("worker done", "worker", w, "high_water", a.Metrics().HighWater, "sink", clearer.Sink())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("benchmark failed", "err", err)
		return 1
	}

	for _, r := range results {
		log.Info("result",
			"worker", r.Worker,
			"scenario", r.Scenario,
			"method", r.Method.String(),
			"iterations", r.Iterations,
			"avg", r.Avg,
		)
	}
	return 0
}

func parseMethods(s string) ([]benchkit.Method, error) {
	var ms []benchkit.Method
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m, err := benchkit.ParseMethod(name)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	if len(ms) == 0 {
		return nil, fmt.Errorf("no cache clearing method in %q", s)
	}
	return ms, nil
}
