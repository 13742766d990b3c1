package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Gunvolt24/weather_dash/config"
	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/provider/openweather"
	"github.com/Gunvolt24/weather_dash/internal/session"
	"github.com/Gunvolt24/weather_dash/internal/usecase"
	"github.com/Gunvolt24/weather_dash/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// result — одна строка вывода (JSONL).
type result struct {
	Query    string            `json:"query"`
	Status   session.Status    `json:"status"`
	Snapshot *domain.Snapshot  `json:"snapshot,omitempty"`
	Error    *domain.ErrorInfo `json:"error,omitempty"`
}

// CLI-приложение для разового запроса погоды: места из аргументов или построчно из stdin.
func main() {
	unitStr := flag.String("unit", "celsius", "display unit: celsius|fahrenheit (metric|imperial)")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Parse()

	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	unit, err := domain.ParseUnit(*unitStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unit: %v\n", err)
		os.Exit(2)
	}

	base := zap.NewNop()
	if *verbose {
		base, _ = zap.NewDevelopment()
	}
	logg := logger.NewFromZap(base)
	defer func() { _ = base.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider := openweather.NewClient(openweather.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Timeout: cfg.Provider.Timeout,
	}, nil)
	orchestrator := usecase.NewOrchestrator(provider, logg, cfg.Cache.TTL)
	store := session.NewStore(orchestrator, logg, session.Initial(cfg.Cache.Capacity, unit),
		session.WithFetchTimeout(cfg.Session.FetchTimeout))

	go func() { _ = store.Run(ctx) }()
	defer func() { _ = store.Close() }()

	queries := flag.Args()
	if len(queries) == 0 {
		queries, err = readLines(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
			os.Exit(1)
		}
	}

	failed, err := lookup(ctx, store, queries, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookup: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "done (total=%d failed=%d)\n", len(queries), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// lookup — последовательные запросы через сессию; повторные места берутся из кэша.
func lookup(ctx context.Context, store *session.Store, queries []string, out io.Writer) (failed int, err error) {
	enc := json.NewEncoder(out)
	for _, q := range queries {
		token, err := store.RequestWeather(ctx, q)
		if err != nil {
			return failed, err
		}
		st, err := store.Wait(ctx, token)
		if err != nil {
			return failed, err
		}

		res := result{Query: q, Status: st.Status, Error: st.LastError}
		if st.Current != nil {
			snap := st.Current.In(st.Unit)
			res.Snapshot = &snap
		}
		if st.Status == session.StatusError {
			failed++
		}
		if err := enc.Encode(res); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

// readLines — непустые строки входа без пробелов по краям.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
