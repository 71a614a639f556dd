// Command asyncq runs a grouping query over a JSON-lines file and prints one
// JSON row per group.
//
// Usage:
//
//	asyncq -config query.yml
//
// Settings come from the config file, an optional .env file and ASYNCQ_*
// environment variables, in increasing priority.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/asyncq/config"
	"github.com/kbukum/asyncq/logger"
)

func main() {
	configFile := flag.String("config", "", "path to the query config file")
	envFile := flag.String("env", "", "path to a .env file")
	flag.Parse()

	cfg, err := loadConfig(*configFile, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asyncq: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger().WithComponent(cfg.Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			log.Info("Received signal, canceling query", logger.Fields("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := run(ctx, cfg, os.Stdout, log); err != nil {
		log.WithError(err).Error("Query failed")
		cancel()
		os.Exit(1)
	}
}

func loadConfig(configFile, envFile string) (*QueryConfig, error) {
	opts := []config.LoaderOption{config.WithEnvPrefix("ASYNCQ")}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	var cfg QueryConfig
	if err := config.LoadConfig("asyncq", &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// run executes the configured query and writes its rows to out.
func run(ctx context.Context, cfg *QueryConfig, out io.Writer, log *logger.Logger) error {
	runID := uuid.NewString()
	log = log.WithFields(logger.Fields(logger.FieldRunID, runID))
	start := time.Now()

	log.Info("Starting query", logger.Fields(
		"input", cfg.Input,
		"group_by", cfg.GroupBy,
		"aggregate", cfg.Aggregate,
	))

	rows := BuildQuery(cfg, ReadRecords(cfg.Input), log)
	written, err := WriteRows(ctx, out, rows, cfg.ChunkSize)
	if err != nil {
		return err
	}

	fields := logger.DurationFields("query", time.Since(start))
	fields[logger.FieldCount] = written
	log.Info("Query completed", fields)
	return nil
}
