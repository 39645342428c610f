package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/cardakit/config"
	"github.com/Klingon-tech/cardakit/internal/log"
	"github.com/Klingon-tech/cardakit/internal/provider/blockfrost"
	"github.com/Klingon-tech/cardakit/internal/storage"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	d := config.Default()

	root := &cobra.Command{
		Use:           "cardakit",
		Short:         "Cardano key derivation and wallet queries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file (yaml, toml or json)")
	pf.String("network", "", "network: mainnet, preprod or preview")
	pf.String("project-id", "", "Blockfrost project id (or "+config.ProjectIDEnv+")")
	pf.String("endpoint", "", "override the indexer API URL")
	pf.Int("concurrency", d.Concurrency, "maximum simultaneous indexer requests")
	pf.Int("rate-limit", d.RateLimit, "indexer requests per second, 0 for unlimited")
	pf.Duration("timeout", d.Timeout, "HTTP request timeout")
	pf.String("cache", d.Cache.Backend, "script cache backend: memory or badger")
	pf.String("log-level", d.Log.Level, "log level: trace, debug, info, warn, error, off")
	pf.String("log-file", "", "also write JSON logs to this file")
	pf.Bool("log-json", false, "log JSON to stderr")

	root.AddCommand(
		genSeedCmd(),
		addressCmd(),
		privKeyCmd(),
		pubKeyCmd(),
		utxosCmd(opts),
		walletCmd(opts),
		tokenCmd(opts),
		tokensCmd(opts),
		holdersCmd(opts),
		historyCmd(opts),
		confirmationsCmd(opts),
		metadataCmd(opts),
		tipCmd(opts),
		blockCmd(opts),
		poolCmd(opts),
		epochCmd(opts),
		networkCmd(opts),
	)
	return root
}

// session is a configured provider for one command run.
type session struct {
	cfg   *config.Config
	bf    *blockfrost.Blockfrost
	cache storage.DB
}

func (s *session) Close() {
	if err := s.bf.Close(); err != nil {
		log.CLI.Warn().Err(err).Msg("close provider")
	}
	if err := s.cache.Close(); err != nil {
		log.CLI.Warn().Err(err).Msg("close cache")
	}
	if err := log.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close log:", err)
	}
}

// openSession loads the configuration and builds the provider.
func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := config.Load(opts.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	cache, err := storage.Open(cfg.Cache.Backend)
	if err != nil {
		return nil, err
	}
	bf, err := blockfrost.New(blockfrost.Config{
		ProjectID:   cfg.ProjectID,
		Endpoint:    cfg.Endpoint,
		Concurrency: cfg.Concurrency,
		RateLimit:   cfg.RateLimit,
		Timeout:     cfg.Timeout,
		Breaker: blockfrost.BreakerConfig{
			MinRequests:  cfg.Breaker.MinRequests,
			FailureRatio: cfg.Breaker.FailureRatio,
			OpenTimeout:  cfg.Breaker.OpenTimeout,
		},
		Cache: cache,
	})
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	log.CLI.Debug().
		Str("network", string(bf.Network())).
		Int("concurrency", cfg.Concurrency).
		Str("cache", cfg.Cache.Backend).
		Msg("provider ready")
	return &session{cfg: cfg, bf: bf, cache: cache}, nil
}

// withSession wraps a command body that needs a provider.
func withSession(opts *rootOptions, run func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, opts)
		if err != nil {
			return err
		}
		defer s.Close()

		start := time.Now()
		err = run(cmd, args, s)
		log.CLI.Debug().Str("command", cmd.Name()).Dur("took", time.Since(start)).Err(err).Msg("done")
		return err
	}
}
