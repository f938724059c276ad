package main

import (
	"context"
	"fmt"
	"time"

	"github.com/df-mc/dragonfly/server"
	"github.com/spf13/cobra"

	"github.com/oriumgames/traitswap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Dragonfly server",
	Long:  `Start a Dragonfly server with trait assignment and swap-on-death enabled.`,
	RunE:  runServe,
}

var flagListen string

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "address to listen on (overrides TRAITSWAP_LISTEN)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}
	log := cfg.logger()

	st, err := cfg.openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	mngr, err := traitswap.NewBuilder().
		Store(st).
		Logger(log).
		RespawnDelay(cfg.RespawnDelay).
		SaveTimeout(cfg.SaveTimeout).
		Init(ctx)
	cancel()
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("init traitswap: %w", err)
	}
	traitswap.RegisterCommands()

	uc := server.DefaultConfig()
	uc.Network.Address = cfg.Listen
	conf, err := uc.Config(log)
	if err != nil {
		_ = mngr.Shutdown(context.Background())
		return fmt.Errorf("server config: %w", err)
	}

	srv := conf.New()
	srv.CloseOnProgramEnd()
	srv.Listen()
	log.Info("traitswap: server listening", "address", cfg.Listen, "store", cfg.Store)

	for p := range srv.Accept() {
		sess, err := mngr.NewSession(p)
		if err != nil {
			log.Warn("traitswap: failed to create session", "player", p.Name(), "error", err)
			p.Disconnect("failed to initialize session")
			continue
		}
		p.Handle(traitswap.NewHandler(sess))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := mngr.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("traitswap: stopped")
	return nil
}
