package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/samtaute/fotoscapes-widget/internal/engine"
	"github.com/samtaute/fotoscapes-widget/internal/feed"
	"github.com/samtaute/fotoscapes-widget/internal/logger"
	"github.com/samtaute/fotoscapes-widget/internal/model"
	"github.com/samtaute/fotoscapes-widget/internal/server"
	"github.com/samtaute/fotoscapes-widget/internal/store"
	"github.com/samtaute/fotoscapes-widget/internal/telemetry"
	"github.com/samtaute/fotoscapes-widget/internal/user"
)

var (
	configPath string
	ephemeral  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lookbook",
		Short: "Client-side lookbook personalization service",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/server.yaml", "Path to server config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	serveCmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "Keep weights in memory only (no durable store)")

	weightsCmd := &cobra.Command{
		Use:   "weights",
		Short: "Inspect or reset persisted interest weights",
	}
	weightsCmd.AddCommand(
		&cobra.Command{
			Use:   "show <user-id>",
			Short: "Print a user's weight map as JSON",
			Args:  cobra.ExactArgs(1),
			RunE:  runWeightsShow,
		},
		&cobra.Command{
			Use:   "reset <user-id>",
			Short: "Clear a user's weight map",
			Args:  cobra.ExactArgs(1),
			RunE:  runWeightsReset,
		},
	)

	rootCmd.AddCommand(serveCmd, weightsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Server.Debug)

	// 1. 权重存储
	var weightStore store.WeightStore
	if ephemeral {
		weightStore = store.NewMemoryStore()
		log.Info("running with ephemeral in-memory weight store")
	} else {
		db, err := store.Open(cfg.Paths.Data)
		if err != nil {
			return err
		}
		defer db.Close()
		weightStore = store.NewBadgerStore(db, log)
	}

	// 2. 遥测：日志 + 指标，可选事件文件
	metrics := telemetry.NewMetrics()
	observers := telemetry.Multi{telemetry.NewLogObserver(log), metrics}
	if cfg.Paths.Events != "" {
		observers = append(observers, telemetry.NewFileSink(cfg.Paths.Events, log))
	}

	// 3. 个性化引擎
	eng := engine.New(weightStore, log, engine.WithObserver(observers))

	// 4. 信息流拉取器（可选）与本地兴趣表兜底
	var fetcher *feed.Fetcher
	if cfg.Feed.Endpoint != "" {
		fetcher = feed.NewFetcher(cfg.Feed.Endpoint, cfg.Feed.TTL)
	}

	interests := model.DefaultInterestTable{}
	if cfg.Paths.Interests != "" {
		if table, err := feed.LoadInterestTable(cfg.Paths.Interests); err != nil {
			log.Warn("could not load local interest table", "path", cfg.Paths.Interests, "error", err)
		} else {
			interests = table
		}
	}

	// 5. 用户注册表
	userProvider, err := user.NewStaticProvider(cfg.Paths.Users)
	if err != nil {
		return fmt.Errorf("failed to init user provider: %w", err)
	}

	// 6. 启动 HTTP Server
	srv := server.NewServer(userProvider, eng, fetcher, interests, metrics.Handler(), log)
	log.Info("starting HTTP server", "addr", cfg.Server.Addr)
	return srv.Run(cfg.Server.Addr)
}

func openEngine() (*engine.Engine, func(), error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cfg.Server.Debug)
	db, err := store.Open(cfg.Paths.Data)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(store.NewBadgerStore(db, log), log)
	return eng, func() { db.Close() }, nil
}

func runWeightsShow(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	weights, err := eng.Weights(context.Background(), args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runWeightsReset(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := eng.Reset(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("weights cleared for user %s\n", args[0])
	return nil
}
