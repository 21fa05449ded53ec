package cmd

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nftrade-labs/NFTradeBackend/pkg/logger/xzap"
	"github.com/nftrade-labs/NFTradeBackend/src/api/router"
	"github.com/nftrade-labs/NFTradeBackend/src/app"
	"github.com/nftrade-labs/NFTradeBackend/src/config"
	"github.com/nftrade-labs/NFTradeBackend/src/service/svc"
)

var DaemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "serve the NFTrade offer orchestration API.",
	Long:  "serve the NFTrade offer orchestration API.",
	Run: func(cmd *cobra.Command, args []string) {
		wg := &sync.WaitGroup{}
		wg.Add(1)

		ctx, cancel := context.WithCancel(context.Background())

		onExit := make(chan error, 1)

		go func() {
			defer wg.Done()

			cfg, err := config.UnmarshalConfig(cfgFile)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to unmarshal config", zap.Error(err))
				onExit <- err
				return
			}

			serverCtx, err := svc.NewServiceContext(cfg)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to create service context", zap.Error(err))
				onExit <- err
				return
			}

			xzap.WithContext(ctx).Info("nftrade server start", zap.Any("config", cfg.ChainCfg))

			if cfg.Monitor != nil && cfg.Monitor.PprofEnable {
				go func() {
					_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", cfg.Monitor.PprofPort), nil)
				}()
			}

			r := router.NewRouter(serverCtx)
			platform, err := app.NewPlatform(cfg, r, serverCtx)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to create platform", zap.Error(err))
				onExit <- err
				return
			}
			platform.Start(ctx)
		}()

		onSignal := make(chan os.Signal, 1)
		signal.Notify(onSignal, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-onSignal:
			cancel()
			xzap.WithContext(ctx).Info("Exit by signal", zap.String("signal", sig.String()))
		case err := <-onExit:
			cancel()
			xzap.WithContext(ctx).Error("Exit by error", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(DaemonCmd)
}
