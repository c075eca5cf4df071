// cmd/dca/main.go
// CLI decline curve analysis: evaluasi sumur dari DB atau CSV, kelola ledger.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dca-reserves/internal/app"
	"dca-reserves/internal/config"
)

var (
	version = "dev"
	rootCmd = &cobra.Command{
		Use:           "dca",
		Short:         "Decline curve analysis & reserves",
		Long:          `dca mem-fit model Arps ke histori produksi, membuat forecast bulanan, dan menghitung EUR/reserves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().String("config", "", "file config (sama dengan env DCA_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("DCA_CONFIG", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(fitCmd())
	rootCmd.AddCommand(forecastCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(ledgerCmd())
	rootCmd.AddCommand(wellsCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp membangun App dari env + flag global. Ledger tersimpan ikut dimuat.
func newApp(ctx context.Context) *app.App {
	if f := viper.GetString("DCA_CONFIG"); f != "" {
		_ = os.Setenv("DCA_CONFIG", f)
	}
	cfg := config.Load()
	log := config.NewLogger(viper.GetString("LOG_LEVEL"), "text")
	log.SetOutput(os.Stderr)

	a := app.New(cfg, log)
	a.Restore(ctx)
	return a
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "dca", version)
		},
	}
}

func cliLog(a *app.App) *logrus.Entry {
	return a.Log.WithField("cmd", "dca")
}
