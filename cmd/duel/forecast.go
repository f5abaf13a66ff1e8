package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledgerduel/ledgerduel/internal/cli"
	"github.com/ledgerduel/ledgerduel/internal/oracle"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project upcoming spend via the prediction oracle",
		Long: `Ask the prediction backend for a spend forecast. When the oracle is
unreachable the forecast degrades to a local daily-average extrapolation.`,
		RunE: runForecast,
	}

	cmd.Flags().Int("days", 7, "forecast horizon in days")
	cmd.Flags().String("oracle-url", "", "prediction backend base URL")
	_ = viper.BindPFlag("oracle.url", cmd.Flags().Lookup("oracle-url"))
	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	user, err := actingUser()
	if err != nil {
		return err
	}
	days, _ := cmd.Flags().GetInt("days")

	store, err := openStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client := oracle.NewClient(viper.GetString("oracle.url"))
	forecast, err := client.ForecastWithFallback(cmd.Context(), store, user, days)
	if err != nil {
		return err
	}

	content := fmt.Sprintf("Projected spend over %d days: %.2f\nDaily average: %.2f\nSource: %s",
		forecast.HorizonDays, forecast.ProjectedSpend, forecast.DailyAverage, forecast.Source)
	fmt.Println(cli.RenderBox(cli.CoinIcon+" Spend forecast", content))

	if forecast.Source == "heuristic" {
		fmt.Println(cli.FormatWarning("Oracle unreachable; showing local estimate"))
	}
	return nil
}
