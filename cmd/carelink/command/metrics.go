package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"carelink-client/internal/export"
	"carelink-client/internal/models"
	"carelink-client/internal/query"
	"carelink-client/internal/visualization"
)

var (
	metricsSubject string
	metricsMetric  string
	metricsWindow  string
	metricsDate    string
	metricsExport  string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Fetch a time-windowed metric series for an elder",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()
		if a.auth.AutoLogin(ctx) == nil {
			a.flushToasts()
			return fmt.Errorf("not logged in, run `carelink login` first")
		}

		window, err := models.ParseTimeWindow(metricsWindow)
		if err != nil {
			return err
		}
		at := time.Now()
		if metricsDate != "" {
			at, err = time.Parse(time.RFC3339, metricsDate)
			if err != nil {
				return fmt.Errorf("invalid --date, want RFC3339: %w", err)
			}
		}

		opts := visualization.Options{
			Subject:  metricsSubject,
			Metric:   metricsMetric,
			Prefetch: a.cfg.Prefetch,
			Initial:  at,
			Window:   window,
		}

		switch metricsMetric {
		case models.MetricHeartRate:
			return showSeries(ctx, a, opts, a.client.HeartRate, export.HeartRateWorkbook)
		case models.MetricSPO2:
			return showSeries(ctx, a, opts, a.client.SPO2, export.SPO2Workbook)
		case models.MetricDistance:
			return showSeries(ctx, a, opts, a.client.Distance, export.DistanceWorkbook)
		case models.MetricSteps:
			return showSeries(ctx, a, opts, a.client.Steps, export.StepsWorkbook)
		case models.MetricFalls:
			return showSeries(ctx, a, opts, a.client.Falls, export.FallsWorkbook)
		}
		return fmt.Errorf("unknown metric %q", metricsMetric)
	},
}

// showSeries 驱动可视化控制器并输出结果；--export 时另写 xlsx
func showSeries[T any](ctx context.Context, a *app, opts visualization.Options, fetch query.FetchSeries[T], workbook func([]T) ([]byte, error)) error {
	controller := visualization.New(a.engine, fetch, a.toasts, a.log, opts)
	snap := controller.Load(ctx)
	a.flushToasts()
	if snap.IsError {
		return snap.Err
	}

	out, err := json.MarshalIndent(snap.Data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%s %s @ %s (%d samples)\n%s\n",
		opts.Metric, snap.Window, snap.At.Format(time.RFC3339), len(snap.Data), out)

	if metricsExport != "" {
		book, err := workbook(snap.Data)
		if err != nil {
			return fmt.Errorf("failed to build workbook: %w", err)
		}
		if err := os.WriteFile(metricsExport, book, 0o644); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		fmt.Printf("exported to %s\n", metricsExport)
	}
	return nil
}

func init() {
	metricsCmd.Flags().StringVar(&metricsSubject, "subject", "", "Elder email")
	metricsCmd.Flags().StringVar(&metricsMetric, "metric", models.MetricHeartRate, "Metric: heartrate|spo2|distance|steps|falls")
	metricsCmd.Flags().StringVar(&metricsWindow, "window", "Day", "Time window: Hour|Day|Week")
	metricsCmd.Flags().StringVar(&metricsDate, "date", "", "Reference instant (RFC3339, default now)")
	metricsCmd.Flags().StringVar(&metricsExport, "export", "", "Write the series to an xlsx file")
	_ = metricsCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(metricsCmd)
}
