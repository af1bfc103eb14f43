package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var dashboardSubject string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the latest health snapshot for an elder",
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

		snapshot, err := a.client.Dashboard(ctx, dashboardSubject)
		if err != nil {
			return err
		}

		fmt.Printf("heart rate: %d bpm\n", snapshot.HeartRate)
		fmt.Printf("spo2:       %.0f%%\n", snapshot.SPO2*100)
		fmt.Printf("steps:      %d\n", snapshot.Steps)
		fmt.Printf("distance:   %.2f km\n", snapshot.Distance)
		fmt.Printf("falls:      %d\n", snapshot.FallCount)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardSubject, "subject", "", "Elder email")
	_ = dashboardCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(dashboardCmd)
}
