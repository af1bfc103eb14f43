package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"carelink-client/internal/api"
	"carelink-client/internal/geofence"
)

var (
	perimeterSubject string
	perimeterRadius  int
)

var perimeterCmd = &cobra.Command{
	Use:   "perimeter",
	Short: "Read or adjust an elder's home geofence",
}

var perimeterGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the configured geofence",
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

		controller := geofence.New(a.client, a.engine, a.toasts, a.log, perimeterSubject, a.cfg.DebounceInterval)
		defer controller.Close()

		p, err := controller.Refresh(ctx)
		a.flushToasts()
		if err != nil {
			return err
		}

		address := ""
		geocoder := api.NewGeocoder(a.cfg.GeocoderURL, a.cfg.HTTPTimeout, a.log)
		if addr, err := geocoder.ReverseGeocode(ctx, p.Latitude, p.Longitude); err == nil {
			address = fmt.Sprintf(" (%s, %s, %s)", addr.Road, addr.City, addr.Country)
		}

		fmt.Printf("center: %.5f, %.5f%s\nradius: %d km\n", p.Latitude, p.Longitude, address, p.RadiusKm)
		return nil
	},
}

var perimeterSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Adjust the geofence radius",
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

		controller := geofence.New(a.client, a.engine, a.toasts, a.log, perimeterSubject, a.cfg.DebounceInterval)
		defer controller.Close()

		if _, err := controller.Refresh(ctx); err != nil {
			a.flushToasts()
			return err
		}

		controller.HandleSlide(perimeterRadius)
		// 等待防抖写落地后再退出进程
		time.Sleep(a.cfg.DebounceInterval + 2*time.Second)
		a.flushToasts()

		fmt.Printf("radius set to %d km\n", controller.SliderValue())
		return nil
	},
}

func init() {
	perimeterCmd.PersistentFlags().StringVar(&perimeterSubject, "subject", "", "Elder email")
	_ = perimeterCmd.MarkPersistentFlagRequired("subject")
	perimeterSetCmd.Flags().IntVar(&perimeterRadius, "radius", 5, "Radius in kilometers (1-15)")

	perimeterCmd.AddCommand(perimeterGetCmd)
	perimeterCmd.AddCommand(perimeterSetCmd)
	rootCmd.AddCommand(perimeterCmd)
}
