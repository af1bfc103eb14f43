package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var caregiversSubject string

var eldersCmd = &cobra.Command{
	Use:   "elders",
	Short: "List the elders in your care",
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

		elders, err := a.client.Elders(ctx)
		if err != nil {
			return err
		}
		for _, e := range elders {
			fmt.Printf("%s <%s>\n", e.Name, e.Email)
		}
		fmt.Printf("found %d elders\n", len(elders))
		return nil
	},
}

var caregiversCmd = &cobra.Command{
	Use:   "caregivers",
	Short: "List an elder's caregivers",
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

		caregivers, err := a.client.Caregivers(ctx, caregiversSubject)
		if err != nil {
			return err
		}
		for _, c := range caregivers {
			fmt.Printf("%s <%s>\n", c.Name, c.Email)
		}
		return nil
	},
}

func init() {
	caregiversCmd.Flags().StringVar(&caregiversSubject, "subject", "", "Elder email")
	_ = caregiversCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(eldersCmd)
	rootCmd.AddCommand(caregiversCmd)
}
