package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"carelink-client/internal/models"
)

var (
	loginEmail    string
	loginPassword string
	loginRemember bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session for later commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		sess := a.auth.Login(context.Background(), models.Credentials{
			Email:    loginEmail,
			Password: loginPassword,
		}, loginRemember)
		a.flushToasts()
		if sess == nil {
			return fmt.Errorf("login failed")
		}

		fmt.Printf("logged in as %s (%s)\n", sess.Email, sess.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		// 先恢复会话，否则没有可吊销的刷新令牌
		a.auth.AutoLogin(context.Background())
		a.auth.Logout(context.Background())
		a.flushToasts()

		fmt.Println("logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	loginCmd.Flags().BoolVar(&loginRemember, "remember", true, "Persist credentials for auto-login")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
