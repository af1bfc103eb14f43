package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carelink-client/internal/api"
	"carelink-client/internal/auth"
	"carelink-client/internal/config"
	"carelink-client/internal/logger"
	"carelink-client/internal/notify"
	"carelink-client/internal/query"
	"carelink-client/internal/session"
	"carelink-client/internal/store"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "carelink",
	Short: "Remote elder-care monitoring client",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return os.Setenv("CARELINK_LOG_LEVEL", logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "warn", "Log Level")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// app 一次 CLI 调用的依赖集
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	toasts *notify.Queue
	tokens *session.TokenHolder
	creds  store.CredentialStore
	client *api.Client
	engine *query.Engine
	auth   *auth.Manager
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	tokens := session.NewTokenHolder()
	gateway := session.NewGateway(
		nil,
		tokens,
		session.NewHTTPRenewer(cfg.APIBaseURL, log),
		func() { fmt.Fprintln(os.Stderr, "session expired, please log in again") },
		log,
	)

	kv := store.NewMemoryKV(cfg.CacheSize, cfg.CacheEvictAfter)
	creds := store.NewFileCredentialStore(cfg.CredentialFile, cfg.CredentialKey)
	client := api.NewClient(cfg, gateway, log)
	toasts := notify.NewQueue(cfg.ToastTTL, log)

	return &app{
		cfg:    cfg,
		log:    log,
		toasts: toasts,
		tokens: tokens,
		creds:  creds,
		client: client,
		engine: query.NewEngine(kv, cfg.CacheFreshFor, log),
		auth:   auth.NewManager(client, tokens, creds, toasts, log),
	}, nil
}

// flushToasts 把积累的通知打到终端
func (a *app) flushToasts() {
	for _, t := range a.toasts.Items() {
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", t.Kind, t.Title, t.Message)
	}
}

func (a *app) close() {
	a.toasts.Close()
	_ = a.log.Sync()
}
