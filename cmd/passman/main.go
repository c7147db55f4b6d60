package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maynagashev/passman/internal/config"
	"github.com/maynagashev/passman/internal/repository"
	"github.com/maynagashev/passman/internal/secret"
	"github.com/maynagashev/passman/internal/services"
	"github.com/maynagashev/passman/internal/tui"
)

const (
	lockFileName = ".passman.lock"
	dataDirPerm  = 0o700
)

// rootOptions хранит значения глобальных флагов.
type rootOptions struct {
	configPath      string
	dir             string
	verifierBackend string
	logFile         string
	debug           bool
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "passman",
		Short:         "Терминальный менеджер паролей",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts, os.LookupEnv)
			if err != nil {
				return err
			}
			closeLog, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			return runTUI(cmd.Context(), cfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "",
		fmt.Sprintf("Путь к YAML-файлу настроек (env: %s, default: %s)", config.EnvConfig, config.DefaultPath()))
	flags.StringVar(&opts.dir, "dir", "",
		fmt.Sprintf("Директория с файлами пользователей (env: %s, default: текущая)", config.EnvDir))
	flags.StringVar(&opts.verifierBackend, "verifier-backend", "",
		fmt.Sprintf("Хранилище верификаторов мастер-пароля: %s или %s (env: %s)",
			secret.BackendFile, secret.BackendKeyring, config.EnvVerifierBackend))
	flags.StringVar(&opts.logFile, "log-file", "",
		fmt.Sprintf("Файл логов (env: %s, default: <dir>/logs/passman.log)", config.EnvLogFile))
	flags.BoolVar(&opts.debug, "debug", false, "Подробные логи и отладочная информация в интерфейсе")

	cmd.AddCommand(newExportCmd(opts), newVersionCmd())
	return cmd
}

// resolveConfig собирает настройки: файл, затем окружение, затем явно заданные флаги.
func resolveConfig(cmd *cobra.Command, opts *rootOptions, lookup func(string) (string, bool)) (*config.Config, error) {
	path := config.DefaultPath()
	if value, ok := lookup(config.EnvConfig); ok && value != "" {
		path = value
	}
	if cmd.Flags().Changed("config") {
		path = opts.configPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(lookup)

	if cmd.Flags().Changed("dir") {
		cfg.Dir = opts.dir
	}
	if cmd.Flags().Changed("verifier-backend") {
		cfg.VerifierBackend = opts.verifierBackend
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = opts.debug
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession создает сессию над директорией данных.
func openSession(ctx context.Context, cfg *config.Config) (*services.Session, error) {
	if err := os.MkdirAll(cfg.Dir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию данных '%s': %w", cfg.Dir, err)
	}

	verifiers, err := secret.Open(cfg.VerifierBackend, cfg.Dir)
	if err != nil {
		return nil, err
	}

	store, err := repository.OpenEmpty(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewSession(store, verifiers, cfg.Dir), nil
}

// closeSession закрывает сессию, ошибку только логирует.
func closeSession(sess *services.Session) {
	if err := sess.Close(); err != nil {
		slog.Warn("Ошибка закрытия хранилища", "error", err)
	}
}

// runTUI запускает терминальный интерфейс.
func runTUI(ctx context.Context, cfg *config.Config) error {
	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSession(sess)

	return tui.Start(ctx, sess, tui.Options{
		LockPath:  filepath.Join(cfg.Dir, lockFileName),
		DebugMode: cfg.Debug,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&rootOptions{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		stop()
		os.Exit(1)
	}
}
