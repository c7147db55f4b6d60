package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/maynagashev/passman/internal/kdbx"
	"github.com/maynagashev/passman/models"
)

// exportSession - операции сессии, нужные для выгрузки.
type exportSession interface {
	Login(ctx context.Context, user, master string) error
	List(ctx context.Context) ([]models.Credential, error)
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var user, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Выгрузить записи пользователя в файл KeePass (KDBX 4)",
		Long: "Выгрузить записи пользователя в файл KeePass (KDBX 4).\n" +
			"Мастер-пароль читается с терминала без отображения или из stdin.\n" +
			"Файл шифруется тем же мастер-паролем.\n" +
			"Выгрузка только читает данные и может работать параллельно с запущенным интерфейсом.\n" +
			"Пока она идет, новый экземпляр интерфейса открывается в режиме только для чтения.",
		Args: cobra.NoArgs,
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

			master, err := readMaster(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeSession(sess)

			unlock := lockForExport(cfg.Dir)
			defer unlock()

			n, err := runExport(cmd.Context(), sess, user, master, out, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Выгружено записей: %d, файл: %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "Имя пользователя")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Путь к создаваемому файлу .kdbx")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// runExport входит под пользователем и выгружает все его записи.
func runExport(ctx context.Context, sess exportSession, user, master, out string, now time.Time) (int, error) {
	if err := sess.Login(ctx, user, master); err != nil {
		return 0, err
	}
	creds, err := sess.List(ctx)
	if err != nil {
		return 0, err
	}
	if err = kdbx.Export(out, master, creds, kdbx.ExportInfo{User: user, At: now}); err != nil {
		return 0, err
	}
	return len(creds), nil
}

// readMaster читает мастер-пароль: с терминала без эха, иначе первую строку из in.
func readMaster(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Мастер-пароль: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("ошибка чтения мастер-пароля: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("ошибка чтения мастер-пароля из stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// lockForExport берет разделяемую блокировку директории данных.
// Если директорию держит интерфейс, выгрузка все равно выполняется.
func lockForExport(dir string) func() {
	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryRLock()
	if err != nil || !locked {
		slog.Warn("Разделяемая блокировка не получена, директория занята интерфейсом",
			"lockPath", lock.Path(), "error", err)
		return func() {}
	}
	slog.Debug("Разделяемая блокировка получена", "lockPath", lock.Path())
	return func() {
		if errUnlock := lock.Unlock(); errUnlock != nil {
			slog.Warn("Ошибка при снятии блокировки", "lockPath", lock.Path(), "error", errUnlock)
		}
	}
}
