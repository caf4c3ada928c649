package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/portfolio/internal/auth"
	"github.com/sakif/portfolio/internal/config"
	"github.com/sakif/portfolio/internal/model"
	sqliteRepo "github.com/sakif/portfolio/internal/repository/sqlite"
	"github.com/sakif/portfolio/internal/service"
)

// app holds what every subcommand shares. The database is opened lazily in
// PersistentPreRunE so hash-password works without one.
type app struct {
	dbPath  string
	verbose bool

	in     io.Reader
	out    io.Writer
	logger *slog.Logger
	db     *sqliteRepo.DB
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:           "portfolio-admin",
		Short:         "Maintenance tasks for the portfolio database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (default: DB_PATH or data/portfolio.db)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.usersCmd(),
		a.seedCmd(),
		a.statusCmd(),
		a.showCmd(),
		a.hashPasswordCmd(),
	)
	return root
}

// open connects to the configured database once.
func (a *app) open() (*sqliteRepo.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	path := a.dbPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		path = cfg.DBPath
	}
	db, err := sqliteRepo.New(path)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

func (a *app) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts that have signed in, with their content IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			users, err := db.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPROVIDER\tLOGIN\tSINCE")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Provider, u.Login, u.CreatedAt.Format(time.DateOnly))
			}
			return tw.Flush()
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	var (
		userID string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the default portfolio content into a user's scope",
		Long: `Writes the default profile, projects, achievements, education and
extracurricular activities into users/<id>/content.

Kinds that already have content are skipped unless --force is given. With
--force the profile is overwritten and list items are appended.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			report, err := service.NewMigrationService(db, a.logger).
				Run(cmd.Context(), userID, service.MigrationOptions{Force: force})
			if report != nil {
				fmt.Fprintf(a.out, "seeded:  %s\n", joinKinds(report.Seeded))
				fmt.Fprintf(a.out, "skipped: %s\n", joinKinds(report.Skipped))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID to seed (required)")
	cmd.Flags().BoolVar(&force, "force", false, "seed even when content already exists")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether a user would be offered the default content",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			needs, err := service.NewContentService(db, a.logger).
				NeedsMigration(cmd.Context(), model.ViewerFor(userID))
			if err != nil {
				return err
			}
			if needs {
				fmt.Fprintf(a.out, "user %s has no content; seeding is offered\n", userID)
			} else {
				fmt.Fprintf(a.out, "user %s already has content\n", userID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID to check (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var (
		userID   string
		featured bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the page content a viewer would see, as JSON",
		Long: `Prints what GET /api/page returns. Without --user the anonymous view
(legacy content) is shown; with --user the user's own content, falling back
to legacy content per kind.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			page := service.NewContentService(db, a.logger).
				LoadPage(cmd.Context(), model.ViewerFor(userID), featured)

			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(page)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "view as this user")
	cmd.Flags().BoolVar(&featured, "featured", false, "only featured projects")
	return cmd
}

func (a *app) hashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(a.in).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("reading password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return errors.New("empty password")
			}

			hash, err := auth.NewPasswordServiceWithCost(cost).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", auth.DefaultCost, "bcrypt cost")
	return cmd
}

func joinKinds(kinds []model.Kind) string {
	if len(kinds) == 0 {
		return "-"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
