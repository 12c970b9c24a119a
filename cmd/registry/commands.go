package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alem-hub/student-id-registry/config"
	"github.com/alem-hub/student-id-registry/internal/application/command"
	"github.com/alem-hub/student-id-registry/internal/application/errorinjection"
	"github.com/alem-hub/student-id-registry/internal/application/query"
	"github.com/alem-hub/student-id-registry/internal/domain/identifier"
	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
	"github.com/alem-hub/student-id-registry/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/student-id-registry/internal/interface/console"
	"github.com/alem-hub/student-id-registry/pkg/logger"
)

// cli carries global flags and the state built from them.
type cli struct {
	configPath string
	storage    string
	verbose    bool

	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "registry",
		Short: "Issue and validate checksum-protected student IDs",
		Long: `registry assigns student IDs made of a major code, the start year,
a day-coded serial and a Luhn check digit, stores the records and measures
how many transcription errors the check digit catches.

Without a subcommand the interactive menu starts.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runMenu,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&c.storage, "storage", "", "storage backend: csv, sqlite or postgres (overrides config)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "menu",
			Short: "Start the interactive menu",
			RunE:  c.runMenu,
		},
		c.addCmd(),
		&cobra.Command{
			Use:   "list",
			Short: "List registered students",
			Args:  cobra.NoArgs,
			RunE:  c.runList,
		},
		&cobra.Command{
			Use:   "validate [student-id]",
			Short: "Check the check digit of an ID",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runValidate,
		},
		&cobra.Command{
			Use:   "login [student-id]",
			Short: "Look up a student by exact ID",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runLogin,
		},
		c.errorTestCmd(),
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations (postgres backend)",
			Args:  cobra.NoArgs,
			RunE:  c.runMigrate,
		},
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.storage != "" {
		cfg.Storage.Backend = config.StorageBackend(strings.ToLower(c.storage))
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	level := logger.ParseLevel(cfg.Observability.LogLevel)
	if c.verbose {
		level = logger.LevelDebug
	}
	c.cfg = cfg
	opts := logger.DefaultOptions()
	opts.Output = cmd.ErrOrStderr()
	opts.Level = level
	if cfg.Observability.LogFormat != "" {
		opts.Format = cfg.Observability.LogFormat
	}
	c.log = logger.New(opts)
	cmd.SetContext(logger.WithContext(cmd.Context(), c.log))
	return nil
}

func (c *cli) open(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	return newApp(ctx, c.cfg, logger.FromContext(ctx))
}

// ─────────────────────────────────────────────────────────────────────────────
// menu
// ─────────────────────────────────────────────────────────────────────────────

func (c *cli) runMenu(cmd *cobra.Command, _ []string) error {
	a, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer c.log.Sync()

	return console.NewMenu(cmd.InOrStdin(), cmd.OutOrStdout(), a.menuDeps()).Run(cmd.Context())
}

// ─────────────────────────────────────────────────────────────────────────────
// add
// ─────────────────────────────────────────────────────────────────────────────

func (c *cli) addCmd() *cobra.Command {
	var (
		first, last, year string
		major             int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a student and save the records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.register.Handle(cmd.Context(), command.RegisterStudentCommand{
				FirstName: first,
				LastName:  last,
				Major:     student.Major(major),
				StartYear: year,
			})
			if err != nil {
				return err
			}
			if _, err := a.save.Handle(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.StudentID)
			return nil
		},
	}
	cmd.Flags().StringVar(&first, "first", "", "first name")
	cmd.Flags().StringVar(&last, "last", "", "last name")
	cmd.Flags().IntVar(&major, "major", 0, "major code (1-4)")
	cmd.Flags().StringVar(&year, "year", "", "start year, 4 digits")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("last")
	_ = cmd.MarkFlagRequired("major")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// list / validate / login
// ─────────────────────────────────────────────────────────────────────────────

func (c *cli) runList(cmd *cobra.Command, _ []string) error {
	a, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rows := a.list.Handle()
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No students registered.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), console.StudentsTable(rows).Render())
	return nil
}

var errInvalidID = errors.New("check digit does not match")

func (c *cli) runValidate(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	if !identifier.Validate(id) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: invalid\n", id)
		return errInvalidID
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", id)
	return nil
}

func (c *cli) runLogin(cmd *cobra.Command, args []string) error {
	a, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.login.Handle(cmd.Context(), query.LoginQuery{StudentID: args[0]})
	if err != nil {
		if errors.Is(err, shared.ErrStudentNotFound) {
			return fmt.Errorf("student ID %s not found", strings.TrimSpace(args[0]))
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", res.Student.FullName())
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// errortest
// ─────────────────────────────────────────────────────────────────────────────

func (c *cli) errorTestCmd() *cobra.Command {
	var (
		tests  int
		output string
	)
	cmd := &cobra.Command{
		Use:   "errortest",
		Short: "Mutate stored IDs and report how many errors the check digit catches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("tests") {
				c.cfg.ErrorTest.TestsPerStudent = tests
			}
			if output != "" {
				c.cfg.ErrorTest.ReportPath = output
			}

			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.harness.Run(cmd.Context(), errorinjection.SubjectsFromRecords(a.registry.List()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, console.SummaryText(report.Summary))

			nc, err := errorinjection.WriteReport(a.cfg.ErrorTest.ReportPath, report)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Results saved to %s\n", a.cfg.ErrorTest.ReportPath)
			if nc != "" {
				fmt.Fprintf(out, "%d invalid IDs were NOT detected. See %s for details.\n", len(report.NotCaught()), nc)
			} else {
				fmt.Fprintln(out, "All invalid IDs were successfully detected!")
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&tests, "tests", "n", errorinjection.DefaultTestsPerStudent, "mutations per student")
	cmd.Flags().StringVarP(&output, "output", "o", "", "report path (overrides config)")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// migrate
// ─────────────────────────────────────────────────────────────────────────────

func (c *cli) runMigrate(cmd *cobra.Command, _ []string) error {
	if c.cfg.Storage.Backend != config.StoragePostgres {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to migrate for the %s backend.\n", c.cfg.Storage.Backend)
		return nil
	}

	a := &app{cfg: c.cfg, log: c.log}
	defer a.Close()

	conn, err := a.connectPostgres(cmd.Context())
	if err != nil {
		return err
	}
	applied, err := postgres.NewMigrator(conn).Migrate(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations.\n", applied)
	return nil
}
