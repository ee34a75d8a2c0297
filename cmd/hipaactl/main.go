// hipaactl — обслуживание базы без веб-интерфейса.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"hipaa-audit/internal/compliance"
	"hipaa-audit/internal/config"
	"hipaa-audit/internal/database"
	"hipaa-audit/internal/logger"
	"hipaa-audit/internal/store"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		// cobra уже напечатал ошибку
		os.Exit(1)
	}
}

// app — открытая база на время одной команды.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	store *store.Store
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// stdout занят выводом команд, поэтому только предупреждения
	log := logger.Init(cfg.Environment, "warn", cfg.LogFormat)

	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db, store: store.New(db)}, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.log.Warn("close database", zap.Error(err))
	}
	logger.Sync()
}

// withApp открывает базу перед командой и закрывает после.
func withApp(fn func(cmd *cobra.Command, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, a)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "hipaactl",
		Short:        "Maintenance commands for the HIPAA audit database",
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.AddCommand(
		newSeedCmd(),
		newResetCmd(),
		newStatsCmd(),
		newCreateUserCmd(),
	)
	return root
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert missing checklist requirements and the admin account",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app) error {
			n, err := a.store.SeedRequirements(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("requirements inserted: %d\n", n)

			if a.cfg.AdminPassword == "" {
				cmd.Println("ADMIN_PASSWORD is not set, admin account skipped")
				return nil
			}
			created, err := database.EnsureAdmin(cmd.Context(), a.db, a.cfg.AdminUsername, a.cfg.AdminPassword, a.cfg.AdminEmail)
			if err != nil {
				return err
			}
			if created {
				cmd.Printf("admin account created: %s\n", a.cfg.AdminUsername)
			}
			return nil
		}),
	}
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset-requirements",
		Short: "Delete all requirements and reseed the checklist (statuses and notes are lost)",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			n, err := a.store.ResetRequirements(cmd.Context())
			if err != nil {
				return err
			}
			a.store.Audit(cmd.Context(), "hipaactl", "requirement", "", "reset", "")
			cmd.Printf("requirements reseeded: %d\n", n)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

type statsOutput struct {
	Compliance struct {
		compliance.Stats
		Percentage float64 `json:"compliance_percentage"`
	} `json:"compliance"`
	Risks              compliance.RiskBands `json:"risks"`
	Evidence           store.EvidenceStats  `json:"evidence"`
	BusinessAssociates store.AssociateStats `json:"business_associates"`
	PHITypes           int64                `json:"phi_types"`
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print compliance, risk, evidence and business associate stats as JSON",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app) error {
			ctx := cmd.Context()
			var out statsOutput
			var err error

			if out.Compliance.Stats, err = a.store.ComplianceStats(ctx); err != nil {
				return err
			}
			out.Compliance.Percentage = out.Compliance.Stats.Percentage()
			if out.Risks, err = a.store.RiskBands(ctx); err != nil {
				return err
			}
			if out.Evidence, err = a.store.EvidenceStats(ctx); err != nil {
				return err
			}
			if out.BusinessAssociates, err = a.store.AssociateStats(ctx); err != nil {
				return err
			}
			if out.PHITypes, err = a.store.CountPHITypes(ctx); err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}),
	}
}

func newCreateUserCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a login account",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app) error {
			if password == "" {
				password = os.Getenv("HIPAACTL_PASSWORD")
			}
			if err := a.store.CreateUser(cmd.Context(), username, password, email); err != nil {
				return err
			}
			a.store.Audit(cmd.Context(), "hipaactl", "user", username, "create", "")
			cmd.Printf("user created: %s\n", username)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&username, "username", "", "Login name")
	f.StringVar(&email, "email", "", "Email address")
	f.StringVar(&password, "password", "", "Password (or HIPAACTL_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
