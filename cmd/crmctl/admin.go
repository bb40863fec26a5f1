package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/auth"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/database"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

func createAdminCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first admin account (no-op if the email exists)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings(v)
			if err != nil {
				return err
			}
			name, email, password := v.GetString("admin-name"), v.GetString("admin-email"), v.GetString("admin-password")
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or ADMIN_EMAIL / ADMIN_PASSWORD) are required")
			}

			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			// sessions are never issued here
			svc := usecase.NewAuthService(database.NewUserRepository(db), auth.NewBcryptHasher(), nil, nil)
			user, created, err := svc.EnsureAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "ℹ️ %s already exists (role %s)\n", user.Email, user.Role)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ admin %s created\n", user.Email)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("name", "Admin", "display name")
	flags.String("email", "", "admin email (env ADMIN_EMAIL)")
	flags.String("password", "", "initial password (env ADMIN_PASSWORD)")
	_ = v.BindPFlag("admin-name", flags.Lookup("name"))
	_ = v.BindPFlag("admin-email", flags.Lookup("email"))
	_ = v.BindPFlag("admin-password", flags.Lookup("password"))
	return cmd
}
