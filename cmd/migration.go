package cmd

import (
	"errors"
	"fmt"

	userDomain "github.com/AzielCF/az-press/users/domain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Runs the schema migrations. With --admin-username and --admin-password it also
creates the first admin account, which is needed to moderate comments and
grant the author role.`,
	Args: cobra.NoArgs,
	RunE: runMigrations,
}

func init() {
	migrateCmd.Flags().String("admin-username", "", "username of the admin account to create")
	migrateCmd.Flags().String("admin-email", "", "email of the admin account")
	migrateCmd.Flags().String("admin-password", "", "password of the admin account")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrations(cmd *cobra.Command, _ []string) error {
	logrus.Info("[MIGRATION] Applying schema...")
	container, err := openContainer(cmd.Context())
	if err != nil {
		return err
	}
	defer container.Close()
	logrus.Info("[MIGRATION] Schema is up to date")

	username, _ := cmd.Flags().GetString("admin-username")
	if username == "" {
		return nil
	}
	email, _ := cmd.Flags().GetString("admin-email")
	password, _ := cmd.Flags().GetString("admin-password")
	if password == "" {
		return fmt.Errorf("--admin-password is required with --admin-username")
	}
	if email == "" {
		email = username + "@localhost"
	}

	admin, err := container.Users.Register(cmd.Context(), username, email, password, userDomain.RoleAdmin)
	if errors.Is(err, userDomain.ErrDuplicateUser) {
		logrus.Warnf("[MIGRATION] Admin %s already exists, skipping", username)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	logrus.Infof("[MIGRATION] Created admin %s (id %d)", admin.Username, admin.ID)
	return nil
}
