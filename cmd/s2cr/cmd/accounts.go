package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s2cr/repair-desk/internal/app"
	"github.com/s2cr/repair-desk/internal/core/domain"
)

type personFlags struct {
	email     string
	firstName string
	lastName  string
	mobile    string
	password  string
}

func (f *personFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "First name (required)")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name (required)")
	cmd.Flags().StringVar(&f.mobile, "mobile", "", "Mobile phone number")
	cmd.Flags().StringVar(&f.password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
}

var adminFlags personFlags

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Creates an administrator. Client self-registration attaches new clients to
the first administrator, so at least one must exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd, adminFlags.password)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			p, err := a.Credentials.CreatePrincipal(ctx, domain.KindAdministrator, adminFlags.email, password, domain.PrincipalFields{
				FirstName: adminFlags.firstName,
				LastName:  adminFlags.lastName,
				Mobile:    adminFlags.mobile,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created administrator #%d <%s>\n", p.Base().ID, p.Base().Email)
			return nil
		})
	},
}

var (
	techFlags     personFlags
	techAdminID   int64
	techCity      string
	techSpecialty string
)

var createTechnicianCmd = &cobra.Command{
	Use:   "create-technician",
	Short: "Create a technician account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd, techFlags.password)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if _, err := a.Credentials.FindByID(ctx, domain.KindAdministrator, techAdminID); err != nil {
				if errors.Is(err, domain.ErrPrincipalNotFound) {
					return fmt.Errorf("administrator #%d does not exist", techAdminID)
				}
				return err
			}
			p, err := a.Credentials.CreatePrincipal(ctx, domain.KindTechnician, techFlags.email, password, domain.PrincipalFields{
				FirstName: techFlags.firstName,
				LastName:  techFlags.lastName,
				Mobile:    techFlags.mobile,
				City:      techCity,
				Specialty: techSpecialty,
				AdminID:   techAdminID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created technician #%d <%s>\n", p.Base().ID, p.Base().Email)
			return nil
		})
	},
}

var (
	pwKind     string
	pwEmail    string
	pwPassword string
)

var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Replace the password of an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseKind(pwKind)
		if err != nil {
			return fmt.Errorf("--kind must be one of %v", domain.Kinds)
		}
		password, err := readPassword(cmd, pwPassword)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Credentials.ChangePassword(ctx, kind, pwEmail, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s <%s>\n", kind.Label(), pwEmail)
			return nil
		})
	},
}

var (
	activeKind  string
	activeID    int64
	activeValue bool
)

var setActiveCmd = &cobra.Command{
	Use:   "set-active",
	Short: "Activate or deactivate an account",
	Long: `Sets the active flag of an account. A deactivated account cannot log in and
its open sessions are discarded on their next request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseKind(activeKind)
		if err != nil {
			return fmt.Errorf("--kind must be one of %v", domain.Kinds)
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Credentials.SetActive(ctx, kind, activeID, activeValue); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d active=%t\n", kind.Label(), activeID, activeValue)
			return nil
		})
	},
}

func init() {
	adminFlags.register(createAdminCmd)

	techFlags.register(createTechnicianCmd)
	createTechnicianCmd.Flags().Int64Var(&techAdminID, "admin-id", 0, "Supervising administrator id (required)")
	createTechnicianCmd.Flags().StringVar(&techCity, "city", "", "City")
	createTechnicianCmd.Flags().StringVar(&techSpecialty, "specialty", "", "Specialty")
	_ = createTechnicianCmd.MarkFlagRequired("admin-id")

	setPasswordCmd.Flags().StringVar(&pwKind, "kind", "", "Account kind: client, technicien or administrateur (required)")
	setPasswordCmd.Flags().StringVar(&pwEmail, "email", "", "Email address (required)")
	setPasswordCmd.Flags().StringVar(&pwPassword, "password", "", "New password (prompted when omitted)")
	_ = setPasswordCmd.MarkFlagRequired("kind")
	_ = setPasswordCmd.MarkFlagRequired("email")

	setActiveCmd.Flags().StringVar(&activeKind, "kind", "", "Account kind: client, technicien or administrateur (required)")
	setActiveCmd.Flags().Int64Var(&activeID, "id", 0, "Account id (required)")
	setActiveCmd.Flags().BoolVar(&activeValue, "active", true, "Whether the account may log in")
	_ = setActiveCmd.MarkFlagRequired("kind")
	_ = setActiveCmd.MarkFlagRequired("id")
}
