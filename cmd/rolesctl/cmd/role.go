package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

func (c *cli) roleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Create, delete and inspect roles",
	}

	cmd.AddCommand(
		c.roleCreateCmd(),
		c.roleDeleteCmd(),
		c.roleExistsCmd(),
		c.roleShowCmd(),
		c.roleListCmd(),
		c.roleUsersCmd(),
	)
	return cmd
}

func (c *cli) roleCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <role>",
		Short: "Create a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Memberships.CreateRole(cmd.Context(), args[0])
		},
	}
}

func (c *cli) roleDeleteCmd() *cobra.Command {
	var cascade bool

	cmd := &cobra.Command{
		Use:   "delete <role>",
		Short: "Delete a role",
		Long:  "Delete a role. A role that still has members is refused unless --cascade is given, which removes its memberships too.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Memberships.DeleteRole(cmd.Context(), args[0], cascade)
		},
	}
	cmd.Flags().BoolVar(&cascade, "cascade", false, "also remove every membership of the role")
	return cmd
}

func (c *cli) roleExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <role>",
		Short: "Print whether a role exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := c.app.Memberships.RoleExists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func (c *cli) roleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <role>",
		Short: "Print a role and when it was created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := c.app.Memberships.GetRole(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", role.Application, role.Name, role.CreatedAt.Format(time.RFC3339))
			return nil
		},
	}
}

func (c *cli) roleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every role of the application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := c.app.Memberships.GetAllRoles(cmd.Context())
			if err != nil {
				return err
			}
			printNames(cmd.OutOrStdout(), names)
			return nil
		},
	}
}

func (c *cli) roleUsersCmd() *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "users <role>",
		Short: "List users holding a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				names []string
				err   error
			)
			if cmd.Flags().Changed("match") {
				names, err = c.app.Memberships.FindUsersInRole(cmd.Context(), args[0], match)
			} else {
				names, err = c.app.Memberships.GetUsersInRole(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			printNames(cmd.OutOrStdout(), names)
			return nil
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "only users whose name matches this LIKE pattern (% and _ wildcards)")
	return cmd
}

func printNames(w io.Writer, names []string) {
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}
