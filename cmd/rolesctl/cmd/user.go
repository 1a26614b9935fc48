package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Assign users to roles and inspect their memberships",
	}

	cmd.AddCommand(
		c.userAddCmd(),
		c.userRemoveCmd(),
		c.userRolesCmd(),
		c.userInRoleCmd(),
	)
	return cmd
}

func (c *cli) userAddCmd() *cobra.Command {
	var users, roles []string

	cmd := &cobra.Command{
		Use:   "add --users a,b --roles x,y",
		Short: "Add every listed user to every listed role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Memberships.AddUsersToRoles(cmd.Context(), users, roles)
		},
	}
	cmd.Flags().StringSliceVarP(&users, "users", "u", nil, "user names")
	cmd.Flags().StringSliceVarP(&roles, "roles", "r", nil, "role names")
	return cmd
}

func (c *cli) userRemoveCmd() *cobra.Command {
	var users, roles []string

	cmd := &cobra.Command{
		Use:   "remove --users a,b --roles x,y",
		Short: "Remove every listed user from every listed role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Memberships.RemoveUsersFromRoles(cmd.Context(), users, roles)
		},
	}
	cmd.Flags().StringSliceVarP(&users, "users", "u", nil, "user names")
	cmd.Flags().StringSliceVarP(&roles, "roles", "r", nil, "role names")
	return cmd
}

func (c *cli) userRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles <user>",
		Short: "List the roles a user holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := c.app.Memberships.GetRolesForUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printNames(cmd.OutOrStdout(), names)
			return nil
		},
	}
}

func (c *cli) userInRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "in-role <user> <role>",
		Short: "Print whether a user holds a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := c.app.Memberships.IsUserInRole(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}
