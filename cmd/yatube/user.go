package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
)

var flagUserPassword string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		u, err := service.NewUserService(repository.NewUserRepository(db)).Register(cmd.Context(), args[0], flagUserPassword)
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		fmt.Printf("Created user: %s (id: %s)\n", u.Username, u.ID)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "rm <username>",
	Short: "Delete a user with their posts, comments and follows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		svc := service.NewUserService(repository.NewUserRepository(db))
		u, err := svc.GetByUsername(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("looking up user: %w", err)
		}
		if err := svc.Delete(cmd.Context(), u.ID); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		fmt.Printf("Deleted user: %s\n", u.Username)
		return nil
	},
}

var userRebuildFansCmd = &cobra.Command{
	Use:   "rebuild-fans <username>",
	Short: "Rebuild a user's follower table from follows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		users := repository.NewUserRepository(db)
		u, err := service.NewUserService(users).GetByUsername(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("looking up user: %w", err)
		}
		rel := service.NewRelationshipService(repository.NewFollowRepository(db), repository.NewFanRepository(db), users, nil)
		n, err := rel.RebuildFans(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Rebuilt %d followers for %s\n", n, u.Username)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&flagUserPassword, "password", "", "Password, at least 8 characters (required)")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd, userDeleteCmd, userRebuildFansCmd)
	rootCmd.AddCommand(userCmd)
}
