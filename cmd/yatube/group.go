package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
)

var (
	flagGroupTitle       string
	flagGroupDescription string
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage post groups",
}

func groupService() (service.GroupService, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	return service.NewGroupService(repository.NewGroupRepository(db)), nil
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <slug>",
	Short: "Create a group",
	Long: `Create a group that posts can be filed under.

  yatube group create cats --title "Cats" --description "All about cats"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := groupService()
		if err != nil {
			return err
		}
		g, err := svc.Create(cmd.Context(), service.CreateGroupInput{
			Title:       flagGroupTitle,
			Slug:        args[0],
			Description: flagGroupDescription,
		})
		if err != nil {
			return fmt.Errorf("creating group: %w", err)
		}
		fmt.Printf("Created group: %s (id: %s)\n", g.Slug, g.ID)
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := groupService()
		if err != nil {
			return err
		}
		groups, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tTITLE\tID")
		for _, g := range groups {
			fmt.Fprintf(w, "%s\t%s\t%s\n", g.Slug, g.Title, g.ID)
		}
		return w.Flush()
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "rm <slug>",
	Short: "Delete a group; its posts stay without a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := groupService()
		if err != nil {
			return err
		}
		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting group: %w", err)
		}
		fmt.Printf("Deleted group: %s\n", args[0])
		return nil
	},
}

func init() {
	groupCreateCmd.Flags().StringVar(&flagGroupTitle, "title", "", "Group title (required)")
	groupCreateCmd.Flags().StringVar(&flagGroupDescription, "description", "", "Group description")
	_ = groupCreateCmd.MarkFlagRequired("title")

	groupCmd.AddCommand(groupCreateCmd, groupListCmd, groupDeleteCmd)
	rootCmd.AddCommand(groupCmd)
}
