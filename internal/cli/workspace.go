package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cloudist-io/cloudist/internal/workspace"
)

var workspaceDir string

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage saved diagrams",
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepository()
		if err != nil {
			return err
		}
		workspaces, err := repo.List()
		if err != nil {
			return err
		}
		if len(workspaces) == 0 {
			fmt.Println("no workspaces")
			return nil
		}
		for _, ws := range workspaces {
			fmt.Printf("%s  %-20s  %d nodes, %d edges  (%s)\n",
				ws.ID, ws.Name, len(ws.Diagram.Nodes), len(ws.Diagram.Edges), ws.Diagram.Provider)
		}
		return nil
	},
}

var workspaceSaveCmd = &cobra.Command{
	Use:   "save <name> <diagram.json>",
	Short: "Save a diagram as a workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDiagram(args[1])
		if err != nil {
			return err
		}
		repo, err := openRepository()
		if err != nil {
			return err
		}
		ws, err := repo.Create(args[0], *d)
		if err != nil {
			return err
		}
		fmt.Printf("saved workspace %s (%s)\n", ws.Name, ws.ID)
		return nil
	},
}

var workspaceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepository()
		if err != nil {
			return err
		}
		if err := repo.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted workspace %s\n", args[0])
		return nil
	},
}

func openRepository() (workspace.Repository, error) {
	dir := workspaceDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".cloudist", "workspaces")
	}
	return workspace.NewFileRepository(dir)
}

func init() {
	workspaceCmd.PersistentFlags().StringVar(&workspaceDir, "dir", "", "Workspace directory (default ~/.cloudist/workspaces)")
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceSaveCmd)
	workspaceCmd.AddCommand(workspaceDeleteCmd)
}
