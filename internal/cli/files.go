package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rotdrop/filepicker/picker"
)

// newLsCmd creates the ls command.
func newLsCmd() *cobra.Command {
	var (
		viewName string
		long     bool
	)

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a remote directory or view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient()
			if err != nil {
				return err
			}

			path := "/"
			if len(args) == 1 {
				path = args[0]
			}

			view := picker.ViewFiles
			switch viewName {
			case "", "files":
			case "favorites":
				view = picker.ViewFavorites
			case "recent":
				view = picker.ViewRecent
			default:
				return fmt.Errorf("unknown view: %s", viewName)
			}

			entries, err := client.List(GetContext(), view, path)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if long {
					fmt.Printf("%-30s %10d  %s  %s\n", e.Path, e.Size, e.Modified.Format("2006-01-02 15:04"), e.MimeType)
				} else {
					name := e.Name
					if e.IsDir {
						name += "/"
					}
					fmt.Println(name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&viewName, "view", "files", "View to list: files, favorites, recent")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Long listing with size, date and mime type")

	return cmd
}

// newMkdirCmd creates the mkdir command.
func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a remote directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient()
			if err != nil {
				return err
			}
			return client.CreateDirectory(GetContext(), args[0])
		},
	}
}
