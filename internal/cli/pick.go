package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rotdrop/filepicker/picker"
)

// newPickCmd creates the interactive pick command.
func newPickCmd() *cobra.Command {
	var (
		multi bool
		dirs  bool
		mimes []string
		start string
		title string
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Interactively pick files or folders",
		Long: `Open an interactive browser over the remote file tree and print the
picked paths, one per line.

Inside the browser:
  <n>            toggle selection of entry n
  cd <n|path>    enter directory
  up             go to the parent directory
  view <name>    switch view: files, favorites, recent
  filter <text>  filter the listing, "filter" alone clears
  mkdir <name>   create a folder here
  sel            show the current selection
  ok             confirm and exit
  q              cancel`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := buildClient()
			if err != nil {
				return err
			}

			builder := picker.NewPicker(title).
				WithListingService(client).
				WithSettings(picker.StaticSettings{Hidden: cfg.Picker.ShowHidden}).
				WithMultiSelect(multi).
				WithDirectoriesAllowed(dirs).
				WithPathContext("cli:pick").
				WithLogger(logger)
			if len(mimes) > 0 {
				builder = builder.WithMimeTypeFilter(mimes...)
			}
			if start != "" {
				builder = builder.WithStartPath(start)
			} else if cfg.Picker.StartPath != "/" {
				builder = builder.WithStartPath(cfg.Picker.StartPath)
			}

			session, err := builder.Build()
			if err != nil {
				return err
			}

			ctx := GetContext()
			session.Refresh(ctx)
			go runPickerLoop(session)

			paths, err := session.Pick(ctx)
			if err != nil {
				if errors.Is(err, picker.ErrPickerClosed) {
					return fmt.Errorf("cancelled")
				}
				return err
			}
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&multi, "multi", "m", false, "Allow selecting multiple entries")
	cmd.Flags().BoolVarP(&dirs, "dirs", "d", false, "Allow picking the current directory when nothing is selected")
	cmd.Flags().StringSliceVar(&mimes, "mime", nil, "Restrict files to mime types, e.g. image/* or text/plain")
	cmd.Flags().StringVar(&start, "start", "", "Directory to open in")
	cmd.Flags().StringVar(&title, "title", "Pick files", "Dialog title")

	return cmd
}

// runPickerLoop drives the session from stdin until it resolves.
func runPickerLoop(session *picker.Session) {
	ctx := GetContext()
	for {
		select {
		case <-session.Done():
			return
		default:
		}

		visible := session.VisibleEntries()
		printListing(session, visible)

		line, err := promptLine("> ")
		if err != nil {
			session.Close()
			return
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
			continue
		case "q", "quit", "cancel":
			session.Close()
			return
		case "ok", "confirm":
			if err := session.Confirm(ctx); err != nil {
				fmt.Println("!", err)
			}
		case "cd":
			target := arg
			if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(visible) {
				entry := visible[n-1]
				if !entry.IsDir {
					fmt.Println("! not a directory:", entry.Name)
					continue
				}
				target = entry.Path
			}
			if err := session.Navigate(ctx, target); err != nil {
				fmt.Println("!", err)
			}
		case "up":
			_, current := session.State().Context()
			if err := session.Navigate(ctx, parentPath(current)); err != nil {
				fmt.Println("!", err)
			}
		case "view":
			switch arg {
			case "files":
				session.SetView(ctx, picker.ViewFiles)
			case "favorites", "fav":
				session.SetView(ctx, picker.ViewFavorites)
			case "recent":
				session.SetView(ctx, picker.ViewRecent)
			default:
				fmt.Println("! unknown view:", arg)
			}
		case "filter":
			session.SetFilterText(arg)
		case "mkdir":
			if err := session.CreateFolder(ctx, arg); err != nil {
				fmt.Println("!", err)
			}
		case "sel":
			for _, e := range session.Selection() {
				fmt.Println(" ", e.Path)
			}
		default:
			if n, err := strconv.Atoi(cmd); err == nil && n >= 1 && n <= len(visible) {
				if err := session.ToggleSelect(visible[n-1].Path); err != nil {
					fmt.Println("!", err)
				}
			} else {
				fmt.Println("! unknown command:", cmd)
			}
		}
	}
}

// printListing renders the current state for the prompt loop.
func printListing(session *picker.Session, visible []picker.Entry) {
	view, path := session.State().Context()
	if headline := session.Headline(); headline != "" {
		fmt.Printf("\n=== %s ===\n", headline)
	} else {
		fmt.Printf("\n=== %s ===\n", path)
	}
	if err := session.ListingError(); err != nil {
		fmt.Println("! listing failed:", err)
	}
	for i, e := range visible {
		marker := " "
		if session.State().IsSelected(e.Path) {
			marker = "*"
		}
		kind := " "
		if e.IsDir {
			kind = "/"
		}
		fmt.Printf("%s %3d  %s%s\n", marker, i+1, e.Label(), kind)
	}
	if view.Navigable() && len(visible) == 0 {
		fmt.Println("  (empty)")
	}
}

// parentPath returns the parent of a normalized remote path.
func parentPath(p string) string {
	idx := strings.LastIndex(strings.TrimSuffix(p, "/"), "/")
	if idx <= 0 {
		return "/"
	}
	return p[:idx]
}
