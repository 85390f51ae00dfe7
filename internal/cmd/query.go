package cmd

import (
	"github.com/spf13/cobra"
)

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show size, file and folder counts of the folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInfo()
		},
	}
}

func (a *app) runInfo() error {
	o, err := a.openOrganizer()
	if err != nil {
		return err
	}

	a.out.Status("Reading folder...")
	m, err := o.GetMeta()
	a.out.ClearStatus()
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return a.out.JSON(m)
	}
	a.out.FolderMeta(m)
	return nil
}

func newCountCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count <term>",
		Short: "Count files whose name contains term",
		Long: `Count the files directly inside the folder whose name contains term,
ignoring case. An empty term counts every file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.openOrganizer()
			if err != nil {
				return err
			}
			n, err := o.FileCount(args[0])
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.out.JSON(struct {
					Term  string `json:"term"`
					Count int    `json:"count"`
				}{args[0], n})
			}
			if n == 0 {
				a.out.Warn("No files found matching '%s'", args[0])
				return nil
			}
			a.out.Success("Found %d file(s) matching '%s'", n, args[0])
			return nil
		},
	}
}

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "List files whose name contains term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.openOrganizer()
			if err != nil {
				return err
			}
			results, err := o.SearchFiles(args[0])
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.out.JSON(results)
			}
			a.out.SearchResults(args[0], results)
			return nil
		},
	}
}

func newLargestCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "largest",
		Short: "List the largest files anywhere below the folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.openOrganizer()
			if err != nil {
				return err
			}

			a.out.Status("Reading folder...")
			results, err := o.LargestFiles(limit)
			a.out.ClearStatus()
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.out.JSON(results)
			}
			a.out.LargestFiles(results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of files to list (0 for all)")
	return cmd
}

func newFindDirsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find-dirs <name>",
		Short: "Count folders with exactly this name anywhere below the folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.openOrganizer()
			if err != nil {
				return err
			}
			n, err := o.CountNamedDirs(args[0])
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.out.JSON(struct {
					Name  string `json:"name"`
					Count int    `json:"count"`
				}{args[0], n})
			}
			if n == 0 {
				a.out.Warn("No folders named '%s'", args[0])
				return nil
			}
			a.out.Success("Found %d folder(s) named '%s'", n, args[0])
			return nil
		},
	}
}

func newPreviewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Show which files organize would move where",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPreview()
		},
	}
}

func (a *app) runPreview() error {
	o, err := a.openOrganizer()
	if err != nil {
		return err
	}
	preview, err := o.PreviewOrganization()
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return a.out.JSON(preview)
	}
	a.out.Preview(preview)
	return nil
}
