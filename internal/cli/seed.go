package cli

import (
	"fmt"

	"github.com/marcelsud/personal-library/book"
	"github.com/marcelsud/personal-library/seed"
	"github.com/spf13/cobra"
)

func NewSeedCommand(opts *RootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Create the books listed in a YAML seed file",
		Long: `Create the books listed in a YAML seed file, with their comments.

Titles already in the library are skipped, so a file can be applied more
than once. With --dry-run the file is only validated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			loader := seed.NewLoader()
			if err := loader.Load(args[0]); err != nil {
				return WrapExitError(ExitCommandError, "loading seed file", err)
			}
			entries := loader.Entries()
			if dryRun {
				return f.Success(map[string]int{"books": len(entries)},
					fmt.Sprintf("%s is valid: %d books", args[0], len(entries)))
			}
			return opts.withService(cmd, func(svc book.UseCase) error {
				res, err := seed.Apply(cmd.Context(), svc, entries)
				if err != nil {
					return WrapExitError(ExitCommandError, "applying seed file", err)
				}
				return f.Success(res, fmt.Sprintf("created %d, existing %d, comments %d",
					res.Created, res.Existing, res.Comments))
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	return cmd
}
