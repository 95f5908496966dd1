package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/marcelsud/personal-library/book"
	"github.com/spf13/cobra"
)

// Opener connects the book service. The returned func releases the store.
type Opener func(ctx context.Context) (book.UseCase, func(context.Context) error, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"

	open Opener
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the library CLI.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the personal library",
		Long:  "Administer the books and comments of the personal library directly against its store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewCommentCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewDeleteAllCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// withService opens the store for the duration of fn
func (o *RootOptions) withService(cmd *cobra.Command, fn func(svc book.UseCase) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeFn, err := o.open(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer closeFn(ctx)
	return fn(svc)
}
