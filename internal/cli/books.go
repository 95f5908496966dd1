package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marcelsud/personal-library/book"
	httpchi "github.com/marcelsud/personal-library/internal/http/chi"
	"github.com/spf13/cobra"
)

type bookView struct {
	ID           string   `json:"_id"`
	Title        string   `json:"title"`
	CommentCount int      `json:"commentcount"`
	Comments     []string `json:"comments,omitempty"`
}

func view(b book.Book, withComments bool) bookView {
	v := bookView{ID: b.ID, Title: b.Title, CommentCount: b.CommentCount()}
	if withComments {
		v.Comments = b.Comments
	}
	return v
}

func describe(b book.Book) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\t%s", b.ID, b.Title)
	for _, c := range b.Comments {
		fmt.Fprintf(&sb, "\n  - %s", c)
	}
	return sb.String()
}

// domainOutcome prints the fixed text for the domain errors and turns
// anything else into a command error.
func domainOutcome(f *OutputFormatter, err error) error {
	var msg string
	switch {
	case errors.Is(err, book.ErrMissingTitle):
		msg = httpchi.MsgMissingTitle
	case errors.Is(err, book.ErrMissingComment):
		msg = httpchi.MsgMissingComment
	case book.IsNotFound(err):
		msg = httpchi.MsgNoBook
	default:
		return WrapExitError(ExitCommandError, "book operation failed", err)
	}
	if perr := f.Message("error", msg); perr != nil {
		return perr
	}
	return NewExitError(ExitFailure, msg)
}

func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every book with its comment count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			return opts.withService(cmd, func(svc book.UseCase) error {
				all, err := svc.List(cmd.Context())
				if err != nil {
					return domainOutcome(f, err)
				}
				views := make([]bookView, 0, len(all))
				lines := make([]string, 0, len(all))
				for _, b := range all {
					views = append(views, view(b, false))
					lines = append(lines, fmt.Sprintf("%s\t%s\t%d comments", b.ID, b.Title, b.CommentCount()))
				}
				if len(lines) == 0 {
					lines = append(lines, "no books")
				}
				return f.Success(views, strings.Join(lines, "\n"))
			})
		},
	}
}

func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a book, or show the one with the same title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			return opts.withService(cmd, func(svc book.UseCase) error {
				b, err := svc.Create(cmd.Context(), args[0])
				if err != nil {
					return domainOutcome(f, err)
				}
				return f.Success(view(b, false), fmt.Sprintf("%s\t%s", b.ID, b.Title))
			})
		},
	}
}

func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a book and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			return opts.withService(cmd, func(svc book.UseCase) error {
				b, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return domainOutcome(f, err)
				}
				return f.Success(view(b, true), describe(b))
			})
		},
	}
}

func NewCommentCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <comment>",
		Short: "Append a comment to a book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			return opts.withService(cmd, func(svc book.UseCase) error {
				b, err := svc.AddComment(cmd.Context(), args[0], args[1])
				if err != nil {
					return domainOutcome(f, err)
				}
				return f.Success(view(b, true), describe(b))
			})
		},
	}
}

func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			return opts.withService(cmd, func(svc book.UseCase) error {
				if err := svc.Delete(cmd.Context(), args[0]); err != nil {
					return domainOutcome(f, err)
				}
				return f.Message("ok", httpchi.MsgDeleted)
			})
		},
	}
}

func NewDeleteAllCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "refusing to delete every book without --yes")
			}
			f := opts.formatter(cmd)
			return opts.withService(cmd, func(svc book.UseCase) error {
				if _, err := svc.DeleteAll(cmd.Context()); err != nil {
					return domainOutcome(f, err)
				}
				return f.Message("ok", httpchi.MsgCompleteDeleted)
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every book")
	return cmd
}
