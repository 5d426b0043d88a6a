package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/services"
	"github.com/spf13/cobra"
)

const (
	// defaultCardCount is preselected in the generation forms.
	defaultCardCount = 10
	// maxCardCount bounds --count; the service itself takes any positive count.
	maxCardCount = 50
)

type generateOpts struct {
	categoryID int64
	count      int
}

func (o *generateOpts) bind(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&o.categoryID, "category", 0, "category id of the new topic")
	cmd.Flags().IntVarP(&o.count, "count", "n", defaultCardCount, "number of flashcards (1-50)")
	_ = cmd.MarkFlagRequired("category")
}

func (o *generateOpts) validate() error {
	if o.count < 1 || o.count > maxCardCount {
		return fmt.Errorf("--count must be between 1 and %d: %w", maxCardCount, common.ErrInvalidInput)
	}
	return nil
}

func newGenerateCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a topic of flashcards",
	}
	cmd.AddCommand(newGeneratePromptCmd(st), newGeneratePDFCmd(st))
	return cmd
}

func newGeneratePromptCmd(st *state) *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "prompt [text]",
		Short: "Generate flashcards from a description of what to learn",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			a := st.app
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			gen, err := a.generationService()
			if err != nil {
				return err
			}

			prompt := strings.Join(args, " ")
			if strings.TrimSpace(prompt) == "" {
				if prompt, err = GetMultiline(a.reader, "What do you want to learn?", a.out); err != nil {
					return err
				}
			}

			fmt.Fprintln(a.out, "Generating flashcards...")
			res, err := gen.GenerateFromPrompt(ctx, sess, prompt, opts.categoryID, opts.count)
			if err != nil {
				return err
			}
			printGenerated(a, res)
			return nil
		},
	}

	opts.bind(cmd)
	return cmd
}

func newGeneratePDFCmd(st *state) *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "pdf <file>",
		Short: "Generate flashcards from the text of a PDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			a := st.app
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			gen, err := a.generationService()
			if err != nil {
				return err
			}

			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			fmt.Fprintf(a.out, "Reading %s and generating flashcards...\n", filepath.Base(path))
			res, err := gen.GenerateFromDocument(ctx, sess, filepath.Base(path), f, opts.categoryID, opts.count)
			if err != nil {
				return err
			}
			printGenerated(a, res)
			return nil
		},
	}

	opts.bind(cmd)
	return cmd
}

func printGenerated(a *App, res *services.GenerationResult) {
	fmt.Fprintf(a.out, "Created topic %d %q with %d cards.\n%s\n", res.TopicID, res.Title, res.CardCount, res.Description)
	fmt.Fprintf(a.out, "Start studying with `cardiq study %d`.\n", res.TopicID)
}
