package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/cardiq/internal/config"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/spf13/cobra"
)

// skipApp marks commands that run without a database.
const skipApp = "cardiq/skip-app"

type opener func(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error)

// state carries the App from the root pre-run hook to the commands.
type state struct {
	configFile string
	open       opener
	app        *App
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr, openApp)
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer, open opener) int {
	st := &state{open: open}
	root := newRootCmd(st)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if st.app != nil {
		if cerr := st.app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		if st.app != nil {
			st.app.log.Error(ctx, "command failed", "error", err)
		}
		fmt.Fprintln(errOut, "Error:", describe(err))
		return 1
	}
	return 0
}

func newRootCmd(st *state) *cobra.Command {
	root := &cobra.Command{
		Use:           "cardiq",
		Short:         "CardIQ: AI generated flashcards in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipApp] != "" || cmd.Name() == "help" {
				return nil
			}
			return st.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&st.configFile, "config", "c", "", "config file (JSON, YAML or TOML)")
	pf.String("db", "", "path of the SQLite database")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("model", "", "text-generation model")
	pf.String("uploader", "", "PDF uploader: pdfco or s3")

	root.AddCommand(
		newSignupCmd(st),
		newLoginCmd(st),
		newLogoutCmd(st),
		newWhoamiCmd(st),
		newCategoryCmd(st),
		newTopicCmd(st),
		newGenerateCmd(st),
		newStudyCmd(st),
		newProfileCmd(st),
		newVersionCmd(),
	)
	return root
}

func (st *state) init(cmd *cobra.Command) error {
	cfg, err := config.Load(st.configFile, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	log.Debug(ctx, "starting", "command", cmd.CommandPath())

	app, err := st.open(ctx, cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	st.app = app
	return nil
}
