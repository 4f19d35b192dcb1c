package main

import (
	"strings"

	"github.com/spf13/cobra"
)

type chatOptions struct {
	delay bool
	plain bool
}

func newChatCmd(root *rootOptions) *cobra.Command {
	opts := chatOptions{delay: true}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Starts the chat loop. Type a question and press enter.

Commands inside the chat:
  /ayuda   help
  /reset   forget the conversation
  /stats   turn statistics
  /salir   quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, *root, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.delay, "thinking", true, "pause briefly before each reply")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print replies without markdown styling")
	return cmd
}

func runChat(cmd *cobra.Command, root rootOptions, opts chatOptions) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, root)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	ctx = a.sessionContext(ctx)
	if err := a.session.Start(ctx); err != nil {
		a.log.Warn("starting without legacy migration")
	}

	repl, err := a.repl(cmd.InOrStdin(), cmd.OutOrStdout(), opts.delay, opts.plain)
	if err != nil {
		return err
	}
	return repl.Run(ctx)
}

func newAskCmd(root *rootOptions) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "ask <pregunta>",
		Short: "Answer a single question and exit",
		Example: `  stocky ask "¿cuánto he vendido este mes?"
  stocky ask muestra gráficas de ventas`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *root)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			ctx = a.sessionContext(ctx)
			if err := a.session.Start(ctx); err != nil {
				a.log.Warn("starting without legacy migration")
			}

			repl, err := a.repl(cmd.InOrStdin(), cmd.OutOrStdout(), false, plain)
			if err != nil {
				return err
			}
			return repl.Ask(ctx, strings.Join(args, " "))
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the reply without markdown styling")
	return cmd
}
