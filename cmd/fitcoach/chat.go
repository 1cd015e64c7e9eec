package main

import (
	"context"
	"os"

	"github.com/go-go-golems/fitcoach/pkg/chat"
	"github.com/go-go-golems/fitcoach/pkg/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newChatCommand() *cobra.Command {
	var width int
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the fitness assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			var renderer chat.Renderer = chat.PlainRenderer{}
			if !plain && chat.IsTerminal(os.Stdout) {
				renderer, err = chat.NewGlamourRenderer(width)
				if err != nil {
					return err
				}
			}

			s := session.NewSession(a.sessionOptions()...)
			repl := chat.NewREPL(a.pipeline, s,
				chat.WithRenderer(renderer),
				chat.WithProvider(a.factory.Provider()),
			)

			ctx, cancel := context.WithCancel(cmd.Context())
			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				return a.router.Run(ctx)
			})
			eg.Go(func() error {
				defer cancel()
				select {
				case <-a.router.Running():
				case <-ctx.Done():
					return nil
				}
				return repl.Run(ctx)
			})
			err = eg.Wait()
			_ = a.router.Close()
			return err
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "Word wrap width for rendered markdown")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print replies without markdown styling")
	return cmd
}
