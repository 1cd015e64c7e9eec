package main

import (
	"context"

	"github.com/go-go-golems/fitcoach/pkg/server"
	"github.com/go-go-golems/fitcoach/pkg/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat as a JSON API, one session per browser cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			store := session.NewStore(a.sessionOptions()...)
			srv := server.NewServer(a.pipeline, store)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
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
				return srv.ListenAndServe(ctx, addr)
			})
			err = eg.Wait()
			_ = a.router.Close()
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
