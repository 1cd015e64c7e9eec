package main

import (
	"fmt"
	"strings"

	"github.com/go-go-golems/fitcoach/pkg/pipeline"
	"github.com/go-go-golems/fitcoach/pkg/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a single question and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.router.Close()
			}()

			s := session.NewSession(a.sessionOptions()...)
			reply, err := a.pipeline.Submit(cmd.Context(), s, strings.Join(args, " "))
			if errors.Is(err, pipeline.ErrMissingCredential) {
				return errors.New("no API key configured, set --gemini-api-key or FITCOACH_GEMINI_API_KEY")
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return err
		},
	}
}
