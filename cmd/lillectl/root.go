package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ydaci/lillehelperplatform/internal/client"
	"github.com/ydaci/lillehelperplatform/internal/session"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	server      string
	sessionFile string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "lillectl",
		Short:         "Command-line client for the language community platform",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	defaultServer := os.Getenv("LILLE_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:5000"
	}
	root.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "API base URL ($LILLE_SERVER)")
	root.PersistentFlags().StringVar(&opts.sessionFile, "session-file", "", "where the logged-in user is kept (default $XDG_CONFIG_HOME/lillectl/session.json)")

	root.AddCommand(
		newSignupCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newEventsCmd(opts),
		newTeachersCmd(opts),
		newUploadCmd(opts),
	)
	return root
}

func (o *globalOptions) client(ctx context.Context) (*client.Client, error) {
	path := o.sessionFile
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}

	holder, err := session.NewHolder(ctx, session.NewFileStore(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return client.NewClient(o.server, holder), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
