package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ydaci/lillehelperplatform/internal/event"

	"github.com/spf13/cobra"
)

func newEventsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List or create events",
	}

	var filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally for today, this week or this month",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			events, err := c.ListEvents(cmd.Context(), event.ParseDateFilter(filter))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), events)
		},
	}
	list.Flags().StringVar(&filter, "filter", "", "today, week or month")

	var req event.CreateEventRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			e, err := c.CreateEvent(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
	create.Flags().StringVar(&req.Title, "title", "", "event title")
	create.Flags().StringVar(&req.EventDate, "date", "", "event date, YYYY-MM-DD")
	create.Flags().StringVar(&req.Frequency, "frequency", "", "how often it happens, free text")
	create.Flags().StringVar(&req.Location, "location", "", "where it happens")
	create.Flags().StringVar(&req.Description, "description", "", "what it is about")
	create.Flags().StringVar(&req.Type, "type", "", "language, cultural or professional")

	cmd.AddCommand(list, create)
	return cmd
}

func newTeachersCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "teachers",
		Short: "List the teacher directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			teachers, err := c.ListTeachers(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), teachers)
		},
	}
}

func newUploadCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a video and print its reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ref, err := c.UploadVideo(cmd.Context(), filepath.Base(f.Name()), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ref)
			return nil
		},
	}
}
