package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ydaci/lillehelperplatform/internal/account"

	"github.com/spf13/cobra"
)

func newSignupCmd(opts *globalOptions) *cobra.Command {
	var req account.SignupRequest
	var videoFile string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}

			if videoFile != "" {
				f, err := os.Open(videoFile)
				if err != nil {
					return err
				}
				defer f.Close()

				ref, err := c.UploadVideo(cmd.Context(), filepath.Base(f.Name()), f)
				if err != nil {
					return fmt.Errorf("upload failed: %w", err)
				}
				req.Video = ref
			}

			resp, err := c.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %d created\n", resp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Role, "role", "", "Teacher, Learner or Admin")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Description, "description", "", "profile description (teachers and learners)")
	cmd.Flags().StringVar(&req.Video, "video", "", "reference of an already uploaded video (teachers)")
	cmd.Flags().StringVar(&videoFile, "video-file", "", "upload this file and attach it (teachers)")
	cmd.MarkFlagRequired("role")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(opts *globalOptions) *cobra.Command {
	var req account.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the user locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}

			user, err := c.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s %s (%s)\n", user.FirstName, user.LastName, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Role, "role", "", "Teacher, Learner or Admin")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.MarkFlagRequired("role")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the locally stored user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored user and the dashboard for their role",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}

			holder := c.Session()
			user, ok := holder.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), struct {
				User      account.User      `json:"user"`
				Dashboard account.Dashboard `json:"dashboard"`
			}{user, holder.Dashboard()})
		},
	}
}
