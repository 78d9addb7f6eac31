package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/api"
	"github.com/tendant/simple-portfolio/pkg/portfolio/presigned"
)

// NewHashPasswordCommand prints a bcrypt hash for ADMIN_PASSWORD_HASH
func NewHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long:  `Hash the admin password. Without an argument the password is read from the first line of stdin.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			hash, err := api.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// NewTokenCommand issues an admin token without a login round trip
func NewTokenCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.AdminEnabled() {
				return errors.New("ADMIN_PASSWORD_HASH is not set")
			}
			if ttl <= 0 {
				ttl = cfg.JWTTTL
			}

			auth, err := api.NewAuth(cfg.AdminPasswordHash, cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}
			token, expiresAt, err := auth.Issue()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_TTL)")
	return cmd
}

// NewProjectsCommand groups project subcommands
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Inspect and manage projects",
	}
	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsDeleteCommand())
	return cmd
}

func newProjectsListCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			projects, err := rt.Service.GetProjects(cmd.Context(), category)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tFEATURED\tCREATED\tTITLE")
			for _, p := range projects {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n",
					p.ID, p.Category, p.Featured, p.CreatedAt.Format(time.RFC3339), p.Title)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category: video, music, graphics or all")
	return cmd
}

func newProjectsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id: %w", err)
			}

			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Service.DeleteProject(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}

// NewMessagesCommand groups contact inbox subcommands
func NewMessagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Read the contact inbox",
	}
	cmd.AddCommand(newMessagesListCommand())
	cmd.AddCommand(newMessagesMarkReadCommand())
	return cmd
}

func newMessagesListCommand() *cobra.Command {
	var unreadOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contact messages, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			messages, err := rt.Service.GetContactMessages(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range messages {
				if unreadOnly && m.Read {
					continue
				}
				status := "read"
				if !m.Read {
					status = "unread"
				}
				fmt.Fprintf(out, "%s  %s  [%s]\nFrom: %s <%s>\n\n%s\n\n",
					m.ID, m.CreatedAt.Format(time.RFC3339), status, m.Name, m.Email, m.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "only show unread messages")
	return cmd
}

func newMessagesMarkReadCommand() *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "mark-read <id>",
		Short: "Mark a message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid message id: %w", err)
			}

			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			return rt.Service.MarkContactMessageRead(cmd.Context(), id, !unread)
		},
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "mark as unread instead")
	return cmd
}

// NewSkillsCommand groups skill subcommands
func NewSkillsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "Manage the skills list",
	}
	cmd.AddCommand(newSkillsSeedCommand())
	return cmd
}

// newSkillsSeedCommand stores the built-in skills so they become editable
func newSkillsSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the built-in skills when no skills are stored yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := cmd.Context()
			stored, err := rt.Repository.ListSkills(ctx)
			if err != nil {
				return err
			}
			if len(stored) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d skills already stored, nothing to do\n", len(stored))
				return nil
			}

			for _, skill := range portfolio.NewBuiltinDefaults().Skills() {
				if _, err := rt.Service.AddSkill(ctx, portfolio.AddSkillRequest{
					Name:        skill.Name,
					Category:    skill.Category,
					Level:       skill.Level,
					Icon:        skill.Icon,
					Description: skill.Description,
				}); err != nil {
					return fmt.Errorf("seed %q: %w", skill.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", skill.Name)
			}
			return nil
		},
	}
}

// NewUploadCommand pushes a local file through an upload URL and prints
// the storage id to pass as profileImageId, thumbnailId or mediaId
func NewUploadCommand() *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file and print its storage id",
		Long: `Upload a file through a fresh upload URL. With memory or file storage the
URL points at the running server (PUBLIC_BASE_URL); with S3 it points at the bucket.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if contentType == "" {
				contentType = detectContentType(f, args[0])
			}

			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			target, err := rt.Service.GenerateUploadURL(cmd.Context())
			if err != nil {
				return err
			}

			client := presigned.NewClient(presigned.WithRetry(3, time.Second))
			ref, err := client.Upload(cmd.Context(), target, f, contentType)
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ref)
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "content type (default: detected)")
	return cmd
}

func detectContentType(f *os.File, name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	head := make([]byte, 512)
	n, _ := f.Read(head)
	_, _ = f.Seek(0, io.SeekStart)
	return http.DetectContentType(head[:n])
}
