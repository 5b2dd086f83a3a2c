package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/resource-feed/internal/domain"
)

func newSubmissionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "Inspect submitted URLs",
	}

	var (
		status string
		output string
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List submissions by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			subs, err := store.ListSubmissions(cmd.Context(), domain.SubmissionStatus(status))
			if err != nil {
				return err
			}

			return writeSubmissions(cmd, subs, output)
		},
	}

	list.Flags().StringVar(&status, "status", string(domain.SubmissionPending), "pending, accepted or rejected")
	list.Flags().StringVarP(&output, "output", "o", "table", "table or yaml")

	cmd.AddCommand(list)

	return cmd
}

type submissionRow struct {
	ID          string    `yaml:"id"`
	URL         string    `yaml:"url"`
	SubmitterID string    `yaml:"submitter_id"`
	Status      string    `yaml:"status"`
	CreatedAt   time.Time `yaml:"created_at"`
}

func writeSubmissions(cmd *cobra.Command, subs []domain.Submission, output string) error {
	out := cmd.OutOrStdout()

	switch output {
	case "yaml":
		rows := make([]submissionRow, len(subs))
		for i, s := range subs {
			rows[i] = submissionRow{ID: s.ID, URL: s.URL, SubmitterID: s.SubmitterID, Status: string(s.Status), CreatedAt: s.CreatedAt.UTC()}
		}

		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)

		if err := enc.Encode(rows); err != nil {
			return err
		}

		return enc.Close()

	case "table":
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tURL\tSUBMITTER\tCREATED")

		for _, s := range subs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.URL, s.SubmitterID, s.CreatedAt.UTC().Format(time.RFC3339))
		}

		return w.Flush()

	default:
		return fmt.Errorf("unknown output %q", output)
	}
}
