package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"fieldlex-client/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// --- login ---

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Authenticate against the central service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		resp, err := a.auth.Login(cmd.Context(), args[0], string(password))
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s\n", resp.User.Email)
		return nil
	},
}

// --- submit ---

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit one collected word",
	Long: `Submit one collected word.

Examples:
  fieldlex submit --word w-42 --language lg-7 --district d-1 --tehsil t-3 --village v-19 \
      --text "panee" --audio ./recordings/panee.m4a`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		form := model.FormState{
			Word:     refFlag(cmd, "word"),
			Language: refFlag(cmd, "language"),
			District: refFlag(cmd, "district"),
			Tehsil:   refFlag(cmd, "tehsil"),
			Village:  refFlag(cmd, "village"),
		}
		form.RegionalText, _ = cmd.Flags().GetString("text")

		audioPath, _ := cmd.Flags().GetString("audio")
		inline, _ := cmd.Flags().GetBool("inline-audio")
		if audioPath != "" {
			if inline {
				data, err := os.ReadFile(audioPath)
				if err != nil {
					return fmt.Errorf("failed to read recording: %w", err)
				}
				form.AudioData = data
			} else {
				form.AudioPath = audioPath
			}
		}

		outcome, err := a.svc.Submit(cmd.Context(), form)
		if err != nil {
			return err
		}

		if outcome.Queued {
			fmt.Printf("Saved locally, will sync later (id %s)\n", outcome.Submission.ID)
			return nil
		}
		fmt.Printf("Submitted (remote id %s)\n", outcome.Submission.RemoteID)
		return nil
	},
}

// --- sync ---

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Deliver every queued submission",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		report, err := a.svc.SyncAll(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Synced %d, failed %d\n", report.SyncedCount, report.ErrorCount)
		return nil
	},
}

// --- queue ---

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect or clear the offline queue",
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued submissions, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := a.queue.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("Queue is empty")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%d\t%s\t%q\t%s\n",
				e.ID, e.Submission.WordID, e.Submission.RegionalText,
				e.EnqueuedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Destroy every queued submission (irreversible)",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to clear the queue without --yes")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return a.queue.Clear(cmd.Context())
	},
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import <spreadsheet.xlsx>",
	Short: "Bulk-import submissions from a coordinator spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read spreadsheet: %w", err)
		}

		report, err := a.importer.Import(cmd.Context(), data)
		if err != nil {
			return err
		}

		fmt.Printf("Delivered %d, queued %d, invalid %d, failed %d\n",
			report.Delivered, report.Queued, report.Invalid, report.Failed)
		return nil
	},
}

// --- submissions ---

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List locally confirmed submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		subs, err := a.store.List(cmd.Context())
		if err != nil {
			return err
		}

		for _, s := range subs {
			fmt.Printf("%s\t%s\t%q\t%s\n", s.ID, s.Status, s.RegionalText, s.RemoteID)
		}
		return nil
	},
}

// refFlag reads an identifier flag as an EntityRef: digits mean a legacy
// numeric id, anything else is canonical.
func refFlag(cmd *cobra.Command, name string) model.EntityRef {
	value, _ := cmd.Flags().GetString(name)
	value = strings.TrimSpace(value)
	if value == "" {
		return model.EntityRef{}
	}
	var n int64
	if _, err := fmt.Sscanf(value, "%d", &n); err == nil && fmt.Sprintf("%d", n) == value {
		return model.EntityRef{LegacyID: n}
	}
	return model.EntityRef{CanonicalID: value}
}

func init() {
	submitCmd.Flags().String("word", "", "word identifier")
	submitCmd.Flags().String("language", "", "language identifier")
	submitCmd.Flags().String("district", "", "district identifier")
	submitCmd.Flags().String("tehsil", "", "tehsil identifier")
	submitCmd.Flags().String("village", "", "village identifier")
	submitCmd.Flags().String("text", "", "regional-language equivalent (2-50 characters)")
	submitCmd.Flags().String("audio", "", "path to the audio recording")
	submitCmd.Flags().Bool("inline-audio", false, "upload the recording inline as multipart")

	queueClearCmd.Flags().Bool("yes", false, "confirm destroying the queue")
	queueCmd.AddCommand(queueListCmd, queueClearCmd)
}
