package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-journal/internal/backup"
	"github.com/Tiliavir/trivial-journal/internal/storage"
)

var (
	backupBucket string
	backupPrefix string
	backupAll    bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload journal entries to S3",
	Long: `Upload the entry files of the current journal, or of every journal with
--all, to an S3 bucket. Objects mirror the local layout below the prefix:
<prefix>/<journal>/<YYYY>/<MM>/<DD>.txt. Credentials come from the usual AWS
sources; backup.region and backup.profile in the config select them.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().StringVar(&backupBucket, "bucket", "", "S3 bucket (default from config)")
	backupCmd.Flags().StringVar(&backupPrefix, "prefix", "", "Key prefix (default from config)")
	backupCmd.Flags().BoolVar(&backupAll, "all", false, "Back up every journal")
}

func runBackup(cmd *cobra.Command, args []string) error {
	target := backup.Target{Bucket: cfg.Backup.Bucket, Prefix: cfg.Backup.Prefix}
	if backupBucket != "" {
		target.Bucket = backupBucket
	}
	if backupPrefix != "" {
		target.Prefix = backupPrefix
	}
	if target.Bucket == "" {
		fmt.Fprintln(os.Stderr, "No bucket given. Set backup.bucket in the config or pass --bucket.")
		os.Exit(1)
	}

	var journals []string
	if !backupAll {
		journals = append(journals, openSession(newPicker()).Journal())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := backup.NewS3Client(ctx, cfg.Backup.Region, cfg.Backup.Profile)
	if err != nil {
		fatal(err)
	}

	n, err := backup.Run(ctx, store, client, target, log, journals...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Uploaded %d files before failing.\n", n)
		fatal(err)
	}
	fmt.Printf("Uploaded %d files to s3://%s/%s\n", n, target.Bucket, target.Prefix)
	return nil
}

// The journal store is what backups read from.
var _ backup.Store = (*storage.Store)(nil)
