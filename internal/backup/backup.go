// Package backup copies journal entries to an S3 bucket.
package backup

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Tiliavir/trivial-journal/internal/logging"
)

// Uploader is the part of *s3.Client used for backups.
type Uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store lists and locates the entry files to back up.
type Store interface {
	ListJournals() ([]string, error)
	Dates(ctx context.Context, journal string) ([]time.Time, error)
	Path(journal string, date time.Time) string
}

// Target is where entries are uploaded to.
type Target struct {
	Bucket string
	Prefix string
}

// Key returns the object key of the entry for date, mirroring the on-disk
// layout below the prefix.
func (t Target) Key(journal string, date time.Time) string {
	return path.Join(t.Prefix, journal,
		fmt.Sprintf("%d", date.Year()),
		fmt.Sprintf("%02d", int(date.Month())),
		fmt.Sprintf("%02d.txt", date.Day()))
}

// NewS3Client builds an S3 client from the shared AWS config. Empty region
// or profile fall back to the SDK's defaults.
func NewS3Client(ctx context.Context, region, profile string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Run uploads every entry of the given journals, or of all journals when
// none are given, and returns the number of files uploaded. Uploads run one
// after another and stop at the first failure.
func Run(ctx context.Context, store Store, up Uploader, target Target, log logging.Logger, journals ...string) (int, error) {
	if target.Bucket == "" {
		return 0, fmt.Errorf("backup: no bucket configured")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	if len(journals) == 0 {
		all, err := store.ListJournals()
		if err != nil {
			return 0, err
		}
		journals = all
	}

	count := 0
	for _, j := range journals {
		dates, err := store.Dates(ctx, j)
		if err != nil {
			return count, fmt.Errorf("backup: listing %s: %w", j, err)
		}
		for _, d := range dates {
			if err := upload(ctx, up, target, store.Path(j, d), target.Key(j, d)); err != nil {
				log.Error("upload failed", "journal", j, "key", target.Key(j, d), "err", err)
				return count, err
			}
			log.Debug("uploaded entry", "journal", j, "key", target.Key(j, d))
			count++
		}
	}
	log.Info("backup finished", "bucket", target.Bucket, "files", count)
	return count, nil
}

func upload(ctx context.Context, up Uploader, target Target, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("backup: open %s: %w", file, err)
	}
	defer f.Close()

	_, err = up.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(target.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("backup: upload %s: %w", key, err)
	}
	return nil
}
