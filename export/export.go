package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// CSVHeader is the fixed column order of every export. Field values are not
// comma-escaped; an embedded comma shifts the columns of that row. This
// matches the consumer's existing spreadsheet tooling and is a documented
// gap, not to be fixed silently.
const CSVHeader = "ID,Minter Address,Trainer,Inscription ID,TXID,Price (sats),Timestamp"

var csvColumns = []string{"id", "minterAddress", "trainerName", "inscriptionId", "txid", "price", "timestamp"}

// RenderCSV renders best-effort-parsed log entries. Entries that are not
// JSON objects produce a row of empty fields rather than being dropped.
func RenderCSV(entries []string) string {
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, CSVHeader)
	for _, entry := range entries {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(entry), &m); err != nil {
			m = nil
		}
		fields := make([]string, len(csvColumns))
		for i, col := range csvColumns {
			if v, ok := m[col]; ok {
				fields[i] = formatField(v)
			}
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

func formatField(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

type S3Config struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
}

// UploadCSV pushes one CSV snapshot of the mint log to S3. The object key is
// timestamped so snapshots never overwrite each other.
func UploadCSV(ctx context.Context, cfg S3Config, csv string, timeout time.Duration) (string, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create aws config, error: %v", err)
	}

	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client)

	objectKey := fmt.Sprintf("trainer-mints-%s.csv", time.Now().UTC().Format("20060102T150405Z"))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(cfg.Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader([]byte(csv)),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload mint export: %v", err)
	}
	return objectKey, nil
}
