package documents

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/harunnryd/callpanel/pkg/configutil"
)

// S3Settings configures the S3 document store. Static keys are optional; the
// default AWS credential chain is used when they are empty.
type S3Settings struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Prefix          string `mapstructure:"prefix"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// S3Schema lists the accepted settings keys.
var S3Schema = configutil.Schema{
	Required: []string{"bucket", "region"},
	Optional: []string{"prefix", "endpoint", "access_key_id", "secret_access_key", "use_path_style"},
}

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps each document at <prefix><id>/<filename>.
type S3Store struct {
	client s3API
	bucket string
	prefix string
	newID  func() string
}

func NewS3Store(ctx context.Context, settings map[string]any) (*S3Store, error) {
	if err := configutil.ValidateSettings(settings, S3Schema); err != nil {
		return nil, configutil.Describe("document_store", err)
	}
	var cfg S3Settings
	if err := configutil.DecodeSettings(settings, &cfg); err != nil {
		return nil, fmt.Errorf("document_store.settings: %w", err)
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newS3Store(client, cfg), nil
}

func newS3Store(client s3API, cfg S3Settings) *S3Store {
	prefix := strings.TrimLeft(cfg.Prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: prefix, newID: uuid.NewString}
}

func (s *S3Store) Upload(ctx context.Context, filename string, data []byte) (Document, error) {
	name, err := CheckFilename(filename)
	if err != nil {
		return Document{}, err
	}
	id := s.newID()
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + id + "/" + name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Document{}, fmt.Errorf("s3 put %s: %w", name, err)
	}
	return Document{ID: id, Name: name, Status: StatusAvailable, Size: int64(len(data))}, nil
}

func (s *S3Store) List(ctx context.Context) ([]Document, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	var out []Document
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list: %w", err)
		}
		for _, obj := range page.Contents {
			doc, ok := s.parseKey(aws.ToString(obj.Key))
			if !ok {
				continue
			}
			doc.Size = aws.ToInt64(obj.Size)
			if obj.LastModified != nil {
				doc.UploadedAt = obj.LastModified.UTC()
			}
			out = append(out, doc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return &ErrNotFound{ID: id}
	}
	page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.prefix + id + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("s3 lookup %s: %w", id, err)
	}
	if len(page.Contents) == 0 {
		return &ErrNotFound{ID: id}
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    page.Contents[0].Key,
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", id, err)
	}
	return nil
}

func (s *S3Store) parseKey(key string) (Document, bool) {
	rest, ok := strings.CutPrefix(key, s.prefix)
	if !ok {
		return Document{}, false
	}
	id, name, ok := strings.Cut(rest, "/")
	if !ok || id == "" || name == "" || strings.Contains(name, "/") {
		return Document{}, false
	}
	return Document{ID: id, Name: name, Status: StatusAvailable}, true
}

var _ Store = (*S3Store)(nil)
