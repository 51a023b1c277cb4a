package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/harunnryd/callpanel/pkg/errorsx"
)

type stubS3 struct {
	objects map[string][]byte
	times   map[string]time.Time
	putErr  error
	deleted []string
	clock   time.Time
}

func newStubS3() *stubS3 {
	return &stubS3{objects: map[string][]byte{}, times: map[string]time.Time{}, clock: time.Unix(1700000000, 0)}
}

func (s *stubS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	s.objects[key] = b
	s.clock = s.clock.Add(time.Second)
	s.times[key] = s.clock
	return &s3.PutObjectOutput{}, nil
}

func (s *stubS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for key, body := range s.objects {
		if !strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			continue
		}
		modified := s.times[key]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(body))),
			LastModified: &modified,
		})
	}
	return out, nil
}

func (s *stubS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(in.Key)
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return &s3.DeleteObjectOutput{}, nil
}

func testS3Store(stub *stubS3) *S3Store {
	store := newS3Store(stub, S3Settings{Bucket: "kb", Prefix: "knowledge"})
	n := 0
	store.newID = func() string {
		n++
		return "doc-" + string(rune('0'+n))
	}
	return store
}

func TestCheckFilename(t *testing.T) {
	for _, ok := range []string{"notes.txt", "Brochure.PDF", "faq.docx", "readme.md", "../up/plan.md"} {
		if _, err := CheckFilename(ok); err != nil {
			t.Fatalf("%s: unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"", "image.png", "script", "archive.tar.gz"} {
		_, err := CheckFilename(bad)
		if !errorsx.HasReason(err, errorsx.ReasonValidation) {
			t.Fatalf("%q: expected validation error, got %v", bad, err)
		}
	}
}

func TestS3StoreUploadListDelete(t *testing.T) {
	stub := newStubS3()
	store := testS3Store(stub)
	ctx := context.Background()

	first, err := store.Upload(ctx, "faq.md", []byte("# FAQ"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if first.ID != "doc-1" || first.Status != StatusAvailable {
		t.Fatalf("unexpected document %+v", first)
	}
	if _, ok := stub.objects["knowledge/doc-1/faq.md"]; !ok {
		t.Fatalf("expected object under prefix, have %v", stub.objects)
	}
	if _, err := store.Upload(ctx, "brochure.pdf", []byte("%PDF")); err != nil {
		t.Fatalf("upload: %v", err)
	}

	docs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 || docs[0].Name != "faq.md" || docs[1].Name != "brochure.pdf" {
		t.Fatalf("unexpected listing %+v", docs)
	}
	if docs[0].Label() != "faq.md - Status: Available" {
		t.Fatalf("unexpected label %q", docs[0].Label())
	}

	if err := store.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(stub.deleted) != 1 || stub.deleted[0] != "knowledge/doc-1/faq.md" {
		t.Fatalf("unexpected deletes %v", stub.deleted)
	}
	var nf *ErrNotFound
	if err := store.Delete(ctx, "doc-1"); !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestS3StoreRejectsTypeBeforeUpload(t *testing.T) {
	stub := newStubS3()
	if _, err := testS3Store(stub).Upload(context.Background(), "photo.jpg", []byte{1}); err == nil {
		t.Fatalf("expected rejection")
	}
	if len(stub.objects) != 0 {
		t.Fatalf("expected nothing stored")
	}
}

func TestS3StoreUploadFailureLeavesNothing(t *testing.T) {
	stub := newStubS3()
	stub.putErr = errors.New("access denied")
	store := testS3Store(stub)
	if _, err := store.Upload(context.Background(), "faq.md", []byte("x")); err == nil {
		t.Fatalf("expected error")
	}
	docs, _ := store.List(context.Background())
	if len(docs) != 0 {
		t.Fatalf("expected no orphan documents, got %+v", docs)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	doc, err := store.Upload(ctx, "notes.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	docs, _ := store.List(ctx)
	if len(docs) != 1 || docs[0].ID != doc.ID || docs[0].Size != 5 {
		t.Fatalf("unexpected listing %+v", docs)
	}
	if err := store.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var nf *ErrNotFound
	if err := store.Delete(ctx, doc.ID); !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}
