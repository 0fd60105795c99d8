// Package storage keeps credential and presence records as JSON objects in an
// S3 bucket (or any S3-compatible store). A PutObject replaces the whole
// object, which gives the presence upsert its last-writer-wins semantics.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ObjectAPI is the subset of *s3.Client the record store needs.
type ObjectAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ ObjectAPI = (*s3.Client)(nil)

// Options locates the records inside the bucket.
type Options struct {
	Bucket    string
	KeyPrefix string
}

const (
	credentialsDir = "credentials"
	userInfoDir    = "userInfo"
)

type bucket struct {
	client ObjectAPI
	name   string
	prefix string
}

func newBucket(client ObjectAPI, opts Options) bucket {
	return bucket{
		client: client,
		name:   opts.Bucket,
		prefix: strings.Trim(opts.KeyPrefix, "/"),
	}
}

func (b bucket) key(dir, id string) string {
	key := dir + "/" + url.PathEscape(id) + ".json"
	if b.prefix != "" {
		key = b.prefix + "/" + key
	}
	return key
}

func (b bucket) dirPrefix(dir string) string {
	if b.prefix != "" {
		return b.prefix + "/" + dir + "/"
	}
	return dir + "/"
}

func (b bucket) check(ctx context.Context) error {
	if b.name == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if _, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(b.name)}); err != nil {
		return fmt.Errorf("head bucket %s: %w", b.name, err)
	}
	return nil
}

// put writes v as JSON. With exclusive set the write fails with
// errPrecondition when the key already exists.
func (b bucket) put(ctx context.Context, key string, v any, exclusive bool) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}
	if exclusive {
		input.IfNoneMatch = aws.String("*")
	}
	if _, err := b.client.PutObject(ctx, input); err != nil {
		if hasCode(err, "PreconditionFailed", "ConditionalRequestConflict") {
			return errPrecondition
		}
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// get decodes the object at key into v; errMissing reports an absent key.
func (b bucket) get(ctx context.Context, key string, v any) error {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		if hasCode(err, "NoSuchKey", "NotFound") {
			return errMissing
		}
		return fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("read object %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode object %s: %w", key, err)
	}
	return nil
}

func (b bucket) listKeys(ctx context.Context, dir string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(b.name),
		Prefix: aws.String(b.dirPrefix(dir)),
	}

	var keys []string
	for {
		output, err := b.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range output.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, ".json") {
				keys = append(keys, key)
			}
		}
		if !aws.ToBool(output.IsTruncated) || output.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = output.NextContinuationToken
	}
	return keys, nil
}

var (
	errMissing      = errors.New("object missing")
	errPrecondition = errors.New("object precondition failed")
)

func hasCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
