// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUploadClient satisfies manager.UploadAPIClient. Artifacts in these
// tests are far below the multipart threshold, so only PutObject is hit.
type fakeUploadClient struct {
	putErr error

	bucket string
	key    string
	body   []byte
}

func (f *fakeUploadClient) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.bucket = *in.Bucket
	f.key = *in.Key
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeUploadClient) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("unexpected multipart upload")
}

func (f *fakeUploadClient) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("unexpected multipart upload")
}

func (f *fakeUploadClient) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("unexpected multipart upload")
}

func (f *fakeUploadClient) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("unexpected multipart upload")
}

func TestUpload(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "demo-hello.zip")
	require.NoError(t, os.WriteFile(artifact, []byte("zip-bytes"), 0o644))

	client := &fakeUploadClient{}
	store := New(client)

	err := store.Upload(context.Background(), "demo-artifacts", "demo-hello.zip", artifact)
	require.NoError(t, err)

	assert.Equal(t, "demo-artifacts", client.bucket)
	assert.Equal(t, "demo-hello.zip", client.key)
	assert.Equal(t, []byte("zip-bytes"), client.body)
}

func TestUpload_MissingArtifact(t *testing.T) {
	store := New(&fakeUploadClient{})

	err := store.Upload(context.Background(), "demo-artifacts", "demo-hello.zip",
		filepath.Join(t.TempDir(), "absent.zip"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open artifact")
}

func TestUpload_RemoteFailureSurfaces(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "demo-hello.zip")
	require.NoError(t, os.WriteFile(artifact, []byte("zip-bytes"), 0o644))

	store := New(&fakeUploadClient{putErr: errors.New("access denied")})

	err := store.Upload(context.Background(), "demo-artifacts", "demo-hello.zip", artifact)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload")
}
