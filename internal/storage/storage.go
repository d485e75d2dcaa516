// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

// Package storage uploads package artifacts to S3.
package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"

	"github.com/chengjingfeng/lmdo/internal/spin"
)

// Store wraps the transfer manager so large artifacts get multipart handling
// for free.
type Store struct {
	uploader *manager.Uploader
}

// New constructs a Store from any client satisfying the manager's upload
// surface; in production that is *s3.Client.
func New(client manager.UploadAPIClient) *Store {
	return &Store{uploader: manager.NewUploader(client)}
}

// Upload streams the local artifact to s3://bucket/key. Callers must treat a
// returned error as fatal for the artifact's deploy step.
func (s *Store) Upload(ctx context.Context, bucket, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open artifact %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat artifact %s: %w", localPath, err)
	}
	log.Debugf("uploading %s (%s) to s3://%s/%s",
		localPath, humanize.Bytes(uint64(info.Size())), bucket, key)

	stop := spin.Start(fmt.Sprintf("uploading %s", key))
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
		Body:   f,
	})
	stop()
	if err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", bucket, key, err)
	}

	log.WithField("location", result.Location).Infof("uploaded %s", key)
	return nil
}
