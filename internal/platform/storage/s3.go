// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package storage provides an S3-compatible object storage client for media
// uploads. It wraps the AWS SDK v2 and uses path-style addressing so it works
// with MinIO, R2 and CEPH as well as AWS.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client stores objects in a single bucket.
type Client struct {
	s3       *s3.Client
	bucket   string
	endpoint string
}

// Options carries the connection settings of a [Client].
type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// New creates a storage client. It returns (nil, nil) when the endpoint or
// credentials are empty so the server can start without object storage.
func New(options Options) (*Client, error) {
	if options.Endpoint == "" || options.AccessKey == "" || options.SecretKey == "" {
		return nil, nil
	}
	if options.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}

	endpoint := strings.TrimRight(options.Endpoint, "/")

	client := s3.New(s3.Options{
		Region:       options.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		UsePathStyle: true,
	})

	return &Client{s3: client, bucket: options.Bucket, endpoint: endpoint}, nil
}

// Put uploads data under key.
func (client *Client) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := client.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(client.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", client.bucket, key, err)
	}
	return nil
}

// Delete removes the object stored under key.
func (client *Client) Delete(ctx context.Context, key string) error {
	_, err := client.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", client.bucket, key, err)
	}
	return nil
}

// PathStyleURL returns the direct path-style URL of key, used as the media
// base when no CDN URL is configured.
func (client *Client) PathStyleURL() string {
	return client.endpoint + "/" + client.bucket
}
