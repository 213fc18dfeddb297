package storage

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"notin-market/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var AllowImage = []string{".jpg", ".jpeg", ".png", ".webp"}

const signedLinkTTL = time.Minute

type (
	AwsS3 interface {
		UploadFile(name string, file *multipart.FileHeader, dir string, allowed ...string) (string, error)
		// GetSignedLink returns a short-lived presigned GET URL; image keys
		// are never exposed directly.
		GetSignedLink(objectKey string) string
	}

	awsS3 struct {
		client  *s3.Client
		presign *s3.PresignClient
		bucket  string
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_S3_REGION")

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		log.Fatalf("error loading AWS config: %v", err)
	}

	client := s3.NewFromConfig(cfg)
	return &awsS3{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  utils.GetConfig("AWS_S3_BUCKET"),
	}
}

func (a *awsS3) UploadFile(name string, file *multipart.FileHeader, dir string, allowed ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))

	if len(allowed) > 0 {
		ok := false
		for _, allowedExt := range allowed {
			if ext == allowedExt {
				ok = true
				break
			}
		}
		if !ok {
			return "", fmt.Errorf("file extension %s is not allowed", ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	objectKey := fmt.Sprintf("%s/%s%s", dir, name, ext)
	_, err = a.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
		Body:   src,
	})
	if err != nil {
		return "", err
	}

	return objectKey, nil
}

func (a *awsS3) GetSignedLink(objectKey string) string {
	req, err := a.presign.PresignGetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(signedLinkTTL))
	if err != nil {
		log.Printf("error presigning object %s: %v", objectKey, err)
		return ""
	}
	return req.URL
}
