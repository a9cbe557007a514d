package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"locket-backend/internal/apperr"
	"locket-backend/internal/models"
	"locket-backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PageMeta is the pagination block returned with picture listings
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TotalPages computes ceil(total/limit)
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// PictureService handles picture upload, the visibility-scoped feed and
// detail retrieval. Uploaded bytes go to S3; the database row stores the
// object URL.
type PictureService struct {
	pictureRepo *repository.PictureRepository
	userRepo    *repository.UserRepository
	s3Client    *s3.Client
	s3Bucket    string
	s3Region    string
	endpoint    string
}

// NewPictureService creates a new picture service
func NewPictureService(
	pictureRepo *repository.PictureRepository,
	userRepo *repository.UserRepository,
	awsRegion, s3Bucket, accessKey, secretKey, endpoint string,
) (*PictureService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(awsRegion),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &PictureService{
		pictureRepo: pictureRepo,
		userRepo:    userRepo,
		s3Client:    s3Client,
		s3Bucket:    s3Bucket,
		s3Region:    awsRegion,
		endpoint:    endpoint,
	}, nil
}

// Upload stores the file in S3 and records the picture with its optional
// annotations. Unset annotations persist as empty strings, not nulls.
func (s *PictureService) Upload(ctx context.Context, uploaderID string, file io.Reader, filename, contentType, message, timeNote, location string) (*models.Picture, error) {
	if file == nil {
		return nil, apperr.Validation("No image file provided")
	}

	uploader, err := s.userRepo.GetByID(ctx, uploaderID)
	if err != nil {
		return nil, err
	}

	pictureID := uuid.New().String()
	key := s.objectKey(pictureID, filename)

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload picture to s3: %w", err)
	}

	pic := &models.Picture{
		ID:       pictureID,
		URL:      s.objectURL(key),
		Uploader: models.UserSummary{ID: uploader.ID, Username: uploader.Username},
		Message:  message,
		Time:     timeNote,
		Location: location,
		UploadAt: time.Now().UTC(),
	}
	if err := s.pictureRepo.Create(ctx, pic); err != nil {
		return nil, err
	}
	return pic, nil
}

// List returns the visibility-scoped feed: pictures uploaded by the
// requester or any of their friends, newest first.
func (s *PictureService) List(ctx context.Context, requesterID string, page, limit int) ([]models.Picture, *PageMeta, error) {
	page, limit = normalizePage(page, limit)

	friendIDs, err := s.userRepo.FriendIDs(ctx, requesterID)
	if err != nil {
		return nil, nil, err
	}
	uploaders := append([]string{requesterID}, friendIDs...)

	pictures, total, err := s.pictureRepo.ListByUploaders(ctx, uploaders, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}
	if pictures == nil {
		pictures = []models.Picture{}
	}

	meta := &PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
	return pictures, meta, nil
}

// Detail returns the full picture record with uploader and reactions resolved
func (s *PictureService) Detail(ctx context.Context, pictureID string) (*models.Picture, error) {
	return s.pictureRepo.GetDetail(ctx, pictureID)
}

// React records a reaction on a picture on behalf of userID
func (s *PictureService) React(ctx context.Context, pictureID, userID, icon string) error {
	if icon == "" {
		return apperr.Validation("icon is required")
	}
	if _, err := s.pictureRepo.GetDetail(ctx, pictureID); err != nil {
		return err
	}
	return s.pictureRepo.AddReaction(ctx, uuid.New().String(), pictureID, userID, icon)
}

func (s *PictureService) objectKey(pictureID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("pictures/%s%s", pictureID, ext)
}

func (s *PictureService) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.s3Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Bucket, s.s3Region, key)
}
