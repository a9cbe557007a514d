package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{20, 10, 2},
		{21, 10, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestObjectKeyExtension(t *testing.T) {
	svc := &PictureService{}

	assert.Equal(t, "pictures/id-1.png", svc.objectKey("id-1", "shot.PNG"))
	assert.Equal(t, "pictures/id-2.jpg", svc.objectKey("id-2", "noext"))
	assert.Equal(t, "pictures/id-3.jpeg", svc.objectKey("id-3", "a/b/photo.jpeg"))
}

func TestObjectURL(t *testing.T) {
	aws := &PictureService{s3Bucket: "bucket", s3Region: "us-east-1"}
	assert.Equal(t,
		"https://bucket.s3.us-east-1.amazonaws.com/pictures/x.jpg",
		aws.objectURL("pictures/x.jpg"),
	)

	custom := &PictureService{s3Bucket: "bucket", endpoint: "https://s3.example.com/"}
	assert.Equal(t,
		"https://s3.example.com/bucket/pictures/x.jpg",
		custom.objectURL("pictures/x.jpg"),
	)
}
