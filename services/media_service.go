package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"eldato-web/apperrors"
)

const (
	// MaxImageBytes is the largest accepted photo
	MaxImageBytes = 5 * 1024 * 1024

	// MaxServicePhotos is how many photos a service may carry
	MaxServicePhotos = 5
)

// MediaService uploads service photos to Cloudinary
type MediaService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewMediaService creates a media service from a cloudinary:// URL
func NewMediaService(cloudinaryURL, folder string) (*MediaService, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL is not set")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary initialization failed: %w", err)
	}
	cld.Config.URL.Secure = true
	return &MediaService{cld: cld, folder: strings.Trim(folder, "/")}, nil
}

// ValidateImageFile validates extension and size (<= 5MB)
func ValidateImageFile(h *multipart.FileHeader) error {
	if h == nil || h.Size <= 0 {
		return apperrors.Validation("The photo is empty.")
	}
	if h.Size > MaxImageBytes {
		return apperrors.Validation(fmt.Sprintf("%s is larger than 5MB.", h.Filename))
	}
	switch strings.ToLower(filepath.Ext(h.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return nil
	default:
		return apperrors.Validation(fmt.Sprintf("%s is not a JPG, PNG or WEBP image.", h.Filename))
	}
}

// UploadServicePhotos validates every photo before uploading any of them and returns their URLs in order
func (ms *MediaService) UploadServicePhotos(ctx context.Context, providerID uint, files []*multipart.FileHeader) ([]string, error) {
	if len(files) > MaxServicePhotos {
		return nil, apperrors.Validation(fmt.Sprintf("A service can have at most %d photos.", MaxServicePhotos))
	}
	for _, h := range files {
		if err := ValidateImageFile(h); err != nil {
			return nil, err
		}
	}

	folder := ms.folder + "/" + strconv.FormatUint(uint64(providerID), 10)
	urls := make([]string, 0, len(files))
	for _, h := range files {
		url, err := ms.upload(ctx, h, folder)
		if err != nil {
			log.Printf("❌ Photo upload failed for provider %d: %v", providerID, err)
			return nil, apperrors.Transient(err, "The photos could not be uploaded. Please try again.")
		}
		urls = append(urls, url)
	}

	log.Printf("📸 Uploaded %d photos for provider %d", len(urls), providerID)
	return urls, nil
}

func (ms *MediaService) upload(ctx context.Context, header *multipart.FileHeader, folder string) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	overwrite := false
	unique := true
	res, err := ms.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         folder,
		PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
		Overwrite:      &overwrite,
		UniqueFilename: &unique,
		ResourceType:   "image",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
