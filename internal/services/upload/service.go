package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Service stores uploads. Images go to Cloudinary when it is configured;
// everything else, and all files in local mode, land under the upload dir.
type Service struct {
	cld       *cloudinary.Cloudinary // nil when not configured
	uploadDir string
	baseURL   string
}

func NewService(cloudinaryURL, uploadDir, baseURL string) (*Service, error) {
	s := &Service{uploadDir: uploadDir, baseURL: baseURL}

	if cloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(cloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("invalid cloudinary configuration: %w", err)
		}
		s.cld = cld
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return s, nil
}

// StoredFile describes where an upload ended up.
type StoredFile struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Storage  string `json:"storage"` // "cloudinary" or "local"
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true,
}

// Store saves one uploaded file and returns its public location.
func (s *Service) Store(ctx context.Context, header *multipart.FileHeader) (*StoredFile, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if s.cld != nil && imageExtensions[ext] {
		return s.storeCloudinary(ctx, file)
	}
	return s.storeLocal(file, ext)
}

func (s *Service) storeCloudinary(ctx context.Context, file io.Reader) (*StoredFile, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: "mbz"})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return &StoredFile{URL: resp.SecureURL, PublicID: resp.PublicID, Storage: "cloudinary"}, nil
}

func (s *Service) storeLocal(file io.Reader, ext string) (*StoredFile, error) {
	name := uuid.New().String() + ext
	path := filepath.Join(s.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &StoredFile{
		URL:      s.baseURL + "/uploads/" + name,
		PublicID: name,
		Storage:  "local",
	}, nil
}
