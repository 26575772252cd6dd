package salary

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// AssetUploader is the part of the Cloudinary upload API the store uses.
type AssetUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryPayslipStore keeps payslips as raw assets under folder.
type CloudinaryPayslipStore struct {
	upload AssetUploader
	folder string
}

func NewCloudinaryPayslipStore(upload AssetUploader, folder string) *CloudinaryPayslipStore {
	return &CloudinaryPayslipStore{upload: upload, folder: strings.Trim(folder, "/")}
}

func (s *CloudinaryPayslipStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	dir, file := path.Split(name)
	folder := strings.Trim(path.Join(s.folder, dir), "/")

	resp, err := s.upload.Upload(ctx, bytes.NewReader(content), uploader.UploadParams{
		PublicID:     file,
		Folder:       folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("upload payslip: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload payslip: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}
