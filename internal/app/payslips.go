package app

import (
	"github.com/cloudinary/cloudinary-go/v2"

	"github.com/shahadat-technovicinity/school-management-system/internal/salary"
)

const cloudinaryPayslipFolder = "payslips"

// newPayslipStore uploads to Cloudinary when CLOUDINARY_URL is set and
// writes to PAYSLIP_STORAGE_DIR otherwise.
func newPayslipStore(cfg Config) (salary.PayslipStore, error) {
	if cfg.CloudinaryURL == "" {
		return salary.NewLocalPayslipStore(cfg.PayslipDir, cfg.PayslipBaseURL), nil
	}

	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, err
	}
	return salary.NewCloudinaryPayslipStore(&cld.Upload, cloudinaryPayslipFolder), nil
}
