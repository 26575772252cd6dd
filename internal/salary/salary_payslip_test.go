package salary_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shahadat-technovicinity/school-management-system/internal/salary"
	salaryerrors "github.com/shahadat-technovicinity/school-management-system/internal/salary/errors"
)

type memoryPayslipStore struct {
	files map[string][]byte
	err   error
}

func (m *memoryPayslipStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[name] = content
	return "https://files.example.com/" + name, nil
}

func TestSalaryService_GeneratePayslip(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	id := uuid.New().String()

	setup := func(t *testing.T, store salary.PayslipStore) (*fakeSalaryRepository, salary.Service) {
		t.Helper()
		repo := &fakeSalaryRepository{}
		svc := salary.NewService(nil, repo, &fakeDirectory{}, salary.Options{
			Payslips: store,
			Clock:    func() time.Time { return fixedNow },
		})
		return repo, svc
	}

	t.Run("paid record gets a payslip", func(t *testing.T) {
		store := &memoryPayslipStore{}
		repo, svc := setup(t, store)

		rec := sampleRecord(schoolID, id, salary.StatusPaid)
		rec.Employee = &salary.SalaryEmployee{FullName: "Rahim (Math)", EmployeeNumber: "T-001"}
		repo.findByIDFn = func(ctx context.Context, sid, rid string) (*salary.SalaryRecord, error) {
			return rec, nil
		}
		var savedURL string
		repo.setPayslipFn = func(ctx context.Context, sid, rid, url string, at time.Time) error {
			savedURL = url
			assert.Equal(t, fixedNow, at)
			return nil
		}

		resp, err := svc.GeneratePayslip(ctx, schoolID, id)

		assert.NoError(t, err)
		name := schoolID + "/2025-05_" + id + ".pdf"
		assert.Contains(t, store.files, name)
		pdf := store.files[name]
		assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-1.4")))
		assert.Contains(t, string(pdf), `Rahim \(Math\)`)
		assert.Contains(t, string(pdf), "Net Salary: 34000.00")
		assert.Equal(t, "https://files.example.com/"+name, savedURL)
		assert.Equal(t, savedURL, *resp.PayslipURL)
	})

	t.Run("pending record is refused", func(t *testing.T) {
		store := &memoryPayslipStore{}
		repo, svc := setup(t, store)
		repo.findByIDFn = func(ctx context.Context, sid, rid string) (*salary.SalaryRecord, error) {
			return sampleRecord(schoolID, id, salary.StatusPending), nil
		}

		_, err := svc.GeneratePayslip(ctx, schoolID, id)

		assert.ErrorIs(t, err, salaryerrors.ErrPayslipUnpaid)
		assert.Empty(t, store.files)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		repo, svc := setup(t, &memoryPayslipStore{err: errors.New("disk full")})
		repo.findByIDFn = func(ctx context.Context, sid, rid string) (*salary.SalaryRecord, error) {
			return sampleRecord(schoolID, id, salary.StatusPaid), nil
		}
		repo.setPayslipFn = func(ctx context.Context, sid, rid, url string, at time.Time) error {
			t.Fatal("url must not be saved")
			return nil
		}

		_, err := svc.GeneratePayslip(ctx, schoolID, id)

		assert.EqualError(t, err, "disk full")
	})

	t.Run("no store configured", func(t *testing.T) {
		_, svc := setup(t, nil)

		_, err := svc.GeneratePayslip(ctx, schoolID, id)

		assert.ErrorIs(t, err, salaryerrors.ErrPayslipNotGenerated)
	})

	t.Run("bad id", func(t *testing.T) {
		_, svc := setup(t, &memoryPayslipStore{})

		_, err := svc.GeneratePayslip(ctx, schoolID, "nope")

		assert.ErrorIs(t, err, salaryerrors.ErrInvalidSalaryID)
	})
}

func TestLocalPayslipStore_Save(t *testing.T) {
	dir := t.TempDir()
	store := salary.NewLocalPayslipStore(dir, "/payslips/")

	url, err := store.Save(context.Background(), "school-1/2025-05_abc.pdf", []byte("%PDF-1.4"))

	assert.NoError(t, err)
	assert.Equal(t, "/payslips/school-1/2025-05_abc.pdf", url)

	content, err := os.ReadFile(filepath.Join(dir, "school-1", "2025-05_abc.pdf"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

type fakeUploader struct {
	params uploader.UploadParams
	body   []byte
	result *uploader.UploadResult
	err    error
}

func (f *fakeUploader) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = params
	if r, ok := file.(io.Reader); ok {
		f.body, _ = io.ReadAll(r)
	}
	return f.result, f.err
}

func TestCloudinaryPayslipStore_Save(t *testing.T) {
	t.Run("uploads raw asset", func(t *testing.T) {
		up := &fakeUploader{result: &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/raw/upload/payslips/school-1/2025-05_abc.pdf"}}
		store := salary.NewCloudinaryPayslipStore(up, "/payslips/")

		url, err := store.Save(context.Background(), "school-1/2025-05_abc.pdf", []byte("%PDF-1.4"))

		assert.NoError(t, err)
		assert.Equal(t, up.result.SecureURL, url)
		assert.Equal(t, "payslips/school-1", up.params.Folder)
		assert.Equal(t, "2025-05_abc.pdf", up.params.PublicID)
		assert.Equal(t, "raw", up.params.ResourceType)
		assert.Equal(t, "%PDF-1.4", string(up.body))
	})

	t.Run("api error in body", func(t *testing.T) {
		result := &uploader.UploadResult{}
		result.Error.Message = "Invalid Signature"
		store := salary.NewCloudinaryPayslipStore(&fakeUploader{result: result}, "payslips")

		_, err := store.Save(context.Background(), "a/b.pdf", []byte("x"))

		assert.EqualError(t, err, "upload payslip: Invalid Signature")
	})
}
