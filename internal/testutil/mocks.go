package testutil

import (
	"context"
	"time"

	"pixelforge/internal/models"
	"pixelforge/internal/service"
)

// MockRecordStore is a function-field mock of repository.RecordStore
type MockRecordStore struct {
	CreateUserFunc        func(ctx context.Context, user *models.User) error
	GetUserFunc           func(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	GetUserByEmailFunc    func(ctx context.Context, email string) (*models.User, error)

	CreateImageFunc func(ctx context.Context, img *models.Image) error
	GetImageFunc    func(ctx context.Context, id int64) (*models.Image, error)
	ListImagesFunc  func(ctx context.Context, userID int64, offset, limit int) ([]*models.Image, int, error)
	DeleteImageFunc func(ctx context.Context, id int64) error

	CreateTransformationFunc       func(ctx context.Context, t *models.Transformation) error
	GetTransformationFunc          func(ctx context.Context, id int64) (*models.Transformation, error)
	FindTransformationByParamsFunc func(ctx context.Context, imageID int64, params string) (*models.Transformation, error)
	ListTransformationsByImageFunc func(ctx context.Context, imageID int64) ([]*models.Transformation, error)
	DeleteTransformationFunc       func(ctx context.Context, id int64) error

	HealthFunc func(ctx context.Context) error
	CloseFunc  func() error
}

func (m *MockRecordStore) CreateUser(ctx context.Context, user *models.User) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user)
	}
	return nil
}

func (m *MockRecordStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, models.NotFoundError{Resource: "user", ID: "0"}
}

func (m *MockRecordStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetUserByUsernameFunc != nil {
		return m.GetUserByUsernameFunc(ctx, username)
	}
	return nil, models.NotFoundError{Resource: "user", ID: username}
}

func (m *MockRecordStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return nil, models.NotFoundError{Resource: "user", ID: email}
}

func (m *MockRecordStore) CreateImage(ctx context.Context, img *models.Image) error {
	if m.CreateImageFunc != nil {
		return m.CreateImageFunc(ctx, img)
	}
	return nil
}

func (m *MockRecordStore) GetImage(ctx context.Context, id int64) (*models.Image, error) {
	if m.GetImageFunc != nil {
		return m.GetImageFunc(ctx, id)
	}
	return nil, models.NotFoundError{Resource: "image", ID: "0"}
}

func (m *MockRecordStore) ListImages(ctx context.Context, userID int64, offset, limit int) ([]*models.Image, int, error) {
	if m.ListImagesFunc != nil {
		return m.ListImagesFunc(ctx, userID, offset, limit)
	}
	return nil, 0, nil
}

func (m *MockRecordStore) DeleteImage(ctx context.Context, id int64) error {
	if m.DeleteImageFunc != nil {
		return m.DeleteImageFunc(ctx, id)
	}
	return nil
}

func (m *MockRecordStore) CreateTransformation(ctx context.Context, t *models.Transformation) error {
	if m.CreateTransformationFunc != nil {
		return m.CreateTransformationFunc(ctx, t)
	}
	return nil
}

func (m *MockRecordStore) GetTransformation(ctx context.Context, id int64) (*models.Transformation, error) {
	if m.GetTransformationFunc != nil {
		return m.GetTransformationFunc(ctx, id)
	}
	return nil, models.NotFoundError{Resource: "transformation", ID: "0"}
}

func (m *MockRecordStore) FindTransformationByParams(ctx context.Context, imageID int64, params string) (*models.Transformation, error) {
	if m.FindTransformationByParamsFunc != nil {
		return m.FindTransformationByParamsFunc(ctx, imageID, params)
	}
	return nil, models.NotFoundError{Resource: "transformation", ID: "0"}
}

func (m *MockRecordStore) ListTransformationsByImage(ctx context.Context, imageID int64) ([]*models.Transformation, error) {
	if m.ListTransformationsByImageFunc != nil {
		return m.ListTransformationsByImageFunc(ctx, imageID)
	}
	return nil, nil
}

func (m *MockRecordStore) DeleteTransformation(ctx context.Context, id int64) error {
	if m.DeleteTransformationFunc != nil {
		return m.DeleteTransformationFunc(ctx, id)
	}
	return nil
}

func (m *MockRecordStore) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

func (m *MockRecordStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockCache is a function-field mock of repository.Cache
type MockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, bool)
	SetFunc    func(ctx context.Context, key string, value interface{}, ttl time.Duration)
	DeleteFunc func(ctx context.Context, key string)
	HealthFunc func(ctx context.Context) error
	CloseFunc  func() error
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", false
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if m.SetFunc != nil {
		m.SetFunc(ctx, key, value, ttl)
	}
}

func (m *MockCache) Delete(ctx context.Context, key string) {
	if m.DeleteFunc != nil {
		m.DeleteFunc(ctx, key)
	}
}

func (m *MockCache) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

func (m *MockCache) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockBlobStorage is a function-field mock of storage.BlobStorage
type MockBlobStorage struct {
	UploadFunc   func(ctx context.Context, data []byte, contentType, folder string) (string, string, error)
	DownloadFunc func(ctx context.Context, key string) ([]byte, error)
	DeleteFunc   func(ctx context.Context, key string) bool
	ExistsFunc   func(ctx context.Context, key string) (bool, error)
	URLFunc      func(key string) string
	HealthFunc   func(ctx context.Context) error
}

func (m *MockBlobStorage) Upload(ctx context.Context, data []byte, contentType, folder string) (string, string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, data, contentType, folder)
	}
	return folder + "/mock-key", "http://example.com/" + folder + "/mock-key", nil
}

func (m *MockBlobStorage) Download(ctx context.Context, key string) ([]byte, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, key)
	}
	return nil, nil
}

func (m *MockBlobStorage) Delete(ctx context.Context, key string) bool {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return true
}

func (m *MockBlobStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, key)
	}
	return false, nil
}

func (m *MockBlobStorage) URL(key string) string {
	if m.URLFunc != nil {
		return m.URLFunc(key)
	}
	return "http://example.com/" + key
}

func (m *MockBlobStorage) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// MockAuthService is a function-field mock of service.AuthService
type MockAuthService struct {
	RegisterFunc    func(ctx context.Context, input models.RegisterRequest) (*models.User, error)
	LoginFunc       func(ctx context.Context, input models.LoginRequest) (*models.TokenResponse, error)
	VerifyTokenFunc func(ctx context.Context, token string) (int64, error)
}

func (m *MockAuthService) Register(ctx context.Context, input models.RegisterRequest) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, input)
	}
	return nil, nil
}

func (m *MockAuthService) Login(ctx context.Context, input models.LoginRequest) (*models.TokenResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, input)
	}
	return nil, nil
}

func (m *MockAuthService) VerifyToken(ctx context.Context, token string) (int64, error) {
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(ctx, token)
	}
	return 0, models.AuthError{Reason: "no mock configured"}
}

// MockImageService is a function-field mock of service.ImageService
type MockImageService struct {
	UploadFunc func(ctx context.Context, userID int64, input service.UploadInput) (*models.Image, error)
	GetFunc    func(ctx context.Context, userID, imageID int64) (*models.Image, error)
	ListFunc   func(ctx context.Context, userID int64, page, limit int) (*models.ImageListResponse, error)
	DeleteFunc func(ctx context.Context, userID, imageID int64) error
}

func (m *MockImageService) Upload(ctx context.Context, userID int64, input service.UploadInput) (*models.Image, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, userID, input)
	}
	return nil, nil
}

func (m *MockImageService) Get(ctx context.Context, userID, imageID int64) (*models.Image, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, imageID)
	}
	return nil, nil
}

func (m *MockImageService) List(ctx context.Context, userID int64, page, limit int) (*models.ImageListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, page, limit)
	}
	return nil, nil
}

func (m *MockImageService) Delete(ctx context.Context, userID, imageID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, imageID)
	}
	return nil
}

// MockTransformService is a function-field mock of service.TransformService
type MockTransformService struct {
	TransformFunc func(ctx context.Context, userID, imageID int64, operations []models.RawOperation) (*models.TransformResponse, error)
	ListFunc      func(ctx context.Context, userID int64, imageID *int64) ([]models.TransformationResponse, error)
	DeleteFunc    func(ctx context.Context, userID, transformationID int64) error
}

func (m *MockTransformService) Transform(ctx context.Context, userID, imageID int64, operations []models.RawOperation) (*models.TransformResponse, error) {
	if m.TransformFunc != nil {
		return m.TransformFunc(ctx, userID, imageID, operations)
	}
	return nil, nil
}

func (m *MockTransformService) List(ctx context.Context, userID int64, imageID *int64) ([]models.TransformationResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, imageID)
	}
	return nil, nil
}

func (m *MockTransformService) Delete(ctx context.Context, userID, transformationID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, transformationID)
	}
	return nil
}

// MockPipelineService is a function-field mock of service.PipelineService
type MockPipelineService struct {
	RunFunc func(ctx context.Context, data []byte, operations []models.RawOperation) ([]byte, error)
}

func (m *MockPipelineService) Run(ctx context.Context, data []byte, operations []models.RawOperation) ([]byte, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, data, operations)
	}
	return data, nil
}

// MockHealthService is a function-field mock of service.HealthService
type MockHealthService struct {
	CheckHealthFunc func(ctx context.Context) *models.HealthResponse
}

func (m *MockHealthService) CheckHealth(ctx context.Context) *models.HealthResponse {
	if m.CheckHealthFunc != nil {
		return m.CheckHealthFunc(ctx)
	}
	return &models.HealthResponse{Status: "healthy"}
}
