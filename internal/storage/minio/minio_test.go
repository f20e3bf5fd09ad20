package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/go-profile-service/internal/config"
	"github.com/pribylovaa/go-profile-service/internal/storage"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты для пакета minio:
// — поднимают реальный MinIO через testcontainers-go;
// — создают бакет для аватаров;
// — проверяют:
//    New: успешное подключение (в т.ч. endpoint без схемы) и ошибку при отсутствии бакета;
//    UploadAvatar: загрузку объекта и валидации по типу/размеру;
//    AvatarURL: сбор публичного URL и работоспособность presigned GET.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/minio -v -race -count=1

func startMinio(t *testing.T, createBucket bool) (*AvatarsStorage, func(), string) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	const (
		image        = "docker.io/minio/minio:latest"
		rootUser     = "root"
		rootPassword = "rootpass"
		bucket       = "avatars"
	)
	req := tc.ContainerRequest{
		Image: image,
		Env: map[string]string{
			"MINIO_ROOT_USER":     rootUser,
			"MINIO_ROOT_PASSWORD": rootPassword,
		},
		Cmd:          []string{"server", "/data", "--console-address", ":9001"},
		ExposedPorts: []string{"9000/tcp", "9001/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	t.Logf("starting minio container with image=%q", image)
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "9000/tcp")
	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())

	if createBucket {
		admin, err := mclient.New(host+":"+port.Port(), &mclient.Options{
			Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
			Secure: false,
		})
		require.NoError(t, err)
		err = admin.MakeBucket(ctx, bucket, mclient.MakeBucketOptions{Region: "us-east-1"})
		require.NoError(t, err)
	}

	cfg := &config.Config{
		S3: config.S3Config{
			Endpoint:      endpoint,
			RootUser:      rootUser,
			RootPassword:  rootPassword,
			Bucket:        bucket,
			PresignTTL:    2 * time.Minute,
			PublicBaseURL: "",
		},
		Avatar: config.AvatarConfig{
			MaxSizeBytes:        1 << 20, // 1 MiB
			AllowedContentTypes: []string{"image/png", "image/jpeg"},
		},
	}

	st, newErr := New(ctx, cfg)
	if !createBucket {
		require.Error(t, newErr)
		_ = c.Terminate(context.Background())
		return nil, func() {}, ""
	}
	require.NoError(t, newErr)

	cleanup := func() {
		_ = c.Terminate(context.Background())
	}
	return st, cleanup, endpoint
}

func TestIntegration_New_BucketMustExist(t *testing.T) {
	// Без предварительного создания бакета New должен вернуть ошибку.
	_, _, _ = startMinio(t, false)
}

func TestIntegration_New_EndpointWithoutScheme_OK(t *testing.T) {
	st, cleanup, endpoint := startMinio(t, true)
	defer cleanup()
	_ = st

	u, err := url.Parse(endpoint)
	require.NoError(t, err)

	cfg2 := &config.Config{
		S3: config.S3Config{
			Endpoint:     u.Host,
			RootUser:     "root",
			RootPassword: "rootpass",
			Bucket:       "avatars",
			PresignTTL:   1 * time.Minute,
		},
		Avatar: config.AvatarConfig{
			MaxSizeBytes:        1 << 20,
			AllowedContentTypes: []string{"image/png"},
		},
	}

	s2, err := New(context.Background(), cfg2)
	require.NoError(t, err)
	_ = s2
}

func TestIntegration_UploadAvatar_And_PresignedURL_OK(t *testing.T) {
	st, cleanup, _ := startMinio(t, true)
	defer cleanup()

	uid := uuid.New()
	key := fmt.Sprintf("avatars/%s_avatar.jpg", uid)
	body := bytes.Repeat([]byte{0x42}, 2048)

	require.NoError(t, st.UploadAvatar(context.Background(), key, "image/jpeg", body))

	link, err := st.AvatarURL(context.Background(), key)
	require.NoError(t, err)
	require.NotEmpty(t, link)

	// Presigned GET должен отдать ровно загруженные байты.
	resp, err := http.Get(link)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, body, got)
	require.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
}

// Повторная загрузка под тем же ключом перезаписывает объект.
func TestIntegration_UploadAvatar_Overwrite_OK(t *testing.T) {
	st, cleanup, _ := startMinio(t, true)
	defer cleanup()

	uid := uuid.New()
	key := fmt.Sprintf("avatars/%s_avatar.jpg", uid)

	require.NoError(t, st.UploadAvatar(context.Background(), key, "image/jpeg", bytes.Repeat([]byte{0x1}, 16)))
	require.NoError(t, st.UploadAvatar(context.Background(), key, "image/png", bytes.Repeat([]byte{0x2}, 32)))

	link, err := st.AvatarURL(context.Background(), key)
	require.NoError(t, err)

	resp, err := http.Get(link)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Len(t, got, 32)
}

func TestIntegration_UploadAvatar_InvalidArgs(t *testing.T) {
	st, cleanup, _ := startMinio(t, true)
	defer cleanup()

	key := fmt.Sprintf("avatars/%s_avatar.jpg", uuid.New())

	// Неверный тип.
	err := st.UploadAvatar(context.Background(), key, "image/gif", []byte{0x1})
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	// Пустое тело.
	err = st.UploadAvatar(context.Background(), key, "image/png", nil)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	// Превышение лимита.
	err = st.UploadAvatar(context.Background(), key, "image/png", bytes.Repeat([]byte{0x1}, (1<<20)+1))
	require.ErrorIs(t, err, storage.ErrInvalidArgument)
}

func TestIntegration_AvatarURL_PublicBase(t *testing.T) {
	st, cleanup, _ := startMinio(t, true)
	defer cleanup()

	key := fmt.Sprintf("avatars/%s_avatar.jpg", uuid.New())

	st.cfg.S3.PublicBaseURL = "http://cdn.local/"
	link, err := st.AvatarURL(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, "http://cdn.local/"+key, link)
}

func TestIntegration_AvatarURL_EmptyKey(t *testing.T) {
	st, cleanup, _ := startMinio(t, true)
	defer cleanup()

	_, err := st.AvatarURL(context.Background(), "  ")
	require.ErrorIs(t, err, storage.ErrInvalidArgument)
}
