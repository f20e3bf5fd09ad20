package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pribylovaa/go-profile-service/internal/models"
	"github.com/pribylovaa/go-profile-service/internal/storage"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты для пакета postgres:
// — поднимают реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// — применяют миграции из ./migrations;
// — проверяют:
//    CreateProfile: успешную вставку, ErrAlreadyExists при повторе UNIQUE(user_id),
//    откат транзакции при ошибке beforeCommit (ошибка возвращается как есть);
//    ProfileByUserID: успешный сценарий и ErrNotFoundProfile;
//    UserByID: успешный сценарий и ErrNotFoundUser;
//    поведение при истёкшем контексте (context deadline exceeded).
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
// Используется для поиска SQL-миграций в каталоге ./migrations независимо от текущего рабочего каталога.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из подкаталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	root := repoRootFromThisFile()
	path := filepath.Join(root, "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает PostgreSQL через testcontainers-go,
// применяет миграции и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "docker.io/postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	t.Logf("starting postgres container with image=%q", req.Image)
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		ProviderType:     tc.ProviderDocker,
	})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, readMigration(t, "0001_init.sql"))
	require.NoError(t, err)

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// seedUser — вставляет пользователя, на которого сможет сослаться профиль
// (profiles.user_id -> users.id).
func seedUser(t *testing.T, st *Storage, group models.UserGroup, active bool) uuid.UUID {
	t.Helper()

	uid := uuid.New()
	_, err := st.db.Exec(context.Background(),
		`INSERT INTO users (id, email, password_hash, user_group, is_active)
		 VALUES ($1, $2, 'x', $3, $4)`,
		uid, uid.String()+"@example.com", string(group), active,
	)
	require.NoError(t, err)

	return uid
}

func testProfile(uid uuid.UUID) *models.Profile {
	return &models.Profile{
		UserID:    uid,
		FirstName: "ada",
		LastName:  "lovelace",
		Gender:    models.GenderFemale,
		BirthDate: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Info:      "bio",
		AvatarKey: fmt.Sprintf("avatars/%s_avatar.jpg", uid),
	}
}

func TestIntegration_CreateProfile_And_ProfileByUserID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	uid := seedUser(t, st, models.GroupUser, true)

	created, err := st.CreateProfile(context.Background(), testProfile(uid), nil)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, uid, created.UserID)
	require.Equal(t, "ada", created.FirstName)
	require.Equal(t, "lovelace", created.LastName)
	require.Equal(t, models.GenderFemale, created.Gender)
	require.Equal(t, "1990-05-01", created.BirthDate.Format("2006-01-02"))
	require.Equal(t, "bio", created.Info)
	require.WithinDuration(t, time.Now().UTC(), created.CreatedAt, 5*time.Second)
	require.WithinDuration(t, time.Now().UTC(), created.UpdatedAt, 5*time.Second)

	got, err := st.ProfileByUserID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, created.AvatarKey, got.AvatarKey)
}

func TestIntegration_CreateProfile_AlreadyExists(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	uid := seedUser(t, st, models.GroupUser, true)

	_, err := st.CreateProfile(context.Background(), testProfile(uid), nil)
	require.NoError(t, err)

	_, err = st.CreateProfile(context.Background(), testProfile(uid), nil)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// Ошибка beforeCommit откатывает вставку и возвращается как есть.
func TestIntegration_CreateProfile_BeforeCommitRollback(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	uid := seedUser(t, st, models.GroupUser, true)
	uploadErr := errors.New("upload failed")

	_, err := st.CreateProfile(context.Background(), testProfile(uid), func(ctx context.Context) error {
		return uploadErr
	})
	require.ErrorIs(t, err, uploadErr)

	// Вставка не должна была зафиксироваться.
	_, err = st.ProfileByUserID(context.Background(), uid)
	require.ErrorIs(t, err, storage.ErrNotFoundProfile)
}

func TestIntegration_ProfileByUserID_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.ProfileByUserID(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFoundProfile)
}

func TestIntegration_UserByID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	uid := seedUser(t, st, models.GroupAdmin, true)

	got, err := st.UserByID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, uid, got.ID)
	require.Equal(t, models.GroupAdmin, got.Group)
	require.True(t, got.IsActive)
}

func TestIntegration_UserByID_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFoundUser)
}

func TestIntegration_CreateProfile_ContextDeadlineExceeded(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	uid := seedUser(t, st, models.GroupUser, true)

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	_, err := st.CreateProfile(ctx, testProfile(uid), nil)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), context.DeadlineExceeded.Error()))
}
