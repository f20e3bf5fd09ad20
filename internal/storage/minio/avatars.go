package minio

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/pribylovaa/go-profile-service/internal/storage"
)

// UploadAvatar загружает объект аватара под детерминированным ключом.
// Валидирует contentType и размер согласно конфигу; перезапись существующего
// ключа допустима (ключ детерминирован по userID, а не по имени файла клиента).
func (s *AvatarsStorage) UploadAvatar(ctx context.Context, key, contentType string, data []byte) error {
	const op = "storage/minio/avatars/UploadAvatar"

	size := int64(len(data))
	if size <= 0 || size > s.cfg.Avatar.MaxSizeBytes {
		return storage.ErrInvalidArgument
	}

	if !isAllowedContentType(s.cfg.Avatar.AllowedContentTypes, contentType) {
		return storage.ErrInvalidArgument
	}

	_, err := s.client.PutObject(ctx, s.cfg.S3.Bucket, key, bytes.NewReader(data), size, mclient.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AvatarURL возвращает ссылку для отображения объекта:
// публичную (если PublicBaseURL задан), иначе — presigned GET с TTL из конфига.
func (s *AvatarsStorage) AvatarURL(ctx context.Context, key string) (string, error) {
	const op = "storage/minio/avatars/AvatarURL"

	if strings.TrimSpace(key) == "" {
		return "", storage.ErrInvalidArgument
	}

	if s.cfg.S3.PublicBaseURL != "" {
		base := strings.TrimRight(s.cfg.S3.PublicBaseURL, "/")
		return base + "/" + key, nil
	}

	u, err := s.client.PresignedGetObject(ctx, s.cfg.S3.Bucket, key, s.cfg.S3.PresignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return u.String(), nil
}

// isAllowedContentType проверяет, что тип содержимого входит в allow-list.
func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}

	return false
}
