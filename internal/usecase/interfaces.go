package usecase

import (
	"context"
	"encoding/base64"
	"mime"
	"net/http"
	"strings"

	"reuseu/internal/domain/entity"
	"reuseu/pkg/errors"
)

// TokenVerifier authenticates bearer credentials.
type TokenVerifier interface {
	Verify(ctx context.Context, authorizationHeader string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
}

// AdminChecker reports moderation rights.
type AdminChecker interface {
	IsAdmin(subject string) bool
}

// Broadcaster pushes realtime events to everyone in a room.
type Broadcaster interface {
	Broadcast(room, event string, data interface{}) error
}

// visible reports whether a record of marketplaceID may be shown to s.
func visible(s entity.Session, marketplaceID string, admins AdminChecker) bool {
	if s.MarketplaceID != "" && s.MarketplaceID == marketplaceID {
		return true
	}
	return admins != nil && admins.IsAdmin(s.SubjectID)
}

func ownerOrAdmin(s entity.Session, ownerID string, admins AdminChecker) bool {
	if s.SubjectID != "" && s.SubjectID == ownerID {
		return true
	}
	return admins != nil && admins.IsAdmin(s.SubjectID)
}

// decodePayload accepts raw base64 or a data URL and returns the bytes and
// their content type.
func decodePayload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	declared := ""
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, "", errors.Validation("Malformed data URL")
		}
		if mt, _, err := mime.ParseMediaType(strings.TrimSuffix(payload[5:comma], ";base64")); err == nil {
			declared = mt
		}
		payload = payload[comma+1:]
	}
	if payload == "" {
		return nil, "", errors.Validation("Image data is required")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil || len(data) == 0 {
		return nil, "", errors.BadRequest("Image data is not valid base64", err)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") && strings.HasPrefix(declared, "image/") {
		contentType = declared
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", errors.Validation("Uploaded data is not an image")
	}
	return data, contentType, nil
}
