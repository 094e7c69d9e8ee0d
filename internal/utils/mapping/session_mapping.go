package mapping

import (
	"github.com/SscSPs/blog_backend/internal/core/domain"
	"github.com/SscSPs/blog_backend/internal/models"
)

// ToModelSession converts a domain Session to a model Session
func ToModelSession(d domain.Session) models.Session {
	return models.Session{
		SessionID: d.SessionID,
		TokenHash: d.TokenHash,
		UserID:    d.UserID,
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
	}
}

// ToDomainSession converts a model Session to a domain Session
func ToDomainSession(m models.Session) domain.Session {
	return domain.Session{
		SessionID: m.SessionID,
		TokenHash: m.TokenHash,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}
