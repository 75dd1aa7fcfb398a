package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// CatalogItemUUID fixes an identifier per catalog entry so repeated syncs
// update rather than duplicate rows.
func CatalogItemUUID(origin, fullName string) uuid.UUID {
	return UUID("refdocs:item:" + strings.TrimSpace(origin) + ":" + strings.ToLower(strings.TrimSpace(fullName)))
}

// PageUUID identifies a corpus page by its slash-form relative path.
func PageUUID(path string) uuid.UUID {
	return UUID("refdocs:page:" + strings.TrimSpace(path))
}

// AuditRunUUID identifies a coverage audit run by its timestamp key.
func AuditRunUUID(key string) uuid.UUID {
	return UUID("refdocs:audit_run:" + strings.TrimSpace(key))
}

// ReviewRunUUID identifies a review swarm run by its timestamp key.
func ReviewRunUUID(key string) uuid.UUID {
	return UUID("refdocs:review_run:" + strings.TrimSpace(key))
}

// GeneratorRunUUID identifies a site build by its manifest checksum.
func GeneratorRunUUID(key string) uuid.UUID {
	return UUID("refdocs:generator_run:" + strings.TrimSpace(key))
}
