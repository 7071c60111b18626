package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeToken creates a base64 encoded token from the last-updated time and
// id of the last item on a page. Drafts are listed newest first, ties broken
// by id.
func EncodeToken(updatedAt time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", updatedAt.UTC().Format(timeFormat), id)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into last-updated time and id.
func DecodeToken(token string) (time.Time, string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	updatedAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (updated_at parse): %w", err)
	}

	return updatedAt, parts[1], nil
}

// After reports whether an item (updatedAt, id) sorts after the cursor in
// newest-first order, i.e. belongs on the next page.
func After(updatedAt time.Time, id string, cursorUpdatedAt time.Time, cursorID string) bool {
	if updatedAt.Equal(cursorUpdatedAt) {
		return id < cursorID
	}
	return updatedAt.Before(cursorUpdatedAt)
}
