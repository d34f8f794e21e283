package domain

import "time"

// RefreshToken is one active session grant. The row id doubles as the opaque
// credential presented on refresh, so it is generated from crypto/rand rather
// than a ULID. At most one token per user is considered current: login and
// rotation delete all prior rows for the user before creating the new one.
type RefreshToken struct {
	TokenID   string    `json:"id" dynamodbav:"token_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, also DynamoDB TTL
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
