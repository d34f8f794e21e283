package domain

import "time"

// EmailValidation is one outstanding email verification attempt.
// PK: email, SK: validation_id (ULID). Because ULIDs sort by creation time,
// the latest row for an email is the first item of a descending query.
// A code is usable only while Verified is false and the expiry instant has
// not passed; superseded rows are never accepted.
type EmailValidation struct {
	Email        string    `json:"email" dynamodbav:"email"`
	ValidationID string    `json:"id" dynamodbav:"validation_id"`
	Code         string    `json:"-" dynamodbav:"code"`
	ExpiresAt    int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, also DynamoDB TTL
	Verified     bool      `json:"verified" dynamodbav:"verified"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
}
