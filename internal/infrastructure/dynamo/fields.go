package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldVerified         = "verified"
	fieldPasswordHash     = "password_hash"
	fieldAnswerCount      = "answer_count"
	fieldAccepted         = "accepted"
	fieldAcceptedAnswerID = "accepted_answer_id"
	fieldUpdatedAt        = "updated_at"
)
