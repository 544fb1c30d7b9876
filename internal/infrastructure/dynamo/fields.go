package dynamo

// DynamoDB attribute names used in update and filter expressions across repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail            = "email"
	fieldOTPToken         = "otp_token"
	fieldOTPExpires       = "otp_expires"
	fieldUpdatedAt        = "updated_at"
	fieldPublished        = "published"
	fieldApproved         = "approved"
	fieldRead             = "read"
	fieldActive           = "active"
	fieldSubscribedAt     = "subscribed_at"
	fieldUnsubscribeToken = "unsubscribe_token"
	fieldName             = "name"
)
