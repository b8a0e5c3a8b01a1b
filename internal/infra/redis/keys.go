package redis

const (
	poolKey = "quiz:questions:pool"
	// poolVersionKey is bumped on every question write.
	poolVersionKey = "quiz:questions:version"
)

func attemptKey(id string) string {
	return "quiz:attempt:" + id
}

// gradedKey is a sorted set of a user's graded attempt ids scored by start time.
func gradedKey(userID string) string {
	return "quiz:user:" + userID + ":graded"
}

func revokedKey(tokenID string) string {
	return "quiz:session:revoked:" + tokenID
}
