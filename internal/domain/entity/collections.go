package entity

// Firestore collection names. The cascade engine's relationship tables and
// the repository implementations must agree on these.
const (
	ColUsers               = "users"
	ColProjects            = "projects"
	ColComments            = "comments"
	ColLikes               = "likes"
	ColWhispers            = "whispers"
	ColReactions           = "reactions"
	ColDigests             = "digests"
	ColDigestSubscriptions = "digestSubscriptions"
	ColActivityLogs        = "activityLogs"
)
