package cascade

import (
	"github.com/sideshelf/sideshelf/internal/domain/entity"
)

// Relation is one row of the schema-of-relationships table: documents in
// Collection reference a root entity through Field. Adding a dependent
// collection means adding an entry here, not new deletion code.
type Relation struct {
	Collection string
	Field      string
}

// UserOwned lists every collection holding documents owned directly by a
// user. Hard-deleting a user removes all of these.
var UserOwned = []Relation{
	{Collection: entity.ColProjects, Field: "authorId"},
	{Collection: entity.ColComments, Field: "authorId"},
	{Collection: entity.ColLikes, Field: "userId"},
	{Collection: entity.ColWhispers, Field: "senderId"},
	{Collection: entity.ColReactions, Field: "userId"},
	{Collection: entity.ColDigestSubscriptions, Field: "userId"},
}

// ProjectScoped lists every collection holding documents scoped to a
// project. Hard-deleting a project (or a user's projects) removes all of
// these.
var ProjectScoped = []Relation{
	{Collection: entity.ColComments, Field: "projectId"},
	{Collection: entity.ColLikes, Field: "projectId"},
	{Collection: entity.ColWhispers, Field: "projectId"},
	{Collection: entity.ColReactions, Field: "projectId"},
}

// WithdrawalTargets lists the collections whose denormalized identity fields
// are overwritten when a user withdraws. Likes and reactions carry no
// identity fields and are left untouched by withdrawal.
var WithdrawalTargets = []Relation{
	{Collection: entity.ColProjects, Field: "authorId"},
	{Collection: entity.ColComments, Field: "authorId"},
	{Collection: entity.ColWhispers, Field: "senderId"},
}

// AnonymizeFields is the per-collection update template applied to
// WithdrawalTargets matches.
var AnonymizeFields = map[string]map[string]any{
	entity.ColProjects: {
		"authorName":      entity.AnonymousName,
		"authorAvatarUrl": entity.AnonymousAvatar,
	},
	entity.ColComments: {
		"authorName":      entity.AnonymousName,
		"authorAvatarUrl": entity.AnonymousAvatar,
	},
	entity.ColWhispers: {
		"senderName": entity.AnonymousName,
	},
}
