package types

// Status is a type for the lifecycle status of a stored resource
// (e.g. payment plan, coupon, referral program). Deleted resources are
// excluded from queries but kept in the store.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
