package service

const (
	msgMissingActor          = "authentication required"
	msgNotProjectMember      = "you do not have access to this project"
	msgNotAssigned           = "no active assignment on this project"
	msgNotSelf               = "you may only act on your own records"
	msgProfileNotVisible     = "profile is not visible to you"
	msgAccountMismatch       = "clients may only act within their own account"
	msgAccountIDRequired     = "client account id is required"
	msgClientNeedsAccount    = "client profiles must belong to a client account"
	msgProfileFieldAdminOnly = "only an admin may change profile type or account"
	msgAccountSetAndCleared  = "client_account_id cannot be set and cleared at once"
	msgBriefTransitionDenied = "brief transition not permitted for your role"
	msgBriefNotForward       = "brief may only move forward one step"
	msgBriefSameStatus       = "brief is already in that status"
	msgClientInternalComment = "clients may not post internal comments"
	msgParentOtherProject    = "parent comment belongs to another project"
	msgNoFinalAsset          = "project has no final asset"
	msgJobNotVisible         = "job is not visible to you"
	msgInvalidScores         = "scores must each be between 1 and 5"
	msgStorageUpload         = "failed to store file"
	msgNoUpdatesVisible      = "project updates are not visible to you"
	msgNegativeWorkload      = "workload cannot be negative"
	msgPaymentTransitionFmt  = "payment cannot move from %s to %s"
)

const (
	logFanoutFailed       = "notification fan-out failed"
	logCompensationFailed = "failed to remove stored object after write failure"
	logOrphanedObject     = "orphaned storage object needs manual cleanup"
	logProducerLookup     = "failed to resolve producers for notification"
)
