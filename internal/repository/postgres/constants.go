package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	migrationSourceName = "iofs"
	maxVersionAttempts  = 5

	errAccountNotFound      = "client account not found"
	errProfileNotFound      = "profile not found"
	errProjectNotFound      = "project not found"
	errBriefNotFound        = "brief not found"
	errMilestoneNotFound    = "milestone not found"
	errAssignmentNotFound   = "assignment not found"
	errAssetNotFound        = "asset not found"
	errCommentNotFound      = "comment not found"
	errNotificationNotFound = "notification not found"
	errJobNotFound          = "job not found"
	errDeliverableNotFound  = "deliverable not found"
	errPaymentNotFound      = "payment not found"
	errVersionContention    = "could not allocate a version, retry the upload"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedStartTransactionFmt     = "failed to start transaction: %w"
	errFailedCommitTransactionFmt    = "failed to commit transaction: %w"

	errFailedLoadMigrationsFmt  = "failed to load migrations: %w"
	errFailedInitMigrationsFmt  = "failed to initialise migrations: %w"
	errFailedApplyMigrationsFmt = "failed to apply migrations: %w"

	errFailedCreateAccountFmt = "failed to create client account: %w"
	errFailedGetAccountFmt    = "failed to get client account: %w"
	errFailedUpdateAccountFmt = "failed to update client account: %w"

	errFailedEnsureProfileFmt = "failed to ensure profile: %w"
	errFailedGetProfileFmt    = "failed to get profile: %w"
	errFailedListProfilesFmt  = "failed to list profiles: %w"
	errFailedScanProfileFmt   = "failed to scan profile: %w"
	errFailedUpdateProfileFmt = "failed to update profile: %w"

	errFailedCreateProjectFmt    = "failed to create project: %w"
	errFailedCreateBriefFmt      = "failed to create brief: %w"
	errFailedGetProjectFmt       = "failed to get project: %w"
	errFailedListProjectsFmt     = "failed to list projects: %w"
	errFailedScanProjectFmt      = "failed to scan project: %w"
	errFailedUpdateProjectFmt    = "failed to update project: %w"
	errFailedGetBriefFmt         = "failed to get brief: %w"
	errFailedUpdateBriefFmt      = "failed to update brief: %w"
	errFailedTransitionBriefFmt  = "failed to transition brief: %w"
	errFailedCreateMilestoneFmt  = "failed to create milestone: %w"
	errFailedGetMilestoneFmt     = "failed to get milestone: %w"
	errFailedListMilestonesFmt   = "failed to list milestones: %w"
	errFailedScanMilestoneFmt    = "failed to scan milestone: %w"
	errFailedApproveMilestoneFmt = "failed to approve milestone: %w"
	errFailedCreateUpdateFmt     = "failed to create project update: %w"
	errFailedListUpdatesFmt      = "failed to list project updates: %w"
	errFailedScanUpdateFmt       = "failed to scan project update: %w"

	errFailedCreateAssignmentFmt     = "failed to create assignment: %w"
	errFailedGetAssignmentFmt        = "failed to get assignment: %w"
	errFailedDeactivateAssignmentFmt = "failed to deactivate assignment: %w"
	errFailedListAssignmentsFmt      = "failed to list assignments: %w"
	errFailedScanAssignmentFmt       = "failed to scan assignment: %w"

	errFailedCreateAssetFmt = "failed to create asset: %w"
	errFailedGetAssetFmt    = "failed to get asset: %w"
	errFailedListAssetsFmt  = "failed to list assets: %w"
	errFailedScanAssetFmt   = "failed to scan asset: %w"
	errFailedMarkFinalFmt   = "failed to mark asset final: %w"
	errFailedDeleteAssetFmt = "failed to delete asset: %w"

	errFailedCreateCommentFmt = "failed to create comment: %w"
	errFailedGetCommentFmt    = "failed to get comment: %w"
	errFailedListCommentsFmt  = "failed to list comments: %w"
	errFailedScanCommentFmt   = "failed to scan comment: %w"

	errFailedCreateNotificationsFmt = "failed to create notifications: %w"
	errFailedListNotificationsFmt   = "failed to list notifications: %w"
	errFailedScanNotificationFmt    = "failed to scan notification: %w"
	errFailedCountUnreadFmt         = "failed to count unread notifications: %w"
	errFailedMarkReadFmt            = "failed to mark notification read: %w"

	errFailedCreateJobFmt         = "failed to create job: %w"
	errFailedGetJobFmt            = "failed to get job: %w"
	errFailedListJobsFmt          = "failed to list jobs: %w"
	errFailedScanJobFmt           = "failed to scan job: %w"
	errFailedClaimJobFmt          = "failed to claim job: %w"
	errFailedStartJobFmt          = "failed to start job: %w"
	errFailedSubmitDeliverableFmt = "failed to submit deliverable: %w"
	errFailedGetDeliverableFmt    = "failed to get deliverable: %w"
	errFailedListDeliverablesFmt  = "failed to list deliverables: %w"
	errFailedScanDeliverableFmt   = "failed to scan deliverable: %w"
	errFailedReviewDeliverableFmt = "failed to review deliverable: %w"
	errFailedCompleteJobFmt       = "failed to complete job: %w"
	errFailedGetPaymentFmt        = "failed to get payment: %w"
	errFailedListPaymentsFmt      = "failed to list payments: %w"
	errFailedScanPaymentFmt       = "failed to scan payment: %w"
	errFailedUpdatePaymentFmt     = "failed to update payment: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedLoadMigrations       = func(err error) error { return fmt.Errorf(errFailedLoadMigrationsFmt, err) }
	errFailedInitMigrations       = func(err error) error { return fmt.Errorf(errFailedInitMigrationsFmt, err) }
	errFailedApplyMigrations      = func(err error) error { return fmt.Errorf(errFailedApplyMigrationsFmt, err) }
	errFailedCreateAccount        = func(err error) error { return fmt.Errorf(errFailedCreateAccountFmt, err) }
	errFailedGetAccount           = func(err error) error { return fmt.Errorf(errFailedGetAccountFmt, err) }
	errFailedUpdateAccount        = func(err error) error { return fmt.Errorf(errFailedUpdateAccountFmt, err) }
	errFailedEnsureProfile        = func(err error) error { return fmt.Errorf(errFailedEnsureProfileFmt, err) }
	errFailedGetProfile           = func(err error) error { return fmt.Errorf(errFailedGetProfileFmt, err) }
	errFailedListProfiles         = func(err error) error { return fmt.Errorf(errFailedListProfilesFmt, err) }
	errFailedScanProfile          = func(err error) error { return fmt.Errorf(errFailedScanProfileFmt, err) }
	errFailedUpdateProfile        = func(err error) error { return fmt.Errorf(errFailedUpdateProfileFmt, err) }
	errFailedCreateProject        = func(err error) error { return fmt.Errorf(errFailedCreateProjectFmt, err) }
	errFailedCreateBrief          = func(err error) error { return fmt.Errorf(errFailedCreateBriefFmt, err) }
	errFailedGetProject           = func(err error) error { return fmt.Errorf(errFailedGetProjectFmt, err) }
	errFailedListProjects         = func(err error) error { return fmt.Errorf(errFailedListProjectsFmt, err) }
	errFailedScanProject          = func(err error) error { return fmt.Errorf(errFailedScanProjectFmt, err) }
	errFailedUpdateProject        = func(err error) error { return fmt.Errorf(errFailedUpdateProjectFmt, err) }
	errFailedGetBrief             = func(err error) error { return fmt.Errorf(errFailedGetBriefFmt, err) }
	errFailedUpdateBrief          = func(err error) error { return fmt.Errorf(errFailedUpdateBriefFmt, err) }
	errFailedTransitionBrief      = func(err error) error { return fmt.Errorf(errFailedTransitionBriefFmt, err) }
	errFailedCreateMilestone      = func(err error) error { return fmt.Errorf(errFailedCreateMilestoneFmt, err) }
	errFailedGetMilestone         = func(err error) error { return fmt.Errorf(errFailedGetMilestoneFmt, err) }
	errFailedListMilestones       = func(err error) error { return fmt.Errorf(errFailedListMilestonesFmt, err) }
	errFailedScanMilestone        = func(err error) error { return fmt.Errorf(errFailedScanMilestoneFmt, err) }
	errFailedApproveMilestone     = func(err error) error { return fmt.Errorf(errFailedApproveMilestoneFmt, err) }
	errFailedCreateUpdate         = func(err error) error { return fmt.Errorf(errFailedCreateUpdateFmt, err) }
	errFailedListUpdates          = func(err error) error { return fmt.Errorf(errFailedListUpdatesFmt, err) }
	errFailedScanUpdate           = func(err error) error { return fmt.Errorf(errFailedScanUpdateFmt, err) }
	errFailedCreateAssignment     = func(err error) error { return fmt.Errorf(errFailedCreateAssignmentFmt, err) }
	errFailedGetAssignment        = func(err error) error { return fmt.Errorf(errFailedGetAssignmentFmt, err) }
	errFailedDeactivateAssignment = func(err error) error { return fmt.Errorf(errFailedDeactivateAssignmentFmt, err) }
	errFailedListAssignments      = func(err error) error { return fmt.Errorf(errFailedListAssignmentsFmt, err) }
	errFailedScanAssignment       = func(err error) error { return fmt.Errorf(errFailedScanAssignmentFmt, err) }
	errFailedCreateAsset          = func(err error) error { return fmt.Errorf(errFailedCreateAssetFmt, err) }
	errFailedGetAsset             = func(err error) error { return fmt.Errorf(errFailedGetAssetFmt, err) }
	errFailedListAssets           = func(err error) error { return fmt.Errorf(errFailedListAssetsFmt, err) }
	errFailedScanAsset            = func(err error) error { return fmt.Errorf(errFailedScanAssetFmt, err) }
	errFailedMarkFinal            = func(err error) error { return fmt.Errorf(errFailedMarkFinalFmt, err) }
	errFailedDeleteAsset          = func(err error) error { return fmt.Errorf(errFailedDeleteAssetFmt, err) }
	errFailedCreateComment        = func(err error) error { return fmt.Errorf(errFailedCreateCommentFmt, err) }
	errFailedGetComment           = func(err error) error { return fmt.Errorf(errFailedGetCommentFmt, err) }
	errFailedListComments         = func(err error) error { return fmt.Errorf(errFailedListCommentsFmt, err) }
	errFailedScanComment          = func(err error) error { return fmt.Errorf(errFailedScanCommentFmt, err) }
	errFailedCreateNotifications  = func(err error) error { return fmt.Errorf(errFailedCreateNotificationsFmt, err) }
	errFailedListNotifications    = func(err error) error { return fmt.Errorf(errFailedListNotificationsFmt, err) }
	errFailedScanNotification     = func(err error) error { return fmt.Errorf(errFailedScanNotificationFmt, err) }
	errFailedCountUnread          = func(err error) error { return fmt.Errorf(errFailedCountUnreadFmt, err) }
	errFailedMarkRead             = func(err error) error { return fmt.Errorf(errFailedMarkReadFmt, err) }
	errFailedCreateJob            = func(err error) error { return fmt.Errorf(errFailedCreateJobFmt, err) }
	errFailedGetJob               = func(err error) error { return fmt.Errorf(errFailedGetJobFmt, err) }
	errFailedListJobs             = func(err error) error { return fmt.Errorf(errFailedListJobsFmt, err) }
	errFailedScanJob              = func(err error) error { return fmt.Errorf(errFailedScanJobFmt, err) }
	errFailedClaimJob             = func(err error) error { return fmt.Errorf(errFailedClaimJobFmt, err) }
	errFailedStartJob             = func(err error) error { return fmt.Errorf(errFailedStartJobFmt, err) }
	errFailedSubmitDeliverable    = func(err error) error { return fmt.Errorf(errFailedSubmitDeliverableFmt, err) }
	errFailedGetDeliverable       = func(err error) error { return fmt.Errorf(errFailedGetDeliverableFmt, err) }
	errFailedListDeliverables     = func(err error) error { return fmt.Errorf(errFailedListDeliverablesFmt, err) }
	errFailedScanDeliverable      = func(err error) error { return fmt.Errorf(errFailedScanDeliverableFmt, err) }
	errFailedReviewDeliverable    = func(err error) error { return fmt.Errorf(errFailedReviewDeliverableFmt, err) }
	errFailedCompleteJob          = func(err error) error { return fmt.Errorf(errFailedCompleteJobFmt, err) }
	errFailedGetPayment           = func(err error) error { return fmt.Errorf(errFailedGetPaymentFmt, err) }
	errFailedListPayments         = func(err error) error { return fmt.Errorf(errFailedListPaymentsFmt, err) }
	errFailedScanPayment          = func(err error) error { return fmt.Errorf(errFailedScanPaymentFmt, err) }
	errFailedUpdatePayment        = func(err error) error { return fmt.Errorf(errFailedUpdatePaymentFmt, err) }
)
