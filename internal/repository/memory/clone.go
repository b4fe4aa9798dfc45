package memory

import (
	"maps"
	"slices"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/asset"
	"studio-service/internal/domain/assignment"
	"studio-service/internal/domain/comment"
	"studio-service/internal/domain/job"
	"studio-service/internal/domain/notification"
	"studio-service/internal/domain/project"
)

// Rows never leave the store by reference: every read and every stored input
// goes through one of these, so callers cannot rewrite state behind the lock.

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneAccount(a *account.ClientAccount) *account.ClientAccount {
	out := *a
	out.Metadata = maps.Clone(a.Metadata)
	return &out
}

func cloneProfile(p *account.Profile) *account.Profile {
	out := *p
	out.ClientAccountID = clonePtr(p.ClientAccountID)
	return &out
}

func cloneProject(p *project.Project) *project.Project {
	out := *p
	out.Metadata = maps.Clone(p.Metadata)
	return &out
}

func cloneBrief(b *project.Brief) *project.Brief {
	out := *b
	out.KeyMessages = slices.Clone(b.KeyMessages)
	out.Attachments = slices.Clone(b.Attachments)
	out.ReferencesPayload = maps.Clone(b.ReferencesPayload)
	out.DeadlineDate = clonePtr(b.DeadlineDate)
	return &out
}

func cloneMilestone(m *project.Milestone) *project.Milestone {
	out := *m
	out.DueAt = clonePtr(m.DueAt)
	out.ApprovedAt = clonePtr(m.ApprovedAt)
	out.ApprovedBy = clonePtr(m.ApprovedBy)
	return &out
}

func cloneUpdate(u *project.Update) *project.Update {
	out := *u
	return &out
}

func cloneAssignment(a *assignment.Assignment) *assignment.Assignment {
	out := *a
	out.Workload = clonePtr(a.Workload)
	return &out
}

func cloneAsset(a *asset.Asset) *asset.Asset {
	out := *a
	out.Metadata = maps.Clone(a.Metadata)
	return &out
}

func cloneComment(c *comment.Comment) *comment.Comment {
	out := *c
	out.ParentID = clonePtr(c.ParentID)
	out.Attachments = slices.Clone(c.Attachments)
	return &out
}

func cloneNotification(n *notification.Notification) *notification.Notification {
	out := *n
	out.ProjectID = clonePtr(n.ProjectID)
	out.Payload = maps.Clone(n.Payload)
	out.ReadAt = clonePtr(n.ReadAt)
	return &out
}

func cloneJob(j *job.Job) *job.Job {
	out := *j
	out.ProjectID = clonePtr(j.ProjectID)
	out.SkillsRequired = slices.Clone(j.SkillsRequired)
	out.EstimatedHours = clonePtr(j.EstimatedHours)
	out.DeadlineDate = clonePtr(j.DeadlineDate)
	out.AssignedTo = clonePtr(j.AssignedTo)
	out.QualityScore = clonePtr(j.QualityScore)
	out.AssignedAt = clonePtr(j.AssignedAt)
	out.StartedAt = clonePtr(j.StartedAt)
	out.SubmittedAt = clonePtr(j.SubmittedAt)
	out.ReviewedAt = clonePtr(j.ReviewedAt)
	out.CompletedAt = clonePtr(j.CompletedAt)
	return &out
}

func cloneDeliverable(d *job.Deliverable) *job.Deliverable {
	out := *d
	out.QualityReviewID = clonePtr(d.QualityReviewID)
	return &out
}

func cloneReview(r *job.QualityReview) *job.QualityReview {
	out := *r
	out.Checklist = maps.Clone(r.Checklist)
	return &out
}

func clonePayment(p *job.Payment) *job.Payment {
	out := *p
	return &out
}
