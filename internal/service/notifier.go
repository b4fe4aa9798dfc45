package service

import (
	"context"
	"log/slog"
	"slices"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/assignment"
	"studio-service/internal/domain/notification"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

type StakeholderProfiles interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*account.Profile, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Profile, error)
}

type ProjectAssignmentLister interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*assignment.Assignment, error)
}

type NotificationWriter interface {
	CreateBatch(ctx context.Context, inputs []notification.CreateNotificationInput) error
}

// Audience selects who in the stakeholder set receives a fan-out.
type Audience int

const (
	// AudienceStakeholders is everyone on the account, the creator and every assignee.
	AudienceStakeholders Audience = iota
	// AudienceTeam is the stakeholder set without client profiles.
	AudienceTeam
)

// Fanout describes one notification to spread over a project's stakeholders.
type Fanout struct {
	ProjectID uuid.UUID
	Type      notification.Type
	Payload   map[string]any
	// Exclude is the acting user; uuid.Nil excludes nobody.
	Exclude  uuid.UUID
	Audience Audience
	// AlsoNotify adds recipients outside the stakeholder set.
	AlsoNotify []uuid.UUID
}

// Notifier writes one notification per stakeholder. Failures are logged
// and never returned: the operation that triggered the fan-out has
// already happened.
type Notifier struct {
	projects      ProjectGetter
	profiles      StakeholderProfiles
	assignments   ProjectAssignmentLister
	notifications NotificationWriter
	log           *slog.Logger
}

func NewNotifier(
	projects ProjectGetter,
	profiles StakeholderProfiles,
	assignments ProjectAssignmentLister,
	notifications NotificationWriter,
	log *slog.Logger,
) *Notifier {
	return &Notifier{
		projects:      projects,
		profiles:      profiles,
		assignments:   assignments,
		notifications: notifications,
		log:           orDefaultLogger(log),
	}
}

func (n *Notifier) NotifyStakeholders(ctx context.Context, projectID uuid.UUID, typ notification.Type, payload map[string]any, excludeUserID uuid.UUID) {
	n.Publish(ctx, Fanout{ProjectID: projectID, Type: typ, Payload: payload, Exclude: excludeUserID})
}

// NotifyTeam is NotifyStakeholders without client recipients.
func (n *Notifier) NotifyTeam(ctx context.Context, projectID uuid.UUID, typ notification.Type, payload map[string]any, excludeUserID uuid.UUID) {
	n.Publish(ctx, Fanout{ProjectID: projectID, Type: typ, Payload: payload, Exclude: excludeUserID, Audience: AudienceTeam})
}

func (n *Notifier) Publish(ctx context.Context, f Fanout) {
	if err := n.publish(ctx, f); err != nil {
		n.log.ErrorContext(ctx, logFanoutFailed,
			slog.String("project_id", f.ProjectID.String()),
			slog.String("type", string(f.Type)),
			slog.Any("error", err))
	}
}

// NotifyUsers sends to an explicit recipient list, for events that are not
// tied to a project's stakeholders.
func (n *Notifier) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, projectID *uuid.UUID, typ notification.Type, payload map[string]any, excludeUserID uuid.UUID) {
	recipients := mapset.NewThreadUnsafeSet(userIDs...)
	if err := n.write(ctx, recipients, projectID, typ, payload, excludeUserID); err != nil {
		n.log.ErrorContext(ctx, logFanoutFailed,
			slog.String("type", string(typ)),
			slog.Any("error", err))
	}
}

func (n *Notifier) publish(ctx context.Context, f Fanout) error {
	recipients, err := n.stakeholders(ctx, f.ProjectID)
	if err != nil {
		return err
	}
	recipients.Append(f.AlsoNotify...)
	recipients.Remove(f.Exclude)

	if f.Audience == AudienceTeam && recipients.Cardinality() > 0 {
		profiles, err := n.profiles.ListByIDs(ctx, recipients.ToSlice())
		if err != nil {
			return err
		}
		for _, p := range profiles {
			if p.ProfileType == account.ProfileClient {
				recipients.Remove(p.ID)
			}
		}
	}

	projectID := f.ProjectID
	return n.write(ctx, recipients, &projectID, f.Type, f.Payload, f.Exclude)
}

// stakeholders is every profile of the owning account, the project creator
// and every user that was ever assigned.
func (n *Notifier) stakeholders(ctx context.Context, projectID uuid.UUID) (mapset.Set[uuid.UUID], error) {
	p, err := n.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	set := mapset.NewThreadUnsafeSet(p.CreatedBy)

	members, err := n.profiles.ListByAccount(ctx, p.ClientAccountID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		set.Add(m.ID)
	}

	assignments, err := n.assignments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		set.Add(a.UserID)
	}
	return set, nil
}

func (n *Notifier) write(ctx context.Context, recipients mapset.Set[uuid.UUID], projectID *uuid.UUID, typ notification.Type, payload map[string]any, exclude uuid.UUID) error {
	recipients.Remove(exclude)
	recipients.Remove(uuid.Nil)
	if recipients.Cardinality() == 0 {
		return nil
	}

	ids := recipients.ToSlice()
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return slices.Compare(a[:], b[:]) })

	inputs := make([]notification.CreateNotificationInput, 0, len(ids))
	for _, id := range ids {
		inputs = append(inputs, notification.CreateNotificationInput{
			UserID:    id,
			ProjectID: projectID,
			Type:      typ,
			Payload:   payload,
		})
	}
	return n.notifications.CreateBatch(ctx, inputs)
}
