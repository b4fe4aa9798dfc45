package presets

import "studio-service/internal/rbac"

const (
	RoleClient   rbac.Role = "client"
	RoleCreative rbac.Role = "creative"
	RoleProducer rbac.Role = "producer"
	RoleAdmin    rbac.Role = "admin"

	ResourceAccount      rbac.Resource = "account"
	ResourceProfile      rbac.Resource = "profile"
	ResourceProject      rbac.Resource = "project"
	ResourceBrief        rbac.Resource = "brief"
	ResourceMilestone    rbac.Resource = "milestone"
	ResourceAssignment   rbac.Resource = "assignment"
	ResourceAsset        rbac.Resource = "asset"
	ResourceComment      rbac.Resource = "comment"
	ResourceJob          rbac.Resource = "job"
	ResourceDeliverable  rbac.Resource = "deliverable"
	ResourcePayment      rbac.Resource = "payment"
	ResourceUpdate       rbac.Resource = "update"
	ResourceNotification rbac.Resource = "notification"
	ResourceGeneration   rbac.Resource = "generation"

	ActionRead    rbac.Action = "read"
	ActionCreate  rbac.Action = "create"
	ActionUpdate  rbac.Action = "update"
	ActionDelete  rbac.Action = "delete"
	ActionSubmit  rbac.Action = "submit"
	ActionApprove rbac.Action = "approve"
	ActionClaim   rbac.Action = "claim"
	ActionReview  rbac.Action = "review"
	ActionManage  rbac.Action = "manage"
)

// Studio returns the RBAC configuration for the production studio.
// ActionManage marks admin-only overrides.
func Studio() rbac.Config {
	return rbac.Config{
		Roles: []rbac.RoleDefinition{
			{Name: RoleAdmin, Level: 4},
			{Name: RoleProducer, Level: 3},
			{Name: RoleCreative, Level: 2},
			{Name: RoleClient, Level: 1},
		},
		Resources: []rbac.Resource{
			ResourceAccount,
			ResourceProfile,
			ResourceProject,
			ResourceBrief,
			ResourceMilestone,
			ResourceAssignment,
			ResourceAsset,
			ResourceComment,
			ResourceJob,
			ResourceDeliverable,
			ResourcePayment,
			ResourceUpdate,
			ResourceNotification,
			ResourceGeneration,
		},
		Actions: []rbac.Action{
			ActionRead,
			ActionCreate,
			ActionUpdate,
			ActionDelete,
			ActionSubmit,
			ActionApprove,
			ActionClaim,
			ActionReview,
			ActionManage,
		},
		Capabilities: map[rbac.Role]map[rbac.Resource][]rbac.Action{
			RoleAdmin: {
				ResourceAccount:      {ActionRead, ActionCreate, ActionUpdate},
				ResourceProfile:      {ActionRead, ActionUpdate, ActionManage},
				ResourceProject:      {ActionRead, ActionCreate, ActionUpdate, ActionManage},
				ResourceBrief:        {ActionRead, ActionUpdate, ActionSubmit, ActionApprove, ActionManage},
				ResourceMilestone:    {ActionRead, ActionCreate, ActionApprove},
				ResourceAssignment:   {ActionRead, ActionCreate, ActionDelete},
				ResourceAsset:        {ActionRead, ActionCreate, ActionApprove, ActionDelete},
				ResourceComment:      {ActionRead, ActionCreate},
				ResourceJob:          {ActionRead, ActionCreate, ActionUpdate},
				ResourceDeliverable:  {ActionRead, ActionReview},
				ResourcePayment:      {ActionRead, ActionUpdate},
				ResourceUpdate:       {ActionRead, ActionCreate},
				ResourceNotification: {ActionRead},
				ResourceGeneration:   {ActionCreate},
			},
			RoleProducer: {
				ResourceAccount:      {ActionRead},
				ResourceProfile:      {ActionRead},
				ResourceProject:      {ActionRead, ActionCreate, ActionUpdate},
				ResourceBrief:        {ActionRead, ActionUpdate, ActionSubmit, ActionApprove},
				ResourceMilestone:    {ActionRead, ActionCreate, ActionApprove},
				ResourceAssignment:   {ActionRead, ActionCreate, ActionDelete},
				ResourceAsset:        {ActionRead, ActionCreate, ActionApprove, ActionDelete},
				ResourceComment:      {ActionRead, ActionCreate},
				ResourceJob:          {ActionRead, ActionCreate, ActionUpdate},
				ResourceDeliverable:  {ActionRead, ActionReview},
				ResourcePayment:      {ActionRead},
				ResourceUpdate:       {ActionRead, ActionCreate},
				ResourceNotification: {ActionRead},
				ResourceGeneration:   {ActionCreate},
			},
			RoleCreative: {
				ResourceProfile:      {ActionRead},
				ResourceProject:      {ActionRead},
				ResourceBrief:        {ActionRead},
				ResourceMilestone:    {ActionRead},
				ResourceAssignment:   {ActionRead},
				ResourceAsset:        {ActionRead, ActionCreate},
				ResourceComment:      {ActionRead, ActionCreate},
				ResourceJob:          {ActionRead, ActionClaim},
				ResourceDeliverable:  {ActionRead, ActionCreate},
				ResourcePayment:      {ActionRead},
				ResourceUpdate:       {ActionRead},
				ResourceNotification: {ActionRead},
				ResourceGeneration:   {ActionCreate},
			},
			RoleClient: {
				ResourceAccount:      {ActionRead},
				ResourceProfile:      {ActionRead},
				ResourceProject:      {ActionRead, ActionCreate},
				ResourceBrief:        {ActionRead, ActionUpdate, ActionSubmit},
				ResourceMilestone:    {ActionRead},
				ResourceAsset:        {ActionRead},
				ResourceComment:      {ActionRead, ActionCreate},
				ResourceUpdate:       {ActionRead},
				ResourceNotification: {ActionRead},
				ResourceGeneration:   {ActionCreate},
			},
		},
	}
}
