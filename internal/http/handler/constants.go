package handler

const (
	paramID        = "id"
	paramProjectID = "project_id"

	queryLimit = "limit"

	formFile     = "file"
	formType     = "type"
	formNotes    = "notes"
	formMetadata = "metadata"

	jsonKeyMessage = "message"
	jsonKeyUnread  = "unread"
	jsonKeyProject = "project"
	jsonKeyBrief   = "brief"
	jsonKeyJob     = "job"
	jsonKeyReview  = "review"
	jsonKeyPayment = "payment"
)

const (
	msgContentTypeJSONRequired = "content type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidIDFmt            = "invalid %s"
	msgInvalidLimit            = "limit must be a positive integer"
	msgInvalidMetadata         = "metadata must be a JSON object"
	msgMissingFile             = "multipart field \"file\" is required"
	msgReadUploadFailed        = "failed to read uploaded file"
	msgAssetDeleted            = "asset deleted"
)
