package admin

import (
	"github.com/go-playground/validator/v10"

	"github.com/nfrund/mqbroker/internal/topicmgr"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// UpdateTopicRequest defines the DTO for PUT /topics/:name. Attribute keys are
// operations: "+key" adds or changes, "-key" deletes.
type UpdateTopicRequest struct {
	ReadQueueNums  uint32            `json:"readQueueNums" validate:"max=65535"`
	WriteQueueNums uint32            `json:"writeQueueNums" validate:"max=65535"`
	Perm           *uint32           `json:"perm" validate:"omitempty,max=15"`
	FilterType     string            `json:"topicFilterType" validate:"omitempty,oneof=SINGLE_TAG MULTI_TAG"`
	TopicSysFlag   uint32            `json:"topicSysFlag"`
	Order          bool              `json:"order"`
	Attributes     map[string]string `json:"attributes"`
}

// ToConfig builds the topic config the request describes. Zero queue counts mean the defaults.
func (r UpdateTopicRequest) ToConfig(name string) topicmgr.TopicConfig {
	cfg := topicmgr.NewTopicConfig(name)
	if r.ReadQueueNums > 0 {
		cfg.ReadQueueNums = r.ReadQueueNums
	}
	if r.WriteQueueNums > 0 {
		cfg.WriteQueueNums = r.WriteQueueNums
	}
	if r.Perm != nil {
		cfg.Perm = topicmgr.Perm(*r.Perm)
	}
	if r.FilterType != "" {
		cfg.TopicFilterType = topicmgr.FilterType(r.FilterType)
	}
	cfg.TopicSysFlag = r.TopicSysFlag
	cfg.Order = r.Order
	if r.Attributes != nil {
		cfg.Attributes = r.Attributes
	}
	return cfg
}

// AutoCreateRequest defines the DTO for POST /topics/:name/autocreate, the admin
// counterpart of a producer sending to an unknown topic.
type AutoCreateRequest struct {
	Template  string `json:"template"`
	QueueNums int32  `json:"queueNums" validate:"min=-1,max=65535"`
	SysFlag   uint32 `json:"sysFlag"`
	Producer  string `json:"producer" validate:"max=256"`
}

// TopicListResponse is returned by GET /topics.
type TopicListResponse struct {
	Topics      []topicmgr.TopicConfig `json:"topics"`
	DataVersion topicmgr.DataVersion   `json:"dataVersion"`
}

// VersionResponse is returned by GET /version.
type VersionResponse struct {
	Version string                `json:"version"`
	Stats   topicmgr.ManagerStats `json:"stats"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}
