package domain

import "time"

type Document struct {
	DocumentID      string    `json:"id" dynamodbav:"document_id"`
	OwnerID         string    `json:"userId" dynamodbav:"owner_id"`
	OrganizationID  string    `json:"organizationId,omitempty" dynamodbav:"organization_id"`
	TemplateCode    string    `json:"templateCode" dynamodbav:"template_code"`
	TemplateVersion string    `json:"templateVersion" dynamodbav:"template_version"`
	Title           string    `json:"title,omitempty" dynamodbav:"title"`
	BodyText        string    `json:"bodyText,omitempty" dynamodbav:"body_text"`
	HasBodyChat     bool      `json:"hasBodyChat" dynamodbav:"has_body_chat"`
	CreatedAt       time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateDocumentRequest struct {
	TemplateCode   string  `json:"templateCode" validate:"required,min=1,max=50"`
	OrganizationID *string `json:"organizationId" validate:"omitempty,uuid"`
	Title          *string `json:"title" validate:"omitempty,max=500"`
	BodyText       *string `json:"bodyText" validate:"omitempty,max=50000"`
}

type UpdateDocumentRequest struct {
	OrganizationID *string `json:"organizationId" validate:"omitempty,uuid"`
	Title          *string `json:"title" validate:"omitempty,max=500"`
	BodyText       *string `json:"bodyText" validate:"omitempty,max=50000"`
}
