package domain

// Template is one entry of the document template catalog.
type Template struct {
	Code             string   `json:"code" dynamodbav:"code"`
	NameRu           string   `json:"nameRu" dynamodbav:"name_ru"`
	ShortDescription string   `json:"shortDescription" dynamodbav:"short_description"`
	Category         string   `json:"category" dynamodbav:"category"`
	Tags             []string `json:"tags" dynamodbav:"tags"`
	Version          string   `json:"version" dynamodbav:"version"`
	HasBodyChat      bool     `json:"hasBodyChat" dynamodbav:"has_body_chat"`
	IsEnabled        bool     `json:"isEnabled" dynamodbav:"is_enabled"`
}

// UpdateTemplateRequest edits catalog metadata from the admin panel.
type UpdateTemplateRequest struct {
	NameRu           *string   `json:"nameRu" validate:"omitempty,min=1,max=200"`
	ShortDescription *string   `json:"shortDescription" validate:"omitempty,max=1000"`
	Category         *string   `json:"category" validate:"omitempty,max=100"`
	Tags             *[]string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Version          *string   `json:"version" validate:"omitempty,max=20"`
	HasBodyChat      *bool     `json:"hasBodyChat"`
	IsEnabled        *bool     `json:"isEnabled"`
}

// Apply copies the non-nil fields of req onto t.
func (req UpdateTemplateRequest) Apply(t *Template) {
	if req.NameRu != nil {
		t.NameRu = *req.NameRu
	}
	if req.ShortDescription != nil {
		t.ShortDescription = *req.ShortDescription
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Tags != nil {
		t.Tags = *req.Tags
	}
	if req.Version != nil {
		t.Version = *req.Version
	}
	if req.HasBodyChat != nil {
		t.HasBodyChat = *req.HasBodyChat
	}
	if req.IsEnabled != nil {
		t.IsEnabled = *req.IsEnabled
	}
}

// TemplateBody is the editable text of a template stored outside the catalog.
type TemplateBody struct {
	Code string `json:"code"`
	Body string `json:"body"`
}

type PutTemplateBodyRequest struct {
	Body string `json:"body" validate:"required,max=200000"`
}
