package domain

import "time"

type Organization struct {
	OrganizationID    string    `json:"id" dynamodbav:"organization_id"`
	OwnerID           string    `json:"owner_id" dynamodbav:"owner_id"`
	NameFull          string    `json:"name_full" dynamodbav:"name_full"`
	NameShort         string    `json:"name_short,omitempty" dynamodbav:"name_short"`
	INN               string    `json:"inn" dynamodbav:"inn"`
	KPP               string    `json:"kpp,omitempty" dynamodbav:"kpp"`
	OGRN              string    `json:"ogrn,omitempty" dynamodbav:"ogrn"`
	AddressLegal      string    `json:"address_legal" dynamodbav:"address_legal"`
	AddressPostal     string    `json:"address_postal,omitempty" dynamodbav:"address_postal"`
	Phone             string    `json:"phone,omitempty" dynamodbav:"phone"`
	Email             string    `json:"email,omitempty" dynamodbav:"email"`
	BankName          string    `json:"bank_name,omitempty" dynamodbav:"bank_name"`
	BankBIK           string    `json:"bank_bik,omitempty" dynamodbav:"bank_bik"`
	BankCorrAccount   string    `json:"bank_corr_account,omitempty" dynamodbav:"bank_corr_account"`
	SettlementAccount string    `json:"settlement_account,omitempty" dynamodbav:"settlement_account"`
	CEOName           string    `json:"ceo_name,omitempty" dynamodbav:"ceo_name"`
	CEOPosition       string    `json:"ceo_position,omitempty" dynamodbav:"ceo_position"`
	AccountantName    string    `json:"accountant_name,omitempty" dynamodbav:"accountant_name"`
	CreatedAt         time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateOrganizationRequest struct {
	NameFull          string `json:"name_full" validate:"required,min=3,max=500"`
	NameShort         string `json:"name_short" validate:"omitempty,max=200"`
	INN               string `json:"inn" validate:"required,inn"`
	KPP               string `json:"kpp" validate:"omitempty,kpp"`
	OGRN              string `json:"ogrn" validate:"omitempty,ogrn"`
	AddressLegal      string `json:"address_legal" validate:"required,min=5,max=500"`
	AddressPostal     string `json:"address_postal" validate:"omitempty,max=500"`
	Phone             string `json:"phone" validate:"omitempty,max=50"`
	Email             string `json:"email" validate:"omitempty,email"`
	BankName          string `json:"bank_name" validate:"omitempty,max=200"`
	BankBIK           string `json:"bank_bik" validate:"omitempty,bik"`
	BankCorrAccount   string `json:"bank_corr_account" validate:"omitempty,account"`
	SettlementAccount string `json:"settlement_account" validate:"omitempty,account"`
	CEOName           string `json:"ceo_name" validate:"omitempty,max=200"`
	CEOPosition       string `json:"ceo_position" validate:"omitempty,max=200"`
	AccountantName    string `json:"accountant_name" validate:"omitempty,max=200"`
}

// UpdateOrganizationRequest is a partial update. Nil fields are left unchanged.
type UpdateOrganizationRequest struct {
	NameFull          *string `json:"name_full" validate:"omitempty,min=3,max=500"`
	NameShort         *string `json:"name_short" validate:"omitempty,max=200"`
	INN               *string `json:"inn" validate:"omitempty,inn"`
	KPP               *string `json:"kpp" validate:"omitempty,kpp"`
	OGRN              *string `json:"ogrn" validate:"omitempty,ogrn"`
	AddressLegal      *string `json:"address_legal" validate:"omitempty,min=5,max=500"`
	AddressPostal     *string `json:"address_postal" validate:"omitempty,max=500"`
	Phone             *string `json:"phone" validate:"omitempty,max=50"`
	Email             *string `json:"email" validate:"omitempty,email"`
	BankName          *string `json:"bank_name" validate:"omitempty,max=200"`
	BankBIK           *string `json:"bank_bik" validate:"omitempty,bik"`
	BankCorrAccount   *string `json:"bank_corr_account" validate:"omitempty,account"`
	SettlementAccount *string `json:"settlement_account" validate:"omitempty,account"`
	CEOName           *string `json:"ceo_name" validate:"omitempty,max=200"`
	CEOPosition       *string `json:"ceo_position" validate:"omitempty,max=200"`
	AccountantName    *string `json:"accountant_name" validate:"omitempty,max=200"`
}

// Apply copies the non-nil fields of req onto o.
func (req UpdateOrganizationRequest) Apply(o *Organization) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&o.NameFull, req.NameFull)
	set(&o.NameShort, req.NameShort)
	set(&o.INN, req.INN)
	set(&o.KPP, req.KPP)
	set(&o.OGRN, req.OGRN)
	set(&o.AddressLegal, req.AddressLegal)
	set(&o.AddressPostal, req.AddressPostal)
	set(&o.Phone, req.Phone)
	set(&o.Email, req.Email)
	set(&o.BankName, req.BankName)
	set(&o.BankBIK, req.BankBIK)
	set(&o.BankCorrAccount, req.BankCorrAccount)
	set(&o.SettlementAccount, req.SettlementAccount)
	set(&o.CEOName, req.CEOName)
	set(&o.CEOPosition, req.CEOPosition)
	set(&o.AccountantName, req.AccountantName)
}
