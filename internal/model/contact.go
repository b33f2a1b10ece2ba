package model

// ContactVerification is the JSON object stored as the answer to a contact
// verification question. The *Correct flags are nil until the respondent answers them.
type ContactVerification struct {
	NameCorrect         *bool  `json:"name_correct,omitempty"`
	Name                string `json:"name,omitempty"`
	EmailCorrect        *bool  `json:"email_correct,omitempty"`
	Email               string `json:"email,omitempty"`
	PhoneCorrect        *bool  `json:"phone_correct,omitempty"`
	Phone               string `json:"phone,omitempty"`
	PhoneType           string `json:"phone_type,omitempty"`
	AdditionalPhone     string `json:"additional_phone,omitempty"`
	AdditionalPhoneType string `json:"additional_phone_type,omitempty"`
}
