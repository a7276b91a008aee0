package model

// MailSettings is a single-row table (ID is always 1) holding the SMTP
// configuration editable by the superadmin.
type MailSettings struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Server          string `json:"server"`
	Port            int    `json:"port"`
	Username        string `json:"username"`
	Password        string `json:"-"`
	UseTLS          bool   `json:"use_tls" gorm:"default:true"`
	SubjectTemplate string `json:"subject_template"`
	BodyTemplate    string `json:"body_template"`
}
