package session

// Storage mirrors the key-value table the platform SDK writes session
// blobs into. This service only ever reads it.
type Storage struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
	TTL   int64  `gorm:"column:ttl"`
}

func (Storage) TableName() string {
	return "storage"
}

// Session is the decoded platform auth session. Only the access token is
// load-bearing; the rest is carried for diagnostics.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	CompanyID    string `json:"company_id,omitempty"`
}
