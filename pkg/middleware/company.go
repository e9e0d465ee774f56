package middleware

import (
	"github.com/gin-gonic/gin"

	"vipclub-backend/pkg/errutil"
)

const (
	// CompanyIDHeader is attached by the platform's extension framework on
	// every admin request.
	CompanyIDHeader = "X-COMPANY-ID"

	companyIDKey = "company_id"
)

// CompanyID extracts the company identifier from the request header and
// rejects requests without one. Everything below the admin surface is
// scoped per company.
func CompanyID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CompanyIDHeader)
		if id == "" {
			err := errutil.Unauthorized("missing " + CompanyIDHeader + " header")
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(companyIDKey, id)
		c.Next()
	}
}

// GetCompanyID returns the company ID the CompanyID middleware stored.
func GetCompanyID(c *gin.Context) string {
	return c.GetString(companyIDKey)
}
