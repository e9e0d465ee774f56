package platform

import (
	"context"
	"fmt"

	"vipclub-backend/pkg/config"
	"vipclub-backend/pkg/errutil"

	"github.com/go-resty/resty/v2"
	"go.uber.org/fx"
)

var Module = fx.Module("platform",
	fx.Provide(New),
)

// Client talks to the e-commerce platform's Platform API. Every call is
// authorized with a bearer token obtained from the session accessor.
type Client struct {
	http *resty.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.Platform.BaseURL).
			SetTimeout(cfg.Platform.Timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// NewWithBaseURL is used by tests to point the client at an httptest server.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
	}
}

func (c *Client) CreateUserAttributeDefinition(ctx context.Context, token, companyID, applicationID string, def AttributeDefinition) (*AttributeDefinitionResult, error) {
	var out AttributeDefinitionResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(def).
		SetResult(&out).
		Post(fmt.Sprintf("/service/platform/user/v1.0/company/%s/application/%s/user_attribute/definition", companyID, applicationID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, gatewayError("create user attribute definition", resp)
	}
	return &out, nil
}

func (c *Client) CreateUserGroup(ctx context.Context, token, companyID, applicationID string, group UserGroup) (*UserGroupResult, error) {
	var out UserGroupResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(group).
		SetResult(&out).
		Post(fmt.Sprintf("/service/platform/user/v1.0/company/%s/application/%s/user_group", companyID, applicationID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, gatewayError("create user group", resp)
	}
	return &out, nil
}

// SetUserAttribute flips the boolean attribute to true for one user.
func (c *Client) SetUserAttribute(ctx context.Context, token, companyID, applicationID, attributeID, userID string) error {
	body := map[string]any{
		"type":      "boolean",
		"attribute": map[string]any{"value": true},
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		Put(fmt.Sprintf("/service/platform/user/v1.0/company/%s/application/%s/user_attribute/definition/%s/user/%s", companyID, applicationID, attributeID, userID))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return gatewayError("set user attribute", resp)
	}
	return nil
}

func (c *Client) CreatePromotion(ctx context.Context, token, companyID, applicationID string, promo Promotion) (*PromotionResult, error) {
	var out PromotionResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(promo).
		SetResult(&out).
		Post(fmt.Sprintf("/service/platform/cart/v1.0/company/%s/application/%s/promotion", companyID, applicationID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, gatewayError("create promotion", resp)
	}
	return &out, nil
}

func (c *Client) GetProducts(ctx context.Context, token, companyID string, pageNo, pageSize int, query string) (*ProductPage, error) {
	var out ProductPage
	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("page_no", fmt.Sprint(pageNo)).
		SetQueryParam("page_size", fmt.Sprint(pageSize)).
		SetResult(&out)
	if query != "" {
		req.SetQueryParam("q", query)
	}
	resp, err := req.Get(fmt.Sprintf("/service/platform/catalog/v1.0/company/%s/products", companyID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, gatewayError("get products", resp)
	}
	return &out, nil
}

func (c *Client) GetApplication(ctx context.Context, token, companyID, applicationID string) (*Application, error) {
	var out Application
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		Get(fmt.Sprintf("/service/platform/configuration/v1.0/company/%s/application/%s", companyID, applicationID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, gatewayError("get application", resp)
	}
	return &out, nil
}

func (c *Client) GetApplications(ctx context.Context, token, companyID string) (*ApplicationPage, error) {
	var out ApplicationPage
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		Get(fmt.Sprintf("/service/platform/configuration/v1.0/company/%s/application", companyID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, gatewayError("get applications", resp)
	}
	return &out, nil
}

func gatewayError(op string, resp *resty.Response) error {
	body := resp.String()
	if len(body) > 256 {
		body = body[:256]
	}
	return errutil.BadGateway(
		fmt.Sprintf("platform api: %s returned %d", op, resp.StatusCode()),
		errutil.WithDetails(errutil.Detail{Field: "body", Message: body}),
	)
}
