package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"vipclub-backend/pkg/errutil"
)

func TestCreateUserAttributeDefinition(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody AttributeDefinition

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"_id": "attr-123"})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	res, err := c.CreateUserAttributeDefinition(context.Background(), "tok", "co-1", "app-1", AttributeDefinition{
		Name: "Gold", Slug: "gold", Type: "boolean",
	})
	require.NoError(t, err)
	require.Equal(t, "attr-123", res.ID)
	require.Equal(t, "/service/platform/user/v1.0/company/co-1/application/app-1/user_attribute/definition", gotPath)
	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, "gold", gotBody.Slug)
	require.False(t, gotBody.CustomerEditable)
}

func TestCreateUserGroup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var group UserGroup
		require.NoError(t, json.NewDecoder(r.Body).Decode(&group))
		require.Equal(t, "conditional", group.Type)
		require.Len(t, group.Conditions, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"uid": 777, "name": group.Name})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	res, err := c.CreateUserGroup(context.Background(), "tok", "co-1", "app-1", UserGroup{
		Name: "Gold",
		Type: "conditional",
		Conditions: []GroupCondition{
			{UserAttributeDefinitionID: "attr-123", Value: true, Type: "eq"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(777), res.UID)
}

func TestSetUserAttribute(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	err := c.SetUserAttribute(context.Background(), "tok", "co-1", "app-1", "attr-123", "user-9")
	require.NoError(t, err)
	require.Equal(t, "/service/platform/user/v1.0/company/co-1/application/app-1/user_attribute/definition/attr-123/user/user-9", gotPath)
	require.Equal(t, "boolean", gotBody["type"])
	require.Equal(t, map[string]any{"value": true}, gotBody["attribute"])
}

func TestGetProductsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2", r.URL.Query().Get("page_no"))
		require.Equal(t, "25", r.URL.Query().Get("page_size"))
		require.Equal(t, "shirt", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{"uid": 100, "name": "Shirt", "item_code": "SH-1"}},
		})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	page, err := c.GetProducts(context.Background(), "tok", "co-1", 2, 25, "shirt")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "SH-1", page.Items[0].Code)
}

func TestGatewayErrorOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.CreatePromotion(context.Background(), "tok", "co-1", "app-1", Promotion{Name: "x"})
	require.Error(t, err)

	var base errutil.BaseError
	require.True(t, errors.As(err, &base))
	require.Equal(t, errutil.StatusBadGateway, base.Code)
}
