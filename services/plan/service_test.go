package plan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vipclub-backend/pkg/errutil"
	"vipclub-backend/pkg/platform"
	"vipclub-backend/services/session"
	"vipclub-backend/services/vipconfig"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type fakeSessions struct {
	sess *session.Session
	err  error
}

func (f *fakeSessions) GetLatestSession(ctx context.Context) (*session.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sess, nil
}

type fakeConfigStore struct {
	cfg   *vipconfig.VipConfig
	saved *vipconfig.VipConfig
}

func (f *fakeConfigStore) Get(ctx context.Context, companyID string) (*vipconfig.VipConfig, error) {
	return f.cfg, nil
}

func (f *fakeConfigStore) Save(ctx context.Context, cfg *vipconfig.VipConfig) error {
	f.saved = cfg
	f.cfg = cfg
	return nil
}

type fakeProvisioner struct {
	attrCalls  int
	groupCalls int
	attrErr    error
}

func (f *fakeProvisioner) CreateUserAttributeDefinition(ctx context.Context, token, companyID, applicationID string, def platform.AttributeDefinition) (*platform.AttributeDefinitionResult, error) {
	f.attrCalls++
	if f.attrErr != nil {
		return nil, f.attrErr
	}
	return &platform.AttributeDefinitionResult{ID: "attr-" + def.Slug}, nil
}

func (f *fakeProvisioner) CreateUserGroup(ctx context.Context, token, companyID, applicationID string, group platform.UserGroup) (*platform.UserGroupResult, error) {
	f.groupCalls++
	return &platform.UserGroupResult{UID: int64(100 + f.groupCalls), Name: group.Name}, nil
}

func newTestService(store *fakeConfigStore, prov *fakeProvisioner) *Service {
	return &Service{
		sessions: &fakeSessions{sess: &session.Session{AccessToken: "token"}},
		platform: prov,
		configs:  store,
		now:      func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestConfigurePlansProvisionsEnabledPlans(t *testing.T) {
	store := &fakeConfigStore{}
	prov := &fakeProvisioner{}
	svc := newTestService(store, prov)

	plans := []vipconfig.Benefit{
		{Title: "CUSTOM_PROMOTIONS", IsEnabled: true},
		{Title: "PRODUCT_EXCLUSIVITY", IsEnabled: false},
	}

	res, err := svc.ConfigurePlans(context.Background(), "co-1", []string{"app-1", "app-2"}, plans)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Empty(t, res.FailedApps)

	// One enabled plan across two applications.
	require.Equal(t, 2, prov.attrCalls)
	require.Equal(t, 2, prov.groupCalls)

	require.NotNil(t, store.saved)
	require.Len(t, store.saved.UserAttributeIDs["app-1"], 1)
	require.Len(t, store.saved.UserGroupIDs["app-2"], 1)
	require.Equal(t, []string{"app-1", "app-2"}, store.saved.ApplicationIDs)

	// Disabled plans are not recorded.
	require.Len(t, store.saved.Benefits, 1)
	require.Equal(t, "CUSTOM_PROMOTIONS", store.saved.Benefits[0].Title)
}

func TestConfigurePlansIsIdempotent(t *testing.T) {
	store := &fakeConfigStore{}
	prov := &fakeProvisioner{}
	svc := newTestService(store, prov)

	plans := []vipconfig.Benefit{{Title: "CUSTOM_PROMOTIONS", IsEnabled: true}}
	apps := []string{"app-1"}

	_, err := svc.ConfigurePlans(context.Background(), "co-1", apps, plans)
	require.NoError(t, err)
	_, err = svc.ConfigurePlans(context.Background(), "co-1", apps, plans)
	require.NoError(t, err)

	// At most one remote creation per (app, plan) pair across both runs.
	require.Equal(t, 1, prov.attrCalls)
	require.Equal(t, 1, prov.groupCalls)

	require.Len(t, store.saved.UserAttributeIDs["app-1"], 1)
	require.Len(t, store.saved.UserGroupIDs["app-1"], 1)
	require.Len(t, store.saved.Benefits, 1)
	require.Equal(t, []string{"app-1"}, store.saved.ApplicationIDs)
}

func TestConfigurePlansNoEnabledPlans(t *testing.T) {
	store := &fakeConfigStore{}
	prov := &fakeProvisioner{}
	svc := newTestService(store, prov)

	plans := []vipconfig.Benefit{{Title: "CUSTOM_PROMOTIONS", IsEnabled: false}}

	_, err := svc.ConfigurePlans(context.Background(), "co-1", []string{"app-1"}, plans)
	require.Error(t, err)

	var base errutil.BaseError
	require.True(t, errors.As(err, &base))
	require.Equal(t, errutil.StatusBadRequest, base.Code)

	// Validation failures never reach the platform.
	require.Zero(t, prov.attrCalls)
	require.Zero(t, prov.groupCalls)
	require.Nil(t, store.saved)
}

func TestConfigurePlansCollectsRemoteFailures(t *testing.T) {
	store := &fakeConfigStore{}
	prov := &fakeProvisioner{attrErr: errors.New("upstream 502")}
	svc := newTestService(store, prov)

	plans := []vipconfig.Benefit{{Title: "CUSTOM_PROMOTIONS", IsEnabled: true}}

	res, err := svc.ConfigurePlans(context.Background(), "co-1", []string{"app-1", "app-2"}, plans)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.FailedApps, 2)
	require.Equal(t, "app-1", res.FailedApps[0].ApplicationID)
	require.Equal(t, "CUSTOM_PROMOTIONS", res.FailedApps[0].Plan)

	// The config document is still saved so enabled plans are remembered.
	require.NotNil(t, store.saved)
	require.Empty(t, store.saved.UserAttributeIDs["app-1"])
}

func TestHumanize(t *testing.T) {
	require.Equal(t, "Custom Promotions", humanize("CUSTOM_PROMOTIONS"))
	require.Equal(t, "Product Exclusivity", humanize("product_exclusivity"))
	require.Equal(t, "Vip", humanize("VIP"))
}
