package campaign

import (
	"context"
	"errors"
	"math/rand"
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

type fakeSessions struct{}

func (fakeSessions) GetLatestSession(ctx context.Context) (*session.Session, error) {
	return &session.Session{AccessToken: "token"}, nil
}

type fakePromotionCreator struct {
	calls  int
	promos []platform.Promotion
	err    error
}

func (f *fakePromotionCreator) CreatePromotion(ctx context.Context, token, companyID, applicationID string, promo platform.Promotion) (*platform.PromotionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.promos = append(f.promos, promo)
	return &platform.PromotionResult{ID: "promo-1"}, nil
}

type fakeConfigStore struct {
	cfg *vipconfig.VipConfig
}

func (f *fakeConfigStore) Get(ctx context.Context, companyID string) (*vipconfig.VipConfig, error) {
	return f.cfg, nil
}

func (f *fakeConfigStore) Save(ctx context.Context, cfg *vipconfig.VipConfig) error {
	return nil
}

type fakeCampaignStore struct {
	inserted  []*Campaign
	insertErr []error
}

func (f *fakeCampaignStore) Insert(ctx context.Context, c *Campaign) error {
	if len(f.insertErr) > 0 {
		err := f.insertErr[0]
		f.insertErr = f.insertErr[1:]
		if err != nil {
			return err
		}
	}
	f.inserted = append(f.inserted, c)
	return nil
}

func (f *fakeCampaignStore) List(ctx context.Context, companyID string) ([]Campaign, error) {
	return nil, nil
}

func (f *fakeCampaignStore) ActiveForApplication(ctx context.Context, companyID, applicationID string, now time.Time) ([]Campaign, error) {
	return nil, nil
}

func configWithGroup(appID, plan string, groupID int64) *vipconfig.VipConfig {
	cfg := vipconfig.NewVipConfig("co-1", time.Now())
	cfg.UserGroupIDs[appID] = []vipconfig.GroupRef{{GroupID: groupID, Name: plan}}
	return cfg
}

func newTestService(platformFake *fakePromotionCreator, configs *fakeConfigStore, campaigns *fakeCampaignStore) *Service {
	return &Service{
		sessions:  fakeSessions{},
		platform:  platformFake,
		configs:   configs,
		campaigns: campaigns,
		now:       func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
		rnd:       rand.New(rand.NewSource(1)),
	}
}

func baseRequest() CreateRequest {
	return CreateRequest{
		Name:           "Summer VIP Deal",
		Type:           TypeCustomPromotions,
		ApplicationIDs: []string{"app-1"},
		Products: []ProductSelection{
			{UID: 100, Name: "Shirt"},
			{UID: 101, Name: "Shoes"},
		},
		Discount:  Discount{Type: DiscountTypePercentage, Value: "20"},
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateCampaignBuildsPromotionPayload(t *testing.T) {
	platformFake := &fakePromotionCreator{}
	campaigns := &fakeCampaignStore{}
	svc := newTestService(platformFake, &fakeConfigStore{cfg: configWithGroup("app-1", TypeCustomPromotions, 555)}, campaigns)

	res, err := svc.CreateCampaign(context.Background(), "co-1", baseRequest())
	require.NoError(t, err)
	require.True(t, res.Success)
	require.GreaterOrEqual(t, res.CampaignID, 100000)
	require.LessOrEqual(t, res.CampaignID, 999999)

	require.Len(t, platformFake.promos, 1)
	promo := platformFake.promos[0]
	require.Equal(t, "Summer VIP Deal", promo.Name)
	require.Equal(t, "cart", promo.ApplyExclusive)
	require.Len(t, promo.DiscountRules, 1)
	require.Equal(t, DiscountTypePercentage, promo.DiscountRules[0].DiscountType)
	require.Equal(t, "20", promo.DiscountRules[0].Offer.DiscountPercentage)
	require.Equal(t, []int64{100, 101}, promo.BuyRules["rule#1"].ItemID)
	require.Equal(t, []int64{555}, promo.Restrictions.UserGroups)

	require.Len(t, campaigns.inserted, 1)
	require.Equal(t, "promo-1", campaigns.inserted[0].Promotions["app-1"])
}

func TestCreateCampaignProductExclusivitySkipsPromotion(t *testing.T) {
	platformFake := &fakePromotionCreator{}
	campaigns := &fakeCampaignStore{}
	svc := newTestService(platformFake, &fakeConfigStore{cfg: configWithGroup("app-1", TypeProductExclusivity, 555)}, campaigns)

	req := baseRequest()
	req.Type = TypeProductExclusivity
	req.Products = nil

	res, err := svc.CreateCampaign(context.Background(), "co-1", req)
	require.NoError(t, err)
	require.True(t, res.Success)

	require.Zero(t, platformFake.calls)
	require.Len(t, campaigns.inserted, 1)
	require.Empty(t, campaigns.inserted[0].Promotions)
}

func TestCreateCampaignSkipsUnprovisionedApplication(t *testing.T) {
	platformFake := &fakePromotionCreator{}
	campaigns := &fakeCampaignStore{}
	// Group exists for app-1 only; app-2 was never configured.
	svc := newTestService(platformFake, &fakeConfigStore{cfg: configWithGroup("app-1", TypeCustomPromotions, 555)}, campaigns)

	req := baseRequest()
	req.ApplicationIDs = []string{"app-1", "app-2"}

	res, err := svc.CreateCampaign(context.Background(), "co-1", req)
	require.NoError(t, err)
	require.True(t, res.Success)

	require.Equal(t, 1, platformFake.calls)
	require.Len(t, campaigns.inserted, 1)
	require.NotContains(t, campaigns.inserted[0].Promotions, "app-2")
}

func TestCreateCampaignCollectsPromotionFailures(t *testing.T) {
	platformFake := &fakePromotionCreator{err: errors.New("upstream 502")}
	campaigns := &fakeCampaignStore{}
	svc := newTestService(platformFake, &fakeConfigStore{cfg: configWithGroup("app-1", TypeCustomPromotions, 555)}, campaigns)

	res, err := svc.CreateCampaign(context.Background(), "co-1", baseRequest())
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.FailedApps, 1)

	// Campaign is persisted even when every promotion failed.
	require.Len(t, campaigns.inserted, 1)
}

func TestCreateCampaignRegeneratesDuplicateID(t *testing.T) {
	platformFake := &fakePromotionCreator{}
	campaigns := &fakeCampaignStore{insertErr: []error{ErrDuplicateCampaignID, nil}}
	svc := newTestService(platformFake, &fakeConfigStore{cfg: configWithGroup("app-1", TypeCustomPromotions, 555)}, campaigns)

	res, err := svc.CreateCampaign(context.Background(), "co-1", baseRequest())
	require.NoError(t, err)
	require.Len(t, campaigns.inserted, 1)
	require.Equal(t, campaigns.inserted[0].CampaignID, res.CampaignID)
}

func TestCreateCampaignValidation(t *testing.T) {
	svc := newTestService(&fakePromotionCreator{}, &fakeConfigStore{}, &fakeCampaignStore{})

	req := baseRequest()
	req.ApplicationIDs = nil
	_, err := svc.CreateCampaign(context.Background(), "co-1", req)
	requireBadRequest(t, err)

	req = baseRequest()
	req.Products = nil
	_, err = svc.CreateCampaign(context.Background(), "co-1", req)
	requireBadRequest(t, err)

	req = baseRequest()
	req.EndDate = req.StartDate
	_, err = svc.CreateCampaign(context.Background(), "co-1", req)
	requireBadRequest(t, err)
}

func TestCreateCampaignNormalizesSingleApplicationID(t *testing.T) {
	platformFake := &fakePromotionCreator{}
	campaigns := &fakeCampaignStore{}
	svc := newTestService(platformFake, &fakeConfigStore{cfg: configWithGroup("app-1", TypeCustomPromotions, 555)}, campaigns)

	req := baseRequest()
	req.ApplicationIDs = nil
	req.ApplicationID = "app-1"

	res, err := svc.CreateCampaign(context.Background(), "co-1", req)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, []string{"app-1"}, campaigns.inserted[0].ApplicationIDs)
}

func requireBadRequest(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var base errutil.BaseError
	require.True(t, errors.As(err, &base))
	require.Equal(t, errutil.StatusBadRequest, base.Code)
}

func TestCampaignIsActive(t *testing.T) {
	c := Campaign{
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	require.True(t, c.IsActive(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))
	require.True(t, c.IsActive(c.StartDate))
	require.False(t, c.IsActive(c.EndDate))
	require.False(t, c.IsActive(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)))
}
