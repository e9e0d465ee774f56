package session

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"vipclub-backend/pkg/errutil"
)

type Service struct {
	db *gorm.DB
}

type ServiceParams struct {
	fx.In

	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{db: p.DB}
}

// GetLatestSession returns the stored platform session with the highest
// TTL. Sessions are refreshed opportunistically by the platform SDK under
// volatile keys, so "latest by ttl" is the disambiguation heuristic. A
// missing or malformed row is fatal for any authorized operation and is
// propagated.
func (s *Service) GetLatestSession(ctx context.Context) (*Session, error) {
	var row Storage
	if err := s.db.WithContext(ctx).Order("ttl DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errutil.NotFound("no platform session stored")
		}
		return nil, errutil.Internal("failed to read session storage", errutil.WithErr(err))
	}

	var sess Session
	if err := json.Unmarshal([]byte(row.Value), &sess); err != nil {
		return nil, errutil.Internal("malformed session payload", errutil.WithErr(err))
	}

	return &sess, nil
}
