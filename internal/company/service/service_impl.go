package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/smallbiznis/brokerage/internal/company/domain"
	"github.com/smallbiznis/brokerage/internal/clock"
	"github.com/smallbiznis/brokerage/internal/ownerctx"
	"github.com/smallbiznis/brokerage/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  companydomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  companydomain.Repository
}

func NewService(p ServiceParam) companydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) ResolveOrCreate(ctx context.Context, name string) (*companydomain.Company, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, companydomain.ErrInvalidOwner
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, companydomain.ErrInvalidName
	}

	existing, err := s.repo.FindByName(ctx, s.db, ownerID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := s.clock.Now()
	company := &companydomain.Company{
		ID:        s.genID.Generate(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, company); err != nil {
		// A concurrent upload may have created the company in between.
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindByName(ctx, s.db, ownerID, name)
		}
		return nil, err
	}

	s.log.Info("company created",
		zap.String("company_id", company.ID.String()),
		zap.String("name", company.Name),
	)
	return company, nil
}

func (s *Service) Get(ctx context.Context, id string) (*companydomain.Company, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, companydomain.ErrInvalidOwner
	}

	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || companyID == 0 {
		return nil, companydomain.ErrInvalidCompany
	}

	company, err := s.repo.FindByID(ctx, s.db, ownerID, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companydomain.ErrCompanyNotFound
	}
	return company, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*companydomain.Company, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, companydomain.ErrInvalidOwner
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, companydomain.ErrInvalidName
	}

	company, err := s.repo.FindByName(ctx, s.db, ownerID, name)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companydomain.ErrCompanyNotFound
	}
	return company, nil
}

func (s *Service) List(ctx context.Context) ([]companydomain.Company, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, companydomain.ErrInvalidOwner
	}
	return s.repo.List(ctx, s.db, ownerID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return companydomain.ErrInvalidOwner
	}

	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || companyID == 0 {
		return companydomain.ErrInvalidCompany
	}

	company, err := s.repo.FindByID(ctx, s.db, ownerID, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return companydomain.ErrCompanyNotFound
	}

	if err := s.repo.DeleteCascade(ctx, s.db, ownerID, companyID); err != nil {
		return err
	}

	s.log.Info("company deleted",
		zap.String("company_id", companyID.String()),
	)
	return nil
}
