package service

import (
	"context"
	"time"

	companydomain "github.com/smallbiznis/brokerage/internal/company/domain"
	policydomain "github.com/smallbiznis/brokerage/internal/policy/domain"
	"github.com/smallbiznis/brokerage/pkg/db/option"
	"github.com/smallbiznis/brokerage/pkg/db/pagination"
	"github.com/smallbiznis/brokerage/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	CompanySvc companydomain.Service
}

type Service struct {
	log        *zap.Logger
	companysvc companydomain.Service
	policyrepo repository.Repository[policydomain.PolicyRecord]
}

func NewService(p ServiceParam) policydomain.Service {
	return &Service{
		log:        p.Log.Named("policy.service"),
		companysvc: p.CompanySvc,
		policyrepo: repository.ProvideStore[policydomain.PolicyRecord](p.DB),
	}
}

func (s *Service) List(ctx context.Context, req policydomain.ListPolicyRequest) (policydomain.ListPolicyResponse, error) {
	company, err := s.companysvc.Get(ctx, req.CompanyID)
	if err != nil {
		return policydomain.ListPolicyResponse{}, err
	}

	filter := &policydomain.PolicyRecord{
		CompanyID:  company.ID,
		IssueYear:  req.IssueYear,
		IssueMonth: req.IssueMonth,
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.policyrepo.Find(ctx, filter,
		option.ApplyPagination(pagination.Pagination{
			PageToken: req.PageToken,
			PageSize:  int(pageSize),
		}),
		option.WithSortBy(option.QuerySortBy{Desc: true, Allow: map[string]bool{"created_at": true}}),
	)
	if err != nil {
		return policydomain.ListPolicyResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(record *policydomain.PolicyRecord) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        record.ID.String(),
			CreatedAt: record.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	records := make([]policydomain.PolicyRecord, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, *item)
	}

	resp := policydomain.ListPolicyResponse{
		PolicyRecords: records,
	}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
