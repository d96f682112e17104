package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/brokerage/pkg/db/pagination"
)

type ListPolicyRequest struct {
	CompanyID  string `form:"company_id"`
	IssueYear  int    `form:"issue_year"`
	IssueMonth int    `form:"issue_month"`
	PageToken  string `form:"page_token"`
	PageSize   int32  `form:"page_size"`
}

type ListPolicyResponse struct {
	pagination.PageInfo
	PolicyRecords []PolicyRecord `json:"policy_records"`
}

type Service interface {
	List(ctx context.Context, req ListPolicyRequest) (ListPolicyResponse, error)
}

var ErrInvalidCompany = errors.New("invalid_company")
