package usecase

import (
	"context"

	"github.com/trebuchet-org/sling/internal/domain/models"
)

// ListContractsParams contains parameters for listing contracts
type ListContractsParams struct {
	Filter string
}

// ListContractsResult contains the deployable contracts found in the artifact directories
type ListContractsResult struct {
	Contracts []*models.Contract
}

// ListContracts is a use case for listing compiled, deployable contracts
type ListContracts struct {
	contracts ContractRepository
}

// NewListContracts creates a new ListContracts use case
func NewListContracts(contracts ContractRepository) *ListContracts {
	return &ListContracts{
		contracts: contracts,
	}
}

// Run executes the use case
func (uc *ListContracts) Run(ctx context.Context, params ListContractsParams) (*ListContractsResult, error) {
	contracts, err := uc.contracts.SearchContracts(ctx, params.Filter)
	if err != nil {
		return nil, err
	}

	return &ListContractsResult{
		Contracts: contracts,
	}, nil
}
