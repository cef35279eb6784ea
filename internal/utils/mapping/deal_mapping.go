package mapping

import (
	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/models"
)

// ToModelDeal converts a domain Deal to a model Deal
func ToModelDeal(d domain.Deal) models.Deal {
	return models.Deal{
		DealID:         d.DealID,
		OrganizationID: d.OrganizationID,
		CompanyID:      d.CompanyID,
		Name:           d.Name,
		Stage:          string(d.Stage),
		Value:          d.Value,
		Probability:    d.Probability,
		OwnerUserID:    d.OwnerUserID,
		StageChangedAt: d.StageChangedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDeal converts a model Deal to a domain Deal
func ToDomainDeal(m models.Deal) domain.Deal {
	return domain.Deal{
		DealID:         m.DealID,
		OrganizationID: m.OrganizationID,
		CompanyID:      m.CompanyID,
		Name:           m.Name,
		Stage:          domain.DealStage(m.Stage),
		Value:          m.Value,
		Probability:    m.Probability,
		OwnerUserID:    m.OwnerUserID,
		StageChangedAt: m.StageChangedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDealSlice converts a slice of model Deals to a slice of domain Deals
func ToDomainDealSlice(ms []models.Deal) []domain.Deal {
	ds := make([]domain.Deal, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDeal(m)
	}
	return ds
}
