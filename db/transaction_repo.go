package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fedspend/spendapi/domain"
)

var _ domain.TransactionRepository = (*Repository)(nil)

// dbTransactionFPDS represents the FPDS contract data of a transaction as stored in the database.
type dbTransactionFPDS struct {
	TransactionID              int64           `db:"transaction_id"`
	DetachedAwardProcurementID sql.NullInt64   `db:"detached_award_procurement_id"`
	DetachedAwardProcUnique    sql.NullString  `db:"detached_award_proc_unique"`
	PIID                       sql.NullString  `db:"piid"`
	AgencyID                   sql.NullString  `db:"agency_id"`
	AwardingSubTierAgencyCode  sql.NullString  `db:"awarding_sub_tier_agency_c"`
	AwardingSubTierAgencyName  sql.NullString  `db:"awarding_sub_tier_agency_n"`
	AwardingAgencyCode         sql.NullString  `db:"awarding_agency_code"`
	AwardingAgencyName         sql.NullString  `db:"awarding_agency_name"`
	ParentAwardID              sql.NullString  `db:"parent_award_id"`
	TypeOfContractPricing      sql.NullString  `db:"type_of_contract_pricing"`
	TypeOfContractPricingDesc  sql.NullString  `db:"type_of_contract_pric_desc"`
	ContractAwardType          sql.NullString  `db:"contract_award_type"`
	ContractAwardTypeDesc      sql.NullString  `db:"contract_award_type_desc"`
	NAICS                      sql.NullString  `db:"naics"`
	NAICSDescription           sql.NullString  `db:"naics_description"`
	ProductOrServiceCode       sql.NullString  `db:"product_or_service_code"`
	ProductOrServiceCodeDesc   sql.NullString  `db:"product_or_service_co_desc"`
	AwardeeOrRecipientUEI      sql.NullString  `db:"awardee_or_recipient_uei"`
	AwardeeOrRecipientLegal    sql.NullString  `db:"awardee_or_recipient_legal"`
	UltimateParentUEI          sql.NullString  `db:"ultimate_parent_uei"`
	UltimateParentLegalEntity  sql.NullString  `db:"ultimate_parent_legal_enti"`
	AwardDescription           sql.NullString  `db:"award_description"`
	PlaceOfPerformanceZip5     sql.NullString  `db:"place_of_performance_zip5"`
	PlaceOfPerformCityName     sql.NullString  `db:"place_of_perform_city_name"`
	LegalEntityStateCode       sql.NullString  `db:"legal_entity_state_code"`
	LegalEntityCountryCode     sql.NullString  `db:"legal_entity_country_code"`
	PeriodOfPerformanceStart   sql.NullString  `db:"period_of_performance_star"`
	PeriodOfPerformanceCurrent sql.NullString  `db:"period_of_performance_curr"`
	ActionDate                 sql.NullString  `db:"action_date"`
	ActionType                 sql.NullString  `db:"action_type"`
	ActionTypeDescription      sql.NullString  `db:"action_type_description"`
	FederalActionObligation    sql.NullFloat64 `db:"federal_action_obligation"`
	FundingOfficeCode          sql.NullString  `db:"funding_office_code"`
	FundingOfficeName          sql.NullString  `db:"funding_office_name"`
	AwardingOfficeCode         sql.NullString  `db:"awarding_office_code"`
	AwardingOfficeName         sql.NullString  `db:"awarding_office_name"`
}

// transactionFPDSColumns lists the columns of transaction_fpds in insert order.
var transactionFPDSColumns = []string{
	"transaction_id", "detached_award_procurement_id", "detached_award_proc_unique", "piid", "agency_id",
	"awarding_sub_tier_agency_c", "awarding_sub_tier_agency_n", "awarding_agency_code", "awarding_agency_name",
	"parent_award_id", "type_of_contract_pricing", "type_of_contract_pric_desc", "contract_award_type",
	"contract_award_type_desc", "naics", "naics_description", "product_or_service_code",
	"product_or_service_co_desc", "awardee_or_recipient_uei", "awardee_or_recipient_legal", "ultimate_parent_uei",
	"ultimate_parent_legal_enti", "award_description", "place_of_performance_zip5", "place_of_perform_city_name",
	"legal_entity_state_code", "legal_entity_country_code", "period_of_performance_star",
	"period_of_performance_curr", "action_date", "action_type", "action_type_description",
	"federal_action_obligation", "funding_office_code", "funding_office_name", "awarding_office_code",
	"awarding_office_name",
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// toDBTransactionFPDS converts a domain.TransactionFPDS to its database row.
func toDBTransactionFPDS(tx *domain.TransactionFPDS) *dbTransactionFPDS {
	row := &dbTransactionFPDS{
		TransactionID:              tx.TransactionID,
		DetachedAwardProcUnique:    nullString(tx.DetachedAwardProcUnique),
		PIID:                       nullString(tx.PIID),
		AgencyID:                   nullString(tx.AgencyID),
		AwardingSubTierAgencyCode:  nullString(tx.AwardingSubTierAgencyCode),
		AwardingSubTierAgencyName:  nullString(tx.AwardingSubTierAgencyName),
		AwardingAgencyCode:         nullString(tx.AwardingAgencyCode),
		AwardingAgencyName:         nullString(tx.AwardingAgencyName),
		ParentAwardID:              nullString(tx.ParentAwardID),
		TypeOfContractPricing:      nullString(tx.TypeOfContractPricing),
		TypeOfContractPricingDesc:  nullString(tx.TypeOfContractPricingDesc),
		ContractAwardType:          nullString(tx.ContractAwardType),
		ContractAwardTypeDesc:      nullString(tx.ContractAwardTypeDesc),
		NAICS:                      nullString(tx.NAICS),
		NAICSDescription:           nullString(tx.NAICSDescription),
		ProductOrServiceCode:       nullString(tx.ProductOrServiceCode),
		ProductOrServiceCodeDesc:   nullString(tx.ProductOrServiceCodeDesc),
		AwardeeOrRecipientUEI:      nullString(tx.AwardeeOrRecipientUEI),
		AwardeeOrRecipientLegal:    nullString(tx.AwardeeOrRecipientLegal),
		UltimateParentUEI:          nullString(tx.UltimateParentUEI),
		UltimateParentLegalEntity:  nullString(tx.UltimateParentLegalEntity),
		AwardDescription:           nullString(tx.AwardDescription),
		PlaceOfPerformanceZip5:     nullString(tx.PlaceOfPerformanceZip5),
		PlaceOfPerformCityName:     nullString(tx.PlaceOfPerformCityName),
		LegalEntityStateCode:       nullString(tx.LegalEntityStateCode),
		LegalEntityCountryCode:     nullString(tx.LegalEntityCountryCode),
		PeriodOfPerformanceStart:   nullString(tx.PeriodOfPerformanceStart),
		PeriodOfPerformanceCurrent: nullString(tx.PeriodOfPerformanceCurrent),
		ActionDate:                 nullString(tx.ActionDate),
		ActionType:                 nullString(tx.ActionType),
		ActionTypeDescription:      nullString(tx.ActionTypeDescription),
		FundingOfficeCode:          nullString(tx.FundingOfficeCode),
		FundingOfficeName:          nullString(tx.FundingOfficeName),
		AwardingOfficeCode:         nullString(tx.AwardingOfficeCode),
		AwardingOfficeName:         nullString(tx.AwardingOfficeName),
	}
	if tx.DetachedAwardProcurementID != nil {
		row.DetachedAwardProcurementID = sql.NullInt64{Int64: *tx.DetachedAwardProcurementID, Valid: true}
	}
	if tx.FederalActionObligation != nil {
		row.FederalActionObligation = sql.NullFloat64{Float64: *tx.FederalActionObligation, Valid: true}
	}
	return row
}

// toDomainTransactionFPDS converts a dbTransactionFPDS to a domain.TransactionFPDS.
func toDomainTransactionFPDS(row *dbTransactionFPDS) *domain.TransactionFPDS {
	tx := &domain.TransactionFPDS{
		TransactionID:              row.TransactionID,
		DetachedAwardProcUnique:    stringPtr(row.DetachedAwardProcUnique),
		PIID:                       stringPtr(row.PIID),
		AgencyID:                   stringPtr(row.AgencyID),
		AwardingSubTierAgencyCode:  stringPtr(row.AwardingSubTierAgencyCode),
		AwardingSubTierAgencyName:  stringPtr(row.AwardingSubTierAgencyName),
		AwardingAgencyCode:         stringPtr(row.AwardingAgencyCode),
		AwardingAgencyName:         stringPtr(row.AwardingAgencyName),
		ParentAwardID:              stringPtr(row.ParentAwardID),
		TypeOfContractPricing:      stringPtr(row.TypeOfContractPricing),
		TypeOfContractPricingDesc:  stringPtr(row.TypeOfContractPricingDesc),
		ContractAwardType:          stringPtr(row.ContractAwardType),
		ContractAwardTypeDesc:      stringPtr(row.ContractAwardTypeDesc),
		NAICS:                      stringPtr(row.NAICS),
		NAICSDescription:           stringPtr(row.NAICSDescription),
		ProductOrServiceCode:       stringPtr(row.ProductOrServiceCode),
		ProductOrServiceCodeDesc:   stringPtr(row.ProductOrServiceCodeDesc),
		AwardeeOrRecipientUEI:      stringPtr(row.AwardeeOrRecipientUEI),
		AwardeeOrRecipientLegal:    stringPtr(row.AwardeeOrRecipientLegal),
		UltimateParentUEI:          stringPtr(row.UltimateParentUEI),
		UltimateParentLegalEntity:  stringPtr(row.UltimateParentLegalEntity),
		AwardDescription:           stringPtr(row.AwardDescription),
		PlaceOfPerformanceZip5:     stringPtr(row.PlaceOfPerformanceZip5),
		PlaceOfPerformCityName:     stringPtr(row.PlaceOfPerformCityName),
		LegalEntityStateCode:       stringPtr(row.LegalEntityStateCode),
		LegalEntityCountryCode:     stringPtr(row.LegalEntityCountryCode),
		PeriodOfPerformanceStart:   stringPtr(row.PeriodOfPerformanceStart),
		PeriodOfPerformanceCurrent: stringPtr(row.PeriodOfPerformanceCurrent),
		ActionDate:                 stringPtr(row.ActionDate),
		ActionType:                 stringPtr(row.ActionType),
		ActionTypeDescription:      stringPtr(row.ActionTypeDescription),
		FundingOfficeCode:          stringPtr(row.FundingOfficeCode),
		FundingOfficeName:          stringPtr(row.FundingOfficeName),
		AwardingOfficeCode:         stringPtr(row.AwardingOfficeCode),
		AwardingOfficeName:         stringPtr(row.AwardingOfficeName),
	}
	if row.DetachedAwardProcurementID.Valid {
		id := row.DetachedAwardProcurementID.Int64
		tx.DetachedAwardProcurementID = &id
	}
	if row.FederalActionObligation.Valid {
		amount := row.FederalActionObligation.Float64
		tx.FederalActionObligation = &amount
	}
	return tx
}

// GetTransactionFPDS retrieves the contract data of a transaction.
func (repo *Repository) GetTransactionFPDS(ctx context.Context, transactionID int64) (*domain.TransactionFPDS, error) {
	var row dbTransactionFPDS
	query := `SELECT ` + strings.Join(transactionFPDSColumns, ", ") + ` FROM transaction_fpds WHERE transaction_id = ?`

	err := repo.dbConn.GetContext(ctx, &row, query, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %d: %w", transactionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting transaction %d: %w", transactionID, err)
	}

	return toDomainTransactionFPDS(&row), nil
}

// SaveTransactionFPDS inserts the contract data of a transaction or overwrites the row
// already stored for it.
func (repo *Repository) SaveTransactionFPDS(ctx context.Context, tx domain.TransactionFPDS) error {
	updates := make([]string, 0, len(transactionFPDSColumns)-1)
	for _, column := range transactionFPDSColumns[1:] {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", column, column))
	}

	query := `INSERT INTO transaction_fpds (` + strings.Join(transactionFPDSColumns, ", ") + `)
	          VALUES (:` + strings.Join(transactionFPDSColumns, ", :") + `)
	          ON CONFLICT (transaction_id) DO UPDATE SET ` + strings.Join(updates, ", ")

	_, err := repo.dbConn.NamedExecContext(ctx, query, toDBTransactionFPDS(&tx))
	if err != nil {
		return fmt.Errorf("saving transaction %d: %w", tx.TransactionID, err)
	}
	return nil
}
