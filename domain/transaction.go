package domain

import "context"

// TransactionRepository defines the persistence contract for FPDS contract data.
type TransactionRepository interface {
	// GetTransactionFPDS returns the contract data of a transaction, or ErrNotFound.
	GetTransactionFPDS(ctx context.Context, transactionID int64) (*TransactionFPDS, error)

	// SaveTransactionFPDS stores the contract data of a transaction, replacing any
	// contract data already stored for it.
	SaveTransactionFPDS(ctx context.Context, tx TransactionFPDS) error
}

// TransactionFPDS holds the procurement specific fields of a contract transaction as
// reported to the Federal Procurement Data System. Text fields are nil when the source
// did not report them.
type TransactionFPDS struct {
	TransactionID              int64    `json:"transaction_id"`
	DetachedAwardProcurementID *int64   `json:"detached_award_procurement_id"`
	DetachedAwardProcUnique    *string  `json:"detached_award_proc_unique"`
	PIID                       *string  `json:"piid"`
	AgencyID                   *string  `json:"agency_id"`
	AwardingSubTierAgencyCode  *string  `json:"awarding_sub_tier_agency_c"`
	AwardingSubTierAgencyName  *string  `json:"awarding_sub_tier_agency_n"`
	AwardingAgencyCode         *string  `json:"awarding_agency_code"`
	AwardingAgencyName         *string  `json:"awarding_agency_name"`
	ParentAwardID              *string  `json:"parent_award_id"`
	TypeOfContractPricing      *string  `json:"type_of_contract_pricing"`
	TypeOfContractPricingDesc  *string  `json:"type_of_contract_pric_desc"`
	ContractAwardType          *string  `json:"contract_award_type"`
	ContractAwardTypeDesc      *string  `json:"contract_award_type_desc"`
	NAICS                      *string  `json:"naics"`
	NAICSDescription           *string  `json:"naics_description"`
	ProductOrServiceCode       *string  `json:"product_or_service_code"`
	ProductOrServiceCodeDesc   *string  `json:"product_or_service_co_desc"`
	AwardeeOrRecipientUEI      *string  `json:"awardee_or_recipient_uei"`
	AwardeeOrRecipientLegal    *string  `json:"awardee_or_recipient_legal"`
	UltimateParentUEI          *string  `json:"ultimate_parent_uei"`
	UltimateParentLegalEntity  *string  `json:"ultimate_parent_legal_enti"`
	AwardDescription           *string  `json:"award_description"`
	PlaceOfPerformanceZip5     *string  `json:"place_of_performance_zip5"`
	PlaceOfPerformCityName     *string  `json:"place_of_perform_city_name"`
	LegalEntityStateCode       *string  `json:"legal_entity_state_code"`
	LegalEntityCountryCode     *string  `json:"legal_entity_country_code"`
	PeriodOfPerformanceStart   *string  `json:"period_of_performance_star"`
	PeriodOfPerformanceCurrent *string  `json:"period_of_performance_curr"`
	ActionDate                 *string  `json:"action_date"`
	ActionType                 *string  `json:"action_type"`
	ActionTypeDescription      *string  `json:"action_type_description"`
	FederalActionObligation    *float64 `json:"federal_action_obligation"`
	FundingOfficeCode          *string  `json:"funding_office_code"`
	FundingOfficeName          *string  `json:"funding_office_name"`
	AwardingOfficeCode         *string  `json:"awarding_office_code"`
	AwardingOfficeName         *string  `json:"awarding_office_name"`
}
