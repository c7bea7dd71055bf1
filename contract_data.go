package spendapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fedspend/spendapi/domain"
)

// contractData returns the FPDS contract data of a transaction.
func (api *API) contractData(r *http.Request) (any, error) {
	raw := r.PathValue("transaction_id")
	transactionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || transactionID <= 0 {
		return nil, invalidParameter("transaction_id must be a positive integer")
	}

	transaction, err := api.Repo.GetTransactionFPDS(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, notFound("transaction %d has no contract data", transactionID)
		}
		return nil, fmt.Errorf("getting contract data of %d: %w", transactionID, err)
	}
	return transaction, nil
}
