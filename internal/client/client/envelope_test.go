package client

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recharge/internal/client/models"
)

func TestDecodeList_BothShapesNormalizeEqually(t *testing.T) {
	bare := []byte(`[{"id":1,"operator":"Jio","price":199},{"id":"p2","operator":"Airtel","price":299}]`)
	wrapped := []byte(`{"success":true,"data":[{"id":1,"operator":"Jio","price":199},{"id":"p2","operator":"Airtel","price":299}]}`)

	a, err := decodeList[models.Plan](PathPlans, bare)
	require.NoError(t, err)
	b, err := decodeList[models.Plan](PathPlans, wrapped)
	require.NoError(t, err)

	require.Len(t, a, 2)
	require.Equal(t, a, b)
	require.Equal(t, models.ID("1"), a[0].ID)
}

func TestDecodeList_EmptyForms(t *testing.T) {
	for _, raw := range []string{``, `null`, `[]`, `{"data":[]}`, `{"data":null}`} {
		got, err := decodeList[models.Plan](PathPlans, []byte(raw))
		require.NoError(t, err, raw)
		require.Empty(t, got, raw)
		require.NotNil(t, got, raw)
	}
}

func TestDecodeList_Malformed(t *testing.T) {
	for _, raw := range []string{`{"plans":[]}`, `"nope"`, `{broken`, `{"data":"x"}`} {
		_, err := decodeList[models.Plan](PathPlans, []byte(raw))
		require.ErrorIs(t, err, ErrMalformedResponse, raw)
	}
}

func TestDecodeRecord_Shapes(t *testing.T) {
	for _, raw := range []string{
		`{"transactionId":"TXN1","amount":10}`,
		`{"data":{"transactionId":"TXN1","amount":10}}`,
		`{"success":true,"transaction":{"transactionId":"TXN1","amount":10}}`,
	} {
		var tx models.Transaction
		require.NoError(t, decodeRecord(PathTransactions, []byte(raw), &tx), raw)
		require.Equal(t, "TXN1", tx.TransactionID, raw)
		require.Equal(t, 10, tx.Amount, raw)
	}

	var tx models.Transaction
	require.ErrorIs(t, decodeRecord(PathTransactions, []byte(`[1]`), &tx), ErrMalformedResponse)
}
